package pokedex

import (
	"fmt"
	"strconv"
)

// Pokemon is a single dataset record.
type Pokemon struct {
	Name         string   `json:"name" yaml:"name"`
	Types        []string `json:"type" yaml:"type"`
	Index        int      `json:"number,omitempty" yaml:"number,omitempty"`
	PokedexEntry string   `json:"pokedexEntry" yaml:"pokedexEntry"`
	Height       float64  `json:"height" yaml:"height"`
	Weight       float64  `json:"weight" yaml:"weight"`
	Species      string   `json:"species" yaml:"species"`
}

// DualType reports whether p has two types.
func (p Pokemon) DualType() bool { return len(p.Types) == 2 }

// HasType reports whether t is one of p's types.
func (p Pokemon) HasType(t string) bool {
	for _, pt := range p.Types {
		if pt == t {
			return true
		}
	}
	return false
}

// StatsLine formats species, height and weight the way the popup shows them,
// e.g. "Mouse | 0.4 m | 6 kg".
func (p Pokemon) StatsLine() string {
	return fmt.Sprintf("%s | %s m | %s kg", p.Species, formatNumber(p.Height), formatNumber(p.Weight))
}

// formatNumber prints the shortest representation, so 6.0 becomes "6".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Dex is an ordered list of Pokémon.
type Dex []Pokemon

// ByIndex returns the Pokémon with the given 1-based index.
func (d Dex) ByIndex(idx int) (Pokemon, bool) {
	if idx >= 1 && idx <= len(d) && d[idx-1].Index == idx {
		return d[idx-1], true
	}
	for _, p := range d {
		if p.Index == idx {
			return p, true
		}
	}
	return Pokemon{}, false
}

// Types returns every distinct individual type name in order of first appearance.
func (d Dex) Types() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range d {
		for _, t := range p.Types {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}
