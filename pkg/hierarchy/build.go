package hierarchy

import (
	"github.com/matzehuels/pokeviz/pkg/pokedex"
)

// Build groups pokemon by type key. The result depends only on the order and
// content of the input.
func Build(pokemon []pokedex.Pokemon) *Root {
	keys := deriveKeys(pokemon)

	byKey := make(map[TypeKey][]*PokemonLeaf, len(keys))
	for _, p := range pokemon {
		k := Signature(p)
		byKey[k] = append(byKey[k], &PokemonLeaf{Pokemon: p})
	}

	root := &Root{groups: make([]*TypeGroup, 0, len(keys))}
	for _, k := range keys {
		members := byKey[k]
		label := &LabelLeaf{Key: k}
		children := make([]Node, 0, len(members)+1)
		for _, m := range members {
			children = append(children, m)
		}
		children = append(children, label)
		root.groups = append(root.groups, &TypeGroup{
			Key:      k,
			members:  members,
			label:    label,
			children: children,
		})
	}
	return root
}

// deriveKeys lists every individual type plus, for dual-type Pokémon, the
// compound key; duplicates are dropped and first appearance wins.
func deriveKeys(pokemon []pokedex.Pokemon) []TypeKey {
	seen := make(map[TypeKey]bool)
	var keys []TypeKey
	add := func(k TypeKey) {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for _, p := range pokemon {
		for _, t := range p.Types {
			add(TypeKey(t))
		}
		if p.DualType() {
			add(Signature(p))
		}
	}
	return keys
}

// Stats summarizes a tree.
type Stats struct {
	Groups     int // type groups
	DualGroups int // groups keyed by a type pair
	LabelOnly  int // groups without members
	Pokemon    int // Pokémon leaves
	Weight     float64
}

// Stats computes summary counts for r.
func (r *Root) Stats() Stats {
	s := Stats{Groups: len(r.groups), Weight: SubtreeWeight(r)}
	for _, g := range r.groups {
		if g.Key.Dual() {
			s.DualGroups++
		}
		if len(g.members) == 0 {
			s.LabelOnly++
		}
		s.Pokemon += len(g.members)
	}
	return s
}
