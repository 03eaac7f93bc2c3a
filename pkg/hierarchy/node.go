package hierarchy

import (
	"slices"
	"strings"

	"github.com/matzehuels/pokeviz/pkg/pokedex"
)

// Node weights.
const (
	RootWeight    = 1.0
	PokemonWeight = 1.0
	LabelWeight   = 3.0
)

// KeySeparator joins the type names of a compound key.
const KeySeparator = "/"

// TypeKey identifies a type group.
type TypeKey string

// Signature returns the key a Pokémon is grouped under: its single type, or
// both types sorted and joined with "/".
func Signature(p pokedex.Pokemon) TypeKey {
	if len(p.Types) == 1 {
		return TypeKey(p.Types[0])
	}
	types := slices.Clone(p.Types)
	slices.Sort(types)
	return TypeKey(strings.Join(types, KeySeparator))
}

// Dual reports whether k names a type pair.
func (k TypeKey) Dual() bool { return strings.Contains(string(k), KeySeparator) }

// Split returns the individual type names of k, in key order.
func (k TypeKey) Split() []string { return strings.Split(string(k), KeySeparator) }

func (k TypeKey) String() string { return string(k) }

// Node is a tree element. The set of implementations is closed.
type Node interface {
	// Name is the display name: "root", the type key or the Pokémon name.
	Name() string
	// Weight is the node's own weight, excluding descendants.
	Weight() float64
	// Children returns the direct children; nil for leaves.
	Children() []Node

	isNode()
}

// Root is the top of the tree.
type Root struct {
	groups []*TypeGroup
}

// TypeGroup holds the members of one type key followed by its label.
type TypeGroup struct {
	Key      TypeKey
	members  []*PokemonLeaf
	label    *LabelLeaf
	children []Node
}

// PokemonLeaf wraps a single Pokémon.
type PokemonLeaf struct {
	Pokemon pokedex.Pokemon
}

// LabelLeaf carries the group's caption.
type LabelLeaf struct {
	Key TypeKey
}

func (*Root) Name() string            { return "root" }
func (*Root) Weight() float64         { return RootWeight }
func (r *Root) Children() []Node      { return groupsAsNodes(r.groups) }
func (*Root) isNode()                 {}
func (g *TypeGroup) Name() string     { return string(g.Key) }
func (*TypeGroup) Weight() float64    { return 0 }
func (g *TypeGroup) Children() []Node { return g.children }
func (*TypeGroup) isNode()            {}
func (l *PokemonLeaf) Name() string   { return l.Pokemon.Name }
func (*PokemonLeaf) Weight() float64  { return PokemonWeight }
func (*PokemonLeaf) Children() []Node { return nil }
func (*PokemonLeaf) isNode()          {}
func (l *LabelLeaf) Name() string     { return string(l.Key) }
func (*LabelLeaf) Weight() float64    { return LabelWeight }
func (*LabelLeaf) Children() []Node   { return nil }
func (*LabelLeaf) isNode()            {}

// Groups returns the type groups in key derivation order.
func (r *Root) Groups() []*TypeGroup { return r.groups }

// Group looks up a group by key.
func (r *Root) Group(k TypeKey) (*TypeGroup, bool) {
	for _, g := range r.groups {
		if g.Key == k {
			return g, true
		}
	}
	return nil, false
}

// Keys returns the group keys in order.
func (r *Root) Keys() []TypeKey {
	keys := make([]TypeKey, len(r.groups))
	for i, g := range r.groups {
		keys[i] = g.Key
	}
	return keys
}

// Members returns the Pokémon leaves of g in input order.
func (g *TypeGroup) Members() []*PokemonLeaf { return g.members }

// Label returns the label leaf of g.
func (g *TypeGroup) Label() *LabelLeaf { return g.label }

func groupsAsNodes(groups []*TypeGroup) []Node {
	nodes := make([]Node, len(groups))
	for i, g := range groups {
		nodes[i] = g
	}
	return nodes
}

// SubtreeWeight sums the weights of n and all its descendants.
func SubtreeWeight(n Node) float64 {
	sum := n.Weight()
	for _, c := range n.Children() {
		sum += SubtreeWeight(c)
	}
	return sum
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the current node.
func Walk(n Node, fn func(n Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children() {
		walk(c, depth+1, fn)
	}
}
