// Package hierarchy groups Pokémon by elemental type into a weighted tree.
//
// The tree has exactly two levels below the root:
//
//	Root (weight 1)
//	├── TypeGroup "Fire"
//	│   ├── PokemonLeaf Charmander (weight 1)
//	│   ├── ...
//	│   └── LabelLeaf "Fire" (weight 3)
//	└── TypeGroup "Grass/Poison"
//	    ├── PokemonLeaf Bulbasaur (weight 1)
//	    └── LabelLeaf "Grass/Poison" (weight 3)
//
// Group keys are [TypeKey] values: a single type name, or for dual-type
// Pokémon the two names sorted and joined with "/". A dual-type Pokémon is a
// member of its compound group only; it does not appear under either of its
// individual types.
//
// Every individual type of every Pokémon yields a key, even when no Pokémon
// has that type alone (no Gen 1 Pokémon is pure Flying). Such groups hold
// only their label, so every group has at least one child.
//
// Nodes form a closed set: [Root], [TypeGroup], [PokemonLeaf] and
// [LabelLeaf]. Consumers switch on the concrete type.
package hierarchy
