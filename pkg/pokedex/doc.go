// Package pokedex holds the Pokémon records that feed the visualization.
//
// A [Pokemon] is an immutable record: a name, one or two elemental types, its
// 1-based position in the source list (its National Dex number for the bundled
// data), a Pokédex entry and a few physical stats.
//
// Datasets are plain lists. [Load] reads JSON or YAML files, [Parse] decodes
// from memory, and [Gen1] returns the 151 first-generation Pokémon bundled
// with the binary:
//
//	dex := pokedex.Gen1()
//	fmt.Println(dex[24].Name) // Pikachu
//
// Records are validated on load: every Pokémon needs a name and one or two
// distinct, non-empty types. Positions always come from list order; a
// "number" field in the file is ignored.
package pokedex
