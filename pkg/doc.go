// Package pkg provides the core libraries for PokéViz type visualization.
//
// # Overview
//
// PokéViz draws the first-generation Pokédex as nested circles: one circle
// per type group, packed with one icon per Pokémon. Dual-type groups are
// outlined with a two-colored ring. The pkg directory is organized into three
// areas:
//
//  1. Domain: [pokedex], [hierarchy], [palette]
//  2. Geometry and drawing: [pack], [arc], [scene], [popup], [sink]
//  3. Infrastructure: [pipeline], [cache], [errors], [observability], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	Dataset (bundled Gen 1, JSON or YAML)
//	         ↓
//	    [pokedex] package (decode and validate)
//	         ↓
//	    [hierarchy] package (root → type groups → Pokémon and label leaves)
//	         ↓
//	    [pack] package (circle packing with sqrt-scaled group radii)
//	         ↓
//	    [scene] package (draw list: rings, labels, icons)
//	         ↓
//	    [sink] package (SVG, HTML, JSON, PNG, PDF, tree diagram)
//
// # Quick Start
//
//	dex := pokedex.Gen1()
//	tree := hierarchy.Build(dex)
//	layout := pack.Pack(tree, pack.Options{})
//	s := scene.Build(layout, palette.Default(), scene.Options{})
//	svg, _ := sink.RenderSVG(s, sink.WithPopups())
//
// Most callers use [pipeline] instead, which adds caching and runs the
// requested output formats concurrently:
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, _ := runner.Execute(ctx, pipeline.Options{Formats: []string{"svg", "html"}})
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/pack/...      # Specific package
//	go test -run Example        # Examples only
//
// [pokedex]: https://pkg.go.dev/github.com/matzehuels/pokeviz/pkg/pokedex
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/pokeviz/pkg/hierarchy
// [palette]: https://pkg.go.dev/github.com/matzehuels/pokeviz/pkg/palette
// [pack]: https://pkg.go.dev/github.com/matzehuels/pokeviz/pkg/pack
// [arc]: https://pkg.go.dev/github.com/matzehuels/pokeviz/pkg/arc
// [scene]: https://pkg.go.dev/github.com/matzehuels/pokeviz/pkg/scene
// [popup]: https://pkg.go.dev/github.com/matzehuels/pokeviz/pkg/popup
// [sink]: https://pkg.go.dev/github.com/matzehuels/pokeviz/pkg/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pokeviz/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/pokeviz/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/pokeviz/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/pokeviz/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/pokeviz/pkg/buildinfo
package pkg
