// Package scene turns a packed hierarchy into drawing commands.
//
// [Build] walks a [pack.Layout] in breadth-first order and emits one
// [Element] per node, matching on the node variant:
//
//   - a type group becomes a [Ring]: two half-circle arcs, the upper one
//     stroked in the primary color and the lower one in the secondary color
//   - a Pokémon leaf becomes an [Icon] centered on its circle
//   - a label leaf becomes a [Label] with one line, or two lines for a
//     compound key
//
// Sinks in [github.com/matzehuels/pokeviz/pkg/sink] consume a [Scene] and
// never look at the hierarchy again.
package scene
