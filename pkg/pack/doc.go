// Package pack computes nested circle layouts for a type hierarchy.
//
// # Overview
//
// [Pack] walks a [hierarchy.Node] tree and assigns every node a center and a
// radius so that the circles of siblings touch without overlapping and every
// parent circle encloses its children:
//
//	root := hierarchy.Build(pokedex.Gen1())
//	l := pack.Pack(root, pack.Options{Size: 800, Padding: 2})
//
// # Radius
//
// Leaf radii come from [Options.Radius]. When it is nil, [Pack] fits a
// [SqrtScale] to the value extent of all non-root nodes and maps it onto
// [Options.MinRadius]..[Options.MaxRadius] (13..70 by default). A node's value
// is its own weight plus the values of its children.
//
// Parents are sized by packing: siblings are placed along a front chain, the
// smallest circle enclosing the chain becomes the parent, and half of
// [Options.Padding] is added around each child while packing. The root is
// centered at (Size/2, Size/2) and no rescaling is applied, so large inputs
// may extend beyond the frame.
//
// # Determinism
//
// The enclosing-circle search visits circles in a shuffled order driven by a
// fixed-seed linear congruential generator. The same tree and options always
// yield the same [Layout].
package pack
