package pack

import (
	"fmt"

	"github.com/matzehuels/pokeviz/pkg/hierarchy"
)

// Default layout parameters.
const (
	DefaultSize      = 800.0
	DefaultPadding   = 2.0
	DefaultMinRadius = 13.0
	DefaultMaxRadius = 70.0
)

// Options controls [Pack].
type Options struct {
	Size      float64 // frame edge; the root is centered at Size/2
	Padding   float64 // gap between a parent and its children
	MinRadius float64 // output range of the default radius scale
	MaxRadius float64

	// Radius maps a leaf value to its radius. Nil selects a SqrtScale fit
	// to the values of all non-root nodes.
	Radius func(value float64) float64
}

func (o Options) withDefaults() Options {
	if o.Size <= 0 {
		o.Size = DefaultSize
	}
	if o.MinRadius <= 0 && o.MaxRadius <= 0 {
		o.MinRadius, o.MaxRadius = DefaultMinRadius, DefaultMaxRadius
	}
	return o
}

// Circle is a positioned circle.
type Circle struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

// Contains reports whether c encloses o, with a small tolerance.
func (c Circle) Contains(o Circle) bool {
	dx, dy := o.X-c.X, o.Y-c.Y
	d := c.R - o.R + 1e-6
	return d >= 0 && dx*dx+dy*dy <= d*d
}

// Overlaps reports whether the interiors of c and o intersect, with a small
// tolerance.
func (c Circle) Overlaps(o Circle) bool {
	dx, dy := o.X-c.X, o.Y-c.Y
	d := c.R + o.R - 1e-6
	return d > 0 && dx*dx+dy*dy < d*d
}

// Positioned is a node with its computed circle.
type Positioned struct {
	Circle
	Node   hierarchy.Node
	Value  float64 // subtree weight
	Depth  int     // 1 for type groups, 2 for leaves
	Parent int     // index into Layout.Nodes; -1 for children of the root
}

// Layout is the result of [Pack].
type Layout struct {
	Size float64
	Root Positioned
	// Nodes holds every non-root node in breadth-first order, so parents
	// precede their children.
	Nodes []Positioned

	index map[hierarchy.Node]int
}

// Lookup returns the position of n.
func (l *Layout) Lookup(n hierarchy.Node) (Positioned, bool) {
	if n == nil {
		return Positioned{}, false
	}
	if i, ok := l.index[n]; ok {
		return l.Nodes[i], true
	}
	if l.Root.Node == n {
		return l.Root, true
	}
	return Positioned{}, false
}

// Children returns the positioned children of the node at index i, or of the
// root when i is -1.
func (l *Layout) Children(i int) []Positioned {
	var out []Positioned
	for _, p := range l.Nodes {
		if p.Parent == i {
			out = append(out, p)
		}
	}
	return out
}

// Values returns the values of all non-root nodes.
func (l *Layout) Values() []float64 {
	vs := make([]float64, len(l.Nodes))
	for i, p := range l.Nodes {
		vs[i] = p.Value
	}
	return vs
}

// work is the mutable per-node state while packing.
type work struct {
	node     hierarchy.Node
	value    float64
	depth    int
	parent   *work
	children []*work
	circle
}

// Pack lays out the tree rooted at root.
func Pack(root hierarchy.Node, opts Options) *Layout {
	opts = opts.withDefaults()

	top := buildWork(root, nil, 0)
	order := breadthFirst(top)

	radius := opts.Radius
	if radius == nil {
		values := make([]float64, 0, len(order))
		for _, w := range order[1:] {
			values = append(values, w.value)
		}
		lo, hi := Extent(values)
		radius = NewSqrtScale(lo, hi, opts.MinRadius, opts.MaxRadius).At
	}

	for _, w := range order {
		if len(w.children) == 0 {
			w.r = max(0, radius(w.value))
		}
	}

	rng := newLCG()
	packChildren(top, opts.Padding/2, rng)

	top.x, top.y = opts.Size/2, opts.Size/2
	for _, w := range order[1:] {
		w.x += w.parent.x
		w.y += w.parent.y
	}

	return newLayout(opts.Size, order)
}

// Restore rebuilds a layout for root from circles previously taken from
// Layout.Circles. The tree must have the same shape as the one packed.
func Restore(root hierarchy.Node, size float64, circles []Circle) (*Layout, error) {
	order := breadthFirst(buildWork(root, nil, 0))
	if len(circles) != len(order) {
		return nil, fmt.Errorf("restore layout: %d circles for %d nodes", len(circles), len(order))
	}
	for i, w := range order {
		w.x, w.y, w.r = circles[i].X, circles[i].Y, circles[i].R
	}
	return newLayout(size, order), nil
}

// Circles returns the root circle followed by every node circle, in the
// order Restore expects.
func (l *Layout) Circles() []Circle {
	out := make([]Circle, 0, len(l.Nodes)+1)
	out = append(out, l.Root.Circle)
	for _, p := range l.Nodes {
		out = append(out, p.Circle)
	}
	return out
}

func buildWork(n hierarchy.Node, parent *work, depth int) *work {
	w := &work{node: n, value: n.Weight(), depth: depth, parent: parent}
	for _, c := range n.Children() {
		cw := buildWork(c, w, depth+1)
		w.children = append(w.children, cw)
		w.value += cw.value
	}
	return w
}

func breadthFirst(root *work) []*work {
	order := []*work{root}
	for i := 0; i < len(order); i++ {
		order = append(order, order[i].children...)
	}
	return order
}

// packChildren sizes every internal node in post-order. Positions are left
// relative to the parent center.
func packChildren(w *work, pad float64, rng *lcg) {
	if len(w.children) == 0 {
		return
	}
	circles := make([]*circle, len(w.children))
	for i, c := range w.children {
		packChildren(c, pad, rng)
		circles[i] = &c.circle
	}
	for _, c := range circles {
		c.r += pad
	}
	e := packSiblings(circles, rng)
	for _, c := range circles {
		c.r -= pad
	}
	w.r = e + pad
}

func newLayout(size float64, order []*work) *Layout {
	l := &Layout{
		Size:  size,
		Nodes: make([]Positioned, 0, len(order)-1),
		index: make(map[hierarchy.Node]int, len(order)-1),
	}
	pos := make(map[*work]int, len(order))
	pos[order[0]] = -1
	l.Root = positioned(order[0], -1)
	for _, w := range order[1:] {
		i := len(l.Nodes)
		pos[w] = i
		l.Nodes = append(l.Nodes, positioned(w, pos[w.parent]))
		l.index[w.node] = i
	}
	return l
}

func positioned(w *work, parent int) Positioned {
	return Positioned{
		Circle: Circle{X: w.x, Y: w.y, R: w.r},
		Node:   w.node,
		Value:  w.value,
		Depth:  w.depth,
		Parent: parent,
	}
}

// Packer binds Options to Pack.
type Packer struct {
	Options Options
}

// Pack lays out root with p's options.
func (p Packer) Pack(root hierarchy.Node) *Layout { return Pack(root, p.Options) }
