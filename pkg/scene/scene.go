package scene

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/matzehuels/pokeviz/pkg/arc"
	"github.com/matzehuels/pokeviz/pkg/hierarchy"
	"github.com/matzehuels/pokeviz/pkg/pack"
	"github.com/matzehuels/pokeviz/pkg/palette"
	"github.com/matzehuels/pokeviz/pkg/pokedex"
	"github.com/matzehuels/pokeviz/pkg/popup"
)

// Drawing constants.
const (
	IconWidth        = 40.0
	IconHeight       = 30.0
	LabelSize        = 12.0
	RingStrokeWidth  = 3.0
	LabelStrokeWidth = 0.5
	// DualFirstLineStrokeWidth is the outline of the first line of a
	// compound label.
	DualFirstLineStrokeWidth = 0.3
	FontFamily               = "'Roboto Mono', monospace"
)

// IconClasses are set on every icon for the bounce animation.
var IconClasses = []string{"pokemon-icon-animated", "pokemon-icon-bounce"}

// Element is a drawing command. The set of implementations is closed.
type Element interface {
	element()
}

// Stroke is one arc of a ring.
type Stroke struct {
	Commands []arc.Command
	Color    string
}

// Path returns the SVG path data.
func (s Stroke) Path() string { return arc.Join(s.Commands) }

// Ring outlines a type group.
type Ring struct {
	Key    hierarchy.TypeKey
	Circle pack.Circle
	Colors palette.ColorPair
	Upper  Stroke
	Lower  Stroke
}

// Icon is a Pokémon image.
type Icon struct {
	Pokemon pokedex.Pokemon
	Circle  pack.Circle
	X, Y    float64 // top-left corner
	Width   float64
	Height  float64
	Href    string
	Popup   popup.Content
}

// Bounds returns the icon box.
func (i Icon) Bounds() popup.Rect {
	return popup.Rect{Left: i.X, Top: i.Y, Width: i.Width, Height: i.Height}
}

// Line is one line of label text. DX shifts the text left by the circle
// radius.
type Line struct {
	Text        string
	X, Y, DX    float64
	Fill        string
	StrokeWidth float64
}

// Label is a type group caption.
type Label struct {
	Key    hierarchy.TypeKey
	Circle pack.Circle
	Lines  []Line
}

func (Ring) element()  {}
func (Icon) element()  {}
func (Label) element() {}

// Scene is the complete list of drawing commands for one chart.
type Scene struct {
	Size     float64
	Elements []Element
}

// Rings returns the ring elements in drawing order.
func (s *Scene) Rings() []Ring { return filter[Ring](s.Elements) }

// Icons returns the icon elements in drawing order.
func (s *Scene) Icons() []Icon { return filter[Icon](s.Elements) }

// Labels returns the label elements in drawing order.
func (s *Scene) Labels() []Label { return filter[Label](s.Elements) }

func filter[T Element](elems []Element) []T {
	var out []T
	for _, e := range elems {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// ArcFunc produces path commands for an arc.
type ArcFunc func(cx, cy, r, start, end float64) []arc.Command

// Options configures Build. Zero fields take defaults.
type Options struct {
	IconURL   string // template, see pokedex.AssetURL
	SpriteURL string
	Language  language.Tag // casing of popup names
	Arc       ArcFunc
}

func (o Options) withDefaults() Options {
	if o.IconURL == "" {
		o.IconURL = pokedex.DefaultIconURL
	}
	if o.SpriteURL == "" {
		o.SpriteURL = pokedex.DefaultSpriteURL
	}
	if o.Arc == nil {
		o.Arc = arc.HalfCirclePath
	}
	return o
}

// Build converts a layout into drawing commands using pal for colors.
func Build(l *pack.Layout, pal palette.Palette, opts Options) *Scene {
	opts = opts.withDefaults()
	s := &Scene{Size: l.Size, Elements: make([]Element, 0, len(l.Nodes))}
	for _, p := range l.Nodes {
		s.Elements = append(s.Elements, element(p, pal, opts))
	}
	return s
}

func element(p pack.Positioned, pal palette.Palette, opts Options) Element {
	switch n := p.Node.(type) {
	case *hierarchy.TypeGroup:
		return ring(n.Key, p.Circle, pal, opts.Arc)
	case *hierarchy.PokemonLeaf:
		return icon(n.Pokemon, p.Circle, opts)
	case *hierarchy.LabelLeaf:
		return label(n.Key, p.Circle, pal)
	case *hierarchy.Root:
		panic("scene: root in layout nodes")
	default:
		panic(fmt.Sprintf("scene: unknown node type %T", n))
	}
}

func ring(key hierarchy.TypeKey, c pack.Circle, pal palette.Palette, arcFn ArcFunc) Ring {
	colors := pal.ColorOf(key.String())
	return Ring{
		Key:    key,
		Circle: c,
		Colors: colors,
		Upper:  Stroke{Commands: arcFn(c.X, c.Y, c.R, arc.Upper.Start, arc.Upper.End), Color: colors.Primary},
		Lower:  Stroke{Commands: arcFn(c.X, c.Y, c.R, arc.Lower.Start, arc.Lower.End), Color: colors.Secondary},
	}
}

func icon(p pokedex.Pokemon, c pack.Circle, opts Options) Icon {
	return Icon{
		Pokemon: p,
		Circle:  c,
		X:       c.X - IconWidth/2,
		Y:       c.Y - IconHeight/2,
		Width:   IconWidth,
		Height:  IconHeight,
		Href:    pokedex.AssetURL(opts.IconURL, p),
		Popup:   popup.NewContent(p, opts.SpriteURL, opts.Language),
	}
}

func label(key hierarchy.TypeKey, c pack.Circle, pal palette.Palette) Label {
	colors := pal.ColorOf(key.String())
	first, second, dual := strings.Cut(key.String(), palette.Separator)
	if !dual {
		return Label{Key: key, Circle: c, Lines: []Line{
			{Text: first, X: c.X, Y: c.Y, DX: -c.R, Fill: colors.Primary, StrokeWidth: LabelStrokeWidth},
		}}
	}
	return Label{Key: key, Circle: c, Lines: []Line{
		{Text: first, X: c.X, Y: c.Y, DX: -c.R, Fill: colors.Primary, StrokeWidth: DualFirstLineStrokeWidth},
		{Text: second, X: c.X, Y: c.Y + LabelSize, DX: -c.R, Fill: colors.Secondary, StrokeWidth: LabelStrokeWidth},
	}}
}
