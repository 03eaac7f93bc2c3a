package popup

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/matzehuels/pokeviz/pkg/pokedex"
)

// State is the popup visibility.
type State int

const (
	Hidden State = iota
	Shown
)

func (s State) String() string {
	if s == Shown {
		return "shown"
	}
	return "hidden"
}

// Content is the text and image shown for a Pokémon.
type Content struct {
	Name        string `json:"name"`
	Stats       string `json:"stats"`
	Description string `json:"description"`
	Sprite      string `json:"sprite"`
}

// NewContent formats p. The sprite reference is spriteURL expanded for p's
// index.
func NewContent(p pokedex.Pokemon, spriteURL string, tag language.Tag) Content {
	return Content{
		Name:        cases.Upper(tag).String(p.Name),
		Stats:       p.StatsLine(),
		Description: p.PokedexEntry,
		Sprite:      pokedex.AssetURL(spriteURL, p),
	}
}

// Option configures a Popup.
type Option func(*Popup)

// WithSpriteURL sets the sprite URL template.
func WithSpriteURL(tmpl string) Option { return func(p *Popup) { p.spriteURL = tmpl } }

// WithLanguage sets the casing rules for the name.
func WithLanguage(tag language.Tag) Option { return func(p *Popup) { p.lang = tag } }

// Popup is the detail popup state machine. The zero value is not usable;
// call New.
type Popup struct {
	spriteURL string
	lang      language.Tag

	state    State
	selected pokedex.Pokemon
	anchor   Rect
	content  Content
	pos      *Point
}

// New returns a hidden popup.
func New(opts ...Option) *Popup {
	p := &Popup{spriteURL: pokedex.DefaultSpriteURL, lang: language.Und}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Show selects pk anchored at the icon box, replacing any previous
// selection. A previously computed position is discarded.
func (p *Popup) Show(pk pokedex.Pokemon, anchor Rect) {
	p.state = Shown
	p.selected = pk
	p.anchor = anchor
	p.content = NewContent(pk, p.spriteURL, p.lang)
	p.pos = nil
}

// Close hides the popup and clears the selection and position.
func (p *Popup) Close() {
	p.state = Hidden
	p.selected = pokedex.Pokemon{}
	p.anchor = Rect{}
	p.content = Content{}
	p.pos = nil
}

// State returns the current state.
func (p *Popup) State() State { return p.state }

// Visible reports whether the popup is shown.
func (p *Popup) Visible() bool { return p.state == Shown }

// Selected returns the shown Pokémon.
func (p *Popup) Selected() (pokedex.Pokemon, bool) {
	return p.selected, p.state == Shown
}

// Anchor returns the icon box the popup is attached to.
func (p *Popup) Anchor() Rect { return p.anchor }

// Content returns the formatted content; empty when hidden.
func (p *Popup) Content() Content { return p.content }

// Layout computes and records the popup position for the given rendered
// size and viewport. It reports false when the popup is hidden.
func (p *Popup) Layout(size Size, vp Viewport) (Point, bool) {
	if p.state != Shown {
		return Point{}, false
	}
	pt := Place(p.anchor, size, vp)
	p.pos = &pt
	return pt, true
}

// Position returns the last computed position, if any.
func (p *Popup) Position() (Point, bool) {
	if p.pos == nil {
		return Point{}, false
	}
	return *p.pos, true
}
