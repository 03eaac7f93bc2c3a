package sink

import (
	"github.com/goccy/go-json"

	"github.com/matzehuels/pokeviz/pkg/scene"
)

type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	docID  string
	assets AssetResolver
}

func WithJSONDocID(id string) JSONOption { return func(r *jsonRenderer) { r.docID = id } }

// WithJSONAssets resolves icon and sprite references, as WithAssets does for
// SVG.
func WithJSONAssets(a AssetResolver) JSONOption { return func(r *jsonRenderer) { r.assets = a } }

type jsonOutput struct {
	ID      string      `json:"id,omitempty"`
	Size    float64     `json:"size"`
	Groups  []jsonGroup `json:"groups"`
	Pokemon []jsonLeaf  `json:"pokemon"`
	Labels  []jsonLabel `json:"labels"`
}

type jsonCircle struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

type jsonGroup struct {
	Key       string     `json:"key"`
	Circle    jsonCircle `json:"circle"`
	Primary   string     `json:"primary,omitempty"`
	Secondary string     `json:"secondary,omitempty"`
	Upper     string     `json:"upper_path,omitempty"`
	Lower     string     `json:"lower_path,omitempty"`
}

type jsonLeaf struct {
	Index       int        `json:"index"`
	Name        string     `json:"name"`
	Types       []string   `json:"types"`
	Circle      jsonCircle `json:"circle"`
	Icon        string     `json:"icon"`
	Sprite      string     `json:"sprite"`
	Stats       string     `json:"stats"`
	Description string     `json:"description,omitempty"`
}

type jsonLabel struct {
	Key    string     `json:"key"`
	Circle jsonCircle `json:"circle"`
	Lines  []jsonLine `json:"lines"`
}

type jsonLine struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Fill string  `json:"fill,omitempty"`
}

// RenderJSON exports positions, radii, keys and colors of every element as
// pretty-printed JSON.
func RenderJSON(s *scene.Scene, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{assets: URLAssets{}}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		ID:      r.docID,
		Size:    s.Size,
		Groups:  []jsonGroup{},
		Pokemon: []jsonLeaf{},
		Labels:  []jsonLabel{},
	}
	for _, e := range s.Elements {
		switch e := e.(type) {
		case scene.Ring:
			out.Groups = append(out.Groups, jsonGroup{
				Key:       e.Key.String(),
				Circle:    toJSONCircle(e.Circle.X, e.Circle.Y, e.Circle.R),
				Primary:   e.Colors.Primary,
				Secondary: e.Colors.Secondary,
				Upper:     e.Upper.Path(),
				Lower:     e.Lower.Path(),
			})
		case scene.Icon:
			icon, err := r.assets.Resolve(e.Href)
			if err != nil {
				return nil, err
			}
			sprite, err := r.assets.Resolve(e.Popup.Sprite)
			if err != nil {
				return nil, err
			}
			out.Pokemon = append(out.Pokemon, jsonLeaf{
				Index:       e.Pokemon.Index,
				Name:        e.Pokemon.Name,
				Types:       e.Pokemon.Types,
				Circle:      toJSONCircle(e.Circle.X, e.Circle.Y, e.Circle.R),
				Icon:        icon,
				Sprite:      sprite,
				Stats:       e.Popup.Stats,
				Description: e.Popup.Description,
			})
		case scene.Label:
			lbl := jsonLabel{Key: e.Key.String(), Circle: toJSONCircle(e.Circle.X, e.Circle.Y, e.Circle.R)}
			for _, ln := range e.Lines {
				lbl.Lines = append(lbl.Lines, jsonLine{Text: ln.Text, X: round2(ln.X + ln.DX), Y: round2(ln.Y), Fill: ln.Fill})
			}
			out.Labels = append(out.Labels, lbl)
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

func toJSONCircle(x, y, r float64) jsonCircle {
	return jsonCircle{X: round2(x), Y: round2(y), R: round2(r)}
}
