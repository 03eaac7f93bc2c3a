package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/pokeviz/pkg/popup"
	"github.com/matzehuels/pokeviz/pkg/scene"
)

const iconCSS = `
    .pokemon-icon-animated { transform-box: fill-box; transform-origin: center; }
    .pokemon-icon-bounce:hover { animation: pokeviz-bounce 0.6s ease-in-out infinite; }
    @keyframes pokeviz-bounce { 0%, 100% { transform: translateY(0); } 50% { transform: translateY(-4px); } }`

// DefaultDocID is the chart element id when none is set.
const DefaultDocID = "pokeviz"

// Popup box size in the standalone SVG.
const (
	popupWidth  = 200.0
	popupHeight = 260.0
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	docID  string
	popups bool
	assets AssetResolver
	width  string // CSS width; empty for the pixel size
	inline bool   // embedded in an HTML page
}

func WithDocID(id string) SVGOption { return func(r *svgRenderer) { r.docID = id } }
func WithPopups() SVGOption         { return func(r *svgRenderer) { r.popups = true } }

// WithAssets resolves icon and sprite references through a.
func WithAssets(a AssetResolver) SVGOption { return func(r *svgRenderer) { r.assets = a } }

// WithWidth sets the CSS width of the root element, e.g. "80%".
func WithWidth(w string) SVGOption { return func(r *svgRenderer) { r.width = w } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{docID: DefaultDocID, assets: URLAssets{}}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws s as a standalone SVG document.
func RenderSVG(s *scene.Scene, opts ...SVGOption) ([]byte, error) {
	r := newSVGRenderer(opts...)
	var buf bytes.Buffer
	if err := r.render(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r svgRenderer) render(buf *bytes.Buffer, s *scene.Scene) error {
	width, height := fmt.Sprintf("%.0f", s.Size), fmt.Sprintf("%.0f", s.Size)
	if r.width != "" {
		width, height = r.width, "auto"
	}
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" id="%s" viewBox="0 0 %.0f %.0f" width="%s" height="%s">`+"\n",
		attr(r.docID), s.Size, s.Size, attr(width), attr(height))
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", iconCSS)

	for _, e := range s.Elements {
		buf.WriteString(`  <g class="pack" style="fill: none; stroke-width: 3">`)
		switch e := e.(type) {
		case scene.Ring:
			renderRing(buf, e)
		case scene.Icon:
			if err := r.renderIcon(buf, e); err != nil {
				return err
			}
		case scene.Label:
			renderLabel(buf, e)
		}
		buf.WriteString("</g>\n")
	}

	if r.popups && !r.inline {
		renderStandalonePopup(buf, r.docID)
		renderScript(buf, popup.Standalone, r.docID)
	}

	buf.WriteString("</svg>\n")
	return nil
}

func renderRing(buf *bytes.Buffer, ring scene.Ring) {
	for _, st := range []scene.Stroke{ring.Upper, ring.Lower} {
		if len(st.Commands) == 0 {
			continue
		}
		fmt.Fprintf(buf, `<path style="stroke: %s" d="%s"/>`, attr(st.Color), st.Path())
	}
}

func (r svgRenderer) renderIcon(buf *bytes.Buffer, ic scene.Icon) error {
	href, err := r.assets.Resolve(ic.Href)
	if err != nil {
		return err
	}
	classes := append([]string{popup.IconClass}, scene.IconClasses...)
	fmt.Fprintf(buf, `<image class="%s" xlink:href="%s" x="%.2f" y="%.2f" width="%.0fpx" height="%.0fpx"`,
		strings.Join(classes, " "), attr(href), ic.X, ic.Y, ic.Width, ic.Height)
	if r.popups {
		sprite, err := r.assets.Resolve(ic.Popup.Sprite)
		if err != nil {
			return err
		}
		fmt.Fprintf(buf, ` data-name="%s" data-stats="%s" data-description="%s" data-sprite="%s"`,
			attr(ic.Popup.Name), attr(ic.Popup.Stats), attr(ic.Popup.Description), attr(sprite))
	}
	fmt.Fprintf(buf, `><title>%s</title></image>`, text(ic.Pokemon.Name))
	return nil
}

func renderLabel(buf *bytes.Buffer, l scene.Label) {
	for _, ln := range l.Lines {
		fmt.Fprintf(buf, `<text style="font-family: %s; font-size: %.0fpx; stroke: black; stroke-width: %gpx; fill: %s" x="%.2f" y="%.2f" dx="%.2f">%s</text>`,
			attr(scene.FontFamily), scene.LabelSize, ln.StrokeWidth, attr(ln.Fill), ln.X, ln.Y, ln.DX, text(ln.Text))
	}
}

func renderScript(buf *bytes.Buffer, t popup.Target, docID string) {
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", popup.Script(t, docID))
}

func text(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// attr escapes s for a double-quoted attribute value.
func attr(s string) string { return text(s) }
