package sink

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"

	"github.com/matzehuels/pokeviz/pkg/popup"
	"github.com/matzehuels/pokeviz/pkg/scene"
)

// Default page text. Description and footer are Markdown.
const (
	DefaultTitle       = "PokéViz: First Generation by Type"
	DefaultDescription = "This was created using a circle pack for grouping pokémons together by type. " +
		"You can click in each pokémon to see some info and its sprite in Pokémon Red/Blue."
	DefaultFooter = "Images and data from [veekun](https://veekun.com/)"
)

const pageCSS = `
    body { margin: 0; }
    .pokeviz-header { text-align: center; font-family: 'Inconsolata', monospace; padding: 1em 0; }
    .pokeviz-header h1 { font-size: 3em; margin: 0.3em 0; }
    .pokeviz-header .description { font-family: 'Abel', sans-serif; font-size: 1.3em; max-width: 60em; margin: 0 auto; }
    .pokeviz-chart { text-align: center; }
    .pokeviz-footer { background: #1b1c1d; color: white; font-family: 'Inconsolata', monospace; padding: 1em 2em; font-size: 12px; }
    .pokeviz-footer a { color: lightgrey; }`

type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	title       string
	description string
	footer      string
	svgOpts     []SVGOption
}

func WithTitle(t string) HTMLOption        { return func(r *htmlRenderer) { r.title = t } }
func WithDescription(md string) HTMLOption { return func(r *htmlRenderer) { r.description = md } }
func WithFooter(md string) HTMLOption      { return func(r *htmlRenderer) { r.footer = md } }

// WithHTMLSVGOptions passes options through to the embedded SVG.
func WithHTMLSVGOptions(opts ...SVGOption) HTMLOption {
	return func(r *htmlRenderer) { r.svgOpts = opts }
}

// RenderHTML writes a self-contained page: header, the chart at 80% width
// and, when popups are enabled, the popup <div> positioned over it.
func RenderHTML(s *scene.Scene, opts ...HTMLOption) ([]byte, error) {
	r := htmlRenderer{title: DefaultTitle, description: DefaultDescription, footer: DefaultFooter}
	for _, opt := range opts {
		opt(&r)
	}

	svgOpts := append([]SVGOption{WithWidth("80%")}, r.svgOpts...)
	svg := newSVGRenderer(svgOpts...)
	svg.inline = true

	var chart bytes.Buffer
	if err := svg.render(&chart, s); err != nil {
		return nil, err
	}
	description, err := markdown(r.description)
	if err != nil {
		return nil, fmt.Errorf("description: %w", err)
	}
	footer, err := markdown(r.footer)
	if err != nil {
		return nil, fmt.Errorf("footer: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", text(r.title))
	fmt.Fprintf(&buf, "<style>%s%s\n</style>\n", pageCSS, popup.PageCSS)
	buf.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&buf, "<header class=\"pokeviz-header\">\n<h1>%s</h1>\n<div class=\"description\">%s</div>\n</header>\n", text(r.title), description)
	if svg.popups {
		renderPagePopup(&buf, svg.docID)
	}
	buf.WriteString("<main class=\"pokeviz-chart\">\n")
	buf.Write(chart.Bytes())
	buf.WriteString("</main>\n")
	fmt.Fprintf(&buf, "<footer class=\"pokeviz-footer\">%s</footer>\n", footer)
	if svg.popups {
		fmt.Fprintf(&buf, "<script>%s\n</script>\n", popup.Script(popup.Page, svg.docID))
	}
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}

func markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
