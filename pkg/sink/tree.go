package sink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pokeviz/pkg/hierarchy"
	"github.com/matzehuels/pokeviz/pkg/palette"
)

// TreeOptions configures the hierarchy diagram.
type TreeOptions struct {
	// Pokemon includes one node per Pokémon under its group. When false only
	// the root and the groups are drawn, with member counts.
	Pokemon bool
}

// ToDOT converts the type hierarchy to Graphviz DOT. Group nodes are filled
// with their type colors; compound keys are striped.
func ToDOT(root *hierarchy.Root, pal palette.Palette, opts TreeOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Roboto Mono\", fontsize=12];\n")
	buf.WriteString("  \"root\" [label=\"root\"];\n\n")

	for _, g := range root.Groups() {
		id := "type:" + g.Key.String()
		label := fmt.Sprintf("%s (%d)", g.Key, len(g.Members()))
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(groupAttrs(label, pal.ColorOf(g.Key.String())), ", "))
		fmt.Fprintf(&buf, "  %q -> %q;\n", "root", id)
		if !opts.Pokemon {
			continue
		}
		for _, m := range g.Members() {
			pid := fmt.Sprintf("pokemon:%d", m.Pokemon.Index)
			fmt.Fprintf(&buf, "  %q [label=%q];\n", pid, fmt.Sprintf("#%03d %s", m.Pokemon.Index, m.Pokemon.Name))
			fmt.Fprintf(&buf, "  %q -> %q;\n", id, pid)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func groupAttrs(label string, c palette.ColorPair) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case c.Primary == "" && c.Secondary == "":
	case c.Single():
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", c.Primary))
	default:
		attrs = append(attrs, "style=\"filled,striped\"", fmt.Sprintf("fillcolor=%q", c.Primary+":"+c.Secondary))
	}
	return attrs
}

// RenderTree renders a DOT graph to SVG using Graphviz.
func RenderTree(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
