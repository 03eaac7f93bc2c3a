// Package sink renders a [scene.Scene] into output formats.
//
// # Overview
//
// A sink consumes drawing commands and produces bytes:
//
//   - SVG: standalone chart with an optional click popup ([RenderSVG])
//   - HTML: a full page with header, chart and popup ([RenderHTML])
//   - JSON: layout export for external tools ([RenderJSON])
//   - PNG and PDF: SVG converted with rsvg-convert ([RenderPNG], [RenderPDF])
//   - Tree: the type hierarchy as a Graphviz diagram ([RenderTree])
//
// # SVG Output
//
//	svg, err := sink.RenderSVG(s,
//	    sink.WithPopups(),
//	    sink.WithDocID(sink.DocID(datasetHash)),
//	)
//
// Every pack node becomes a <g class="pack"> holding a ring, an icon or a
// label. With [WithPopups] the icons carry their popup content as data
// attributes and a script shows it on click, following [popup.Place].
//
// # Assets
//
// Icon and sprite references are URLs by default. [WithAssets] resolves
// them through an [AssetResolver]; [DirAssets] inlines files from a
// directory as data URIs so the output has no external references. A missing
// file is an ASSET_NOT_FOUND error.
//
// # PDF and PNG Output
//
// These shell out to rsvg-convert, which must be installed:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// Scripts and foreignObject popups are ignored by rsvg-convert.
package sink
