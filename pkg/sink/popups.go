package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/pokeviz/pkg/popup"
)

// popupBody is the popup markup shared by the page <div> and the standalone
// foreignObject.
const popupBody = `<div class="` + popup.CloseClass + `">&#215;</div>` +
	`<div class="popup-body">` +
	`<img class="` + popup.SpriteClass + `" alt=""/>` +
	`<p class="` + popup.NameClass + `"></p>` +
	`<p class="` + popup.StatsClass + `"></p>` +
	`<p class="` + popup.DescriptionClass + `"></p>` +
	`</div>`

func renderStandalonePopup(buf *bytes.Buffer, docID string) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", popup.PageCSS)
	fmt.Fprintf(buf, `  <foreignObject id="%s" x="0" y="0" width="%.0f" height="%.0f" visibility="hidden">`,
		attr(popup.PopupID(docID)), popupWidth, popupHeight)
	fmt.Fprintf(buf, `<div xmlns="http://www.w3.org/1999/xhtml" class="pokeviz-popup" style="display: block; position: static">%s</div>`, popupBody)
	buf.WriteString("</foreignObject>\n")
}

func renderPagePopup(buf *bytes.Buffer, docID string) {
	fmt.Fprintf(buf, `<div id="%s" class="pokeviz-popup" style="display: none">%s</div>`+"\n", attr(popup.PopupID(docID)), popupBody)
}
