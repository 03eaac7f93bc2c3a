package popup

import (
	"strconv"
	"strings"
)

// Target selects the document flavor a script is generated for.
type Target int

const (
	// Page drives an absolutely positioned <div> over an inline SVG.
	Page Target = iota
	// Standalone drives a <foreignObject> popup inside the SVG itself,
	// clamped into the view box.
	Standalone
)

// Element ids and classes shared by sinks and scripts.
const (
	IconClass        = "pokemon-icon"
	NameClass        = "pokemon-name"
	StatsClass       = "pokemon-stats"
	DescriptionClass = "pokemon-description"
	SpriteClass      = "pokemon-sprite"
	CloseClass       = "popup-close"
)

// PopupID returns the element id of the popup belonging to chart docID.
func PopupID(docID string) string { return docID + "-popup" }

// placeJS mirrors Place.
const placeJS = `
    function place(icon, popup, vp) {
      let top = icon.top, left = icon.left;
      if (icon.top + popup.height > vp.height) top -= popup.height;
      if (icon.left + popup.width > vp.width) left -= popup.width;
      return { left: left + vp.scrollX, top: top + vp.scrollY };
    }
    function fill(popup, el) {
      const f = cls => popup.querySelector('.' + cls);
      f('` + NameClass + `').textContent = el.dataset.name;
      f('` + StatsClass + `').textContent = el.dataset.stats;
      f('` + DescriptionClass + `').textContent = el.dataset.description;
      f('` + SpriteClass + `').setAttribute('src', el.dataset.sprite);
    }`

const pageJS = `
    function hide() {
      popup.style.top = '';
      popup.style.left = '';
      popup.style.display = 'none';
    }
    function show(el) {
      hide();
      popup.style.display = '';
      fill(popup, el);
      const pt = place(el.getBoundingClientRect(), popup.getBoundingClientRect(), {
        width: window.innerWidth, height: window.innerHeight,
        scrollX: window.pageXOffset, scrollY: window.pageYOffset,
      });
      popup.style.top = pt.top + 'px';
      popup.style.left = pt.left + 'px';
    }`

const standaloneJS = `
    const vb = chart.viewBox.baseVal;
    const w = +popup.getAttribute('width'), h = +popup.getAttribute('height');
    function hide() {
      popup.setAttribute('visibility', 'hidden');
    }
    function show(el) {
      fill(popup, el);
      const b = el.getBBox();
      const pt = place({ left: b.x - vb.x, top: b.y - vb.y }, { width: w, height: h }, {
        width: vb.width, height: vb.height, scrollX: vb.x, scrollY: vb.y,
      });
      popup.setAttribute('x', Math.max(vb.x, Math.min(pt.left, vb.x + vb.width - w)).toFixed(1));
      popup.setAttribute('y', Math.max(vb.y, Math.min(pt.top, vb.y + vb.height - h)).toFixed(1));
      popup.setAttribute('visibility', 'visible');
    }`

// Script returns the popup behavior for the chart with element id docID.
// Clicking an icon shows its popup; clicking the close mark hides it.
func Script(t Target, docID string) string {
	var b strings.Builder
	b.WriteString("\n    (function () {")
	b.WriteString("\n    const chart = document.getElementById(" + strconv.Quote(docID) + ");")
	b.WriteString("\n    const popup = document.getElementById(" + strconv.Quote(PopupID(docID)) + ");")
	b.WriteString("\n    if (!chart || !popup) return;")
	b.WriteString(placeJS)
	if t == Standalone {
		b.WriteString(standaloneJS)
	} else {
		b.WriteString(pageJS)
	}
	b.WriteString(`
    chart.querySelectorAll('.` + IconClass + `').forEach(el => {
      el.style.cursor = 'pointer';
      el.addEventListener('click', () => show(el));
    });
    popup.querySelector('.` + CloseClass + `').addEventListener('click', hide);
    })();`)
	return b.String()
}

// PageCSS styles the page popup <div>. Visibility is left to the inline
// style so that show() can clear it.
const PageCSS = `
    .pokeviz-popup { text-align: center; position: absolute; z-index: 10;
      background-color: white; border-style: double; font-family: 'Roboto Mono', monospace; max-width: 200px; }
    .pokeviz-popup .` + CloseClass + ` { cursor: pointer; float: right; margin-right: 5px; display: inline-block; }
    .pokeviz-popup .popup-body { padding: 5px; }
    .pokeviz-popup .` + NameClass + ` { margin-bottom: 0; font-size: 12px; }
    .pokeviz-popup .` + StatsClass + ` { margin-bottom: 3px; font-size: 10px; }
    .pokeviz-popup .` + DescriptionClass + ` { font-size: 10px; text-align: justify; }`
