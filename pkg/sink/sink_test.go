package sink

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/pokeviz/pkg/errors"
	"github.com/matzehuels/pokeviz/pkg/hierarchy"
	"github.com/matzehuels/pokeviz/pkg/pack"
	"github.com/matzehuels/pokeviz/pkg/palette"
	"github.com/matzehuels/pokeviz/pkg/pokedex"
	"github.com/matzehuels/pokeviz/pkg/scene"
)

var testDex = []pokedex.Pokemon{
	{Name: "Bulbasaur", Types: []string{"Grass", "Poison"}, Index: 1, Species: "Seed", Height: 0.7, Weight: 6.9,
		PokedexEntry: `A strange seed was planted on its back at birth. "The plant sprouts & grows".`},
	{Name: "Charmander", Types: []string{"Fire"}, Index: 4, Species: "Lizard", Height: 0.6, Weight: 8.5},
}

func testScene(t *testing.T, dex []pokedex.Pokemon) (*hierarchy.Root, *scene.Scene) {
	t.Helper()
	root := hierarchy.Build(dex)
	l := pack.Pack(root, pack.Options{Size: 800, Padding: 2})
	return root, scene.Build(l, palette.Default(), scene.Options{})
}

func TestRenderSVG(t *testing.T) {
	_, s := testScene(t, testDex)
	data, err := RenderSVG(s)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	svg := string(data)

	for _, want := range []string{
		`viewBox="0 0 800 800"`,
		`id="pokeviz"`,
		`class="pack"`,
		`xlink:href="icons/1.png"`,
		`pokemon-icon-animated pokemon-icon-bounce`,
		`width="40px" height="30px"`,
		`>Grass<`,
		`>Poison<`,
		`stroke-width: 0.3px`,
		`font-family: &#39;Roboto Mono&#39;, monospace`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(svg, "<script") {
		t.Error("SVG without popups contains a script")
	}
	if got := strings.Count(svg, "<path "); got != 2*len(s.Rings()) {
		t.Errorf("path count = %d, want %d", got, 2*len(s.Rings()))
	}
	if got := strings.Count(svg, "<image "); got != 2 {
		t.Errorf("image count = %d, want 2", got)
	}
}

func TestRenderSVGPopups(t *testing.T) {
	_, s := testScene(t, testDex)
	data, err := RenderSVG(s, WithPopups(), WithDocID("chart-7"))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	svg := string(data)

	for _, want := range []string{
		`id="chart-7"`,
		`<foreignObject id="chart-7-popup"`,
		`data-name="BULBASAUR"`,
		`data-stats="Seed | 0.7 m | 6.9 kg"`,
		`data-sprite="sprites/1.png"`,
		`&#34;The plant sprouts &amp; grows&#34;`,
		`<![CDATA[`,
		`viewBox.baseVal`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
}

func TestRenderSVGAssets(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"icons/1.png", "icons/4.png", "sprites/1.png", "sprites/4.png"} {
		full := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("png"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	_, s := testScene(t, testDex)
	data, err := RenderSVG(s, WithPopups(), WithAssets(NewDirAssets(dir)))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(data), `xlink:href="data:image/png;base64,cG5n"`) {
		t.Error("icon not inlined as data URI")
	}
	if strings.Contains(string(data), "icons/1.png") {
		t.Error("output still references icon path")
	}
}

func TestRenderSVGMissingAsset(t *testing.T) {
	_, s := testScene(t, testDex)
	_, err := RenderSVG(s, WithAssets(NewDirAssets(t.TempDir())))
	if !errors.Is(err, errors.ErrCodeAssetNotFound) {
		t.Fatalf("RenderSVG() error = %v, want ASSET_NOT_FOUND", err)
	}
}

func TestDirAssetsRejectsEscapes(t *testing.T) {
	a := NewDirAssets(t.TempDir())
	for _, ref := range []string{"/etc/passwd", "https://example.com/x.png", ""} {
		if _, err := a.Resolve(ref); !errors.Is(err, errors.ErrCodeAssetNotFound) {
			t.Errorf("Resolve(%q) error = %v, want ASSET_NOT_FOUND", ref, err)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	_, s := testScene(t, testDex)
	data, err := RenderHTML(s, WithHTMLSVGOptions(WithPopups(), WithDocID("page-1")))
	if err != nil {
		t.Fatalf("RenderHTML() error: %v", err)
	}
	page := string(data)

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<h1>PokéViz: First Generation by Type</h1>",
		`<a href="https://veekun.com/">veekun</a>`,
		`<div id="page-1-popup" class="pokeviz-popup" style="display: none">`,
		`width="80%"`,
		`document.getElementById("page-1")`,
		"window.innerHeight",
		"&#215;",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(page, "<foreignObject") {
		t.Error("page embeds the standalone popup")
	}
}

// The page popup starts hidden by its inline style. The stylesheet must not
// hide it as well, or clearing the inline display in show() has no effect.
func TestRenderHTMLPopupVisibility(t *testing.T) {
	_, s := testScene(t, testDex)
	data, err := RenderHTML(s, WithHTMLSVGOptions(WithPopups()))
	if err != nil {
		t.Fatalf("RenderHTML() error: %v", err)
	}
	page := string(data)

	start := strings.Index(page, ".pokeviz-popup {")
	if start < 0 {
		t.Fatal("page has no popup stylesheet rule")
	}
	rule := page[start : start+strings.Index(page[start:], "}")]
	if strings.Contains(rule, "display") {
		t.Errorf("popup class rule sets display: %q", rule)
	}
	if !strings.Contains(page, `class="pokeviz-popup" style="display: none"`) {
		t.Error("popup div is not hidden by an inline style")
	}

	show := page[strings.Index(page, "function show("):]
	show = show[:strings.Index(show, "}")]
	if !strings.Contains(show, "popup.style.display = ''") {
		t.Errorf("show() does not clear the inline display:\n%s", show)
	}
}

func TestRenderHTMLWithoutPopups(t *testing.T) {
	_, s := testScene(t, testDex)
	data, err := RenderHTML(s, WithTitle("Kanto"), WithDescription("*hello*"))
	if err != nil {
		t.Fatalf("RenderHTML() error: %v", err)
	}
	page := string(data)
	if !strings.Contains(page, "<title>Kanto</title>") || !strings.Contains(page, "<em>hello</em>") {
		t.Error("custom title or description missing")
	}
	if strings.Contains(page, `class="pokeviz-popup"`) || strings.Contains(page, "<script>") {
		t.Error("page without popups has popup markup")
	}
}

func TestRenderJSON(t *testing.T) {
	_, s := testScene(t, testDex)
	data, err := RenderJSON(s, WithJSONDocID("doc"))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.ID != "doc" || out.Size != 800 {
		t.Errorf("ID/Size = %q/%v", out.ID, out.Size)
	}
	if len(out.Groups) != 4 {
		t.Errorf("Groups = %d, want 4", len(out.Groups))
	}
	if len(out.Pokemon) != 2 {
		t.Errorf("Pokemon = %d, want 2", len(out.Pokemon))
	}
	if len(out.Labels) != 4 {
		t.Errorf("Labels = %d, want 4", len(out.Labels))
	}
	for _, g := range out.Groups {
		if g.Key == "Grass/Poison" && (g.Primary == g.Secondary || g.Primary == "") {
			t.Errorf("Grass/Poison colors = %q/%q", g.Primary, g.Secondary)
		}
	}
	for _, p := range out.Pokemon {
		if p.Name == "Charmander" && (p.Icon != "icons/4.png" || p.Stats != "Lizard | 0.6 m | 8.5 kg") {
			t.Errorf("Charmander = %+v", p)
		}
	}
}

func TestToDOT(t *testing.T) {
	root, _ := testScene(t, testDex)
	dot := ToDOT(root, palette.Default(), TreeOptions{Pokemon: true})

	for _, want := range []string{
		"digraph G {",
		`"root" -> "type:Grass/Poison";`,
		`"type:Grass/Poison" -> "pokemon:1";`,
		`label="#004 Charmander"`,
		`style="filled,striped"`,
		`label="Grass (0)"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q", want)
		}
	}

	short := ToDOT(root, palette.Default(), TreeOptions{})
	if strings.Contains(short, "pokemon:") {
		t.Error("DOT without Pokémon lists Pokémon")
	}
}

func TestDocID(t *testing.T) {
	a, b := DocID("abc"), DocID("abc")
	if a != b {
		t.Errorf("DocID not stable: %q vs %q", a, b)
	}
	if a == DocID("abd") {
		t.Error("different hashes share an id")
	}
	if !strings.HasPrefix(a, "pokeviz-") || len(a) != len("pokeviz-")+36 {
		t.Errorf("DocID = %q", a)
	}
}

func TestRenderPNG(t *testing.T) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		t.Skip("rsvg-convert not installed")
	}
	_, s := testScene(t, testDex)
	data, err := RenderPNG(context.Background(), s, WithScale(1))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Error("output is not a PNG")
	}
}
