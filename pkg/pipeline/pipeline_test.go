package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	perrors "github.com/matzehuels/pokeviz/pkg/errors"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"html", false},
		{"json", false},
		{"png", false},
		{"pdf", false},
		{"tree", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !perrors.Is(err, perrors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, perrors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Size != DefaultSize || opts.Padding != DefaultPadding {
		t.Errorf("size/padding = %g/%g, want %g/%g", opts.Size, opts.Padding, DefaultSize, DefaultPadding)
	}
	if opts.MinRadius != DefaultMinRadius || opts.MaxRadius != DefaultMaxRadius {
		t.Errorf("radius = [%g, %g], want [%g, %g]", opts.MinRadius, opts.MaxRadius, DefaultMinRadius, DefaultMaxRadius)
	}
	if diff := cmp.Diff(DefaultFormats, opts.Formats); diff != "" {
		t.Errorf("formats mismatch (-want +got):\n%s", diff)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("scale = %g, want %g", opts.Scale, DefaultScale)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Formats: []string{"svg", "json", "svg"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts.Formats
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"svg", "json"}, opts.Formats); diff != "" {
		t.Errorf("formats mismatch (-want +got):\n%s", diff)
	}
	if &first[0] != &opts.Formats[0] {
		t.Error("second call should not touch formats")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code perrors.Code
	}{
		{"negative size", Options{Size: -1}, perrors.ErrCodeInvalidInput},
		{"negative padding", Options{Padding: -2}, perrors.ErrCodeInvalidInput},
		{"inverted radii", Options{MinRadius: 50, MaxRadius: 10}, perrors.ErrCodeInvalidInput},
		{"bad format", Options{Formats: []string{"gif"}}, perrors.ErrCodeInvalidFormat},
		{"bad scale", Options{Scale: -1}, perrors.ErrCodeInvalidInput},
		{"bad color key", Options{Colors: map[string]string{"Fire/Water": "#fff"}}, perrors.ErrCodeInvalidConfig},
		{"bad language", Options{Language: "not a tag!"}, perrors.ErrCodeInvalidConfig},
		{"root assets", Options{Assets: "/"}, perrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if got := perrors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{
		Popups:      true,
		IconURL:     "i/{index}.png",
		Title:       "Kanto",
		TreeDetails: true,
		Colors:      map[string]string{"Fire": "#f00"},
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	tree := opts.ArtifactKeyOpts(FormatTree, "assets")
	if tree.IconURL != "" || tree.Popups || tree.Assets != "" {
		t.Errorf("tree key should ignore icon options: %+v", tree)
	}
	if !tree.TreeDetails || tree.Colors["Fire"] != "#f00" {
		t.Errorf("tree key missing details or colors: %+v", tree)
	}

	svg := opts.ArtifactKeyOpts(FormatSVG, "assets")
	if !svg.Popups || svg.Title != "" || svg.Assets != "assets" || svg.Language != "en" {
		t.Errorf("svg key = %+v", svg)
	}
	if html := opts.ArtifactKeyOpts(FormatHTML, ""); html.Title != "Kanto" {
		t.Errorf("html key title = %q", html.Title)
	}
	if png := opts.ArtifactKeyOpts(FormatPNG, ""); png.Popups || png.Scale != DefaultScale {
		t.Errorf("png key = %+v", png)
	}
}

func TestExtension(t *testing.T) {
	for format, want := range map[string]string{
		FormatSVG:  ".svg",
		FormatHTML: ".html",
		FormatJSON: ".json",
		FormatTree: ".tree.svg",
	} {
		if got := Extension(format); got != want {
			t.Errorf("Extension(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestCacheInfoRenderHit(t *testing.T) {
	tests := []struct {
		hits map[string]bool
		want bool
	}{
		{nil, false},
		{map[string]bool{"svg": true}, true},
		{map[string]bool{"svg": true, "json": false}, false},
	}
	for _, tt := range tests {
		if got := (CacheInfo{ArtifactHits: tt.hits}).RenderHit(); got != tt.want {
			t.Errorf("RenderHit(%v) = %v, want %v", tt.hits, got, tt.want)
		}
	}
}
