// Package pipeline runs the PokéViz visualization end to end.
//
// A run has four stages:
//
//  1. Load: read a dataset file or take the bundled Gen 1 data
//  2. Build: group Pokémon into the type hierarchy
//  3. Layout: pack the hierarchy into nested circles
//  4. Render: turn the packed scene into one or more output formats
//
// Layouts and rendered artifacts are cached by content hash, so re-running
// with an unchanged dataset and options is cheap.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatHTML},
//	    Popups:  true,
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/matzehuels/pokeviz/pkg/cache"
	perrors "github.com/matzehuels/pokeviz/pkg/errors"
	"github.com/matzehuels/pokeviz/pkg/hierarchy"
	"github.com/matzehuels/pokeviz/pkg/pack"
	"github.com/matzehuels/pokeviz/pkg/palette"
	"github.com/matzehuels/pokeviz/pkg/pokedex"
	"github.com/matzehuels/pokeviz/pkg/scene"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultSize      = pack.DefaultSize
	DefaultPadding   = pack.DefaultPadding
	DefaultMinRadius = pack.DefaultMinRadius
	DefaultMaxRadius = pack.DefaultMaxRadius

	// DefaultScale is the PNG pixel density.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatHTML = "html"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatTree = "tree"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatHTML: true,
	FormatJSON: true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatTree: true,
}

// DefaultFormats is used when no format is requested.
var DefaultFormats = []string{FormatSVG}

// FormatNames lists the formats in display order.
func FormatNames() []string {
	return []string{FormatSVG, FormatHTML, FormatJSON, FormatPNG, FormatPDF, FormatTree}
}

// Extension returns the file extension for a format. The tree diagram is an
// SVG document.
func Extension(format string) string {
	if format == FormatTree {
		return ".tree.svg"
	}
	return "." + format
}

// =============================================================================
// Options
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Load options
	Dataset string `json:"dataset,omitempty"` // empty means the bundled Gen 1 data

	// Layout options
	Size      float64 `json:"size,omitempty"`
	Padding   float64 `json:"padding,omitempty"`
	MinRadius float64 `json:"min_radius,omitempty"`
	MaxRadius float64 `json:"max_radius,omitempty"`

	// Render options
	Formats     []string          `json:"formats,omitempty"`
	Popups      bool              `json:"popups,omitempty"`
	IconURL     string            `json:"icon_url,omitempty"`
	SpriteURL   string            `json:"sprite_url,omitempty"`
	Assets      string            `json:"assets,omitempty"` // directory to inline icons and sprites from
	Colors      map[string]string `json:"colors,omitempty"` // palette overrides
	Title       string            `json:"title,omitempty"`
	Language    string            `json:"language,omitempty"` // BCP 47 tag used to upper-case popup names
	TreeDetails bool              `json:"tree_details,omitempty"`
	Scale       float64           `json:"scale,omitempty"`
	Refresh     bool              `json:"refresh,omitempty"`

	lang      language.Tag
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Source *pokedex.Source
	Tree   *hierarchy.Root
	Layout *pack.Layout
	Scene  *scene.Scene

	// DatasetHash is the content hash of the raw dataset bytes.
	DatasetHash string
	// LayoutHash identifies the packed layout (dataset plus layout options).
	LayoutHash string
	// DocID namespaces element ids in rendered documents.
	DocID string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Groups     int
	Pokemon    int
	LoadTime   time.Duration
	BuildTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit    bool            // layout came from cache
	ArtifactHits map[string]bool // per format
}

// RenderHit reports whether every artifact came from cache.
func (c CacheInfo) RenderHit() bool {
	if len(c.ArtifactHits) == 0 {
		return false
	}
	for _, hit := range c.ArtifactHits {
		if !hit {
			return false
		}
	}
	return true
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return perrors.New(perrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetLayoutDefaults()
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.SetRenderDefaults(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults fills zero layout fields.
func (o *Options) SetLayoutDefaults() {
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if o.MinRadius == 0 {
		o.MinRadius = DefaultMinRadius
	}
	if o.MaxRadius == 0 {
		o.MaxRadius = DefaultMaxRadius
	}
}

// ValidateForLayout rejects geometry that cannot be packed.
func (o *Options) ValidateForLayout() error {
	switch {
	case o.Size <= 0:
		return perrors.New(perrors.ErrCodeInvalidInput, "size must be positive, got %g", o.Size)
	case o.Padding < 0:
		return perrors.New(perrors.ErrCodeInvalidInput, "padding must not be negative, got %g", o.Padding)
	case o.MinRadius <= 0 || o.MaxRadius <= 0:
		return perrors.New(perrors.ErrCodeInvalidInput, "radii must be positive, got [%g, %g]", o.MinRadius, o.MaxRadius)
	case o.MinRadius > o.MaxRadius:
		return perrors.New(perrors.ErrCodeInvalidInput, "min radius %g exceeds max radius %g", o.MinRadius, o.MaxRadius)
	}
	return nil
}

// SetRenderDefaults validates render fields and fills zero ones.
func (o *Options) SetRenderDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = slices.Clone(DefaultFormats)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.Formats = dedupe(o.Formats)
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	if o.Assets != "" {
		if err := perrors.ValidateAssetDir(o.Assets); err != nil {
			return err
		}
	}
	for name := range o.Colors {
		if err := perrors.ValidateTypeName(name); err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "color override")
		}
	}
	o.lang = language.English
	if o.Language != "" {
		tag, err := language.Parse(o.Language)
		if err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "language %q", o.Language)
		}
		o.lang = tag
	}
	return nil
}

// Palette returns the default palette with the color overrides applied.
func (o Options) Palette() palette.Palette {
	return palette.Default().With(o.Colors)
}

// PackOptions returns the layout options for pack.Pack.
func (o Options) PackOptions() pack.Options {
	return pack.Options{
		Size:      o.Size,
		Padding:   o.Padding,
		MinRadius: o.MinRadius,
		MaxRadius: o.MaxRadius,
	}
}

// SceneOptions returns the drawing options for scene.Build.
func (o Options) SceneOptions() scene.Options {
	return scene.Options{
		IconURL:   o.IconURL,
		SpriteURL: o.SpriteURL,
		Language:  o.lang,
	}
}

// LayoutKeyOpts returns the cache key options for the layout stage.
func (o Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Size:      o.Size,
		Padding:   o.Padding,
		MinRadius: o.MinRadius,
		MaxRadius: o.MaxRadius,
	}
}

// ArtifactKeyOpts returns the cache key options for one rendered format.
// Fields that cannot affect the format are left zero so unrelated option
// changes keep the entry valid.
func (o Options) ArtifactKeyOpts(format, assetsHash string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Colors: o.Colors}
	if format == FormatTree {
		k.TreeDetails = o.TreeDetails
		return k
	}
	k.IconURL = o.IconURL
	k.SpriteURL = o.SpriteURL
	k.Assets = assetsHash
	switch format {
	case FormatSVG, FormatHTML:
		k.Popups = o.Popups
		k.Language = o.lang.String()
	case FormatPNG:
		k.Scale = o.Scale
	}
	if format == FormatHTML {
		k.Title = o.Title
	}
	return k
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := formats[:0:0]
	for _, f := range formats {
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

func (o Options) String() string {
	return fmt.Sprintf("size=%g padding=%g radius=[%g,%g] formats=%v", o.Size, o.Padding, o.MinRadius, o.MaxRadius, o.Formats)
}
