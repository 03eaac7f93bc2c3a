package cache

// Keyer derives cache keys for pipeline stages.
type Keyer interface {
	// LayoutKey identifies the packed layout of a dataset.
	LayoutKey(datasetHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies one rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the options that change a layout.
type LayoutKeyOpts struct {
	Size      float64 `json:"size"`
	Padding   float64 `json:"padding"`
	MinRadius float64 `json:"min_radius"`
	MaxRadius float64 `json:"max_radius"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string            `json:"format"`
	Popups      bool              `json:"popups"`
	IconURL     string            `json:"icon_url"`
	SpriteURL   string            `json:"sprite_url"`
	Assets      string            `json:"assets"` // hash of the inlined asset directory listing
	Colors      map[string]string `json:"colors,omitempty"`
	TreeDetails bool              `json:"tree_details,omitempty"`
	Scale       float64           `json:"scale,omitempty"`
	Title       string            `json:"title,omitempty"`
	Language    string            `json:"language,omitempty"`
}

// DefaultKeyer produces "<stage>:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", datasetHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
