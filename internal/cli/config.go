package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pokeviz/pkg/cache"
	perrors "github.com/matzehuels/pokeviz/pkg/errors"
	"github.com/matzehuels/pokeviz/pkg/pipeline"
)

// configFileName is the file looked up under the config directory.
const configFileName = "config.toml"

// Config mirrors config.toml. Zero values mean "not set"; flags given on the
// command line always win over the file.
type Config struct {
	Dataset   string            `toml:"dataset"`
	Size      float64           `toml:"size"`
	Padding   float64           `toml:"padding"`
	MinRadius float64           `toml:"min_radius"`
	MaxRadius float64           `toml:"max_radius"`
	IconURL   string            `toml:"icon_url"`
	SpriteURL string            `toml:"sprite_url"`
	Assets    string            `toml:"assets"`
	Popups    *bool             `toml:"popups"`
	Formats   []string          `toml:"formats"`
	Title     string            `toml:"title"`
	Language  string            `toml:"language"`
	Colors    map[string]string `toml:"colors"`
	Cache     CacheConfig       `toml:"cache"`

	// path is where the config was read from; empty when no file exists.
	path string
}

// CacheConfig is the [cache] table.
type CacheConfig struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	Prefix   string   `toml:"prefix"`
	TTL      duration `toml:"ttl"`
}

// duration decodes TOML strings such as "72h".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// configDir returns the config directory using XDG standard (~/.config/pokeviz/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// defaultConfigPath returns the config file looked up when --config is not
// given.
func defaultConfigPath() string {
	dir, err := configDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configFileName)
}

// loadConfig reads the config file at path. A missing file is only an error
// when the path was given explicitly. Unknown keys are logged and ignored.
func loadConfig(path string, explicit bool, logger *log.Logger) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		if explicit {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return &Config{}, nil
	}
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		logger.Warn("ignoring unknown config keys", "file", path, "keys", strings.Join(keys, ", "))
	}
	cfg.path = path
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case "", cache.BackendFile, cache.BackendNone, cache.BackendRedis:
	default:
		return perrors.New(perrors.ErrCodeInvalidConfig, "cache.backend must be one of file, none, redis; got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == cache.BackendRedis && c.Cache.RedisURL == "" {
		return perrors.New(perrors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
	}
	if c.Cache.TTL.Duration < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if err := pipeline.ValidateFormats(c.Formats); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "formats")
	}
	return nil
}

// cacheConfig returns the cache backend settings, with the directory
// defaulting to the XDG cache location.
func (c *Config) cacheConfig() cache.Config {
	cc := cache.Config{
		Backend:  c.Cache.Backend,
		Dir:      c.Cache.Dir,
		RedisURL: c.Cache.RedisURL,
		Prefix:   c.Cache.Prefix,
	}
	if cc.Dir == "" {
		if dir, err := cacheDir(); err == nil {
			cc.Dir = dir
		}
	}
	return cc
}

// apply copies file values into opts for every flag the user did not set.
func (c *Config) apply(cmd *cobra.Command, opts *pipeline.Options) {
	flags := cmd.Flags()
	unset := func(name string) bool {
		f := flags.Lookup(name)
		return f == nil || !f.Changed
	}
	str := func(name string, dst *string, v string) {
		if v != "" && unset(name) {
			*dst = v
		}
	}
	num := func(name string, dst *float64, v float64) {
		if v != 0 && unset(name) {
			*dst = v
		}
	}

	if c.Dataset != "" && opts.Dataset == "" {
		opts.Dataset = c.Dataset
	}
	num("size", &opts.Size, c.Size)
	num("padding", &opts.Padding, c.Padding)
	num("min-radius", &opts.MinRadius, c.MinRadius)
	num("max-radius", &opts.MaxRadius, c.MaxRadius)
	str("icon-url", &opts.IconURL, c.IconURL)
	str("sprite-url", &opts.SpriteURL, c.SpriteURL)
	str("assets", &opts.Assets, c.Assets)
	str("title", &opts.Title, c.Title)
	str("lang", &opts.Language, c.Language)
	if c.Popups != nil && unset("popups") {
		opts.Popups = *c.Popups
	}
	if len(c.Formats) > 0 && unset("format") {
		opts.Formats = append([]string(nil), c.Formats...)
	}

	// Colors merge: file first, then --color entries on top.
	if len(c.Colors) > 0 {
		merged := make(map[string]string, len(c.Colors)+len(opts.Colors))
		for k, v := range c.Colors {
			merged[k] = v
		}
		for k, v := range opts.Colors {
			merged[k] = v
		}
		opts.Colors = merged
	}
}

func (c *Config) String() string {
	if c.path == "" {
		return "(defaults)"
	}
	return c.path
}
