package pokedex

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	perrors "github.com/matzehuels/pokeviz/pkg/errors"
)

// Format identifies a dataset encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

//go:embed data/gen1.json
var gen1JSON []byte

var (
	gen1     Dex
	gen1Once sync.Once
)

// Gen1 returns the bundled first-generation dataset. The returned slice is a
// copy; callers may modify it freely.
func Gen1() Dex {
	gen1Once.Do(func() {
		d, err := Parse(gen1JSON, FormatJSON)
		if err != nil {
			panic(fmt.Sprintf("pokedex: bundled dataset is invalid: %v", err))
		}
		gen1 = d
	})
	return clone(gen1)
}

// Gen1Raw returns the bundled dataset bytes. Used for content hashing.
func Gen1Raw() []byte { return gen1JSON }

// Load reads a dataset file, choosing the decoder from the file extension.
func Load(path string) (Dex, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	return src.Dex, nil
}

// Source is a decoded dataset together with the bytes it came from.
type Source struct {
	Path string // empty for the bundled dataset
	Raw  []byte
	Dex  Dex
}

// Name describes the source for logs.
func (s *Source) Name() string {
	if s.Path == "" {
		return "gen1 (bundled)"
	}
	return s.Path
}

// Open loads the dataset at path, or the bundled Gen 1 dataset when path is
// empty.
func Open(path string) (*Source, error) {
	if path == "" {
		return &Source{Raw: gen1JSON, Dex: Gen1()}, nil
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "dataset %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	dex, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	return &Source{Path: path, Raw: data, Dex: dex}, nil
}

// FormatFromPath maps .json, .yaml and .yml extensions to a Format.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", perrors.New(perrors.ErrCodeInvalidFormat, "unsupported dataset extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// record mirrors Pokemon on the wire. The historical "weigth" spelling is
// accepted as an alias for weight.
type record struct {
	Name         string   `json:"name" yaml:"name"`
	Types        []string `json:"type" yaml:"type"`
	PokedexEntry string   `json:"pokedexEntry" yaml:"pokedexEntry"`
	Height       float64  `json:"height" yaml:"height"`
	Weight       *float64 `json:"weight" yaml:"weight"`
	Weigth       *float64 `json:"weigth" yaml:"weigth"`
	Species      string   `json:"species" yaml:"species"`
}

// Parse decodes and validates a dataset.
func Parse(data []byte, format Format) (Dex, error) {
	var recs []record
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&recs); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidDataset, err, "decode JSON dataset")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &recs); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidDataset, err, "decode YAML dataset")
		}
	default:
		return nil, perrors.New(perrors.ErrCodeInvalidFormat, "unknown dataset format %q", format)
	}

	dex := make(Dex, len(recs))
	for i, r := range recs {
		p := Pokemon{
			Name:         r.Name,
			Types:        r.Types,
			Index:        i + 1,
			PokedexEntry: r.PokedexEntry,
			Height:       r.Height,
			Species:      r.Species,
		}
		switch {
		case r.Weight != nil:
			p.Weight = *r.Weight
		case r.Weigth != nil:
			p.Weight = *r.Weigth
		}
		dex[i] = p
	}
	if err := Validate(dex); err != nil {
		return nil, err
	}
	return dex, nil
}

func clone(d Dex) Dex {
	out := make(Dex, len(d))
	for i, p := range d {
		p.Types = append([]string(nil), p.Types...)
		out[i] = p
	}
	return out
}
