package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/pokeviz/pkg/cache"
	perrors "github.com/matzehuels/pokeviz/pkg/errors"
	"github.com/matzehuels/pokeviz/pkg/observability"
)

const twoPokemonYAML = `
- name: Bulbasaur
  type: [Grass, Poison]
  pokedexEntry: A strange seed was planted on its back at birth.
  height: 0.7
  weight: 6.9
  species: Seed
- name: Charmander
  type: [Fire]
  pokedexEntry: Obviously prefers hot places.
  height: 0.6
  weight: 8.5
  species: Lizard
`

func quietLogger() *log.Logger {
	return log.NewWithOptions(&bytes.Buffer{}, log.Options{})
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, quietLogger())
}

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "starters.yaml")
	if err := os.WriteFile(path, []byte(twoPokemonYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Fatalf("NewRunner left nil fields: %+v", r)
	}
	if _, ok := r.Cache.(cache.NullCache); !ok {
		t.Errorf("default cache = %T, want NullCache", r.Cache)
	}
}

func TestExecuteBundledDataset(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.Execute(context.Background(), Options{
		Formats: []string{FormatSVG, FormatJSON, FormatHTML},
		Popups:  true,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Stats.Pokemon != 151 {
		t.Errorf("pokemon = %d, want 151", res.Stats.Pokemon)
	}
	if res.Stats.Groups != len(res.Tree.Groups()) {
		t.Errorf("groups = %d, want %d", res.Stats.Groups, len(res.Tree.Groups()))
	}
	if res.Source.Path != "" {
		t.Errorf("source path = %q, want bundled", res.Source.Path)
	}
	if !strings.HasPrefix(res.DocID, "pokeviz-") {
		t.Errorf("doc id = %q", res.DocID)
	}
	if got := len(res.Layout.Nodes); got != len(res.Scene.Elements) {
		t.Errorf("scene has %d elements for %d circles", len(res.Scene.Elements), got)
	}

	svg := string(res.Artifacts[FormatSVG])
	for _, want := range []string{`viewBox="0 0 800 800"`, "pokemon-icon", res.DocID + "-popup"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if !strings.Contains(string(res.Artifacts[FormatHTML]), "<!DOCTYPE html>") {
		t.Error("html artifact is not a page")
	}
	if !bytes.HasPrefix(bytes.TrimSpace(res.Artifacts[FormatJSON]), []byte("{")) {
		t.Error("json artifact is not an object")
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit() {
		t.Errorf("first run should miss: %+v", res.CacheInfo)
	}
}

func TestExecuteUsesCache(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	opts := Options{Dataset: writeDataset(t), Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("second run should hit the layout cache")
	}
	if !second.CacheInfo.RenderHit() {
		t.Errorf("second run should hit every artifact: %v", second.CacheInfo.ArtifactHits)
	}
	if diff := cmp.Diff(first.Layout.Circles(), second.Layout.Circles()); diff != "" {
		t.Errorf("restored layout differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Artifacts, second.Artifacts); diff != "" {
		t.Errorf("cached artifacts differ (-first +second):\n%s", diff)
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit() {
		t.Errorf("refresh should bypass the cache: %+v", third.CacheInfo)
	}
}

func TestExecuteOptionChangeMissesArtifact(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	path := writeDataset(t)

	if _, err := r.Execute(ctx, Options{Dataset: path}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, Options{Dataset: path, Popups: true})
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheInfo.LayoutHit {
		t.Error("popups do not change the layout")
	}
	if res.CacheInfo.ArtifactHits[FormatSVG] {
		t.Error("popups change the SVG")
	}
	res, err = r.Execute(ctx, Options{Dataset: path, Size: 400})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.LayoutHit {
		t.Error("a new size needs a new layout")
	}
}

func TestExecuteStarters(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), Options{Dataset: writeDataset(t)})
	if err != nil {
		t.Fatal(err)
	}
	var keys []string
	for _, g := range res.Tree.Groups() {
		keys = append(keys, g.Key.String())
	}
	if diff := cmp.Diff([]string{"Grass", "Poison", "Grass/Poison", "Fire"}, keys); diff != "" {
		t.Errorf("group keys mismatch (-want +got):\n%s", diff)
	}
	if g, ok := res.Tree.Group("Grass/Poison"); !ok || len(g.Members()) != 1 {
		t.Error("Bulbasaur should sit in Grass/Poison")
	}
}

func TestExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()

	tests := []struct {
		name string
		opts Options
		code perrors.Code
	}{
		{"missing dataset", Options{Dataset: filepath.Join(t.TempDir(), "nope.json")}, perrors.ErrCodeFileNotFound},
		{"bad extension", Options{Dataset: "dex.csv"}, perrors.ErrCodeInvalidFormat},
		{"missing asset dir", Options{Assets: filepath.Join(t.TempDir(), "none")}, perrors.ErrCodeFileNotFound},
		{"missing asset file", Options{Assets: t.TempDir()}, perrors.ErrCodeAssetNotFound},
		{"bad format", Options{Formats: []string{"bmp"}}, perrors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(ctx, tt.opts)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := perrors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewRunner(nil, nil, quietLogger()).Execute(ctx, Options{}); err == nil {
		t.Fatal("expected context error")
	}
}

// cancelAfter cancels the run once the given stage completes.
type cancelAfter struct {
	observability.NoopPipelineHooks
	stage   observability.Stage
	cancel  context.CancelFunc
	started []observability.Stage
}

func (h *cancelAfter) OnStageStart(_ context.Context, s observability.Stage) {
	h.started = append(h.started, s)
}

func (h *cancelAfter) OnStageComplete(_ context.Context, s observability.Stage, _ time.Duration, _ error) {
	if s == h.stage {
		h.cancel()
	}
}

func TestExecuteCanceledAfterLoad(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := &cancelAfter{stage: observability.StageLoad, cancel: cancel}
	observability.SetPipelineHooks(h)
	t.Cleanup(observability.Reset)

	res, err := NewRunner(nil, nil, quietLogger()).Execute(ctx, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if !strings.HasPrefix(err.Error(), "build:") {
		t.Errorf("err = %q, want the build stage to report it", err)
	}
	if res != nil {
		t.Error("result returned for a canceled run")
	}
	if diff := cmp.Diff([]observability.Stage{observability.StageLoad}, h.started); diff != "" {
		t.Errorf("stages started (-want +got):\n%s", diff)
	}
}

func TestExecuteInlinesAssets(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"icons", "sprites"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatal(err)
		}
		for _, name := range []string{"1.png", "2.png"} {
			if err := os.WriteFile(filepath.Join(dir, sub, name), []byte("\x89PNG"), 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}
	res, err := NewRunner(nil, nil, quietLogger()).Execute(context.Background(), Options{
		Dataset: writeDataset(t),
		Assets:  dir,
		Popups:  true,
	})
	if err != nil {
		t.Fatal(err)
	}
	svg := string(res.Artifacts[FormatSVG])
	if !strings.Contains(svg, "data:image/png;base64,") {
		t.Error("icons should be inlined as data URIs")
	}
	if strings.Contains(svg, "icons/1.png") {
		t.Error("raw icon reference leaked into the document")
	}
}

type countingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu     sync.Mutex
	stages []observability.Stage
	counts map[string]int
}

func (h *countingHooks) OnStageComplete(_ context.Context, s observability.Stage, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stages = append(h.stages, s)
}

func (h *countingHooks) bump(k string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.counts[k]++
}

func (h *countingHooks) OnCacheHit(_ context.Context, k string)        { h.bump("hit:" + k) }
func (h *countingHooks) OnCacheMiss(_ context.Context, k string)       { h.bump("miss:" + k) }
func (h *countingHooks) OnCacheSet(_ context.Context, k string, _ int) { h.bump("set:" + k) }

func TestExecuteReportsHooks(t *testing.T) {
	h := &countingHooks{counts: map[string]int{}}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	t.Cleanup(observability.Reset)

	r := newTestRunner(t)
	opts := Options{Dataset: writeDataset(t), Formats: []string{FormatSVG, FormatJSON}}
	for range 2 {
		if _, err := r.Execute(context.Background(), opts); err != nil {
			t.Fatal(err)
		}
	}

	want := []observability.Stage{
		observability.StageLoad, observability.StageBuild, observability.StageLayout, observability.StageRender,
		observability.StageLoad, observability.StageBuild, observability.StageLayout, observability.StageRender,
	}
	if diff := cmp.Diff(want, h.stages); diff != "" {
		t.Errorf("stages mismatch (-want +got):\n%s", diff)
	}
	wantCounts := map[string]int{
		"miss:layout": 1, "set:layout": 1, "hit:layout": 1,
		"miss:artifact": 2, "set:artifact": 2, "hit:artifact": 2,
	}
	if diff := cmp.Diff(wantCounts, h.counts); diff != "" {
		t.Errorf("cache events mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutIgnoresCorruptEntry(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	res, err := r.Execute(ctx, Options{Dataset: writeDataset(t)})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Cache.Set(ctx, res.LayoutHash, []byte(`{"size":800,"circles":[]}`), 0); err != nil {
		t.Fatal(err)
	}
	l, _, hit, err := r.LayoutWithCacheInfo(ctx, res.Tree, res.DatasetHash, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("a layout with the wrong circle count must not be used")
	}
	if diff := cmp.Diff(res.Layout.Circles(), l.Circles()); diff != "" {
		t.Errorf("repacked layout differs (-want +got):\n%s", diff)
	}
}
