package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pokeviz/pkg/cache"
	"github.com/matzehuels/pokeviz/pkg/hierarchy"
	"github.com/matzehuels/pokeviz/pkg/observability"
	"github.com/matzehuels/pokeviz/pkg/pokedex"
	"github.com/matzehuels/pokeviz/pkg/scene"
	"github.com/matzehuels/pokeviz/pkg/sink"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state, so one Runner may serve concurrent
// Execute calls with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-stage cache lifetimes when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs load → build → layout → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	err := r.stage(ctx, observability.StageLoad, &result.Stats.LoadTime, func() error {
		src, err := pokedex.Open(opts.Dataset)
		if err != nil {
			return err
		}
		result.Source = src
		result.DatasetHash = cache.Hash(src.Raw)
		result.DocID = sink.DocID(result.DatasetHash)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	r.Logger.Debug("loaded dataset",
		"source", result.Source.Name(),
		"pokemon", len(result.Source.Dex),
		"hash", result.DatasetHash[:12])

	// Stage 2: Build
	var stats hierarchy.Stats
	err = r.stage(ctx, observability.StageBuild, &result.Stats.BuildTime, func() error {
		result.Tree = hierarchy.Build(result.Source.Dex)
		stats = result.Tree.Stats()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Stats.Groups = stats.Groups
	result.Stats.Pokemon = stats.Pokemon
	r.Logger.Info("built hierarchy",
		"groups", stats.Groups,
		"dual", stats.DualGroups,
		"pokemon", stats.Pokemon,
		"duration", result.Stats.BuildTime)

	// Stage 3: Layout
	err = r.stage(ctx, observability.StageLayout, &result.Stats.LayoutTime, func() error {
		l, key, hit, err := r.LayoutWithCacheInfo(ctx, result.Tree, result.DatasetHash, opts)
		if err != nil {
			return err
		}
		result.Layout, result.LayoutHash, result.CacheInfo.LayoutHit = l, key, hit
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	r.Logger.Info("packed layout",
		"circles", len(result.Layout.Nodes),
		"cached", result.CacheInfo.LayoutHit,
		"duration", result.Stats.LayoutTime)

	result.Scene = scene.Build(result.Layout, opts.Palette(), opts.SceneOptions())

	// Stage 4: Render
	err = r.stage(ctx, observability.StageRender, &result.Stats.RenderTime, func() error {
		artifacts, hits, err := r.RenderWithCacheInfo(ctx, result, opts)
		if err != nil {
			return err
		}
		result.Artifacts, result.CacheInfo.ArtifactHits = artifacts, hits
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", result.CacheInfo.RenderHit(),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// stage times fn and reports it to the pipeline hooks.
func (r *Runner) stage(ctx context.Context, s observability.Stage, elapsed *time.Duration, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, s)
	start := time.Now()
	err := fn()
	*elapsed = time.Since(start)
	hooks.OnStageComplete(ctx, s, *elapsed, err)
	return err
}

// lookup reads key from the cache unless refresh is set, reporting the
// outcome to the cache hooks. Cache errors count as misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string, refresh bool) ([]byte, bool) {
	hooks := observability.Cache()
	if refresh {
		hooks.OnCacheMiss(ctx, keyType)
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "error", err)
		hit = false
	}
	if !hit {
		hooks.OnCacheMiss(ctx, keyType)
		return nil, false
	}
	hooks.OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
