package pipeline

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/matzehuels/pokeviz/pkg/cache"
	"github.com/matzehuels/pokeviz/pkg/hierarchy"
	"github.com/matzehuels/pokeviz/pkg/pack"
)

// cachedLayout is the cache entry of the layout stage. Circles are stored in
// breadth-first order and re-attached to a freshly built tree on a hit.
type cachedLayout struct {
	Size    float64       `json:"size"`
	Circles []pack.Circle `json:"circles"`
}

// LayoutWithCacheInfo packs tree with caching. The returned key identifies
// the layout and feeds the artifact cache keys.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, tree *hierarchy.Root, datasetHash string, opts Options) (*pack.Layout, string, bool, error) {
	opts.SetLayoutDefaults()
	if err := opts.ValidateForLayout(); err != nil {
		return nil, "", false, err
	}
	key := r.Keyer.LayoutKey(datasetHash, opts.LayoutKeyOpts())

	if data, hit := r.lookup(ctx, "layout", key, opts.Refresh); hit {
		var cached cachedLayout
		if err := json.Unmarshal(data, &cached); err == nil {
			if l, err := pack.Restore(tree, cached.Size, cached.Circles); err == nil {
				return l, key, true, nil
			}
		}
		// A stale or corrupt entry falls through to a fresh pack.
		r.Logger.Debug("discarding unusable layout cache entry", "key", key)
	}

	l := pack.Pack(tree, opts.PackOptions())
	if data, err := json.Marshal(cachedLayout{Size: l.Size, Circles: l.Circles()}); err == nil {
		r.store(ctx, "layout", key, data, cache.TTLLayout)
	}
	return l, key, false, nil
}

// Layout is LayoutWithCacheInfo without the cache details.
func (r *Runner) Layout(ctx context.Context, tree *hierarchy.Root, datasetHash string, opts Options) (*pack.Layout, error) {
	l, _, _, err := r.LayoutWithCacheInfo(ctx, tree, datasetHash, opts)
	return l, err
}
