package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pokeviz/pkg/cache"
	perrors "github.com/matzehuels/pokeviz/pkg/errors"
	"github.com/matzehuels/pokeviz/pkg/observability"
	"github.com/matzehuels/pokeviz/pkg/sink"
)

// RenderWithCacheInfo renders every requested format concurrently. Each
// format is cached on its own; the returned map reports per-format hits.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *Result, opts Options) (map[string][]byte, map[string]bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}

	var assets sink.AssetResolver = sink.URLAssets{}
	assetsHash := ""
	if opts.Assets != "" {
		h, err := fingerprintDir(opts.Assets)
		if err != nil {
			return nil, nil, err
		}
		assets, assetsHash = sink.NewDirAssets(opts.Assets), h
	}

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
		hits      = make(map[string]bool, len(opts.Formats))
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			key := r.Keyer.ArtifactKey(res.LayoutHash, opts.ArtifactKeyOpts(format, assetsHash))
			data, hit := r.lookup(gctx, "artifact", key, opts.Refresh)
			if !hit {
				start := time.Now()
				var err error
				data, err = renderFormat(gctx, format, res, opts, assets)
				observability.Pipeline().OnFormatRendered(gctx, format, len(data), time.Since(start), err)
				if err != nil {
					return fmt.Errorf("%s: %w", format, err)
				}
				r.store(gctx, "artifact", key, data, cache.TTLArtifact)
			}
			mu.Lock()
			artifacts[format], hits[format] = data, hit
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return artifacts, hits, nil
}

// Render is RenderWithCacheInfo without the cache details.
func (r *Runner) Render(ctx context.Context, res *Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

func renderFormat(ctx context.Context, format string, res *Result, opts Options, assets sink.AssetResolver) ([]byte, error) {
	base := []sink.SVGOption{sink.WithDocID(res.DocID), sink.WithAssets(assets)}
	interactive := base
	if opts.Popups {
		interactive = append(slices.Clone(base), sink.WithPopups())
	}

	switch format {
	case FormatSVG:
		return sink.RenderSVG(res.Scene, interactive...)
	case FormatHTML:
		htmlOpts := []sink.HTMLOption{sink.WithHTMLSVGOptions(interactive...)}
		if opts.Title != "" {
			htmlOpts = append(htmlOpts, sink.WithTitle(opts.Title))
		}
		return sink.RenderHTML(res.Scene, htmlOpts...)
	case FormatJSON:
		return sink.RenderJSON(res.Scene, sink.WithJSONDocID(res.DocID), sink.WithJSONAssets(assets))
	case FormatPNG:
		return sink.RenderPNG(ctx, res.Scene, sink.WithPNGSVGOptions(base...), sink.WithScale(opts.Scale))
	case FormatPDF:
		return sink.RenderPDF(ctx, res.Scene, sink.WithPDFSVGOptions(base...))
	case FormatTree:
		dot := sink.ToDOT(res.Tree, opts.Palette(), sink.TreeOptions{Pokemon: opts.TreeDetails})
		return sink.RenderTree(ctx, dot)
	default:
		return nil, perrors.New(perrors.ErrCodeInvalidFormat, "unsupported format: %s", format)
	}
}

// fingerprintDir hashes the relative paths, sizes and modification times of
// the files under dir, so edited assets invalidate cached artifacts.
func fingerprintDir(dir string) (string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return "", perrors.Wrap(perrors.ErrCodeFileNotFound, err, "asset directory %s", dir)
	}
	type fileStamp struct {
		Path string `json:"p"`
		Size int64  `json:"s"`
		Mod  int64  `json:"m"`
	}
	stamps := []fileStamp{{Path: filepath.Clean(dir)}}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		stamps = append(stamps, fileStamp{Path: filepath.ToSlash(rel), Size: info.Size(), Mod: info.ModTime().UnixNano()})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("scan asset directory: %w", err)
	}
	return cache.HashValue(stamps), nil
}
