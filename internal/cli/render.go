package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pokeviz/pkg/pipeline"
	"github.com/matzehuels/pokeviz/pkg/sink"
)

// renderFlags holds the render flags that are not pipeline options.
type renderFlags struct {
	output   string        // output file (single format) or base path
	formats  string        // comma-separated formats
	noCache  bool          // bypass the cache entirely
	watch    bool          // re-render when the dataset or config changes
	debounce time.Duration // quiet period before a watched change re-renders
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags
	opts := pipeline.Options{Popups: true}

	cmd := &cobra.Command{
		Use:   "render [dataset.json|dataset.yaml]",
		Short: "Draw the type circles",
		Long: `Draw the Pokédex as nested circles, one per type group.

Without a dataset the bundled first-generation Pokédex is used. Several
formats may be requested at once; they are rendered concurrently and written
next to each other (pokeviz.svg, pokeviz.html, ...).

Formats: svg, html, json, png, pdf (png and pdf need rsvg-convert) and tree
(a Graphviz diagram of the type hierarchy).`,
		Example: `  pokeviz render
  pokeviz render -f svg,html --assets ./sprites
  pokeviz render kanto.yaml -o out/kanto.svg --size 1200
  pokeviz render --watch -f html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Dataset = args[0]
			}
			opts.Formats = parseFormats(flags.formats)
			// Flag values only; the config is layered on per run so a
			// watched config edit takes effect.
			resolve := func() pipeline.Options {
				o := opts
				c.config.apply(cmd, &o)
				return o
			}
			resolved := resolve()
			if err := pipeline.ValidateFormats(resolved.Formats); err != nil {
				return err
			}
			if flags.watch {
				return c.watchRender(cmd.Context(), resolve, flags)
			}
			_, err := c.runRender(cmd.Context(), resolved, flags)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (default: dataset name or \"pokeviz\")")
	f.StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), html, json, png, pdf, tree (comma-separated)")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.Refresh, "refresh", false, "ignore cached results and store fresh ones")
	f.BoolVarP(&flags.watch, "watch", "w", false, "re-render when the dataset or config file changes")
	f.DurationVar(&flags.debounce, "debounce", defaultDebounce, "quiet period before a watched change re-renders")
	addLayoutFlags(cmd, &opts)
	f.BoolVar(&opts.Popups, "popups", opts.Popups, "open a detail popup when an icon is clicked (svg, html)")
	f.StringVar(&opts.IconURL, "icon-url", "", "icon URL template (default: icons/{index}.png)")
	f.StringVar(&opts.SpriteURL, "sprite-url", "", "sprite URL template (default: sprites/{index}.png)")
	f.StringVar(&opts.Assets, "assets", "", "directory to inline icons and sprites from as data URIs")
	f.StringVar(&opts.Title, "title", "", "HTML page title")
	f.StringVar(&opts.Language, "lang", "", "language used to upper-case popup names (BCP 47, default en)")
	f.StringToStringVar(&opts.Colors, "color", nil, "override a type color, e.g. --color Fire=#ff4422 (repeatable)")
	f.BoolVar(&opts.TreeDetails, "tree-details", false, "list every Pokémon in the tree diagram")
	f.Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "PNG scale factor")

	return cmd
}

// addLayoutFlags registers the flags shared by render and layout.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	f := cmd.Flags()
	f.Float64Var(&opts.Size, "size", pipeline.DefaultSize, "chart width and height")
	f.Float64Var(&opts.Padding, "padding", pipeline.DefaultPadding, "gap between sibling circles")
	f.Float64Var(&opts.MinRadius, "min-radius", pipeline.DefaultMinRadius, "radius of the smallest group")
	f.Float64Var(&opts.MaxRadius, "max-radius", pipeline.DefaultMaxRadius, "radius of the largest group")
}

// errSkipFormat marks a format that cannot be produced on this machine.
var errSkipFormat = errors.New("skip unsupported format")

// checkFormat reports errSkipFormat for formats whose converter is missing.
func checkFormat(format string) error {
	switch format {
	case pipeline.FormatPNG, pipeline.FormatPDF:
		if err := sink.CanConvert(format); err != nil {
			return fmt.Errorf("%w: %w", errSkipFormat, err)
		}
	}
	return nil
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, flags renderFlags) ([]string, error) {
	var formats []string
	for _, f := range opts.Formats {
		if err := checkFormat(f); errors.Is(err, errSkipFormat) {
			printWarning("Skipping %s: rsvg-convert not found", f)
			c.Logger.Debug("format unavailable", "format", f, "error", err)
			continue
		}
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("no requested format can be rendered")
	}
	opts.Formats = formats

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Cache.Close()

	spinner := newSpinner(ctx, "Packing type circles...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return nil, err
	}
	spinner.Stop()

	paths, err := writeArtifacts(result, opts, flags.output)
	if err != nil {
		return nil, err
	}

	printSuccess("Rendered %s", describeSource(opts.Dataset))
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.Groups, result.Stats.Pokemon, result.CacheInfo.RenderHit())
	return paths, nil
}

// writeArtifacts writes result's artifacts in request order.
func writeArtifacts(result *pipeline.Result, opts pipeline.Options, output string) ([]string, error) {
	single := len(opts.Formats) == 1
	paths := make([]string, 0, len(opts.Formats))
	for _, format := range opts.Formats {
		data, ok := result.Artifacts[format]
		if !ok {
			continue
		}
		path := outputPath(output, opts.Dataset, format, single)
		if err := writeFile(path, data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func describeSource(dataset string) string {
	if dataset == "" {
		return "the bundled Gen 1 Pokédex"
	}
	return dataset
}
