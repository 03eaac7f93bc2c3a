package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pokeviz/pkg/pipeline"
)

// layoutCommand creates the layout command for exporting circle positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [dataset.json|dataset.yaml]",
		Short: "Export the packed circle layout as JSON",
		Long: `Export the packed circle layout as JSON.

The output lists every group ring, Pokémon icon and type label with its
position, radius and colors, ready to be drawn by another tool. Use "-o -"
to write to standard output.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Dataset = args[0]
			}
			c.config.apply(cmd, &opts)
			opts.Formats = []string{pipeline.FormatJSON}
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <dataset>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results and store fresh ones")
	addLayoutFlags(cmd, &opts)
	cmd.Flags().StringToStringVar(&opts.Colors, "color", nil, "override a type color, e.g. --color Fire=#ff4422 (repeatable)")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Cache.Close()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	prog.done(fmt.Sprintf("Packed %d Pokémon into %d groups", result.Stats.Pokemon, result.Stats.Groups))

	data := result.Artifacts[pipeline.FormatJSON]
	if output == "-" {
		_, err := stdout.Write(data)
		return err
	}

	path := output
	if path == "" {
		path = basePath("", opts.Dataset) + ".layout.json"
	}
	if err := writeFile(path, data); err != nil {
		return err
	}

	printSuccess("Layout complete")
	printFile(path)
	printStats(result.Stats.Groups, result.Stats.Pokemon, result.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Render", "pokeviz render "+opts.Dataset)
	return nil
}
