package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pokeviz/pkg/hierarchy"
	"github.com/matzehuels/pokeviz/pkg/palette"
	"github.com/matzehuels/pokeviz/pkg/pokedex"
)

// maxListedMembers caps the names shown per group unless --all is given.
const maxListedMembers = 4

// typesCommand lists the type groups of a dataset.
func (c *CLI) typesCommand() *cobra.Command {
	var (
		all      bool
		dualOnly bool
	)

	cmd := &cobra.Command{
		Use:   "types [dataset.json|dataset.yaml]",
		Short: "List the type groups with colors and members",
		Long: `List the type groups in drawing order.

Every Pokémon belongs to exactly one group: its single type, or the combined
key of its two types (e.g. Grass/Poison). Types that only occur as half of a
pair still get a group, drawn with just their label.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset := c.config.Dataset
			if len(args) == 1 {
				dataset = args[0]
			}
			src, err := pokedex.Open(dataset)
			if err != nil {
				return err
			}
			root := hierarchy.Build(src.Dex)
			pal := palette.Default().With(c.config.Colors)

			fmt.Fprintln(stdout, typesTable(root, pal, all, dualOnly))
			s := root.Stats()
			printDetail("%d groups (%d dual, %d label-only) · %d Pokémon", s.Groups, s.DualGroups, s.LabelOnly, s.Pokemon)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "list every member instead of the first few")
	cmd.Flags().BoolVar(&dualOnly, "dual", false, "only show dual-type groups")
	return cmd
}

// typeRows returns one table row per group: key, swatch, member count,
// subtree weight and member names.
func typeRows(root *hierarchy.Root, pal palette.Palette, all, dualOnly bool) [][]string {
	var rows [][]string
	for _, g := range root.Groups() {
		if dualOnly && !g.Key.Dual() {
			continue
		}
		rows = append(rows, []string{
			typeBadge(g.Key, pal),
			swatch(pal.ColorOf(g.Key.String())),
			fmt.Sprintf("%d", len(g.Members())),
			fmt.Sprintf("%g", hierarchy.SubtreeWeight(g)),
			memberNames(g, all),
		})
	}
	return rows
}

func memberNames(g *hierarchy.TypeGroup, all bool) string {
	members := g.Members()
	if len(members) == 0 {
		return StyleDim.Render("label only")
	}
	n := len(members)
	if !all {
		n = min(n, maxListedMembers)
	}
	names := make([]string, n)
	for i, m := range members[:n] {
		names[i] = m.Pokemon.Name
	}
	out := strings.Join(names, ", ")
	if rest := len(members) - n; rest > 0 {
		out += StyleDim.Render(fmt.Sprintf(" +%d more", rest))
	}
	return out
}

func typesTable(root *hierarchy.Root, pal palette.Palette, all, dualOnly bool) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	numberStyle := lipgloss.NewStyle().Foreground(colorCyan).Align(lipgloss.Right)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Type", "Color", "Members", "Weight", "Pokémon").
		Rows(typeRows(root, pal, all, dualOnly)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1: // header
				return headerStyle.Padding(0, 1)
			case col == 2 || col == 3:
				return numberStyle.Padding(0, 1)
			default:
				return lipgloss.NewStyle().Padding(0, 1)
			}
		}).
		String()
}
