package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/matzehuels/pokeviz/pkg/hierarchy"
	"github.com/matzehuels/pokeviz/pkg/palette"
	"github.com/matzehuels/pokeviz/pkg/pokedex"
	"github.com/matzehuels/pokeviz/pkg/popup"
)

// browseCommand opens the interactive type browser.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [dataset.json|dataset.yaml]",
		Short: "Explore type groups and Pokédex entries in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset := c.config.Dataset
			if len(args) == 1 {
				dataset = args[0]
			}
			src, err := pokedex.Open(dataset)
			if err != nil {
				return err
			}
			tag := language.English
			if c.config.Language != "" {
				if t, err := language.Parse(c.config.Language); err == nil {
					tag = t
				}
			}
			m := newBrowseModel(hierarchy.Build(src.Dex), palette.Default().With(c.config.Colors), popup.New(
				popup.WithLanguage(tag),
				popup.WithSpriteURL(c.config.SpriteURL),
			))
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// =============================================================================
// Key bindings
// =============================================================================

type browseKeys struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Close  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k browseKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Close, k.Quit}
}

func (k browseKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Select, k.Close}, {k.Help, k.Quit}}
}

var defaultBrowseKeys = browseKeys{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Select: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("⏎", "expand / show")),
	Close:  key.NewBinding(key.WithKeys("x", "esc"), key.WithHelp("x", "close popup")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// =============================================================================
// Model
// =============================================================================

// browseRow is one line of the list: a group header or one of its members.
type browseRow struct {
	group  *hierarchy.TypeGroup
	member *hierarchy.PokemonLeaf // nil for group rows
}

// Popup panel size in terminal cells.
const (
	popupPanelWidth  = 44
	popupPanelHeight = 9
	browseChrome     = 4 // title, blank line, help line, spacing
)

var (
	browseCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	browseMemberStyle = lipgloss.NewStyle().Foreground(colorWhite)
	browsePanelStyle  = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorCyan).
				Padding(0, 1).
				Width(popupPanelWidth - 2)
)

// browseModel lists type groups; enter expands a group or opens the popup
// for a Pokémon, x or esc closes it.
type browseModel struct {
	root     *hierarchy.Root
	pal      palette.Palette
	popup    *popup.Popup
	expanded map[hierarchy.TypeKey]bool
	rows     []browseRow
	cursor   int

	list   viewport.Model
	keys   browseKeys
	help   help.Model
	width  int
	height int
}

func newBrowseModel(root *hierarchy.Root, pal palette.Palette, p *popup.Popup) *browseModel {
	m := &browseModel{
		root:     root,
		pal:      pal,
		popup:    p,
		expanded: map[hierarchy.TypeKey]bool{},
		list:     viewport.New(80, 20),
		keys:     defaultBrowseKeys,
		help:     help.New(),
		width:    80,
		height:   20 + browseChrome,
	}
	m.rebuild()
	return m
}

func (m *browseModel) Init() tea.Cmd { return nil }

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.Width = max(msg.Width-popupPanelWidth-1, 20)
		m.list.Height = max(msg.Height-browseChrome, 3)
		m.help.Width = msg.Width
		m.refresh()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Up):
			m.move(-1)
		case key.Matches(msg, m.keys.Down):
			m.move(1)
		case key.Matches(msg, m.keys.Select):
			m.selectRow()
		case key.Matches(msg, m.keys.Close):
			m.popup.Close()
		}
	}
	return m, nil
}

func (m *browseModel) move(delta int) {
	m.cursor = max(0, min(m.cursor+delta, len(m.rows)-1))
	m.refresh()
}

// selectRow toggles a group or shows the popup for a member.
func (m *browseModel) selectRow() {
	if len(m.rows) == 0 {
		return
	}
	row := m.rows[m.cursor]
	if row.member == nil {
		k := row.group.Key
		m.expanded[k] = !m.expanded[k]
		m.rebuild()
		return
	}
	m.popup.Show(row.member.Pokemon, m.anchor())
}

// anchor is the selected line as a box in list coordinates, one cell high.
func (m *browseModel) anchor() popup.Rect {
	return popup.Rect{
		Left:   4,
		Top:    float64(m.cursor - m.list.YOffset),
		Width:  float64(lipgloss.Width(m.rowText(m.cursor))),
		Height: 1,
	}
}

// rebuild flattens groups and expanded members into rows, keeping the
// cursor on the same group when possible.
func (m *browseModel) rebuild() {
	var current *hierarchy.TypeGroup
	if m.cursor < len(m.rows) {
		current = m.rows[m.cursor].group
	}
	m.rows = m.rows[:0]
	for _, g := range m.root.Groups() {
		if g == current {
			m.cursor = len(m.rows)
		}
		m.rows = append(m.rows, browseRow{group: g})
		if !m.expanded[g.Key] {
			continue
		}
		for _, leaf := range g.Members() {
			m.rows = append(m.rows, browseRow{group: g, member: leaf})
		}
	}
	m.move(0)
}

func (m *browseModel) scrollToCursor() {
	switch {
	case m.cursor < m.list.YOffset:
		m.list.SetYOffset(m.cursor)
	case m.cursor >= m.list.YOffset+m.list.Height:
		m.list.SetYOffset(m.cursor - m.list.Height + 1)
	}
}

func (m *browseModel) rowText(i int) string {
	row := m.rows[i]
	if row.member == nil {
		marker := "▸"
		if m.expanded[row.group.Key] {
			marker = "▾"
		}
		return fmt.Sprintf("%s %s %s", marker, typeBadge(row.group.Key, m.pal),
			StyleDim.Render(fmt.Sprintf("(%d)", len(row.group.Members()))))
	}
	p := row.member.Pokemon
	return fmt.Sprintf("    #%03d %s", p.Index, browseMemberStyle.Render(p.Name))
}

// refresh redraws the list lines and scrolls the cursor into view. The
// viewport clamps offsets against its content, so the content has to be
// current before scrolling.
func (m *browseModel) refresh() {
	lines := make([]string, len(m.rows))
	for i := range m.rows {
		line := m.rowText(i)
		if i == m.cursor {
			line = browseCursorStyle.Render("›") + line
		} else {
			line = " " + line
		}
		lines[i] = line
	}
	m.list.SetContent(strings.Join(lines, "\n"))
	m.scrollToCursor()
}

func (m *browseModel) View() string {
	body := m.list.View()
	if panel := m.popupPanel(); panel != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", panel)
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("PokéViz: First Generation by Type"))
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// popupPanel renders the popup beside the list. Its vertical position
// follows the same placement rule as the chart popup: below the selected
// line, or above it when it would run past the bottom edge.
func (m *browseModel) popupPanel() string {
	if !m.popup.Visible() {
		return ""
	}
	pt, _ := m.popup.Layout(
		popup.Size{Width: popupPanelWidth, Height: popupPanelHeight},
		popup.Viewport{Width: float64(m.width), Height: float64(m.list.Height)},
	)
	content := m.popup.Content()
	panel := browsePanelStyle.Render(strings.Join([]string{
		StyleTitle.Render(content.Name),
		StyleDim.Render(content.Stats),
		"",
		content.Description,
		"",
		StyleDim.Render("sprite " + content.Sprite),
	}, "\n"))
	top := max(int(pt.Top), 0)
	return strings.Repeat("\n", top) + panel
}
