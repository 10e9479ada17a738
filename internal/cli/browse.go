package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/depscope/depscope/pkg/depgraph"
	"github.com/depscope/depscope/pkg/io"
)

// List styles.
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command, an interactive package list.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <graph.json>",
		Short: "Interactively browse the packages of a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := io.ImportJSON(args[0])
			if err != nil {
				return err
			}
			model := newBrowseModel(g)
			_, err = tea.NewProgram(model).Run()
			return err
		},
	}
}

// browseEntry is one row of the package list.
type browseEntry struct {
	pkg         depgraph.Package
	occurrences int
	pathCount   int // -1 when the graph is cyclic
}

// browseModel is the bubbletea model for the package browser.
type browseModel struct {
	root    depgraph.Package
	entries []browseEntry
	cursor  int
	height  int
	offset  int
}

func newBrowseModel(g *depgraph.Graph) browseModel {
	m := browseModel{
		root:   g.RootPackage().Pkg,
		height: 15,
	}
	cyclic := g.HasCycles()
	for _, info := range g.DependencyPackages() {
		entry := browseEntry{pkg: info.Pkg, pathCount: -1}
		if occ, err := g.OccurrencesOf(info.Pkg); err == nil {
			entry.occurrences = len(occ)
		}
		if !cyclic {
			if n, err := g.CountPathsToRoot(info.Pkg); err == nil {
				entry.pathCount = n
			}
		}
		m.entries = append(m.entries, entry)
	}
	return m
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.root.String()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.entries) {
		end = len(m.entries)
	}

	for i := m.offset; i < end; i++ {
		e := m.entries[i]

		cursor := "  "
		style := listNormalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}

		detail := fmt.Sprintf("%d occurrence(s)", e.occurrences)
		if e.pathCount >= 0 {
			detail += fmt.Sprintf(", %d path(s) to root", e.pathCount)
		}

		b.WriteString(cursor + style.Render(e.pkg.String()) + "  " + listDimStyle.Render(detail))
		b.WriteString("\n")
	}

	if len(m.entries) > m.height {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%d/%d packages", m.cursor+1, len(m.entries))))
	}
	return b.String()
}
