package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tether/pkg/connection"
	"github.com/matzehuels/tether/pkg/geometry"
	"github.com/matzehuels/tether/pkg/pipeline"
	"github.com/matzehuels/tether/pkg/scene"
)

// inspectCommand creates the inspect command, an interactive browser of a
// scene's routed connections.
func (c *CLI) inspectCommand() *cobra.Command {
	var style string

	cmd := &cobra.Command{
		Use:   "inspect [scene]",
		Short: "Browse a scene's routed connections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, conns, err := c.loadConnections(ctx, args[0], style)
			if err != nil {
				return err
			}
			if len(conns) == 0 {
				printInfo("Scene has no links")
				return nil
			}

			p := tea.NewProgram(NewConnectionListModel(conns), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&style, "style", "", "default path style for links without one")
	return cmd
}

// loadConnections loads a scene and routes its links without caching.
func (c *CLI) loadConnections(ctx context.Context, path, style string) (*scene.Scene, []*connection.Connection, error) {
	s, err := scene.Load(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	conns, err := runner.Connect(ctx, s, c.pipelineOptions(renderOpts{style: style}))
	if err != nil {
		return nil, nil, err
	}
	return s, conns, nil
}

// List styles
var (
	listDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
	listHeadStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// ConnectionListModel - Interactive connection browser
// =============================================================================

// ConnectionListModel is the bubbletea model for browsing connections.
type ConnectionListModel struct {
	Conns    []*connection.Connection
	Cursor   int
	Height   int
	Offset   int
	Expanded bool
}

// NewConnectionListModel creates a new connection list model.
func NewConnectionListModel(conns []*connection.Connection) ConnectionListModel {
	return ConnectionListModel{Conns: conns, Height: 15}
}

func (m ConnectionListModel) Init() tea.Cmd {
	return nil
}

func (m ConnectionListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Conns)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			m.Expanded = !m.Expanded
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-12)
	}
	return m, nil
}

func (m ConnectionListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Connections"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Conns))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		c := m.Conns[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			endpointName(c.From) + " " + iconArrow + " " + endpointName(c.To),
			string(c.Options.Style),
			c.Outcome.String(),
			fmt.Sprintf("%d", len(c.Waypoints)),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Connection", "Style", "Outcome", "Points").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeadStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Conns) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 3 {
				base = outcomeStyle(m.Conns[idx].Outcome.String())
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Conns))))
	b.WriteString("\n")

	if m.Expanded && m.Cursor < len(m.Conns) {
		b.WriteString("\n")
		b.WriteString(connectionDetail(m.Conns[m.Cursor]))
	}
	return b.String()
}

// connectionDetail renders the selected connection's id, anchors and path.
func connectionDetail(c *connection.Connection) string {
	pts := make([]string, len(c.Waypoints))
	for i, p := range c.Waypoints {
		pts[i] = p.String()
	}
	lines := []string{
		StyleDim.Render("id        ") + StyleValue.Render(c.ID),
		StyleDim.Render("anchors   ") + StyleValue.Render(c.Start.String()+" "+iconArrow+" "+c.End.String()),
		StyleDim.Render("waypoints ") + StyleValue.Render(strings.Join(pts, " ")),
		StyleDim.Render("path      ") + StyleValue.Render(c.Handle.PathData),
	}
	return strings.Join(lines, "\n") + "\n"
}

func endpointName(p geometry.BoundsProvider) string {
	if n, ok := p.(geometry.Named); ok {
		return n.Name()
	}
	return p.Bounds().String()
}
