package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/luskyqi1995/topobuilder/pkg/form"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listLayerStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorGray)
	listDetailStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// viewCommand creates the view command, an interactive browser over the SSEs
// of a case.
func (c *CLI) viewCommand() *cobra.Command {
	var caseFile string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse the layers of a case interactively",
		Long: `Browse the layers and secondary structures of a case interactively.

Navigate with the arrow keys or j/k, quit with q.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := form.Load(caseFile)
			if err != nil {
				return err
			}
			p := tea.NewProgram(newCaseModel(loaded))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&caseFile, "case", "c", "", "case file to browse (required)")
	_ = cmd.MarkFlagRequired("case")

	return cmd
}

// sseEntry is one selectable row of the browser.
type sseEntry struct {
	layer int
	sse   form.Structure
}

// caseModel is the bubbletea model for the case browser.
type caseModel struct {
	name    string
	entries []sseEntry
	cursor  int
}

func newCaseModel(c form.Case) caseModel {
	m := caseModel{name: c.Name()}
	for li, layer := range c.Topology.Architecture {
		for _, sse := range layer {
			m.entries = append(m.entries, sseEntry{layer: li, sse: sse})
		}
	}
	return m
}

func (m caseModel) Init() tea.Cmd {
	return nil
}

func (m caseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m caseModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Case "+m.name) + "\n\n")

	lastLayer := -1
	for i, e := range m.entries {
		if e.layer != lastLayer {
			b.WriteString(listLayerStyle.Render(fmt.Sprintf("Layer %c", 'A'+e.layer)) + "\n")
			lastLayer = e.layer
		}

		cursor := "  "
		style := listNormalStyle
		if i == m.cursor {
			cursor = listSelectedStyle.Render("> ")
			style = listSelectedStyle
		}
		b.WriteString(fmt.Sprintf("%s%s\n", cursor, style.Render(describeSSE(e.sse))))

		if i == m.cursor {
			for _, line := range sseDetails(e.sse) {
				b.WriteString("    " + listDetailStyle.Render(line) + "\n")
			}
		}
	}

	b.WriteString("\n" + listDetailStyle.Render("↑/↓ move · q quit") + "\n")
	return b.String()
}

func describeSSE(sse form.Structure) string {
	kind := "strand"
	if sse.Type == form.TypeHelix {
		kind = "helix"
	}
	return fmt.Sprintf("%-4s %s, %d residues", sse.ID, kind, sse.Length)
}

func sseDetails(sse form.Structure) []string {
	var lines []string
	if sse.Coordinates != nil {
		lines = append(lines, fmt.Sprintf("position  x=%.2f y=%.2f z=%.2f",
			sse.Coordinates.X, sse.Coordinates.Y, sse.Coordinates.Z))
	}
	if sse.Tilt != nil {
		lines = append(lines, fmt.Sprintf("tilt      x=%.1f y=%.1f z=%.1f",
			sse.Tilt.X, sse.Tilt.Y, sse.Tilt.Z))
	}
	if sse.Reference != "" {
		lines = append(lines, "reference "+sse.Reference)
	}
	if sse.Metadata != nil {
		if len(sse.Metadata.Atoms) > 0 {
			lines = append(lines, fmt.Sprintf("atoms     %d built", len(sse.Metadata.Atoms)))
		}
		if sse.Metadata.Motif != "" {
			lines = append(lines, "motif     "+sse.Metadata.Motif)
		}
	}
	if len(lines) == 0 {
		lines = append(lines, "relative placement, not yet cast")
	}
	return lines
}
