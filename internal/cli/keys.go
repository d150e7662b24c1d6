package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kbforge/klegen/pkg/errors"
	"github.com/kbforge/klegen/pkg/kle"
	"github.com/kbforge/klegen/pkg/pipeline"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// keysCommand creates the keys command.
func (c *CLI) keysCommand() *cobra.Command {
	var opts pipeline.Options
	var plain bool

	cmd := &cobra.Command{
		Use:   "keys <layout.json>",
		Short: "Browse the parsed keys and their matrix positions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			opts.Logger = c.Logger

			runner := pipeline.NewRunner(c.Logger)
			result, err := runner.Analyze(cmd.Context(), &opts)
			if err != nil {
				printError("%s", errors.UserMessage(err))
				return err
			}

			if plain {
				fmt.Println(keyTable(result.Keyboard.Keys, -1, 0, len(result.Keyboard.Keys)))
				return nil
			}

			model := NewKeyListModel(result.Keyboard.Keys)
			program := tea.NewProgram(model, tea.WithContext(cmd.Context()))
			_, err = program.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&opts.Policy, "columns", "", `column assignment: "seq" or "pos" (default "seq")`)
	cmd.Flags().BoolVar(&plain, "plain", false, "print the key table without the interactive browser")

	return cmd
}

// =============================================================================
// KeyListModel - Interactive key browser
// =============================================================================

// KeyListModel is the bubbletea model for browsing parsed keys.
type KeyListModel struct {
	Keys   []*kle.Key
	Cursor int
	Height int
	Offset int
}

// NewKeyListModel creates a new key list model.
func NewKeyListModel(keys []*kle.Key) KeyListModel {
	return KeyListModel{
		Keys:   keys,
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m KeyListModel) Init() tea.Cmd {
	return nil
}

func (m KeyListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Keys)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m KeyListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Keys"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	b.WriteString(keyTable(m.Keys, m.Cursor, m.Offset, m.Height))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Keys))))

	return b.String()
}

// keyTable renders a window of the key list as a bordered table. A cursor
// of -1 disables highlighting.
func keyTable(keys []*kle.Key, cursor, offset, height int) string {
	end := offset + height
	if end > len(keys) {
		end = len(keys)
	}

	rows := [][]string{}
	for i := offset; i < end; i++ {
		k := keys[i]

		marker := "  "
		if i == cursor {
			marker = "▸ "
		}

		rows = append(rows, []string{
			marker,
			strconv.Itoa(k.Index),
			k.Legend,
			formatUnits(k.XUnit),
			formatUnits(k.YUnit),
			formatUnits(k.Width),
			strconv.Itoa(k.Row),
			strconv.Itoa(k.Col),
			strconv.Itoa(k.DiodeNet),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Legend", "X", "Y", "W", "Row", "Col", "Net").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if offset+row == cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	return t.Render()
}

// formatUnits renders a key-unit value without trailing zeros.
func formatUnits(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
