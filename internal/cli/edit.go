package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaohuangguan/orion-voice2map/pkg/board"
	"github.com/yaohuangguan/orion-voice2map/pkg/canvas"
	"github.com/yaohuangguan/orion-voice2map/pkg/canvas/layout"
	"github.com/yaohuangguan/orion-voice2map/pkg/mindmap"
)

// editCommand creates the edit command: an interactive outline editor over
// the live board state.
func (c *CLI) editCommand() *cobra.Command {
	var (
		output    string
		policyStr string
	)

	cmd := &cobra.Command{
		Use:   "edit [tree.json]",
		Short: "Edit a mind map interactively in the terminal",
		Long: `Edit a mind map interactively in the terminal.

Keys:
  up/k, down/j   move cursor
  a              add a child under the cursor
  r              rename the node under the cursor
  d              delete the node under the cursor (and its subtree)
  c              cycle the node's category
  p              cycle the layout policy
  s              save
  q              quit

Edits mutate the live graph state; saving reconstructs the canonical tree
and writes it back to the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(args[0], output, policyStr)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().StringVarP(&policyStr, "policy", "p", string(layout.PolicyHorizontal), "layout policy: horizontal, vertical, radial")

	return cmd
}

func (c *CLI) runEdit(input, output, policyStr string) error {
	policy, err := layout.ParsePolicy(policyStr)
	if err != nil {
		return err
	}
	root, err := readTreeFile(input)
	if err != nil {
		return err
	}

	b := board.New(c.Logger)
	if err := b.Load(root, policy); err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = input
	}

	model := newEditorModel(b, outputPath)
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("run editor: %w", err)
	}

	if m, ok := final.(editorModel); ok {
		if m.fatal != nil {
			return m.fatal
		}
		if m.dirty {
			printWarning("Unsaved changes discarded")
		} else if m.savedOnce {
			printSuccess("Saved")
			printFile(outputPath)
		}
	}
	return nil
}

// editRow is one visible line of the outline: a preorder walk entry.
type editRow struct {
	id       string
	label    string
	depth    int
	category mindmap.Category
}

type editorMode int

const (
	modeBrowse editorMode = iota
	modeAddChild
	modeRename
)

// categoryCycle is the order the 'c' key steps through.
var categoryCycle = []mindmap.Category{
	"", mindmap.CategoryIdea, mindmap.CategoryTask, mindmap.CategoryQuestion, mindmap.CategoryFact,
}

// policyCycle is the order the 'p' key steps through.
var policyCycle = []layout.Policy{
	layout.PolicyHorizontal, layout.PolicyVertical, layout.PolicyRadial,
}

// editorModel is the bubbletea model for the outline editor. All tree
// mutations go through the board; the model only holds view state.
type editorModel struct {
	board *board.Board
	path  string

	rows   []editRow
	cursor int

	mode  editorMode
	input string

	status    string
	dirty     bool
	savedOnce bool
	fatal     error
}

func newEditorModel(b *board.Board, path string) editorModel {
	m := editorModel{board: b, path: path}
	m.refresh()
	return m
}

// refresh rebuilds the visible rows from the board's canonical tree.
func (m *editorModel) refresh() {
	root, err := m.board.Tree()
	if err != nil {
		m.fatal = err
		m.rows = nil
		return
	}

	type frame struct {
		node  *mindmap.Node
		depth int
	}
	m.rows = m.rows[:0]
	stack := []frame{{root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		m.rows = append(m.rows, editRow{
			id:       f.node.ID,
			label:    f.node.Label,
			depth:    f.depth,
			category: f.node.Category,
		})
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.node.Children[i], f.depth + 1})
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.fatal != nil {
		return m, tea.Quit
	}
	if m.mode != modeBrowse {
		return m.updateInput(key)
	}
	return m.updateBrowse(key)
}

func (m editorModel) updateBrowse(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case "a":
		m.mode = modeAddChild
		m.input = ""

	case "r":
		m.mode = modeRename
		m.input = m.current().label

	case "d":
		if m.cursor == 0 {
			m.status = "cannot delete the root"
			break
		}
		if err := m.board.Delete(m.current().id); err != nil {
			m.status = err.Error()
			break
		}
		m.dirty = true
		m.refresh()

	case "c":
		row := m.current()
		next := categoryCycle[0]
		for i, cat := range categoryCycle {
			if cat == row.category {
				next = categoryCycle[(i+1)%len(categoryCycle)]
				break
			}
		}
		if err := m.board.SetCategory(row.id, next); err != nil {
			m.status = err.Error()
			break
		}
		m.dirty = true
		m.refresh()

	case "p":
		current := m.board.Snapshot().Policy
		next := policyCycle[0]
		for i, p := range policyCycle {
			if p == current {
				next = policyCycle[(i+1)%len(policyCycle)]
				break
			}
		}
		m.board.SetPolicy(next)
		m.dirty = true
		m.status = fmt.Sprintf("layout: %s", next)

	case "s":
		root, err := m.board.Tree()
		if err != nil {
			m.status = err.Error()
			break
		}
		if err := writeTreeFile(root, m.path); err != nil {
			m.status = err.Error()
			break
		}
		m.dirty = false
		m.savedOnce = true
		m.status = "saved"
	}
	return m, nil
}

func (m editorModel) updateInput(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEscape:
		m.mode = modeBrowse
		m.input = ""

	case tea.KeyEnter:
		label := m.input
		m.input = ""
		mode := m.mode
		m.mode = modeBrowse
		if label == "" {
			m.status = "label cannot be empty"
			break
		}
		var err error
		switch mode {
		case modeAddChild:
			_, err = m.board.AddChild(m.current().id, label)
		case modeRename:
			err = m.board.Relabel(m.current().id, label)
		}
		if err != nil {
			m.status = err.Error()
			break
		}
		m.dirty = true
		m.refresh()

	case tea.KeyBackspace:
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}

	case tea.KeySpace:
		m.input += " "

	case tea.KeyRunes:
		m.input += string(key.Runes)
	}
	return m, nil
}

func (m editorModel) current() editRow {
	if len(m.rows) == 0 {
		return editRow{}
	}
	return m.rows[m.cursor]
}

// Editor row styles.
var (
	editSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	editNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	editDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

func (m editorModel) View() string {
	if m.fatal != nil {
		return "error: " + m.fatal.Error() + "\n"
	}

	var b []byte
	b = append(b, StyleTitle.Render("voice2map — "+m.path)...)
	if m.dirty {
		b = append(b, StyleWarning.Render(" *")...)
	}
	b = append(b, '\n')
	b = append(b, editDimStyle.Render("↑/↓ move  a add  r rename  d delete  c category  p layout  s save  q quit")...)
	b = append(b, '\n', '\n')

	for i, row := range m.rows {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		indent := ""
		for range row.depth {
			indent += "  "
		}

		line := cursor + indent + row.label
		if row.category != "" {
			tag := lipgloss.NewStyle().
				Foreground(lipgloss.Color(canvas.ResolveColor(nil, row.category))).
				Render(" [" + string(row.category) + "]")
			line += tag
		}

		if i == m.cursor {
			b = append(b, editSelectedStyle.Render(line)...)
		} else {
			b = append(b, editNormalStyle.Render(line)...)
		}
		b = append(b, '\n')
	}

	b = append(b, '\n')
	switch m.mode {
	case modeAddChild:
		b = append(b, ("new child: " + m.input + "▌")...)
	case modeRename:
		b = append(b, ("rename: " + m.input + "▌")...)
	default:
		if m.status != "" {
			b = append(b, editDimStyle.Render(m.status)...)
		}
	}
	b = append(b, '\n')

	return string(b)
}
