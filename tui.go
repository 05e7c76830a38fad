/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Seednode/teamswap/swap"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	cursorStyle    = lipgloss.NewStyle().Reverse(true)
	duplicateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	lockedStyle    = lipgloss.NewStyle().Faint(true)
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const tuiHelp = "↑/↓ row  ←/→ side  enter edit  space lock  s shuffle  c copy  x clear  r reset count  q quit"

// viewMsg carries a fresh tool view into the program.
type viewMsg swap.View

type tuiModel struct {
	tool  *swap.Tool
	views <-chan swap.View

	view    swap.View
	cursor  int
	side    swap.Side
	editing bool
	input   textinput.Model
	status  string
}

func newTUIModel(tool *swap.Tool, views <-chan swap.View) tuiModel {
	input := textinput.New()
	input.CharLimit = 64

	return tuiModel{
		tool:  tool,
		views: views,
		view:  tool.View(),
		side:  swap.Left,
		input: input,
	}
}

// latestView returns a subscriber that keeps only the newest view in
// views, replacing one the program has not picked up yet.
func latestView(views chan swap.View) func(swap.View) {
	var mu sync.Mutex

	return func(v swap.View) {
		mu.Lock()
		defer mu.Unlock()

		select {
		case <-views:
		default:
		}
		views <- v
	}
}

func waitForView(views <-chan swap.View) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-views
		if !ok {
			return nil
		}
		return viewMsg(v)
	}
}

func (m tuiModel) Init() tea.Cmd {
	return waitForView(m.views)
}

func (m tuiModel) selected() string {
	if m.cursor >= len(m.view.Values) {
		return ""
	}
	if m.side == swap.Left {
		return m.view.Values[m.cursor].Left
	}
	return m.view.Values[m.cursor].Right
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewMsg:
		m.view = swap.View(msg)
		return m, waitForView(m.views)

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}

	return m, nil
}

func (m tuiModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.editing = false
		m.input.Blur()
		if err := m.tool.SetValue(m.cursor, m.side, m.input.Value()); err != nil {
			m.status = err.Error()
		}
		return m, nil
	case tea.KeyEscape:
		m.editing = false
		m.input.Blur()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m tuiModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	rows := len(m.view.Values)

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < rows-1 {
			m.cursor++
		}
	case "left", "h":
		m.side = swap.Left
	case "right", "l":
		m.side = swap.Right
	case "enter", "e":
		if m.view.Shuffling {
			m.status = "섞는 중에는 편집할 수 없습니다."
			break
		}
		m.editing = true
		m.input.SetValue(m.selected())
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd
	case " ":
		if m.cursor < len(m.view.Locks) {
			if err := m.tool.SetLock(m.cursor, !m.view.Locks[m.cursor]); err != nil {
				m.status = err.Error()
			}
		}
	case "s":
		if !m.tool.Shuffle() {
			m.status = "이미 섞는 중입니다."
		}
	case "c":
		m.tool.Copy(systemClipboard)
	case "x":
		m.tool.ClearMembers()
	case "r":
		m.tool.ResetCount()
	}

	return m, nil
}

func (m tuiModel) cell(index int, side swap.Side, name, fallback string, width int) string {
	text := strings.TrimSpace(name)
	style := lipgloss.NewStyle()

	switch {
	case text == "":
		text = fallback
		style = helpStyle
	case side == swap.Left && m.view.Duplicates[index].Left,
		side == swap.Right && m.view.Duplicates[index].Right:
		style = duplicateStyle
	}

	if m.view.Locks[index] {
		style = style.Inherit(lockedStyle)
	}

	if index == m.cursor && side == m.side {
		if m.editing {
			return m.input.View()
		}
		style = style.Inherit(cursorStyle)
	}

	return style.Render(runewidth.FillRight(text, width))
}

func (m tuiModel) View() string {
	var b strings.Builder

	c := m.view.Config

	fmt.Fprintf(&b, "%s  %s\n", titleStyle.Render(c.Title), helpStyle.Render(fmt.Sprintf("섞은 횟수 %d", m.view.ShuffleCount)))
	if c.LockGuide != "" {
		b.WriteString(helpStyle.Render(c.LockGuide) + "\n")
	}
	b.WriteString("\n")

	labelWidth, nameWidth := 0, runewidth.StringWidth(c.LeftFallback)
	for i, row := range c.Rows {
		labelWidth = max(labelWidth, runewidth.StringWidth(row))
		if i < len(m.view.Values) {
			nameWidth = max(nameWidth,
				runewidth.StringWidth(strings.TrimSpace(m.view.Values[i].Left)),
				runewidth.StringWidth(strings.TrimSpace(m.view.Values[i].Right)))
		}
	}
	nameWidth = max(nameWidth, runewidth.StringWidth(c.RightFallback))

	for i, pair := range m.view.Values {
		label := runewidth.FillRight(c.Rows[i], labelWidth)
		if m.view.Locks[i] {
			label = lockedStyle.Render(label + " 🔒")
		} else {
			label += "   "
		}

		fmt.Fprintf(&b, "%s  %s  ⇄  %s\n",
			label,
			m.cell(i, swap.Left, pair.Left, c.LeftFallback, nameWidth),
			m.cell(i, swap.Right, pair.Right, c.RightFallback, nameWidth),
		)
	}

	b.WriteString("\n")

	switch {
	case m.view.Shuffling:
		b.WriteString(noticeStyle.Render("섞는 중...") + "\n")
	case m.view.Notice != "":
		b.WriteString(noticeStyle.Render(m.view.Notice) + "\n")
	case m.status != "":
		b.WriteString(warningStyle.Render(m.status) + "\n")
	default:
		b.WriteString("\n")
	}

	if m.view.HasDuplicates {
		b.WriteString(warningStyle.Render("중복된 이름이 있습니다.") + "\n")
	}

	b.WriteString(helpStyle.Render(tuiHelp) + "\n")

	return b.String()
}

func newTUICmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "tui <tool>",
		Short: "Edit and shuffle a tool in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTool(cfg, nil, args[0], func(tool *swap.Tool) error {
				views := make(chan swap.View, 1)

				unsubscribe := tool.Subscribe(latestView(views))
				defer unsubscribe()

				program := tea.NewProgram(
					newTUIModel(tool, views),
					tea.WithAltScreen(),
					tea.WithContext(cmd.Context()),
				)

				if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
					return err
				}
				return nil
			})
		},
	}
}
