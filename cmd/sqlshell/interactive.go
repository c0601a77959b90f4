package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/sqlite-bridge/engine"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// maxRows caps how many rows of one result the shell keeps on screen.
const maxRows = 20

type shellModel struct {
	conn   *engine.Conn
	dbPath string
	input  textinput.Model
	output []string
	err    error
}

type resultMsg struct {
	err   error
	lines []string
}

func newShellModel(conn *engine.Conn, dbPath string) *shellModel {
	ti := textinput.New()
	ti.Placeholder = "SELECT regex_match('^a', w) FROM words;"
	ti.Prompt = "sql> "
	ti.Focus()
	ti.CharLimit = 0
	ti.Width = 80

	return &shellModel{
		conn:   conn,
		dbPath: dbPath,
		input:  ti,
	}
}

func (m *shellModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			sql := strings.TrimSpace(m.input.Value())
			if sql == "" {
				return m, nil
			}
			m.input.SetValue("")
			return m, m.runQuery(sql)
		}
	case resultMsg:
		m.err = msg.err
		m.output = msg.lines
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *shellModel) runQuery(sql string) tea.Cmd {
	return func() tea.Msg {
		names, err := m.conn.Columns(sql)
		if err != nil {
			return resultMsg{err: err}
		}
		if len(names) == 0 {
			if err := m.conn.Exec(sql); err != nil {
				return resultMsg{err: err}
			}
			return resultMsg{lines: []string{"ok"}}
		}

		lines := []string{headerStyle.Render(strings.Join(names, " | "))}
		rows := 0
		err = m.conn.Query(sql, func(cols []string) bool {
			rows++
			if rows > maxRows {
				return false
			}
			lines = append(lines, strings.Join(cols, " | "))
			return true
		})
		if err != nil {
			return resultMsg{err: err}
		}
		if rows > maxRows {
			lines = append(lines, helpStyle.Render(fmt.Sprintf("... %d more rows", rows-maxRows)))
		}
		return resultMsg{lines: lines}
	}
}

func (m *shellModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("sqlshell " + m.dbPath))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n\n")
	} else if len(m.output) > 0 {
		b.WriteString(resultStyle.Render(strings.Join(m.output, "\n")))
		b.WriteString("\n\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter: run  •  esc: quit"))
	b.WriteString("\n")

	return b.String()
}

func runInteractive(conn *engine.Conn, dbPath string) error {
	p := tea.NewProgram(newShellModel(conn, dbPath))
	_, err := p.Run()
	return err
}
