// Package tui implements the in-process modal editor surface: a
// full-screen textarea used when no terminal multiplexer is available to
// host an external editor pane.
package tui

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
)

// EditorSurface runs modal edits on the controlling terminal.
type EditorSurface struct{}

// NewEditorSurface returns a surface bound to the process terminal.
func NewEditorSurface() *EditorSurface {
	return &EditorSurface{}
}

// Available reports whether stdin and stdout are attached to a terminal.
func (s *EditorSurface) Available() bool {
	for _, f := range []*os.File{os.Stdin, os.Stdout} {
		info, err := f.Stat()
		if err != nil || info.Mode()&os.ModeCharDevice == 0 {
			return false
		}
	}
	return true
}

// EditText opens the modal editor over the given text and blocks until
// the user accepts (ctrl+s) or declines (esc).
func (s *EditorSurface) EditText(ctx context.Context, text, purpose string) (string, bool, error) {
	p := tea.NewProgram(newEditorModel(text, purpose), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return "", false, errors.Wrap(err, "modal editor failed")
	}

	m, ok := final.(editorModel)
	if !ok {
		return "", false, errors.New("unexpected final editor model")
	}
	return m.textarea.Value(), m.accepted, nil
}

// editorModel is the bubbletea model behind the modal editor.
type editorModel struct {
	textarea   textarea.Model
	purpose    string
	accepted   bool
	width      int
	height     int
	titleStyle lipgloss.Style
	helpStyle  lipgloss.Style
}

func newEditorModel(text, purpose string) editorModel {
	ta := textarea.New()
	ta.SetValue(text)
	ta.Focus()
	ta.ShowLineNumbers = true
	ta.KeyMap.InsertNewline.SetEnabled(true)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()

	return editorModel{
		textarea:   ta,
		purpose:    purpose,
		titleStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		helpStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

func (m editorModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlS:
			m.accepted = true
			return m, tea.Quit
		case tea.KeyEsc:
			m.accepted = false
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textarea.SetWidth(msg.Width)
		if msg.Height > 4 {
			m.textarea.SetHeight(msg.Height - 4)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m editorModel) View() string {
	title := "Edit"
	if m.purpose != "" {
		title = "Edit: " + m.purpose
	}

	var sb strings.Builder
	sb.WriteString(m.titleStyle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(m.textarea.View())
	sb.WriteString("\n")
	sb.WriteString(m.helpStyle.Render("ctrl+s save · esc discard"))
	return sb.String()
}
