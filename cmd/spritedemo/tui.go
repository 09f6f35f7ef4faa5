package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/raster"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff6f3c"))
	frameStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.NormalBorder())
	currentStyle = frameStyle.Copy().
			BorderForeground(lipgloss.Color("#ff6f3c")).
			Bold(true)
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// session is shared by every copy of the model so the status sink can
// reach it.
type session struct {
	sprite *sprite.Sprite
	status string
	err    error
}

type timeline struct {
	*session
	width int
}

func runTimeline(width, height int) error {
	sess := &session{}
	s, err := sprite.NewWithLayer(raster.ModeRGBA, width, height,
		sprite.WithStatusSink(func(msg string) { sess.status = msg }),
	)
	if err != nil {
		return err
	}
	defer s.Release()
	sess.sprite = s

	s.Lock()
	err = paintFrame(s, 1)
	s.Unlock()
	if err != nil {
		return err
	}

	p := tea.NewProgram(timeline{session: sess}, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func (m timeline) Init() tea.Cmd {
	return nil
}

func (m timeline) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		s := m.sprite
		s.Lock()
		defer s.Unlock()

		m.err = nil
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "n":
			m.err = s.NewFrame()
		case "x":
			m.err = s.RemoveFrame(s.Frame())
		case "u":
			_, m.err = s.Undo()
		case "r":
			_, m.err = s.Redo()
		case "left", "h":
			if s.Frame() > 0 {
				m.err = s.SetFrame(s.Frame() - 1)
			}
		case "right", "l":
			if s.Frame() < s.Frames()-1 {
				m.err = s.SetFrame(s.Frame() + 1)
			}
		}
	}
	return m, nil
}

func (m timeline) View() string {
	s := m.sprite
	s.Lock()
	defer s.Unlock()

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s  %dx%d", s.Filename(), s.Width(), s.Height())))
	b.WriteString("\n\n")

	cells := make([]string, 0, s.Frames())
	for f := range s.Frames() {
		style := frameStyle
		if f == s.Frame() {
			style = currentStyle
		}
		cells = append(cells, style.Render(fmt.Sprintf("%d\n%dms", f+1, s.FrameDuration(f))))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	if m.width > 0 {
		row = lipgloss.NewStyle().MaxWidth(m.width).Render(row)
	}
	b.WriteString(row)
	b.WriteString("\n\n")

	undo, redo := "-", "-"
	if s.CanUndo() {
		undo = s.Journal().UndoLabel()
	}
	if s.CanRedo() {
		redo = s.Journal().RedoLabel()
	}
	b.WriteString(statusStyle.Render(fmt.Sprintf("undo: %s   redo: %s   memory: %d bytes", undo, redo, s.MemSize())))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n\n")
	b.WriteString(statusStyle.Render("n new frame · x remove · u undo · r redo · ←/→ frame · q quit"))
	return b.String()
}
