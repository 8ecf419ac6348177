package tui

import (
	"fmt"
	"strings"

	"github.com/kittenwhisky/yoto-maker/internal/download"
)

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("♫ Yoto Card Maker"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Turn YouTube playlists into MP3 folders"))
	b.WriteString("\n\n")

	switch m.state {
	case StateMenu:
		b.WriteString(m.viewMenu())
	case StateInput:
		b.WriteString(m.viewInput())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) viewMenu() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("What would you like to do?"))
	b.WriteString("\n\n")
	for i, item := range menuItems {
		line := fmt.Sprintf("%d) %s", i+1, item.Label)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("› " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(infoStyle.Render(menuItems[m.cursor].Label))
	b.WriteString("\n\n")

	for i, answer := range m.answers {
		b.WriteString(dimStyle.Render(fmt.Sprintf("%s %s", m.prompts[i].Label, answer)))
		b.WriteString("\n")
	}

	p := m.prompts[len(m.answers)]
	b.WriteString(subtitleStyle.Render(p.Label))
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n")
	if m.invalid != "" {
		b.WriteString(errorStyle.Render(m.invalid))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	if m.manager != nil {
		b.WriteString(subtitleStyle.Render("Downloading tracks..."))
		b.WriteString("\n\n")

		var percent float64
		if m.total > 0 {
			percent = float64(m.processed) / float64(m.total)
		}
		b.WriteString(m.progress.ViewAs(percent))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf("Tracks: %d/%d | Failed: %d", m.processed, m.total, m.failed)))
	} else {
		b.WriteString(subtitleStyle.Render("Fetching playlist info..."))
	}
	b.WriteString("\n\n")

	logs := m.logs
	if len(logs) > maxVisibleLogs {
		logs = logs[len(logs)-maxVisibleLogs:]
	}
	b.WriteString(renderLogs(logs))

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	b.WriteString(boxStyle.Render("✨ Done!\n\n" + m.result))
	b.WriteString("\n\n")
	if m.manager != nil {
		b.WriteString(renderLogs(m.logs))
	}
	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

func renderLogs(logs []LogEntry) string {
	var b strings.Builder

	for _, log := range logs {
		style := dimStyle
		switch log.Level {
		case download.LevelError:
			style = errorStyle
		case download.LevelWarning:
			style = warningStyle
		case download.LevelSuccess:
			style = successStyle
		case download.LevelInfo:
			style = infoStyle
		}
		b.WriteString(style.Render(log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateMenu:
		return "↑/↓: move • enter: select • q: quit"
	case StateInput:
		return "enter: confirm • esc: back"
	case StateRunning:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: main menu • q: quit"
	}
	return ""
}
