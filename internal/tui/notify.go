// ABOUTME: Toast notifications shown above the content pane
// ABOUTME: Gateway notifications and action results both become toasts

package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/hrms-console/internal/gateway"
	"github.com/markalston/hrms-console/internal/tui/icons"
	"github.com/markalston/hrms-console/internal/tui/styles"
)

// maxToasts is how many toasts are visible at once
const maxToasts = 3

// notifyMsg carries a gateway notification into the update loop
type notifyMsg gateway.Notification

// toastExpiredMsg removes one toast
type toastExpiredMsg struct {
	id int
}

type toast struct {
	id      int
	level   gateway.Level
	message string
}

// notify queues a toast and schedules its removal
func (a *App) notify(level gateway.Level, message string) tea.Cmd {
	if message == "" {
		return nil
	}
	a.nextToast++
	t := toast{id: a.nextToast, level: level, message: message}
	a.toasts = append(a.toasts, t)
	if len(a.toasts) > maxToasts {
		a.toasts = a.toasts[len(a.toasts)-maxToasts:]
	}
	return tea.Tick(a.notifyTimeout, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: t.id}
	})
}

func (a *App) expireToast(id int) {
	for i, t := range a.toasts {
		if t.id == id {
			a.toasts = append(a.toasts[:i], a.toasts[i+1:]...)
			return
		}
	}
}

// viewToasts renders the visible toasts, newest last
func (a *App) viewToasts() string {
	if len(a.toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(a.toasts))
	for _, t := range a.toasts {
		icon, color := toastLook(t.level)
		style := styles.Toast.Foreground(color)
		lines = append(lines, style.Render(icon.String()+" "+t.message))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func toastLook(level gateway.Level) (icons.Icon, lipgloss.Color) {
	switch level {
	case gateway.LevelSuccess:
		return icons.CheckOK, styles.Secondary
	case gateway.LevelWarning:
		return icons.Warning, styles.Warning
	case gateway.LevelError:
		return icons.Critical, styles.Danger
	default:
		return icons.Info, styles.Info
	}
}

