// ABOUTME: Header and footer frame around every TUI screen
// ABOUTME: Also holds the pane size calculations shared by the views

package tui

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/markalston/hrms-console/internal/tui/icons"
	"github.com/markalston/hrms-console/internal/tui/styles"
)

// frameWidth is the header and footer width. It stays one column short of
// the terminal to prevent wrapping, with a floor of minTerminalWidth.
func (a *App) frameWidth() int {
	return max(a.width-1, minTerminalWidth)
}

// showMenu reports whether the menu pane fits beside the content
func (a *App) showMenu() bool {
	return a.screen != ScreenLogin && a.width >= minTerminalWidth
}

// contentWidth is the width passed to the content panel
func (a *App) contentWidth() int {
	w := a.frameWidth() - 2
	if a.width >= minTerminalWidth {
		w -= menuPaneWidth + 2
	}
	return max(w, 20)
}

// innerWidth is the usable width inside the content panel
func (a *App) innerWidth() int {
	return a.contentWidth() - panelPadding
}

// contentHeight calculates the height available for panel content
func (a *App) contentHeight() int {
	// Total overhead:
	// - Header: 1 line
	// - Toast line(s) and newline after header
	// - Panel border+padding: 4 lines
	// - Newline before footer: 1 line
	// - Footer: 1 line
	return max(a.height-8-maxToasts, 5)
}

// renderHeader creates the header bar with app branding and context
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("HRMS Console"))

	// Right side shows who is signed in, and where
	rightText := ""
	if ctx := a.headerContext(); ctx != "" && a.screen != ScreenLogin {
		rightText = " " + contextStyle.Render(ctx) + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText) // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		rightText = ""
		fillWidth = max(width-4-lipgloss.Width(leftText), 0)
	}

	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

func (a *App) headerContext() string {
	host := a.apiURL
	if u, err := url.Parse(a.apiURL); err == nil && u.Host != "" {
		host = u.Host
	}
	user := a.session.User()
	if user == nil {
		return host
	}
	if host == "" {
		return user.Username
	}
	return user.Username + " @ " + host
}

// shortcuts lists the keyboard shortcuts for the current screen
func (a *App) shortcuts() []string {
	switch a.screen {
	case ScreenLogin:
		return []string{"Tab Next", "Enter Sign-in", "ctrl+c Quit"}
	case ScreenMenu:
		return []string{"↑↓ Navigate", "Enter Select", "Esc Back", "q Quit"}
	case ScreenDashboard:
		return []string{"r Refresh", "Tab Menu", "q Quit"}
	case ScreenList:
		return []string{"Enter View", "n New", "e Edit", "d Delete", "r Refresh", "Esc Menu"}
	case ScreenDetail:
		return []string{"e Edit", "d Delete", "r Reload", "Esc Back"}
	case ScreenForm:
		return []string{"Tab Next", "Enter Submit", "Esc Cancel"}
	case ScreenConfirm:
		return []string{"←→ Choose", "Enter Confirm", "Esc Cancel"}
	case ScreenProfile:
		return []string{"p Password", "Esc Menu", "q Quit"}
	}
	return nil
}

// lastUpdate is when the data on screen was last loaded
func (a *App) lastUpdate() time.Time {
	switch a.screen {
	case ScreenList, ScreenDetail:
		if a.current != nil {
			return a.current.UpdatedAt()
		}
	case ScreenDashboard, ScreenMenu:
		var latest time.Time
		for _, r := range a.resources {
			if t := r.UpdatedAt(); t.After(latest) {
				latest = t
			}
		}
		return latest
	}
	return time.Time{}
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	shortcuts := a.shortcuts()

	// Build styled shortcuts
	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}

	leftText := " " + strings.Join(styledShortcuts, "  ") + " "
	leftPlainText := " " + strings.Join(shortcuts, "  ") + " "

	// Right side status (last update time)
	rightText := ""
	rightPlainText := ""
	if t := a.lastUpdate(); !t.IsZero() {
		elapsed := humanize.Time(t)
		rightText = " " + statusStyle.Render("Updated "+elapsed) + " "
		rightPlainText = " Updated " + elapsed + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftPlainText) - lipgloss.Width(rightPlainText) // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		// Drop the status before the shortcuts
		rightText = ""
		fillWidth = max(width-4-lipgloss.Width(leftPlainText), 0)
	}

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"
	return borderStyle.Render(footer)
}

// wrapWithFrame wraps content with header, toasts, and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	if t := a.viewToasts(); t != "" {
		sb.WriteString(t)
		sb.WriteString("\n")
	}
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}
