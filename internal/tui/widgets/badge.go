// ABOUTME: Status badge widgets for quick visual status indication
// ABOUTME: Maps company, employee, and attendance statuses to colored badges

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/hrms-console/internal/client"
	"github.com/markalston/hrms-console/internal/tui/icons"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

// Badge colors
var (
	BadgeOKBg      = lipgloss.Color("#10B981")
	BadgeOKFg      = lipgloss.Color("#FFFFFF")
	BadgeWarnBg    = lipgloss.Color("#F59E0B")
	BadgeWarnFg    = lipgloss.Color("#000000")
	BadgeCritBg    = lipgloss.Color("#EF4444")
	BadgeCritFg    = lipgloss.Color("#FFFFFF")
	BadgeInfoBg    = lipgloss.Color("#3B82F6")
	BadgeInfoFg    = lipgloss.Color("#FFFFFF")
	BadgeNeutralBg = lipgloss.Color("#6B7280")
	BadgeNeutralFg = lipgloss.Color("#FFFFFF")
)

// Badge renders a colored status badge
func Badge(text string, level StatusLevel) string {
	var bg, fg lipgloss.Color

	switch level {
	case StatusOK:
		bg, fg = BadgeOKBg, BadgeOKFg
	case StatusWarning:
		bg, fg = BadgeWarnBg, BadgeWarnFg
	case StatusCritical:
		bg, fg = BadgeCritBg, BadgeCritFg
	case StatusInfo:
		bg, fg = BadgeInfoBg, BadgeInfoFg
	default:
		bg, fg = BadgeNeutralBg, BadgeNeutralFg
	}

	style := lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true)

	return style.Render(text)
}

// LevelForStatus maps a record status to a level. The backend echoes
// statuses in any case, so the match ignores case.
func LevelForStatus(status string) StatusLevel {
	switch {
	case strings.EqualFold(status, client.StatusActive), strings.EqualFold(status, client.AttendancePresent):
		return StatusOK
	case strings.EqualFold(status, client.AttendanceLate):
		return StatusWarning
	case strings.EqualFold(status, client.StatusTerminated), strings.EqualFold(status, client.AttendanceAbsent):
		return StatusCritical
	case strings.EqualFold(status, client.StatusInactive):
		return StatusNeutral
	case status == "":
		return StatusNeutral
	default:
		return StatusInfo
	}
}

// StatusBadge renders a record status as a badge. Company and employee
// statuses are shown upper-cased; attendance statuses keep their case.
func StatusBadge(status string) string {
	if status == "" {
		return Badge("--", StatusNeutral)
	}
	text := status
	switch {
	case strings.EqualFold(status, client.StatusActive),
		strings.EqualFold(status, client.StatusInactive),
		strings.EqualFold(status, client.StatusTerminated):
		text = strings.ToUpper(status)
	}
	return Badge(text, LevelForStatus(status))
}

// StatusSymbol returns an uncolored marker for a status, for use inside
// table cells where escape sequences would break column widths
func StatusSymbol(status string) string {
	if status == "" || status == "-" {
		return "-"
	}
	switch LevelForStatus(status) {
	case StatusOK:
		return icons.CheckOK.Fallback + " " + status
	case StatusWarning:
		return icons.Warning.Fallback + " " + status
	case StatusCritical:
		return icons.Critical.Fallback + " " + status
	default:
		return "• " + status
	}
}

// StatusIcon returns the appropriate icon for a status level
func StatusIcon(level StatusLevel) string {
	switch level {
	case StatusOK:
		return lipgloss.NewStyle().Foreground(BadgeOKBg).Render(icons.CheckOK.String())
	case StatusWarning:
		return lipgloss.NewStyle().Foreground(BadgeWarnBg).Render(icons.Warning.String())
	case StatusCritical:
		return lipgloss.NewStyle().Foreground(BadgeCritBg).Render(icons.Critical.String())
	case StatusInfo:
		return lipgloss.NewStyle().Foreground(BadgeInfoBg).Render(icons.Info.String())
	default:
		return lipgloss.NewStyle().Foreground(BadgeNeutralBg).Render("•")
	}
}

// StatusText returns styled status text with icon
func StatusText(text string, level StatusLevel) string {
	icon := StatusIcon(level)

	var color lipgloss.Color
	switch level {
	case StatusOK:
		color = BadgeOKBg
	case StatusWarning:
		color = BadgeWarnBg
	case StatusCritical:
		color = BadgeCritBg
	case StatusInfo:
		color = BadgeInfoBg
	default:
		color = BadgeNeutralBg
	}

	textStyle := lipgloss.NewStyle().Foreground(color)
	return fmt.Sprintf("%s %s", icon, textStyle.Render(text))
}
