// ABOUTME: View functions for each TUI screen
// ABOUTME: Lays out the menu pane beside the focused content panel

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/markalston/hrms-console/internal/present"
	"github.com/markalston/hrms-console/internal/tui/icons"
	"github.com/markalston/hrms-console/internal/tui/styles"
	"github.com/markalston/hrms-console/internal/tui/widgets"
)

// View implements tea.Model
func (a *App) View() string {
	if a.screen == ScreenLogin {
		return a.wrapWithFrame(a.viewLogin())
	}

	shown := a.screen
	if shown == ScreenMenu {
		shown = a.content
	}
	var content string
	switch shown {
	case ScreenList:
		content = a.viewList()
	case ScreenDetail:
		content = a.viewDetail()
	case ScreenForm:
		content = a.viewForm()
	case ScreenConfirm:
		content = a.viewConfirm()
	case ScreenProfile:
		content = a.viewProfile()
	default:
		content = a.dashboard.View()
	}

	panel := styles.ActivePanel
	if a.screen == ScreenMenu {
		panel = styles.Panel
	}
	right := panel.Width(a.contentWidth()).Render(content)
	if !a.showMenu() {
		if a.screen == ScreenMenu {
			return a.wrapWithFrame(styles.ActivePanel.Render(a.menu.View()))
		}
		return a.wrapWithFrame(right)
	}

	menuPanel := styles.Panel
	if a.screen == ScreenMenu {
		menuPanel = styles.ActivePanel
	}
	left := menuPanel.Width(menuPaneWidth).Render(a.menu.View())

	// Join panes side by side
	return a.wrapWithFrame(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
}

// viewLogin renders the sign-in form
func (a *App) viewLogin() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Lock.String() + " Sign in"))
	sb.WriteString("\n")
	if a.apiURL != "" {
		sb.WriteString(styles.Subtitle.Render(a.apiURL))
		sb.WriteString("\n")
	}
	sb.WriteString(a.viewFormBody("Signing in..."))

	return styles.ActivePanel.Width(min(a.contentWidth(), 60)).Render(sb.String())
}

// viewForm renders the open editor
func (a *App) viewForm() string {
	return a.viewFormBody("Saving...")
}

func (a *App) viewFormBody(busy string) string {
	var sb strings.Builder
	if a.form != nil {
		sb.WriteString(a.form.View())
	}
	for _, e := range a.formErrs {
		sb.WriteString("\n")
		sb.WriteString(styles.FieldError.Render(icons.Critical.String() + " " + e))
	}
	if a.submitting {
		sb.WriteString("\n\n")
		sb.WriteString(a.spinner.View() + " " + busy)
	}
	return sb.String()
}

// viewList renders the current resource's table
func (a *App) viewList() string {
	if a.current == nil {
		return ""
	}
	var sb strings.Builder

	title := fmt.Sprintf("%s %s", a.current.Icon().String(), a.current.Title())
	if a.current.Loading() {
		title += " " + a.spinner.View()
	}
	sb.WriteString(styles.Title.Render(title))
	sb.WriteString("\n")

	if msg := a.current.Err(); msg != "" {
		sb.WriteString(widgets.StatusText(msg, widgets.StatusCritical))
		sb.WriteString("\n\n")
	}

	if len(a.table.Rows()) == 0 {
		if a.current.Loading() {
			sb.WriteString(styles.Subtitle.Render("Loading..."))
		} else {
			sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("No %s found. Press n to add one.", strings.ToLower(a.current.Title()))))
		}
		return sb.String()
	}

	sb.WriteString(a.table.View())
	return sb.String()
}

// viewDetail renders one record
func (a *App) viewDetail() string {
	if a.current == nil {
		return ""
	}
	var sb strings.Builder

	title := fmt.Sprintf("%s %s #%d", a.current.Icon().String(), a.current.Singular(), a.detailID)
	sb.WriteString(styles.Title.Render(title))
	if a.detailStatus != "" {
		sb.WriteString("  " + widgets.StatusBadge(a.detailStatus))
	}
	sb.WriteString("\n")

	switch {
	case a.detailErr != "":
		sb.WriteString(widgets.StatusText(a.detailErr, widgets.StatusCritical))
	case a.detail == nil:
		sb.WriteString(a.spinner.View() + " Loading...")
	default:
		sb.WriteString(viewFields(a.detail))
	}
	return sb.String()
}

// viewConfirm renders the delete confirmation
func (a *App) viewConfirm() string {
	if a.confirm == nil {
		return ""
	}
	return styles.Title.Render(icons.Delete.String()+" Confirm delete") + "\n" + a.confirm.View()
}

// viewProfile renders the signed-in user
func (a *App) viewProfile() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.User.String() + " Profile"))
	sb.WriteString("\n")

	user := a.session.User()
	if user == nil {
		sb.WriteString(styles.Subtitle.Render("Not logged in."))
		return sb.String()
	}
	sb.WriteString(viewFields(present.UserFields(user)))
	sb.WriteString("\n")

	if exp := a.session.Current().ExpiresAt; !exp.IsZero() {
		sb.WriteString("\n")
		sb.WriteString(styles.Subtitle.Render("Session expires " + humanize.Time(exp)))
	}
	sb.WriteString("\n")
	sb.WriteString(styles.KeyStyle.Render("p") + " " + styles.Subtitle.Render("Change password"))
	return sb.String()
}

// viewFields aligns labels and values in two columns
func viewFields(fields []present.Field) string {
	width := 0
	for _, f := range fields {
		width = max(width, lipgloss.Width(f.Label))
	}
	label := lipgloss.NewStyle().Foreground(styles.Muted).Width(width + 2)

	lines := make([]string, len(fields))
	for i, f := range fields {
		lines[i] = label.Render(f.Label) + styles.ValueStyle.Render(f.Value)
	}
	return strings.Join(lines, "\n")
}
