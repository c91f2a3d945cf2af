// ABOUTME: Dashboard component summarizing the four domain stores
// ABOUTME: Shows record counts, today's attendance, and store errors

package dashboard

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/hrms-console/internal/client"
	"github.com/markalston/hrms-console/internal/store"
	"github.com/markalston/hrms-console/internal/tui/icons"
	"github.com/markalston/hrms-console/internal/tui/styles"
	"github.com/markalston/hrms-console/internal/tui/widgets"
)

// Summary is the data the dashboard renders
type Summary struct {
	User            string
	Companies       int
	ActiveCompanies int
	Departments     int
	Employees       int
	ActiveEmployees int
	Attendance      int
	// Today counts attendance statuses for the current date
	Today   map[string]int
	Loading bool
	Errors  []string
}

// Summarize builds a Summary from the registry. today is a YYYY-MM-DD date.
func Summarize(reg *store.Registry, user *client.User, today string) Summary {
	s := Summary{
		User:        user.DisplayName(),
		Companies:   reg.Companies.Len(),
		Departments: reg.Departments.Len(),
		Employees:   reg.Employees.Len(),
		Attendance:  reg.Attendance.Len(),
		Today:       map[string]int{},
	}
	for _, c := range reg.Companies.Items() {
		if strings.EqualFold(c.Status, client.StatusActive) {
			s.ActiveCompanies++
		}
	}
	for _, e := range reg.Employees.Items() {
		if strings.EqualFold(e.Status, client.StatusActive) {
			s.ActiveEmployees++
		}
	}
	for _, a := range reg.Attendance.Items() {
		if a.Date == today {
			s.Today[a.Status]++
		}
	}
	for _, r := range reg.All() {
		if r.Loading() {
			s.Loading = true
		}
		if msg := r.Err(); msg != "" {
			s.Errors = append(s.Errors, fmt.Sprintf("%s: %s", r.Name(), msg))
		}
	}
	return s
}

// Dashboard displays the store summary
type Dashboard struct {
	summary *Summary
	width   int
	height  int
}

// New creates a new dashboard
func New(summary *Summary, width, height int) *Dashboard {
	return &Dashboard{
		summary: summary,
		width:   width,
		height:  height,
	}
}

// Update replaces the summary
func (d *Dashboard) Update(summary *Summary) {
	d.summary = summary
}

// SetSize updates the dashboard dimensions
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// View renders the dashboard
func (d *Dashboard) View() string {
	if d.summary == nil {
		return styles.Panel.Width(d.width).Render("Loading records...")
	}
	s := d.summary

	var sb strings.Builder

	sb.WriteString(styles.Title.Render("Overview"))
	sb.WriteString("\n")
	if s.User != "" {
		sb.WriteString(styles.Subtitle.Render("Welcome, " + s.User))
		sb.WriteString("\n")
	}

	cfg := widgets.DefaultMetricBlockConfig()
	blocks := []string{
		widgets.CountBlock(icons.Company, "Companies", s.Companies, fmt.Sprintf("%d active", s.ActiveCompanies), cfg),
		widgets.CountBlock(icons.Department, "Departments", s.Departments, "across companies", cfg),
		widgets.CountBlock(icons.Employee, "Employees", s.Employees, fmt.Sprintf("%d active", s.ActiveEmployees), cfg),
		widgets.CountBlock(icons.Attendance, "Attendance", s.Attendance, "records", cfg),
	}
	// Two blocks per row unless the pane is wide enough for four
	perRow := 2
	if d.width >= 4*cfg.Width+4 {
		perRow = 4
	}
	for i := 0; i < len(blocks); i += perRow {
		end := min(i+perRow, len(blocks))
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, spaced(blocks[i:end])...))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString("Today's attendance\n")
	if len(s.Today) == 0 {
		sb.WriteString(styles.Subtitle.Render("  No attendance recorded today"))
		sb.WriteString("\n")
	} else {
		var parts []string
		for _, status := range []string{client.AttendancePresent, client.AttendanceLate, client.AttendanceAbsent} {
			if n := s.Today[status]; n > 0 {
				parts = append(parts, fmt.Sprintf("%s %d", widgets.StatusBadge(status), n))
			}
		}
		for _, status := range slices.Sorted(maps.Keys(s.Today)) {
			if status != client.AttendancePresent && status != client.AttendanceLate && status != client.AttendanceAbsent {
				parts = append(parts, fmt.Sprintf("%s %d", widgets.StatusBadge(status), s.Today[status]))
			}
		}
		sb.WriteString("  " + strings.Join(parts, "  "))
		sb.WriteString("\n")
	}

	if s.Loading {
		sb.WriteString("\n")
		sb.WriteString(widgets.StatusText("Refreshing...", widgets.StatusInfo))
		sb.WriteString("\n")
	}
	for _, e := range s.Errors {
		sb.WriteString("\n")
		sb.WriteString(widgets.StatusText(e, widgets.StatusCritical))
	}

	return lipgloss.NewStyle().
		Width(d.width).
		Height(d.height).
		Render(sb.String())
}

// spaced puts one column of padding after every block but the last
func spaced(blocks []string) []string {
	out := make([]string, 0, len(blocks))
	for i, b := range blocks {
		if i < len(blocks)-1 {
			b = lipgloss.NewStyle().PaddingRight(1).Render(b)
		}
		out = append(out, b)
	}
	return out
}
