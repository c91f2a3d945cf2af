// ABOUTME: Main navigation menu for the TUI
// ABOUTME: Lets the user pick a record screen, the profile, or log out

package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/hrms-console/internal/tui/icons"
	"github.com/markalston/hrms-console/internal/tui/styles"
)

// Item identifies a menu entry
type Item int

const (
	ItemDashboard Item = iota
	ItemCompanies
	ItemDepartments
	ItemEmployees
	ItemAttendance
	ItemProfile
	ItemPassword
	ItemLogout
)

// SelectedMsg is sent when the user picks an entry
type SelectedMsg struct {
	Item Item
}

type option struct {
	label string
	icon  icons.Icon
	value Item
}

// Menu is the navigation list
type Menu struct {
	options []option
	cursor  int
}

// New creates the navigation menu
func New() *Menu {
	return &Menu{
		options: []option{
			{label: "Dashboard", icon: icons.Gauge, value: ItemDashboard},
			{label: "Companies", icon: icons.Company, value: ItemCompanies},
			{label: "Departments", icon: icons.Department, value: ItemDepartments},
			{label: "Employees", icon: icons.Employee, value: ItemEmployees},
			{label: "Attendance", icon: icons.Attendance, value: ItemAttendance},
			{label: "Profile", icon: icons.User, value: ItemProfile},
			{label: "Change password", icon: icons.Lock, value: ItemPassword},
			{label: "Log out", icon: icons.Logout, value: ItemLogout},
		},
	}
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		return m, m.choose(m.cursor)
	default:
		// Digits jump straight to an entry
		if len(key.Runes) == 1 && key.Runes[0] >= '1' && key.Runes[0] <= '9' {
			i := int(key.Runes[0] - '1')
			if i < len(m.options) {
				m.cursor = i
				return m, m.choose(i)
			}
		}
	}
	return m, nil
}

func (m *Menu) choose(i int) tea.Cmd {
	item := m.options[i].value
	return func() tea.Msg { return SelectedMsg{Item: item} }
}

// Selected returns the entry under the cursor
func (m *Menu) Selected() Item {
	return m.options[m.cursor].value
}

// View implements tea.Model
func (m *Menu) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Settings.String() + " Menu"))
	sb.WriteString("\n")

	active := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	inactive := lipgloss.NewStyle().Foreground(styles.Text)
	for i, opt := range m.options {
		line := fmt.Sprintf("%d %s %s", i+1, opt.icon.String(), opt.label)
		if i == m.cursor {
			sb.WriteString(active.Render("> " + line))
		} else {
			sb.WriteString(inactive.Render("  " + line))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// String returns the string representation of an Item
func (i Item) String() string {
	switch i {
	case ItemDashboard:
		return "dashboard"
	case ItemCompanies:
		return "companies"
	case ItemDepartments:
		return "departments"
	case ItemEmployees:
		return "employees"
	case ItemAttendance:
		return "attendance"
	case ItemProfile:
		return "profile"
	case ItemPassword:
		return "password"
	case ItemLogout:
		return "logout"
	default:
		return "unknown"
	}
}
