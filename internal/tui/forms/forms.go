// ABOUTME: huh forms for login, password change, and the four record types
// ABOUTME: Forms bind directly to request structs; validation runs on submit

package forms

import (
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/markalston/hrms-console/internal/client"
	"github.com/markalston/hrms-console/internal/tui/styles"
)

var genderOptions = []huh.Option[string]{
	huh.NewOption("Male", "Male"),
	huh.NewOption("Female", "Female"),
	huh.NewOption("Other", "Other"),
}

var companyStatusOptions = []huh.Option[string]{
	huh.NewOption("Active", client.StatusActive),
	huh.NewOption("Inactive", client.StatusInactive),
}

var employeeStatusOptions = []huh.Option[string]{
	huh.NewOption("Active", client.StatusActive),
	huh.NewOption("Inactive", client.StatusInactive),
	huh.NewOption("Terminated", client.StatusTerminated),
}

var attendanceStatusOptions = []huh.Option[string]{
	huh.NewOption("Present", client.AttendancePresent),
	huh.NewOption("Absent", client.AttendanceAbsent),
	huh.NewOption("Late", client.AttendanceLate),
}

const dateHint = "YYYY-MM-DD"

// Login builds the sign-in form
func Login(creds *client.Credentials) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&creds.Username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&creds.Password),
		).Title("Sign in").
			Description("Log in to the HRMS console"),
	).WithTheme(styles.Theme()).WithShowHelp(false)
}

// Password builds the change-password form
func Password(change *client.PasswordChange) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Current password").
				EchoMode(huh.EchoModePassword).
				Value(&change.OldPassword),
			huh.NewInput().
				Title("New password").
				EchoMode(huh.EchoModePassword).
				Value(&change.NewPassword),
			huh.NewInput().
				Title("Confirm new password").
				EchoMode(huh.EchoModePassword).
				Value(&change.ConfirmPassword),
		).Title("Change password").
			Description("You will be logged out after the change"),
	).WithTheme(styles.Theme())
}

// Company builds the company form
func Company(c *client.Company) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&c.Name),
			huh.NewInput().Title("Email").Value(&c.Email),
			huh.NewInput().Title("Phone").Placeholder("10 digits").CharLimit(10).Value(&c.Phone),
			huh.NewInput().Title("Address").Value(&c.Address),
			huh.NewInput().Title("Industry type").Value(&c.IndustryType),
			huh.NewSelect[string]().Title("Status").Options(companyStatusOptions...).Value(&c.Status),
		).Title(title("Company", c.ID)),
	).WithTheme(styles.Theme())
}

// Department builds the department form
func Department(d *client.Department, companies []client.Company) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&d.Name),
			huh.NewText().Title("Description").Lines(3).Value(&d.Description),
			huh.NewSelect[int64]().Title("Company").Options(CompanyOptions(companies)...).Value(&d.CompanyID),
		).Title(title("Department", d.ID)),
	).WithTheme(styles.Theme())
}

// Employee builds the employee form. Personal and job details are on
// separate pages.
func Employee(e *client.Employee, companies []client.Company, departments []client.Department) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Full name").Value(&e.FullName),
			huh.NewInput().Title("Phone").Placeholder("10 digits").CharLimit(10).Value(&e.Phone),
			huh.NewSelect[string]().Title("Gender").Options(genderOptions...).Value(&e.Gender),
			huh.NewInput().Title("Date of birth").Placeholder(dateHint).Value(&e.DOB),
			huh.NewInput().Title("Address").Value(&e.Address),
		).Title(title("Employee", e.ID)).
			Description("Personal details"),
		huh.NewGroup(
			huh.NewInput().Title("Designation").Value(&e.Designation),
			huh.NewInput().Title("Joining date").Placeholder(dateHint).Value(&e.JoiningDate),
			huh.NewSelect[int64]().Title("Company").Options(CompanyOptions(companies)...).Value(&e.CompanyID),
			huh.NewSelect[int64]().Title("Department").Options(DepartmentOptions(departments)...).Value(&e.DepartmentID),
			huh.NewSelect[string]().Title("Status").Options(employeeStatusOptions...).Value(&e.Status),
		).Title(title("Employee", e.ID)).
			Description("Job details"),
	).WithTheme(styles.Theme())
}

// Attendance builds the attendance form
func Attendance(a *client.Attendance, employees []client.Employee) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int64]().Title("Employee").Options(EmployeeOptions(employees)...).Value(&a.EmployeeID),
			huh.NewInput().Title("Date").Placeholder(dateHint).Value(&a.Date),
			huh.NewInput().Title("Check-in time").Placeholder("HH:MM").Value(&a.CheckInTime),
			huh.NewInput().Title("Check-out time").Placeholder("HH:MM").Value(&a.CheckOutTime),
			huh.NewSelect[string]().Title("Status").Options(attendanceStatusOptions...).Value(&a.Status),
		).Title(title("Attendance", a.ID)),
	).WithTheme(styles.Theme())
}

// Confirm builds a yes/no form
func Confirm(question string, ok *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Delete").
				Negative("Cancel").
				Value(ok),
		),
	).WithTheme(styles.Theme()).WithShowHelp(false)
}

// CompanyOptions lists companies by name
func CompanyOptions(companies []client.Company) []huh.Option[int64] {
	opts := make([]huh.Option[int64], 0, len(companies))
	for _, c := range companies {
		opts = append(opts, huh.NewOption(c.Name, c.ID))
	}
	return opts
}

// DepartmentOptions lists departments with their company
func DepartmentOptions(departments []client.Department) []huh.Option[int64] {
	opts := make([]huh.Option[int64], 0, len(departments))
	for _, d := range departments {
		opts = append(opts, huh.NewOption(d.Name+" ("+d.CompanyName()+")", d.ID))
	}
	return opts
}

// EmployeeOptions lists employees by name
func EmployeeOptions(employees []client.Employee) []huh.Option[int64] {
	opts := make([]huh.Option[int64], 0, len(employees))
	for _, e := range employees {
		label := e.FullName
		if label == "" {
			label = "#" + strconv.FormatInt(e.ID, 10)
		}
		opts = append(opts, huh.NewOption(label, e.ID))
	}
	return opts
}

func title(kind string, id int64) string {
	if id == 0 {
		return "New " + kind
	}
	return "Edit " + kind + " #" + strconv.FormatInt(id, 10)
}
