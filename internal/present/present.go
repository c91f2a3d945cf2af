// ABOUTME: Tabular and detail layouts for the four HRMS record types
// ABOUTME: Shared by CLI human output and the TUI list and detail screens

package present

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/markalston/hrms-console/internal/client"
)

// Field is one labelled value in a detail view
type Field struct {
	Label string
	Value string
}

// Layout describes how one record type is shown and announced
type Layout[T client.Record] struct {
	Singular string
	Plural   string
	Headers  []string
	// StatusColumn is the index of the status cell in Row, or -1
	StatusColumn int
	Row          func(T) []string
	Fields       func(T) []Field

	Created string
	Updated string
	Deleted string
}

// Rows renders every item with Row
func (l Layout[T]) Rows(items []T) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, l.Row(item))
	}
	return rows
}

// Failed formats a failure toast for verb (create, update, delete)
func (l Layout[T]) Failed(verb string, msg string) string {
	noun := strings.ToLower(l.Singular)
	if msg == "" {
		return fmt.Sprintf("Failed to %s %s.", verb, noun)
	}
	return fmt.Sprintf("Failed to %s %s: %s", verb, noun, msg)
}

// Companies lays out client.Company
var Companies = Layout[client.Company]{
	Singular:     "Company",
	Plural:       "Companies",
	Headers:      []string{"ID", "NAME", "EMAIL", "PHONE", "INDUSTRY", "STATUS"},
	StatusColumn: 5,
	Row: func(c client.Company) []string {
		return []string{id(c.ID), c.Name, dash(c.Email), dash(c.Phone), dash(c.IndustryType), dash(c.Status)}
	},
	Fields: func(c client.Company) []Field {
		return []Field{
			{"ID", id(c.ID)},
			{"Name", c.Name},
			{"Email", dash(c.Email)},
			{"Phone", dash(c.Phone)},
			{"Address", dash(c.Address)},
			{"Industry", dash(c.IndustryType)},
			{"Status", dash(c.Status)},
		}
	},
	Created: "Company created successfully!",
	Updated: "Company updated successfully!",
	Deleted: "Company deleted successfully",
}

// Departments lays out client.Department
var Departments = Layout[client.Department]{
	Singular:     "Department",
	Plural:       "Departments",
	Headers:      []string{"ID", "NAME", "COMPANY", "DESCRIPTION"},
	StatusColumn: -1,
	Row: func(d client.Department) []string {
		return []string{id(d.ID), d.Name, d.CompanyName(), dash(d.Description)}
	},
	Fields: func(d client.Department) []Field {
		return []Field{
			{"ID", id(d.ID)},
			{"Name", d.Name},
			{"Company", d.CompanyName()},
			{"Description", dash(d.Description)},
		}
	},
	Created: "Department created successfully!",
	Updated: "Department updated successfully!",
	Deleted: "Department deleted successfully",
}

// Employees lays out client.Employee
var Employees = Layout[client.Employee]{
	Singular:     "Employee",
	Plural:       "Employees",
	Headers:      []string{"ID", "NAME", "DESIGNATION", "PHONE", "GENDER", "JOINED", "STATUS"},
	StatusColumn: 6,
	Row: func(e client.Employee) []string {
		return []string{id(e.ID), e.FullName, dash(e.Designation), dash(e.Phone), dash(e.Gender), dash(e.JoiningDate), dash(e.Status)}
	},
	Fields: func(e client.Employee) []Field {
		dept := "#" + id(e.DepartmentID)
		if e.Department != nil && e.Department.Name != "" {
			dept = e.Department.Name
		}
		company := "#" + id(e.CompanyID)
		if e.Company != nil && e.Company.Name != "" {
			company = e.Company.Name
		}
		return []Field{
			{"ID", id(e.ID)},
			{"Name", e.FullName},
			{"Phone", dash(e.Phone)},
			{"Gender", dash(e.Gender)},
			{"Date of birth", dash(e.DOB)},
			{"Address", dash(e.Address)},
			{"Designation", dash(e.Designation)},
			{"Joined", dash(e.JoiningDate)},
			{"Company", company},
			{"Department", dept},
			{"Status", dash(e.Status)},
		}
	},
	Created: "Employee created successfully!",
	Updated: "Employee updated successfully!",
	Deleted: "Employee deleted successfully",
}

// Attendance lays out client.Attendance
var Attendance = Layout[client.Attendance]{
	Singular:     "Attendance",
	Plural:       "Attendance",
	Headers:      []string{"ID", "EMPLOYEE", "DATE", "CHECK-IN", "CHECK-OUT", "STATUS"},
	StatusColumn: 5,
	Row: func(a client.Attendance) []string {
		return []string{id(a.ID), a.EmployeeName(), a.Date, dash(a.CheckInTime), dash(a.CheckOutTime), dash(a.Status)}
	},
	Fields: func(a client.Attendance) []Field {
		return []Field{
			{"ID", id(a.ID)},
			{"Employee", a.EmployeeName()},
			{"Company", "#" + id(a.CompanyID)},
			{"Date", a.Date},
			{"Check-in", dash(a.CheckInTime)},
			{"Check-out", dash(a.CheckOutTime)},
			{"Status", dash(a.Status)},
		}
	},
	Created: "Attendance Successful",
	Updated: "Attendance updated successfully!",
	Deleted: "Attendance Deleted Successfully",
}

// UserFields lays out the logged-in user for profile views
func UserFields(u *client.User) []Field {
	if u == nil {
		return nil
	}
	fields := []Field{
		{"Username", u.Username},
		{"Name", dash(u.FullName)},
		{"Role", dash(u.Role)},
		{"Email", dash(u.Email)},
		{"Phone", dash(u.Phone)},
		{"Designation", dash(u.Designation)},
		{"Department", dash(u.Department)},
	}
	if u.CompanyID != 0 {
		fields = append(fields, Field{"Company", "#" + id(u.CompanyID)})
	}
	return fields
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
