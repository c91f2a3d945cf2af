// ABOUTME: Record and request types exchanged with the HRMS backend
// ABOUTME: Validation tags are enforced client-side before any request is sent

package client

import "strconv"

// Record is any entity addressed by a numeric id
type Record interface {
	RecordID() int64
}

// User is the logged-in principal as returned by the login endpoint
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Role        string `json:"role,omitempty"`
	CompanyID   int64  `json:"companyId,omitempty"`
	Email       string `json:"email,omitempty"`
	FullName    string `json:"fullName,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Designation string `json:"designation,omitempty"`
	Department  string `json:"department,omitempty"`
}

// DisplayName prefers the full name over the username
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// Credentials is the login request body
type Credentials struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the login response body
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Registration is the account registration request body
type Registration struct {
	Username      string `json:"username" validate:"notblank"`
	Password      string `json:"password" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	FullName      string `json:"fullName" validate:"notblank"`
	Phone         string `json:"phone" validate:"phone10"`
	Designation   string `json:"designation" validate:"notblank"`
	Department    string `json:"department" validate:"notblank"`
	DateOfJoining string `json:"dateOfJoining" validate:"required,date"`
	CompanyID     int64  `json:"companyId,omitempty"`
}

// PasswordChange is the change-password request body
type PasswordChange struct {
	OldPassword     string `json:"oldPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// Company and employee status values. The backend echoes them in any case.
const (
	StatusActive     = "Active"
	StatusInactive   = "Inactive"
	StatusTerminated = "Terminated"
)

// Company is a tenant organization
type Company struct {
	ID           int64  `json:"id,omitempty"`
	Name         string `json:"name" validate:"notblank"`
	Email        string `json:"email" validate:"email"`
	Phone        string `json:"phone" validate:"phone10"`
	Address      string `json:"address" validate:"notblank"`
	IndustryType string `json:"industryType" validate:"notblank"`
	Status       string `json:"status,omitempty"`
}

func (c Company) RecordID() int64 { return c.ID }

// ApplyDefaults marks new companies active
func (c *Company) ApplyDefaults() {
	if c.Status == "" {
		c.Status = StatusActive
	}
}

// Department belongs to a company
type Department struct {
	ID          int64    `json:"id,omitempty"`
	Name        string   `json:"name" validate:"notblank"`
	Description string   `json:"description,omitempty"`
	CompanyID   int64    `json:"companyId" validate:"required"`
	Company     *Company `json:"company,omitempty" validate:"-"`
}

func (d Department) RecordID() int64 { return d.ID }

// Employee belongs to a company and a department
type Employee struct {
	ID           int64       `json:"id,omitempty"`
	FullName     string      `json:"fullName" validate:"notblank"`
	Phone        string      `json:"phone" validate:"phone10"`
	Gender       string      `json:"gender" validate:"required"`
	DOB          string      `json:"dob" validate:"required,date"`
	Address      string      `json:"address,omitempty"`
	Designation  string      `json:"designation" validate:"notblank"`
	JoiningDate  string      `json:"joiningDate" validate:"required,date"`
	Status       string      `json:"status,omitempty"`
	CompanyID    int64       `json:"companyId" validate:"required"`
	DepartmentID int64       `json:"departmentId" validate:"required"`
	Company      *Company    `json:"company,omitempty" validate:"-"`
	Department   *Department `json:"department,omitempty" validate:"-"`
}

func (e Employee) RecordID() int64 { return e.ID }

// ApplyDefaults marks new employees active
func (e *Employee) ApplyDefaults() {
	if e.Status == "" {
		e.Status = StatusActive
	}
}

// Attendance status values
const (
	AttendancePresent = "Present"
	AttendanceAbsent  = "Absent"
	AttendanceLate    = "Late"
)

// Attendance is one employee's record for one day
type Attendance struct {
	ID           int64     `json:"id,omitempty"`
	CompanyID    int64     `json:"companyId" validate:"required"`
	EmployeeID   int64     `json:"employeeId" validate:"required"`
	Date         string    `json:"date" validate:"required,date"`
	CheckInTime  string    `json:"checkInTime,omitempty"`
	CheckOutTime string    `json:"checkOutTime,omitempty"`
	Status       string    `json:"status,omitempty"`
	Company      *Company  `json:"company,omitempty" validate:"-"`
	Employee     *Employee `json:"employee,omitempty" validate:"-"`
}

func (a Attendance) RecordID() int64 { return a.ID }

// ApplyDefaults records the employee as present unless told otherwise
func (a *Attendance) ApplyDefaults() {
	if a.Status == "" {
		a.Status = AttendancePresent
	}
}

// EmployeeName returns the embedded employee's name, falling back to the id
func (a Attendance) EmployeeName() string {
	if a.Employee != nil && a.Employee.FullName != "" {
		return a.Employee.FullName
	}
	return "#" + strconv.FormatInt(a.EmployeeID, 10)
}

// CompanyName returns the embedded company's name, falling back to the id
func (d Department) CompanyName() string {
	if d.Company != nil && d.Company.Name != "" {
		return d.Company.Name
	}
	return "#" + strconv.FormatInt(d.CompanyID, 10)
}
