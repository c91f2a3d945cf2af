// ABOUTME: Client-side form validation run before any request is sent
// ABOUTME: Wraps go-playground/validator with per-field messages shown to the user

package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// FieldError is one invalid field, named by its JSON key
type FieldError struct {
	Field   string
	Message string
}

// Errors lists every invalid field of a form
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, " ")
}

// Field returns the message for the named field, or ""
func (e Errors) Field(name string) string {
	for _, fe := range e {
		if fe.Field == name {
			return fe.Message
		}
	}
	return ""
}

// Defaulter fills in defaults before validation
type Defaulter interface {
	ApplyDefaults()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
	return v
}

// Check applies defaults (when v is a Defaulter) and validates v.
// It returns Errors or nil.
func Check(v any) error {
	if d, ok := v.(Defaulter); ok {
		d.ApplyDefaults()
	}

	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	seen := make(map[string]bool)
	for _, fe := range verrs {
		if seen[fe.Field()] {
			continue
		}
		seen[fe.Field()] = true
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

// message resolves the text for a failed rule: type+field+tag, then
// type+field for presence rules, then the tag's generic text.
func message(fe validator.FieldError) string {
	ns := fe.Namespace()
	if m, ok := messages[ns+":"+fe.Tag()]; ok {
		return m
	}
	if m, ok := messages[ns]; ok && (fe.Tag() == "required" || fe.Tag() == "notblank") {
		return m
	}
	switch fe.Tag() {
	case "email":
		return "Invalid email address."
	case "phone10":
		return "Phone must be 10 digits."
	case "date":
		return label(fe.Field()) + " must be a date (YYYY-MM-DD)."
	}
	return label(fe.Field()) + " is required."
}

// label turns a JSON key like joiningDate into "Joining date"
func label(field string) string {
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteString(strings.ToUpper(string(r)))
		case r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteString(strings.ToLower(string(r)))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

var messages = map[string]string{
	"Credentials.username": "Username is required.",
	"Credentials.password": "Password is required.",

	"Registration.username":       "Username is required.",
	"Registration.password":       "Password is required.",
	"Registration.email:required": "Email is required.",
	"Registration.fullName":       "Full name is required.",
	"Registration.designation":    "Designation is required.",
	"Registration.department":     "Department is required.",
	"Registration.dateOfJoining":  "Date of joining is required.",

	"PasswordChange.oldPassword":             "Current password is required.",
	"PasswordChange.newPassword":             "New password is required.",
	"PasswordChange.confirmPassword":         "Please confirm the new password.",
	"PasswordChange.confirmPassword:eqfield": "New password and confirmation do not match.",

	"Company.name":         "Company name is required.",
	"Company.address":      "Address is required.",
	"Company.industryType": "Industry type is required.",

	"Department.name":      "Department name is required.",
	"Department.companyId": "Company is required.",

	"Employee.fullName":     "Full name is required.",
	"Employee.gender":       "Gender is required.",
	"Employee.dob":          "Date of birth is required.",
	"Employee.dob:date":     "Date of birth must be a date (YYYY-MM-DD).",
	"Employee.joiningDate":  "Joining date is required.",
	"Employee.designation":  "Designation is required.",
	"Employee.companyId":    "Company is required.",
	"Employee.departmentId": "Department is required.",

	"Attendance.companyId":  "Company is required.",
	"Attendance.employeeId": "Employee is required.",
	"Attendance.date":       "Date is required.",
}
