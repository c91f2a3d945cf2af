// ABOUTME: Tests for dashboard component
// ABOUTME: Validates store summaries and the rendered overview

package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/markalston/hrms-console/internal/client"
	"github.com/markalston/hrms-console/internal/gateway"
	"github.com/markalston/hrms-console/internal/store"
)

// cannedDoer answers GET requests with fixed JSON per path
type cannedDoer struct {
	bodies map[string]string
	errs   map[string]error
}

func (c *cannedDoer) Do(ctx context.Context, method, path string, body, out any) error {
	if err := c.errs[path]; err != nil {
		return err
	}
	return json.Unmarshal([]byte(c.bodies[path]), out)
}

func (c *cannedDoer) DoPublic(ctx context.Context, method, path string, body, out any) error {
	return c.Do(ctx, method, path, body, out)
}

func newRegistry(t *testing.T, d *cannedDoer) *store.Registry {
	t.Helper()
	reg := store.NewRegistry(client.New(d))
	reg.RefreshAll(context.Background())
	return reg
}

func TestSummarize(t *testing.T) {
	d := &cannedDoer{bodies: map[string]string{
		client.PathCompanies:   `[{"id":1,"name":"Acme","status":"ACTIVE"},{"id":2,"name":"Globex","status":"Inactive"}]`,
		client.PathDepartments: `[{"id":1,"name":"Ops","companyId":1}]`,
		client.PathEmployees:   `[{"id":1,"fullName":"Ann","status":"Active"},{"id":2,"fullName":"Bob","status":"Terminated"}]`,
		client.PathAttendance:  `[{"id":1,"employeeId":1,"date":"2026-10-14","status":"Present"},{"id":2,"employeeId":2,"date":"2026-10-14","status":"Late"},{"id":3,"employeeId":1,"date":"2026-10-13","status":"Absent"}]`,
	}}
	reg := newRegistry(t, d)

	s := Summarize(reg, &client.User{Username: "alice", FullName: "Alice Admin"}, "2026-10-14")

	if s.User != "Alice Admin" {
		t.Errorf("expected display name, got %q", s.User)
	}
	if s.Companies != 2 || s.ActiveCompanies != 1 {
		t.Errorf("expected 2 companies, 1 active; got %d, %d", s.Companies, s.ActiveCompanies)
	}
	if s.Employees != 2 || s.ActiveEmployees != 1 {
		t.Errorf("expected 2 employees, 1 active; got %d, %d", s.Employees, s.ActiveEmployees)
	}
	if s.Today["Present"] != 1 || s.Today["Late"] != 1 || s.Today["Absent"] != 0 {
		t.Errorf("unexpected today counts %v", s.Today)
	}
	if len(s.Errors) != 0 {
		t.Errorf("expected no errors, got %v", s.Errors)
	}
}

func TestSummarize_StoreErrors(t *testing.T) {
	d := &cannedDoer{
		bodies: map[string]string{
			client.PathCompanies:   `[]`,
			client.PathDepartments: `[]`,
			client.PathEmployees:   `[]`,
		},
		errs: map[string]error{
			client.PathAttendance: &gateway.APIError{StatusCode: 500, Message: "Database unavailable"},
		},
	}
	reg := newRegistry(t, d)

	s := Summarize(reg, nil, "2026-10-14")

	if len(s.Errors) != 1 || !strings.Contains(s.Errors[0], "Database unavailable") {
		t.Errorf("expected attendance error, got %v", s.Errors)
	}
	if s.User != "" {
		t.Errorf("expected empty user for nil, got %q", s.User)
	}
}

func TestDashboardView(t *testing.T) {
	s := &Summary{
		User:            "Alice Admin",
		Companies:       3,
		ActiveCompanies: 2,
		Departments:     5,
		Employees:       42,
		ActiveEmployees: 40,
		Attendance:      7,
		Today:           map[string]int{"Present": 6, "Late": 1},
	}

	view := New(s, 120, 24).View()

	for _, expected := range []string{"Overview", "Welcome, Alice Admin", "Companies", "42", "40 active", "Present", "Late"} {
		if !strings.Contains(view, expected) {
			t.Errorf("expected view to contain %q\nView:\n%s", expected, view)
		}
	}
}

func TestDashboardNilSummary(t *testing.T) {
	view := New(nil, 80, 24).View()

	if !strings.Contains(view, "Loading") {
		t.Error("expected loading message when summary is nil")
	}
}

func TestDashboardUpdate(t *testing.T) {
	d := New(nil, 120, 24)
	if !strings.Contains(d.View(), "Loading") {
		t.Error("expected loading message initially")
	}

	d.Update(&Summary{Employees: 2, Today: map[string]int{}, Errors: []string{"employees: " + errors.New("boom").Error()}})

	view := d.View()
	if strings.Contains(view, "Loading records") {
		t.Error("should not show loading after update")
	}
	if !strings.Contains(view, "No attendance recorded today") {
		t.Errorf("expected empty attendance note\nView:\n%s", view)
	}
	if !strings.Contains(view, "employees: boom") {
		t.Errorf("expected store error\nView:\n%s", view)
	}
}
