// ABOUTME: Adapters that expose each domain store to the TUI screens
// ABOUTME: Also defines editors, the submit logic behind every form

package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/markalston/hrms-console/internal/client"
	"github.com/markalston/hrms-console/internal/gateway"
	"github.com/markalston/hrms-console/internal/present"
	"github.com/markalston/hrms-console/internal/session"
	"github.com/markalston/hrms-console/internal/store"
	"github.com/markalston/hrms-console/internal/tui/forms"
	"github.com/markalston/hrms-console/internal/tui/icons"
	"github.com/markalston/hrms-console/internal/tui/widgets"
	"github.com/markalston/hrms-console/internal/validation"
)

// resource is the screen-facing view of one domain store
type resource interface {
	Name() string
	// Needs lists the stores its form picks records from
	Needs() []string
	Title() string
	Singular() string
	Icon() icons.Icon
	Headers() []string
	Rows() [][]string
	IDAt(i int) (int64, bool)
	Loading() bool
	Err() string
	UpdatedAt() time.Time
	Detail(ctx context.Context, id int64) ([]present.Field, string, error)
	Delete(ctx context.Context, id int64) error
	Deleted() string
	Failed(verb, msg string) string
	Editor(id int64) *editor
}

// next is where the app goes after an editor succeeds
type next int

const (
	nextList next = iota
	nextDashboard
	nextLogin
)

// editor pairs a form with what happens when it is submitted
type editor struct {
	build  func() *huh.Form
	submit func(ctx context.Context) (string, error)
	failed func(err error) string
	then   next
	// back is the screen Esc returns to
	back   Screen
}

// adapter implements resource for one record type
type adapter[T client.Record] struct {
	icon    icons.Icon
	layout  present.Layout[T]
	store   *store.Store[T]
	needs   []string
	build   func(item *T) *huh.Form
	prepare func(item *T)
}

func (r *adapter[T]) Name() string         { return r.store.Name() }
func (r *adapter[T]) Needs() []string      { return r.needs }
func (r *adapter[T]) Title() string        { return r.layout.Plural }
func (r *adapter[T]) Singular() string     { return r.layout.Singular }
func (r *adapter[T]) Icon() icons.Icon     { return r.icon }
func (r *adapter[T]) Headers() []string    { return r.layout.Headers }
func (r *adapter[T]) Loading() bool        { return r.store.Loading() }
func (r *adapter[T]) Err() string          { return r.store.Err() }
func (r *adapter[T]) Deleted() string      { return r.layout.Deleted }
func (r *adapter[T]) UpdatedAt() time.Time { return r.store.UpdatedAt() }

func (r *adapter[T]) Failed(verb, msg string) string {
	return r.layout.Failed(verb, msg)
}

// Rows renders the store's list; status cells get an uncolored marker
func (r *adapter[T]) Rows() [][]string {
	rows := r.layout.Rows(r.store.Items())
	if col := r.layout.StatusColumn; col >= 0 {
		for _, row := range rows {
			row[col] = widgets.StatusSymbol(row[col])
		}
	}
	return rows
}

func (r *adapter[T]) IDAt(i int) (int64, bool) {
	items := r.store.Items()
	if i < 0 || i >= len(items) {
		return 0, false
	}
	return items[i].RecordID(), true
}

func (r *adapter[T]) Detail(ctx context.Context, id int64) ([]present.Field, string, error) {
	item, err := r.store.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	status := ""
	if col := r.layout.StatusColumn; col >= 0 {
		if status = r.layout.Row(*item)[col]; status == "-" {
			status = ""
		}
	}
	return r.layout.Fields(*item), status, nil
}

func (r *adapter[T]) Delete(ctx context.Context, id int64) error {
	return r.store.Delete(ctx, id)
}

// Editor returns an editor for a new record (id 0) or an existing one
func (r *adapter[T]) Editor(id int64) *editor {
	var item T
	verb := "create"
	if id != 0 {
		verb = "update"
		if found, ok := r.store.Find(id); ok {
			item = found
		} else if sel := r.store.Selected(); sel != nil && (*sel).RecordID() == id {
			item = *sel
		}
	}

	return &editor{
		build: func() *huh.Form { return r.build(&item) },
		submit: func(ctx context.Context) (string, error) {
			data := item
			r.prepare(&data)
			if err := validation.Check(&data); err != nil {
				return "", err
			}
			if id == 0 {
				if _, err := r.store.Create(ctx, data); err != nil {
					return "", err
				}
				return r.layout.Created, nil
			}
			if _, err := r.store.Update(ctx, id, data); err != nil {
				return "", err
			}
			return r.layout.Updated, nil
		},
		failed: func(err error) string { return r.layout.Failed(verb, gateway.Message(err)) },
		then:   nextList,
		back:   ScreenList,
	}
}

// newResources wires one adapter per domain store
func newResources(reg *store.Registry, sess *session.Store) []resource {
	return []resource{
		&adapter[client.Company]{
			icon:    icons.Company,
			layout:  present.Companies,
			store:   reg.Companies,
			build:   forms.Company,
			prepare: func(c *client.Company) {},
		},
		&adapter[client.Department]{
			icon:   icons.Department,
			layout: present.Departments,
			store:  reg.Departments,
			needs:  []string{store.Companies},
			build: func(d *client.Department) *huh.Form {
				return forms.Department(d, reg.Companies.Items())
			},
			prepare: func(d *client.Department) { d.Company = nil },
		},
		&adapter[client.Employee]{
			icon:   icons.Employee,
			layout: present.Employees,
			store:  reg.Employees,
			needs:  []string{store.Companies, store.Departments},
			build: func(e *client.Employee) *huh.Form {
				return forms.Employee(e, reg.Companies.Items(), reg.Departments.Items())
			},
			prepare: func(e *client.Employee) {
				e.Company = nil
				e.Department = nil
			},
		},
		&adapter[client.Attendance]{
			icon:   icons.Attendance,
			layout: present.Attendance,
			store:  reg.Attendance,
			needs:  []string{store.Employees},
			build: func(a *client.Attendance) *huh.Form {
				return forms.Attendance(a, reg.Employees.Items())
			},
			prepare: func(a *client.Attendance) {
				a.Company = nil
				a.Employee = nil
				// Attendance is recorded for the logged-in user's company
				if a.CompanyID == 0 {
					if u := sess.User(); u != nil {
						a.CompanyID = u.CompanyID
					}
				}
			},
		},
	}
}

// loginEditor signs the user in
func loginEditor(sess *session.Store) *editor {
	var creds client.Credentials
	return &editor{
		build: func() *huh.Form {
			// The password is not kept between attempts
			creds.Password = ""
			return forms.Login(&creds)
		},
		submit: func(ctx context.Context) (string, error) {
			data := creds
			if err := validation.Check(&data); err != nil {
				return "", err
			}
			if _, err := sess.Login(ctx, data); err != nil {
				return "", err
			}
			return "", nil
		},
		failed: gateway.Message,
		then:   nextDashboard,
		back:   ScreenLogin,
	}
}

// passwordEditor changes the password; the session ends afterwards
func passwordEditor(auth *client.AuthClient) *editor {
	var change client.PasswordChange
	return &editor{
		build: func() *huh.Form { return forms.Password(&change) },
		submit: func(ctx context.Context) (string, error) {
			data := change
			if err := validation.Check(&data); err != nil {
				return "", err
			}
			msg, err := auth.ChangePassword(ctx, data)
			if err != nil {
				return "", err
			}
			if msg == "" {
				msg = "Password changed successfully."
			}
			return msg, nil
		},
		failed: func(err error) string { return "Failed to change password: " + gateway.Message(err) },
		then:   nextLogin,
		back:   ScreenProfile,
	}
}
