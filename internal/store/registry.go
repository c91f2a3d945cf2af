// ABOUTME: Registry of the four domain stores behind one API client
// ABOUTME: Refreshes stores concurrently for dashboards and dependent forms

package store

import (
	"context"
	"fmt"

	"github.com/markalston/hrms-console/internal/client"
	"golang.org/x/sync/errgroup"
)

// Resource names
const (
	Companies   = "companies"
	Departments = "departments"
	Employees   = "employees"
	Attendance  = "attendance"
)

// Refresher is any store that can reload its list
type Refresher interface {
	Name() string
	Refresh(ctx context.Context) error
	Loading() bool
	Err() string
	Len() int
	Clear()
}

// Registry holds one store per resource
type Registry struct {
	Companies   *Store[client.Company]
	Departments *Store[client.Department]
	Employees   *Store[client.Employee]
	Attendance  *Store[client.Attendance]
}

// NewRegistry creates the four stores. New attendance records are shown
// first; the other resources append.
func NewRegistry(c *client.Client) *Registry {
	return &Registry{
		Companies:   New[client.Company](Companies, c.Companies, Append),
		Departments: New[client.Department](Departments, c.Departments, Append),
		Employees:   New[client.Employee](Employees, c.Employees, Append),
		Attendance:  New[client.Attendance](Attendance, c.Attendance, Prepend),
	}
}

// All returns the stores in menu order
func (r *Registry) All() []Refresher {
	return []Refresher{r.Companies, r.Departments, r.Employees, r.Attendance}
}

// Lookup returns the store for a resource name
func (r *Registry) Lookup(name string) (Refresher, error) {
	for _, s := range r.All() {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unknown resource %q", name)
}

// RefreshAll fetches every store concurrently
func (r *Registry) RefreshAll(ctx context.Context) error {
	return refresh(ctx, r.All())
}

// Refresh fetches the named stores concurrently
func (r *Registry) Refresh(ctx context.Context, names ...string) error {
	stores := make([]Refresher, 0, len(names))
	for _, name := range names {
		s, err := r.Lookup(name)
		if err != nil {
			return err
		}
		stores = append(stores, s)
	}
	return refresh(ctx, stores)
}

// Clear empties every store
func (r *Registry) Clear() {
	for _, s := range r.All() {
		s.Clear()
	}
}

// refresh runs every fetch to completion so each store records its own
// outcome, then returns the first error.
func refresh(ctx context.Context, stores []Refresher) error {
	var g errgroup.Group
	for _, s := range stores {
		g.Go(func() error {
			return s.Refresh(ctx)
		})
	}
	return g.Wait()
}
