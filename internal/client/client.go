// ABOUTME: Typed client for the HRMS backend API
// ABOUTME: Bundles the auth endpoints and the four resource collections

package client

import (
	"context"
)

// Doer sends requests to the backend. Do applies the session checks; DoPublic
// is for endpoints reachable without a session.
type Doer interface {
	Do(ctx context.Context, method, path string, body, out any) error
	DoPublic(ctx context.Context, method, path string, body, out any) error
}

// Resource paths
const (
	PathCompanies   = "/api/companies"
	PathDepartments = "/api/departments"
	PathEmployees   = "/api/employees"
	PathAttendance  = "/api/attendance"
)

// Client is the API client for the HRMS backend
type Client struct {
	Auth        *AuthClient
	Companies   *Resource[Company]
	Departments *Resource[Department]
	Employees   *Resource[Employee]
	Attendance  *Resource[Attendance]
}

// New creates a new API client on top of the given transport
func New(d Doer) *Client {
	return &Client{
		Auth:        &AuthClient{doer: d},
		Companies:   NewResource[Company](d, PathCompanies),
		Departments: NewResource[Department](d, PathDepartments),
		Employees:   NewResource[Employee](d, PathEmployees),
		Attendance:  NewResource[Attendance](d, PathAttendance),
	}
}
