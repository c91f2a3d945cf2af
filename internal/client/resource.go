// ABOUTME: Generic CRUD endpoints for a backend collection
// ABOUTME: Maps List/Get/Create/Update/Delete onto /api/<resource>[/{id}]

package client

import (
	"context"
	"net/http"
	"strconv"
)

// Resource is a REST collection of records of type T
type Resource[T Record] struct {
	doer Doer
	path string
}

// NewResource creates a resource client rooted at path
func NewResource[T Record](d Doer, path string) *Resource[T] {
	return &Resource[T]{doer: d, path: path}
}

// Path returns the collection path
func (r *Resource[T]) Path() string {
	return r.path
}

func (r *Resource[T]) item(id int64) string {
	return r.path + "/" + strconv.FormatInt(id, 10)
}

// List calls GET /api/<resource>
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.doer.Do(ctx, http.MethodGet, r.path, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Get calls GET /api/<resource>/{id}
func (r *Resource[T]) Get(ctx context.Context, id int64) (*T, error) {
	var item T
	if err := r.doer.Do(ctx, http.MethodGet, r.item(id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create calls POST /api/<resource>
func (r *Resource[T]) Create(ctx context.Context, data T) (*T, error) {
	var item T
	if err := r.doer.Do(ctx, http.MethodPost, r.path, data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update calls PUT /api/<resource>/{id}
func (r *Resource[T]) Update(ctx context.Context, id int64, data T) (*T, error) {
	var item T
	if err := r.doer.Do(ctx, http.MethodPut, r.item(id), data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete calls DELETE /api/<resource>/{id}
func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	return r.doer.Do(ctx, http.MethodDelete, r.item(id), nil, nil)
}
