// ABOUTME: Tests for the domain store list semantics
// ABOUTME: Uses an in-memory fake backend to drive each CRUD action

package store

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/markalston/hrms-console/internal/client"
	"github.com/markalston/hrms-console/internal/gateway"
	"github.com/markalston/hrms-console/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu     sync.Mutex
	nextID int64
	rows   []client.Company
	err    error
	// block, when set, holds List until released
	block chan struct{}
}

func newFakeBackend(rows ...client.Company) *fakeBackend {
	return &fakeBackend{nextID: 100, rows: rows}
}

func (f *fakeBackend) List(ctx context.Context) ([]client.Company, error) {
	f.mu.Lock()
	block := f.block
	rows := append([]client.Company(nil), f.rows...)
	err := f.err
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (f *fakeBackend) Get(ctx context.Context, id int64) (*client.Company, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.rows {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, &gateway.APIError{StatusCode: http.StatusNotFound, Message: "Company not found"}
}

func (f *fakeBackend) Create(ctx context.Context, data client.Company) (*client.Company, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	data.ID = f.nextID
	f.rows = append(f.rows, data)
	return &data, nil
}

func (f *fakeBackend) Update(ctx context.Context, id int64, data client.Company) (*client.Company, error) {
	if f.err != nil {
		return nil, f.err
	}
	data.ID = id
	return &data, nil
}

func (f *fakeBackend) Delete(ctx context.Context, id int64) error {
	return f.err
}

func count(items []client.Company, id int64) int {
	n := 0
	for _, c := range items {
		if c.ID == id {
			n++
		}
	}
	return n
}

func TestFetchAll_ReplacesList(t *testing.T) {
	b := newFakeBackend(client.Company{ID: 1, Name: "Acme"}, client.Company{ID: 2, Name: "Globex"})
	s := New[client.Company](Companies, b, Append)

	items, err := s.FetchAll(context.Background())

	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 2, s.Len())
	assert.False(t, s.Loading())
	assert.Empty(t, s.Err())
	assert.False(t, s.UpdatedAt().IsZero())
}

func TestFetchAll_FailureKeepsPreviousList(t *testing.T) {
	b := newFakeBackend(client.Company{ID: 1, Name: "Acme"})
	s := New[client.Company](Companies, b, Append)
	_, err := s.FetchAll(context.Background())
	require.NoError(t, err)

	b.err = &gateway.TransportError{Message: "cannot connect to backend at http://x"}
	_, err = s.FetchAll(context.Background())

	require.Error(t, err)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "cannot connect to backend at http://x", s.Err())
	assert.False(t, s.Loading())
}

func TestFetchAll_LoadingWhileInFlight(t *testing.T) {
	b := newFakeBackend(client.Company{ID: 1})
	b.block = make(chan struct{})
	s := New[client.Company](Companies, b, Append)

	done := make(chan struct{})
	go func() {
		s.FetchAll(context.Background())
		close(done)
	}()

	require.Eventually(t, s.Loading, time.Second, time.Millisecond)
	close(b.block)
	<-done
	assert.False(t, s.Loading())
}

func TestFetchAll_StaleResponseDiscarded(t *testing.T) {
	b := newFakeBackend(client.Company{ID: 1, Name: "Old"})
	first := make(chan struct{})
	b.block = first
	s := New[client.Company](Companies, b, Append)

	done := make(chan struct{})
	go func() {
		s.FetchAll(context.Background())
		close(done)
	}()
	require.Eventually(t, s.Loading, time.Second, time.Millisecond)

	// A newer fetch is applied while the first is still in flight
	b.mu.Lock()
	b.block = nil
	b.rows = []client.Company{{ID: 2, Name: "New"}}
	b.mu.Unlock()
	_, err := s.FetchAll(context.Background())
	require.NoError(t, err)

	close(first)
	<-done

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "New", items[0].Name)
	assert.False(t, s.Loading())
}

func TestCreate_AppearsExactlyOnce(t *testing.T) {
	b := newFakeBackend(client.Company{ID: 1, Name: "Acme"})
	s := New[client.Company](Companies, b, Append)
	s.FetchAll(context.Background())

	created, err := s.Create(context.Background(), client.Company{Name: "Initech"})

	require.NoError(t, err)
	items := s.Items()
	assert.Equal(t, 1, count(items, created.ID))
	assert.Equal(t, created.ID, items[len(items)-1].ID, "appended")

	// A later fetch that already contains the record does not duplicate it
	s.FetchAll(context.Background())
	assert.Equal(t, 1, count(s.Items(), created.ID))
}

func TestCreate_Prepend(t *testing.T) {
	b := newFakeBackend(client.Company{ID: 1})
	s := New[client.Company](Attendance, b, Prepend)
	s.FetchAll(context.Background())

	created, err := s.Create(context.Background(), client.Company{Name: "first"})

	require.NoError(t, err)
	assert.Equal(t, created.ID, s.Items()[0].ID)
}

func TestCreate_FailureRecordsMessage(t *testing.T) {
	b := newFakeBackend()
	b.err = &gateway.APIError{StatusCode: http.StatusConflict, Message: "Company already exists"}
	s := New[client.Company](Companies, b, Append)

	_, err := s.Create(context.Background(), client.Company{Name: "Acme"})

	require.Error(t, err)
	assert.Equal(t, "Company already exists", s.Err())
	assert.Zero(t, s.Len())
}

func TestUpdate_ReplacesByID(t *testing.T) {
	b := newFakeBackend(client.Company{ID: 1, Name: "Acme"}, client.Company{ID: 2, Name: "Globex"})
	s := New[client.Company](Companies, b, Append)
	s.FetchAll(context.Background())

	_, err := s.Update(context.Background(), 2, client.Company{Name: "Globex Corp"})

	require.NoError(t, err)
	got, ok := s.Find(2)
	require.True(t, ok)
	assert.Equal(t, "Globex Corp", got.Name)
	assert.Equal(t, 2, s.Len())
}

func TestUpdate_UnknownIDLeavesListUnchanged(t *testing.T) {
	b := newFakeBackend(client.Company{ID: 1, Name: "Acme"})
	s := New[client.Company](Companies, b, Append)
	s.FetchAll(context.Background())
	before := s.Items()

	_, err := s.Update(context.Background(), 5, client.Company{Name: "X"})

	assert.NoError(t, err)
	assert.Equal(t, before, s.Items())
	assert.Empty(t, s.Err())
}

func TestDelete_TwiceIsSafe(t *testing.T) {
	b := newFakeBackend(client.Company{ID: 1}, client.Company{ID: 2})
	s := New[client.Company](Companies, b, Append)
	s.FetchAll(context.Background())

	require.NoError(t, s.Delete(context.Background(), 1))
	require.NoError(t, s.Delete(context.Background(), 1))

	assert.Zero(t, count(s.Items(), 1))
	assert.Equal(t, 1, s.Len())
}

func TestGetByID_SetsSelected(t *testing.T) {
	b := newFakeBackend(client.Company{ID: 1, Name: "Acme"})
	s := New[client.Company](Companies, b, Append)

	item, err := s.GetByID(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "Acme", item.Name)
	require.NotNil(t, s.Selected())
	assert.Equal(t, int64(1), s.Selected().ID)
	assert.Zero(t, s.Len(), "list untouched")

	s.ClearSelected()
	assert.Nil(t, s.Selected())
}

func TestGetByID_NotFound(t *testing.T) {
	s := New[client.Company](Companies, newFakeBackend(), Append)

	_, err := s.GetByID(context.Background(), 42)

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Company not found", s.Err())
}

func TestResetState(t *testing.T) {
	b := newFakeBackend()
	b.err = errors.New("boom")
	s := New[client.Company](Companies, b, Append)
	s.FetchAll(context.Background())
	require.NotEmpty(t, s.Err())

	s.ResetState()

	assert.Empty(t, s.Err())
	assert.False(t, s.Loading())
}

func TestStoreOverGateway_SessionFailureRecorded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	api := client.New(gateway.New(gateway.Options{BaseURL: server.URL, Storage: storage.NewMemory()}))
	reg := NewRegistry(api)

	err := reg.RefreshAll(context.Background())

	assert.Equal(t, gateway.OutcomeUnauthorized, gateway.Classify(err))
	for _, s := range reg.All() {
		assert.Equal(t, "Session expired. Please log in again.", s.Err(), s.Name())
		assert.False(t, s.Loading())
	}
}
