package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/attest-cli/internal/core/domain"
	"github.com/custodia-labs/attest-cli/internal/core/ports/driven"
)

// Ensure ConnectionStore implements the interface.
var _ driven.ConnectionStore = (*ConnectionStore)(nil)

// ConnectionStore is an in-memory implementation of
// driven.ConnectionStore. Used in tests and as a reference implementation.
type ConnectionStore struct {
	mu          sync.RWMutex
	connections map[string]domain.Connection
}

// NewConnectionStore creates a new in-memory connection store.
func NewConnectionStore() *ConnectionStore {
	return &ConnectionStore{
		connections: make(map[string]domain.Connection),
	}
}

// Save stores or updates a connection.
func (s *ConnectionStore) Save(_ context.Context, conn domain.Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections[conn.ID] = conn
	return nil
}

// Get retrieves a connection by ID.
func (s *ConnectionStore) Get(_ context.Context, id string) (*domain.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conn, ok := s.connections[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &conn, nil
}

// Delete removes a connection.
func (s *ConnectionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.connections, id)
	return nil
}

// List returns all connections.
func (s *ConnectionStore) List(_ context.Context) ([]domain.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Connection, 0, len(s.connections))
	for _, conn := range s.connections {
		result = append(result, conn)
	}
	return result, nil
}

// ListActive returns connections with Active=true.
func (s *ConnectionStore) ListActive(_ context.Context) ([]domain.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Connection
	for _, conn := range s.connections {
		if conn.Active {
			result = append(result, conn)
		}
	}
	return result, nil
}

// SaveCredentials updates a connection's upstream token triple.
func (s *ConnectionStore) SaveCredentials(_ context.Context, id string, creds domain.UpstreamCredentials) (*domain.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, ok := s.connections[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	conn.Upstream = creds
	conn.UpdatedAt = time.Now()
	s.connections[id] = conn
	return &conn, nil
}

// SetActive toggles whether a connection participates in sync runs.
func (s *ConnectionStore) SetActive(_ context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, ok := s.connections[id]
	if !ok {
		return domain.ErrNotFound
	}
	conn.Active = active
	conn.UpdatedAt = time.Now()
	s.connections[id] = conn
	return nil
}
