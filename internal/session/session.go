// Package session keeps per-session cached table snapshots so that request
// handlers work against explicit state instead of process-wide globals.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/AnaEHC/app-semaforos/internal/models"
)

// Snapshot is what a session remembers between requests: the pending
// candidate set awaiting closer assignment, and the last full store
// snapshot together with the token a save must present.
type Snapshot struct {
	Candidates *models.Table `json:"candidates,omitempty"`
	Store      *models.Table `json:"store,omitempty"`
	StoreToken string        `json:"store_token,omitempty"`
}

type Store interface {
	Get(ctx context.Context, id string) (Snapshot, bool, error)
	Put(ctx context.Context, id string, snap Snapshot) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// NewID issues a session id.
func NewID() string { return uuid.NewString() }

// NewToken issues a store snapshot token.
func NewToken() string { return uuid.NewString() }

// Memory is the in-process Store used when no Redis address is configured,
// and by tests. Snapshots live until explicitly deleted.
type Memory struct {
	mu    sync.Mutex
	snaps map[string]Snapshot
}

func NewMemory() *Memory {
	return &Memory{snaps: map[string]Snapshot{}}
}

func (m *Memory) Get(ctx context.Context, id string) (Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.snaps[id]
	return snap, ok, nil
}

func (m *Memory) Put(ctx context.Context, id string, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[id] = snap
	return nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snaps, id)
	return nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }
