package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vimtodo/core/internal/ports"
)

type entry struct {
	ws       *Workspace
	ready    chan struct{}
	err      error
	lastUsed time.Time
}

// Manager hands out one initialized Workspace per owner.
type Manager struct {
	store *ports.Store
	opts  Options
	now   func() time.Time

	mu     sync.Mutex
	spaces map[uuid.UUID]*entry
}

// NewManager creates a manager whose workspaces read and write through store.
func NewManager(store *ports.Store, opts Options) *Manager {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		store:  store,
		opts:   opts,
		now:    now,
		spaces: make(map[uuid.UUID]*entry),
	}
}

// Get returns owner's workspace, loading it on first use. Concurrent callers
// for the same owner share one load.
func (m *Manager) Get(ctx context.Context, owner uuid.UUID) (*Workspace, error) {
	m.mu.Lock()
	e, ok := m.spaces[owner]
	if ok {
		e.lastUsed = m.now()
		m.mu.Unlock()

		select {
		case <-e.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if e.err != nil {
			return nil, e.err
		}
		return e.ws, nil
	}

	e = &entry{
		ws:       New(m.store, m.opts),
		ready:    make(chan struct{}),
		lastUsed: m.now(),
	}
	m.spaces[owner] = e
	m.mu.Unlock()

	id := owner
	e.err = e.ws.Initialize(ctx, &id)
	close(e.ready)

	if e.err != nil {
		m.mu.Lock()
		if m.spaces[owner] == e {
			delete(m.spaces, owner)
		}
		m.mu.Unlock()
		return nil, e.err
	}
	return e.ws, nil
}

// Release flushes and tears down owner's workspace.
func (m *Manager) Release(ctx context.Context, owner uuid.UUID) error {
	m.mu.Lock()
	e, ok := m.spaces[owner]
	delete(m.spaces, owner)
	m.mu.Unlock()

	if !ok {
		return nil
	}
	<-e.ready
	if e.err != nil {
		return nil
	}
	return e.ws.Teardown(ctx)
}

// Sweep releases workspaces unused for longer than idle and returns how
// many were released.
func (m *Manager) Sweep(ctx context.Context, idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	var stale []uuid.UUID
	for owner, e := range m.spaces {
		if e.lastUsed.Before(cutoff) {
			stale = append(stale, owner)
		}
	}
	m.mu.Unlock()

	for _, owner := range stale {
		if err := m.Release(ctx, owner); err != nil && m.opts.Logger != nil {
			m.opts.Logger.Warnw("Failed to flush idle workspace", "owner", owner.String(), "error", err)
		}
	}
	return len(stale)
}

// ReleaseAll flushes and tears down every workspace.
func (m *Manager) ReleaseAll(ctx context.Context) int {
	m.mu.Lock()
	owners := make([]uuid.UUID, 0, len(m.spaces))
	for owner := range m.spaces {
		owners = append(owners, owner)
	}
	m.mu.Unlock()

	for _, owner := range owners {
		if err := m.Release(ctx, owner); err != nil && m.opts.Logger != nil {
			m.opts.Logger.Warnw("Failed to flush workspace", "owner", owner.String(), "error", err)
		}
	}
	return len(owners)
}

// Len reports how many owners currently have a workspace.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.spaces)
}
