package mission

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/NexusMissions_Go/internal/concurrency"
	"github.com/osse101/NexusMissions_Go/internal/logger"
)

// ManagerConfig sizes the engine cache
type ManagerConfig struct {
	CacheSize int
	IdleTTL   time.Duration
}

// Manager holds one Engine per recently active user. Engines idle for
// longer than IdleTTL are evicted; their state is rebuilt from the
// gateway on next use.
type Manager struct {
	deps    Deps
	engines *expirable.LRU[uuid.UUID, *Engine]
	loading *concurrency.LockManager[uuid.UUID] // one load per user at a time
}

// NewManager creates a manager with an empty engine cache
func NewManager(deps Deps, cfg ManagerConfig) *Manager {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultEngineCacheSize
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultEngineIdleTTL
	}

	onEvict := func(userID uuid.UUID, _ *Engine) {
		logger.Debug(LogMsgEngineEvicted, "user_id", userID)
	}

	return &Manager{
		deps:    deps.withDefaults(),
		loading: concurrency.NewLockManager[uuid.UUID](),
		engines: expirable.NewLRU[uuid.UUID, *Engine](cfg.CacheSize, onEvict, cfg.IdleTTL),
	}
}

// Engine returns the user's engine, creating and loading it on first use.
// Access refreshes the idle timer.
func (m *Manager) Engine(ctx context.Context, userID uuid.UUID) (*Engine, error) {
	if e, ok := m.engines.Get(userID); ok {
		m.engines.Add(userID, e)
		return e, nil
	}

	unlock := m.loading.Lock(userID)
	defer unlock()

	if e, ok := m.engines.Get(userID); ok {
		return e, nil
	}

	e := NewEngine(userID, m.deps)
	if err := e.Reload(ctx); err != nil {
		return nil, err
	}
	m.engines.Add(userID, e)
	return e, nil
}

// Peek returns a cached engine without creating one or refreshing it
func (m *Manager) Peek(userID uuid.UUID) (*Engine, bool) {
	return m.engines.Peek(userID)
}

// TickAll ticks every cached engine and returns how many missions became ready
func (m *Manager) TickAll(ctx context.Context) int {
	ready := 0
	for _, e := range m.engines.Values() {
		if ctx.Err() != nil {
			break
		}
		ready += len(e.Tick(ctx))
	}
	return ready
}

// Len returns the number of cached engines
func (m *Manager) Len() int {
	return m.engines.Len()
}

// Purge drops every cached engine
func (m *Manager) Purge() {
	m.engines.Purge()
}
