package slugindex

import (
	"context"
	"errors"
	"sync"

	"github.com/AppleLamps/YourGrokipedia/internal/platform/logger"
)

// Manager is the process-scoped lazy holder for the slug index. Construction
// happens at most once, on first use; every later caller shares the same
// read-only index. Index queries after construction need no locking.
type Manager struct {
	cfg Config
	log logger.Logger

	mu    sync.Mutex
	built bool
	index *Index
	err   error
}

// NewManager creates a Manager that will build the index on first Get.
func NewManager(cfg Config, log logger.Logger) *Manager {
	return &Manager{cfg: cfg, log: log}
}

// Get returns the shared index, building it on the first call. A failed
// build is cached: the index files are static for the process lifetime, so
// retrying cannot succeed without an indexsync run and a restart.
func (m *Manager) Get(ctx context.Context) (*Index, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.built {
		return m.index, m.err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.log.Info("Building slug index",
		logger.String("links_dir", m.cfg.LinksDir),
		logger.Bool("lightweight", m.cfg.Lightweight),
	)
	m.index, m.err = New(m.cfg, m.log)
	m.built = true

	return m.index, m.err
}

// Warm builds the index eagerly so the first search does not pay the load
// cost. Failures are logged, not fatal: the service can still handle URL
// inputs without a local index.
func (m *Manager) Warm(ctx context.Context) {
	if _, err := m.Get(ctx); err != nil {
		m.log.Warn("Slug index warm-up failed", logger.Error(err))
	}
}

// Count returns the loaded slug count, or an error when the index is not
// available. Used by the health endpoint; never triggers a build.
func (m *Manager) Count() (int, error) {
	m.mu.Lock()
	idx, built, err := m.index, m.built, m.err
	m.mu.Unlock()

	if !built {
		return 0, errors.New("slug index not loaded")
	}
	if err != nil {
		return 0, err
	}
	return idx.Count(), nil
}

// Resolve maps free text to a known slug, swallowing every resolution
// failure: a missing or broken index yields "" rather than an error.
func (m *Manager) Resolve(ctx context.Context, raw string) string {
	idx, err := m.Get(ctx)
	if err != nil {
		m.log.Debug("Slug resolution unavailable", logger.Error(err))
		return ""
	}
	return idx.FindSlug(raw)
}
