package vocab

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Manager owns the pack lifecycle and the merged vocabulary.
type Manager struct {
	paths    []string
	loader   *Loader
	registry *Registry
	logger   *zap.Logger

	mu     sync.RWMutex
	loaded bool
	merged Set
}

// NewManager creates a manager for packs found under paths.
func NewManager(paths []string, logger *zap.Logger) *Manager {
	return &Manager{
		paths:    paths,
		loader:   NewLoader(logger),
		registry: NewRegistry(logger),
		logger:   logger.With(zap.String("component", "vocab-manager")),
		merged:   Builtin(),
	}
}

// LoadAll discovers and registers all packs from the configured paths. Finding
// no packs is not an error: the built-in vocabulary stays in effect.
func (m *Manager) LoadAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loaded {
		return fmt.Errorf("vocabulary packs already loaded")
	}

	m.logger.Info("Loading vocabulary packs",
		zap.Strings("paths", m.paths),
	)

	packs, err := m.loader.DiscoverPacks(ctx, m.paths)
	if err != nil {
		if _, ok := err.(*NoPacksFoundError); ok {
			m.logger.Warn("No vocabulary packs found in configured paths",
				zap.Strings("paths", m.paths),
			)
			m.loaded = true
			return nil
		}
		return err
	}

	for _, pack := range packs {
		if err := m.registry.Register(pack); err != nil {
			m.logger.Error("Failed to register vocabulary pack",
				zap.String("name", pack.Manifest.Name),
				zap.Error(err),
			)
			continue
		}
	}

	merged := Builtin()
	for _, pack := range m.registry.List() {
		merged = merged.Merge(pack.Set())
	}
	m.merged = merged
	m.loaded = true

	m.logger.Info("Vocabulary packs loaded successfully",
		zap.Int("count", m.registry.Count()),
		zap.Int("functions", len(merged.Functions)),
	)

	return nil
}

// Vocabulary returns the built-in vocabulary extended by every registered
// pack, in registration order.
func (m *Manager) Vocabulary() Set {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.merged
}

// GetPack retrieves a pack by name.
func (m *Manager) GetPack(name string) (*Pack, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pack, ok := m.registry.Get(name)
	if !ok {
		return nil, &PackNotFoundInRegistryError{PackName: name}
	}

	return pack, nil
}

// Registry returns the pack registry (for testing/inspection).
func (m *Manager) Registry() *Registry {
	return m.registry
}

// IsLoaded returns whether packs have been loaded.
func (m *Manager) IsLoaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}
