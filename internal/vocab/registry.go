package vocab

import (
	"sync"

	"go.uber.org/zap"
)

// Registry manages loaded packs in registration order.
type Registry struct {
	sync.RWMutex
	packs  map[string]*Pack
	order  []string
	logger *zap.Logger
}

// NewRegistry creates a new pack registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		packs:  make(map[string]*Pack),
		logger: logger.With(zap.String("component", "vocab-registry")),
	}
}

// Register adds a pack to the registry.
func (r *Registry) Register(pack *Pack) error {
	r.Lock()
	defer r.Unlock()

	name := pack.Manifest.Name

	if _, exists := r.packs[name]; exists {
		return &PackAlreadyRegisteredError{PackName: name}
	}

	r.packs[name] = pack
	r.order = append(r.order, name)

	r.logger.Info("Vocabulary pack registered",
		zap.String("name", name),
		zap.String("version", pack.Manifest.Version),
	)

	return nil
}

// Get retrieves a pack by name.
func (r *Registry) Get(name string) (*Pack, bool) {
	r.RLock()
	defer r.RUnlock()

	pack, ok := r.packs[name]
	return pack, ok
}

// List returns all registered packs in registration order.
func (r *Registry) List() []*Pack {
	r.RLock()
	defer r.RUnlock()

	result := make([]*Pack, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.packs[name])
	}
	return result
}

// Unregister removes a pack from the registry.
func (r *Registry) Unregister(name string) {
	r.Lock()
	defer r.Unlock()

	if _, ok := r.packs[name]; !ok {
		return
	}

	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	delete(r.packs, name)

	r.logger.Info("Vocabulary pack unregistered", zap.String("name", name))
}

// Count returns the number of registered packs.
func (r *Registry) Count() int {
	r.RLock()
	defer r.RUnlock()

	return len(r.packs)
}
