package vocab

import (
	"time"
)

// Pack represents a loaded vocabulary pack.
type Pack struct {
	// Manifest is the parsed pack metadata
	Manifest *Manifest

	// LoadedAt is the timestamp when the pack was loaded
	LoadedAt time.Time
}

// Name returns the pack name.
func (p *Pack) Name() string {
	return p.Manifest.Name
}

// Version returns the pack version.
func (p *Pack) Version() string {
	return p.Manifest.Version
}

// Set returns the words the pack adds.
func (p *Pack) Set() Set {
	return p.Manifest.Set()
}
