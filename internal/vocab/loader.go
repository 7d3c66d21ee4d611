package vocab

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Loader handles loading vocabulary packs from disk.
type Loader struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewLoader creates a new pack loader.
func NewLoader(logger *zap.Logger) *Loader {
	return &Loader{
		logger: logger.With(zap.String("component", "vocab-loader")),
		now:    time.Now,
	}
}

// LoadPack loads a single pack from a directory.
func (l *Loader) LoadPack(dir string) (*Pack, error) {
	l.logger.Debug("Loading vocabulary pack", zap.String("dir", dir))

	manifest, err := ParseManifest(dir)
	if err != nil {
		return nil, err
	}

	pack := &Pack{
		Manifest: manifest,
		LoadedAt: l.now(),
	}

	l.logger.Info("Vocabulary pack loaded",
		zap.String("name", manifest.Name),
		zap.String("version", manifest.Version),
		zap.Int("functions", len(manifest.Functions)),
		zap.Int("metadata_fields", len(manifest.MetadataFields)),
	)

	return pack, nil
}

// DiscoverPacks scans directories for packs. Every subdirectory of a path is
// a candidate; subdirectories are visited in name order.
func (l *Loader) DiscoverPacks(ctx context.Context, paths []string) ([]*Pack, error) {
	var packs []*Pack
	var errs []error

	for _, basePath := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		l.logger.Debug("Scanning vocabulary directory", zap.String("path", basePath))

		entries, err := os.ReadDir(basePath)
		if err != nil {
			if os.IsNotExist(err) {
				l.logger.Warn("Vocabulary path does not exist", zap.String("path", basePath))
				continue
			}
			return nil, fmt.Errorf("failed to read directory '%s': %w", basePath, err)
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}

			packDir := filepath.Join(basePath, entry.Name())

			pack, err := l.LoadPack(packDir)
			if err != nil {
				l.logger.Error("Failed to load vocabulary pack",
					zap.String("dir", packDir),
					zap.Error(err),
				)
				errs = append(errs, err)
				continue
			}

			packs = append(packs, pack)
		}
	}

	if len(packs) > 0 && len(errs) > 0 {
		l.logger.Warn("Some vocabulary packs failed to load",
			zap.Int("loaded", len(packs)),
			zap.Int("failed", len(errs)),
		)
	}

	if len(packs) == 0 {
		return nil, &NoPacksFoundError{Paths: paths}
	}

	return packs, nil
}
