// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/exp/maps"
)

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// SearchDirs replaces the default descriptor search directories when non-nil.
		SearchDirs []string
		// ExecutableDir overrides the directory used for the install-relative data dir.
		ExecutableDir string
	}

	// Provider loads a Store from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Store, error)
	}

	// Store holds the global default configuration and every per-title
	// override discovered on disk.
	Store struct {
		// Default is the global default layer.
		Default TitleConfig
		// Overrides maps title ids to their accumulated override layer.
		Overrides map[TitleID]TitleConfig
		// Sources lists the descriptor files that were loaded, in load order.
		Sources []string
		// Warnings collects per-file parse failures that were skipped.
		Warnings []error
	}

	fileProvider struct{}
)

// NewProvider creates a configuration provider backed by the filesystem.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load discovers and merges descriptor files.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Store, error) {
	return Load(ctx, opts)
}

// NewStore returns a store holding only the built-in defaults.
func NewStore() *Store {
	return &Store{
		Default:   TitleConfig{},
		Overrides: BuiltinOverrides(),
	}
}

// Load builds the default store and then merges every descriptor file found
// directly inside each search directory. Directories that do not exist are
// skipped. A file that fails to parse is recorded in Warnings and skipped.
func Load(ctx context.Context, opts LoadOptions) (*Store, error) {
	dirs := opts.SearchDirs
	if dirs == nil {
		exeDir := opts.ExecutableDir
		if exeDir == "" {
			var err error
			if exeDir, err = ExecutableDir(); err != nil {
				return nil, err
			}
		}
		dirs = SearchDirs(exeDir)
	}

	slog.Debug("loading title configuration", "dirs", dirs)

	store := NewStore()
	validator, err := newDescriptorValidator()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		files, err := descriptorFiles(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("config directory does not exist", "dir", dir)
				continue
			}
			return nil, fmt.Errorf("failed to read config directory %s: %w", dir, err)
		}

		for _, path := range files {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
			default:
			}

			data, err := os.ReadFile(path)
			if err != nil {
				store.warn(&ConfigParseError{Path: path, Err: err})
				continue
			}
			desc, err := validator.parse(path, data)
			if err != nil {
				store.warn(err)
				continue
			}
			store.MergeDescriptor(desc)
			store.Sources = append(store.Sources, path)
			slog.Info("loaded config", "path", path, "overrides", len(desc.Overrides))
		}
	}

	slog.Debug("title overrides loaded", "count", len(store.Overrides))
	return store, nil
}

// descriptorFiles lists the regular *.toml files directly inside dir, sorted by name.
func descriptorFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || filepath.Ext(entry.Name()) != DescriptorExt {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

func (s *Store) warn(err error) {
	slog.Warn("skipping config file", "error", err)
	s.Warnings = append(s.Warnings, err)
}

// MergeDescriptor folds one descriptor into the store. An override for a title
// that already has one is merged onto the existing entry rather than replacing it.
func (s *Store) MergeDescriptor(d *Descriptor) {
	if d.Default != nil {
		s.Default = s.Default.Merge(*d.Default)
	}
	if s.Overrides == nil {
		s.Overrides = make(map[TitleID]TitleConfig, len(d.Overrides))
	}
	for id, title := range d.Overrides {
		if existing, ok := s.Overrides[id]; ok {
			s.Overrides[id] = existing.Merge(title)
			continue
		}
		s.Overrides[id] = title.Clone()
	}
}

// TitleIDs returns the ids of every known override in ascending order.
func (s *Store) TitleIDs() []TitleID {
	ids := maps.Keys(s.Overrides)
	slices.Sort(ids)
	return ids
}

// Resolve merges the runtime defaults of the title's compatibility type, the
// global default and the title override (if any), in that order.
func (s *Store) Resolve(id TitleID) ResolvedConfig {
	override, hasOverride := s.Overrides[id]

	compatType := s.Default.CompatType
	if hasOverride {
		compatType = override.CompatType
	}

	layers := []TitleConfig{RuntimeDefaults(compatType), s.Default}
	if hasOverride {
		layers = append(layers, override)
	}

	merged := Fold(layers...)
	if merged.CompatToolDir == nil {
		merged.CompatToolDir = StringPtr(DefaultCompatToolDir)
	}

	return ResolvedConfig{
		TitleID:     id,
		HasOverride: hasOverride,
		TitleConfig: merged,
	}
}
