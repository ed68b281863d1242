// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/boson-compat/boson/internal/config"
	"github.com/boson-compat/boson/internal/shellexpand"
	"github.com/boson-compat/boson/internal/steamenv"
)

const (
	// OverlayRendererName identifies the Steam overlay library in path lists.
	OverlayRendererName = "gameoverlayrenderer"

	// PreloadVar is the dynamic loader preload list.
	PreloadVar = "LD_PRELOAD"
	// LibraryPathVar is the dynamic loader search path.
	LibraryPathVar = "LD_LIBRARY_PATH"
)

type (
	// EnvBuilder computes the variables a launch sets on top of the inherited
	// environment. Later steps win over earlier ones:
	//
	//  1. LD_PRELOAD: inherited entries (expanded, overlay-filtered when
	//     disable_steam_overlay is set), then extra_preloads
	//  2. LD_LIBRARY_PATH: inherited entries (expanded), then <exe dir>/lib
	//     when it exists, all overlay-filtered when disable_steam_overlay is set
	//  3. env_vars, each value expanded
	EnvBuilder interface {
		Build(cfg *config.ResolvedConfig) map[string]string
	}

	// DefaultEnvBuilder composes the launch environment from a snapshot.
	DefaultEnvBuilder struct {
		// Env is the captured process environment.
		Env *steamenv.Snapshot
		// ExecutableDir holds the boson binary and its bundled lib directory.
		ExecutableDir string
	}
)

// Build implements EnvBuilder.
func (b *DefaultEnvBuilder) Build(cfg *config.ResolvedConfig) map[string]string {
	out := make(map[string]string, len(cfg.EnvVars)+2)

	out[PreloadVar] = ComposePreload(b.Env.Preload, b.Env, cfg.DisableSteamOverlay, cfg.ExtraPreloads)
	out[LibraryPathVar] = ComposeLibraryPath(b.Env.LibraryPath, b.Env, b.bundledLibDir(), cfg.DisableSteamOverlay)

	for k, v := range cfg.EnvVars {
		out[k] = shellexpand.Expand(v, b.Env)
	}
	return out
}

func (b *DefaultEnvBuilder) bundledLibDir() string {
	if b.ExecutableDir == "" {
		return ""
	}
	dir := filepath.Join(b.ExecutableDir, config.LibDirName)
	if _, err := os.Stat(dir); err != nil {
		return ""
	}
	return dir
}

// ComposePreload builds LD_PRELOAD from the inherited value and the extra
// preloads. Inherited entries are expanded and empty ones dropped; the overlay
// renderer is removed from them when disableOverlay is set. Extra preloads are
// appended as given.
func ComposePreload(inherited string, env shellexpand.Environment, disableOverlay bool, extra []string) string {
	entries := splitExpanded(inherited, env)
	if disableOverlay {
		entries = dropOverlay(entries)
	}
	entries = append(entries, extra...)
	return strings.Join(entries, steamenv.ListSeparator)
}

// ComposeLibraryPath builds LD_LIBRARY_PATH from the inherited value plus
// libDir (when non-empty). With disableOverlay set, overlay entries are removed
// from the whole list.
func ComposeLibraryPath(inherited string, env shellexpand.Environment, libDir string, disableOverlay bool) string {
	entries := splitExpanded(inherited, env)
	if libDir != "" {
		entries = append(entries, libDir)
	}
	if disableOverlay {
		entries = dropOverlay(entries)
	}
	return strings.Join(entries, steamenv.ListSeparator)
}

func splitExpanded(value string, env shellexpand.Environment) []string {
	var out []string
	for _, entry := range steamenv.SplitList(value) {
		if expanded := shellexpand.Expand(entry, env); expanded != "" {
			out = append(out, expanded)
		}
	}
	return out
}

func dropOverlay(entries []string) []string {
	return slices.DeleteFunc(entries, func(s string) bool {
		return strings.Contains(s, OverlayRendererName)
	})
}

// mergeEnviron applies overrides to a KEY=VALUE list. Existing keys are
// replaced in place; new keys are appended in sorted order.
func mergeEnviron(base []string, overrides map[string]string) []string {
	out := make([]string, 0, len(base)+len(overrides))
	seen := make(map[string]bool, len(overrides))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if v, ok := overrides[key]; ok {
			if !seen[key] {
				out = append(out, key+"="+v)
				seen[key] = true
			}
			continue
		}
		out = append(out, kv)
	}
	for _, key := range slices.Sorted(maps.Keys(overrides)) {
		if !seen[key] {
			out = append(out, key+"="+overrides[key])
		}
	}
	return out
}
