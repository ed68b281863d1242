// SPDX-License-Identifier: MPL-2.0

package config

import "path/filepath"

const (
	// LoveCommand is the system LÖVE runtime used for Love titles.
	LoveCommand = "love"
	// DefaultElectronCommand is used when ELECTRON_PATH is not set.
	DefaultElectronCommand = "electron"
	// ElectronHookScript is loaded into every Electron title via --require.
	ElectronHookScript = "register-hook.js"

	balatroTitleID       TitleID = 2379780
	cookieClickerTitleID TitleID = 1454400
)

// Executable is a wrapper command plus the baseline flags it always receives.
type Executable struct {
	Command string
	Args    []string
}

// RuntimeDefaults returns the base configuration layer for a compatibility type.
func RuntimeDefaults(c CompatType) TitleConfig {
	switch c {
	case DeferProton:
		return TitleConfig{CompatType: DeferProton}
	case ForceNative:
		return TitleConfig{CompatType: ForceNative}
	case Electron:
		return TitleConfig{CompatType: Electron, DisableSteamOverlay: true}
	case Love:
		return TitleConfig{CompatType: Love}
	default:
		return TitleConfig{CompatType: c}
	}
}

// DefaultExecutable returns the implicit wrapper for a compatibility type.
// exeDir is the directory holding the running boson binary and electronPath the
// Electron runtime to use. DeferProton and ForceNative have no implicit wrapper
// and return nil.
func DefaultExecutable(c CompatType, exeDir, electronPath string) *Executable {
	switch c {
	case Electron:
		if electronPath == "" {
			electronPath = DefaultElectronCommand
		}
		return &Executable{
			Command: electronPath,
			Args: []string{
				"--no-sandbox",
				"--require", filepath.Join(exeDir, ElectronHookScript),
			},
		}
	case Love:
		return &Executable{Command: LoveCommand}
	case DeferProton, ForceNative:
		return nil
	default:
		return nil
	}
}

// BuiltinOverrides returns the embedded per-title table for well-known titles.
// It is not meant to be exhaustive.
func BuiltinOverrides() map[TitleID]TitleConfig {
	return map[TitleID]TitleConfig{
		// Balatro. Mod loaders such as lovely can be added via extra_preloads.
		balatroTitleID: {CompatType: Love},
		cookieClickerTitleID: {
			CompatType:          Electron,
			DisableSteamOverlay: true,
		},
	}
}
