// SPDX-License-Identifier: MPL-2.0

package config

import "maps"

// Merge returns a new TitleConfig with overlay layered on top of c.
// Neither input is modified.
//
// Field policy:
//   - compat_type, disable_steam_overlay: overlay always wins
//   - wrapper_command, compat_tool_dir: overlay wins only when set
//   - wrapper_args, append_args, extra_preloads: overlay appended after c
//   - env_vars: union, overlay keys win
//
// List and map fields never shrink, and duplicates are kept.
func (c TitleConfig) Merge(overlay TitleConfig) TitleConfig {
	out := c.Clone()

	out.CompatType = overlay.CompatType

	if overlay.WrapperCommand != nil {
		out.WrapperCommand = cloneString(overlay.WrapperCommand)
	}

	out.WrapperArgs = appendOwned(out.WrapperArgs, overlay.WrapperArgs)
	out.AppendArgs = appendOwned(out.AppendArgs, overlay.AppendArgs)
	out.ExtraPreloads = appendOwned(out.ExtraPreloads, overlay.ExtraPreloads)

	if len(overlay.EnvVars) > 0 {
		if out.EnvVars == nil {
			out.EnvVars = make(map[string]string, len(overlay.EnvVars))
		}
		maps.Copy(out.EnvVars, overlay.EnvVars)
	}

	if overlay.CompatToolDir != nil {
		out.CompatToolDir = cloneString(overlay.CompatToolDir)
	}

	out.DisableSteamOverlay = overlay.DisableSteamOverlay

	return out
}

// Fold merges layers left to right onto an empty config.
func Fold(layers ...TitleConfig) TitleConfig {
	var acc TitleConfig
	for i, layer := range layers {
		if i == 0 {
			acc = layer.Clone()
			continue
		}
		acc = acc.Merge(layer)
	}
	return acc
}

func appendOwned(base, extra []string) []string {
	if len(extra) == 0 {
		return base
	}
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}
