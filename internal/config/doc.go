// SPDX-License-Identifier: MPL-2.0

// Package config resolves per-title launch configuration.
//
// Three layers are merged for every launch: the runtime defaults of the title's
// compatibility type, the global default configuration, and the title-specific
// override. Overrides come from an embedded table of well-known titles plus TOML
// descriptor files found in ~/.config/boson.d and in the data directory
// next to the boson executable. Descriptor files are validated against a CUE
// schema (descriptor_schema.cue) before decoding.
//
// Application settings such as the log level live in a separate settings.toml
// read through Viper.
package config
