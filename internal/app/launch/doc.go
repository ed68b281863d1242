// SPDX-License-Identifier: MPL-2.0

// Package launch ties configuration loading, title resolution and the
// runtime launcher together behind the two operations the CLI exposes:
// launching a title and normalizing an install path. It decouples the
// command layer from config discovery and process composition.
package launch
