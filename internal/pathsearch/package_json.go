// SPDX-License-Identifier: MPL-2.0

package pathsearch

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// PackageJSONName is the Node package manifest looked for in unpacked payloads.
const PackageJSONName = "package.json"

// PackageReport describes what InspectPackage found. It is purely diagnostic.
type PackageReport struct {
	// Path is the package.json location that was checked.
	Path string
	// Found reports whether the file exists.
	Found bool
	// Valid reports whether the file holds well-formed JSON.
	Valid bool
	// Name and Main are the package's "name" and "main" entries.
	Name string
	Main string
}

// HasMain reports whether the package declares an entry script.
func (r PackageReport) HasMain() bool {
	return r.Main != ""
}

// InspectPackage looks for a package.json inside an unpacked payload and logs
// what it finds. Archives are skipped. Nothing here fails a launch.
func InspectPackage(payload string) PackageReport {
	report := PackageReport{Path: filepath.Join(payload, PackageJSONName)}

	info, err := os.Stat(payload)
	if err != nil || !info.IsDir() {
		slog.Debug("payload is not a directory, skipping package.json scan", "path", payload)
		return report
	}

	data, err := os.ReadFile(report.Path)
	if err != nil {
		slog.Warn("could not read package.json, this may not be the application directory", "path", report.Path, "error", err)
		return report
	}
	report.Found = true

	if !gjson.ValidBytes(data) {
		slog.Warn("failed to parse package.json", "path", report.Path)
		return report
	}
	report.Valid = true

	fields := gjson.GetManyBytes(data, "name", "main")
	report.Name = fields[0].String()
	report.Main = fields[1].String()

	if !report.HasMain() {
		slog.Warn("package.json does not specify a main script, it may not be a valid Electron package", "path", report.Path)
		return report
	}
	slog.Info("validated package.json", "name", report.Name, "main", report.Main)
	return report
}
