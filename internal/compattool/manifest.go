// SPDX-License-Identifier: MPL-2.0

package compattool

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andygrunwald/vdf"
)

// ManifestName is the tool manifest file inside a compatibility tool directory.
const ManifestName = "toolmanifest.vdf"

var (
	// ErrManifestParse is the sentinel error wrapped by ManifestParseError.
	ErrManifestParse = errors.New("tool manifest parse error")

	// ErrEmptyCommandLine is returned when a manifest has no usable command line.
	ErrEmptyCommandLine = errors.New("tool manifest command line is empty")
)

type (
	// Manifest is the decoded content of toolmanifest.vdf.
	//
	//	"manifest"
	//	{
	//	  "version" "2"
	//	  "commandline" "/proton %verb%"
	//	  "commandline_waitforexitandrun" "/proton waitforexitandrun"
	//	}
	Manifest struct {
		Version     string
		CommandLine string
		// CommandLineWaitForExitAndRun is the alternate command line Steam uses
		// for the waitforexitandrun verb. It is kept for diagnostics only.
		CommandLineWaitForExitAndRun string
	}

	// ManifestParseError is returned when a manifest cannot be read or decoded.
	// It wraps ErrManifestParse for errors.Is() compatibility.
	ManifestParseError struct {
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *ManifestParseError) Error() string {
	return fmt.Sprintf("failed to parse tool manifest %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrManifestParse and the underlying cause.
func (e *ManifestParseError) Unwrap() []error { return []error{ErrManifestParse, e.Err} }

// LoadManifest reads the manifest inside toolDir.
func LoadManifest(toolDir string) (*Manifest, error) {
	path := filepath.Join(toolDir, ManifestName)
	f, err := os.Open(path)
	if err != nil {
		return nil, &ManifestParseError{Path: path, Err: err}
	}
	defer f.Close()

	m, err := ParseManifest(f)
	if err != nil {
		return nil, &ManifestParseError{Path: path, Err: err}
	}
	return m, nil
}

// ParseManifest decodes a KeyValues manifest document. Key lookup is
// case-insensitive, as in Steam.
func ParseManifest(r io.Reader) (*Manifest, error) {
	doc, err := vdf.NewParser(r).Parse()
	if err != nil {
		return nil, err
	}

	root, ok := lookupFold(doc, "manifest").(map[string]interface{})
	if !ok {
		return nil, errors.New(`missing "manifest" section`)
	}

	return &Manifest{
		Version:                      stringValue(root, "version"),
		CommandLine:                  stringValue(root, "commandline"),
		CommandLineWaitForExitAndRun: stringValue(root, "commandline_waitforexitandrun"),
	}, nil
}

func lookupFold(m map[string]interface{}, key string) interface{} {
	if v, ok := m[key]; ok {
		return v
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}

func stringValue(m map[string]interface{}, key string) string {
	s, _ := lookupFold(m, key).(string)
	return s
}
