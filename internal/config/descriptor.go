// SPDX-License-Identifier: MPL-2.0

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/pelletier/go-toml/v2"
)

// DescriptorExt is the file extension of title descriptor files.
const DescriptorExt = ".toml"

// ErrConfigParse is the sentinel error wrapped by ConfigParseError.
var ErrConfigParse = errors.New("config parse error")

//go:embed descriptor_schema.cue
var descriptorSchema string

type (
	// Descriptor is the decoded content of one title descriptor file.
	//
	//	[default]
	//	compat_type = "DeferProton"
	//
	//	[override.123456]
	//	compat_type = "Electron"
	//	disable_steam_overlay = true
	//	wrapper_command = "/custom/path/to/electron"
	Descriptor struct {
		// Default is merged into the global default configuration when present.
		Default *TitleConfig
		// Overrides maps title ids to their override layer.
		Overrides map[TitleID]TitleConfig
	}

	// ConfigParseError is returned when a descriptor file cannot be decoded.
	// It wraps ErrConfigParse for errors.Is() compatibility.
	ConfigParseError struct {
		Path string
		Err  error
	}

	descriptorFile struct {
		Default   *TitleConfig           `toml:"default,omitempty"`
		Overrides map[string]TitleConfig `toml:"override,omitempty"`
	}

	// descriptorValidator checks decoded TOML documents against the CUE schema.
	// A validator is not safe for concurrent use.
	descriptorValidator struct {
		ctx    *cue.Context
		schema cue.Value
	}
)

// Error implements the error interface.
func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrConfigParse and the underlying cause.
func (e *ConfigParseError) Unwrap() []error { return []error{ErrConfigParse, e.Err} }

func newDescriptorValidator() (*descriptorValidator, error) {
	ctx := cuecontext.New()
	compiled := ctx.CompileString(descriptorSchema, cue.Filename("descriptor_schema.cue"))
	if compiled.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile descriptor schema: %w", compiled.Err())
	}
	return &descriptorValidator{
		ctx:    ctx,
		schema: compiled.LookupPath(cue.ParsePath("#Descriptor")),
	}, nil
}

func (v *descriptorValidator) validate(doc map[string]any) error {
	value := v.ctx.Encode(doc)
	if value.Err() != nil {
		return value.Err()
	}
	if err := v.schema.Unify(value).Validate(); err != nil {
		return formatSchemaError(err)
	}
	return nil
}

// LoadDescriptor reads and parses the descriptor file at path.
func LoadDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigParseError{Path: path, Err: err}
	}
	v, err := newDescriptorValidator()
	if err != nil {
		return nil, err
	}
	return v.parse(path, data)
}

// ParseDescriptor decodes descriptor content. name is used in error messages.
func ParseDescriptor(name string, data []byte) (*Descriptor, error) {
	v, err := newDescriptorValidator()
	if err != nil {
		return nil, err
	}
	return v.parse(name, data)
}

func (v *descriptorValidator) parse(name string, data []byte) (*Descriptor, error) {
	if err := checkDescriptorSize(data); err != nil {
		return nil, &ConfigParseError{Path: name, Err: err}
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigParseError{Path: name, Err: err}
	}
	if raw == nil {
		raw = map[string]any{}
	}
	if err := v.validate(raw); err != nil {
		return nil, &ConfigParseError{Path: name, Err: err}
	}

	var file descriptorFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, &ConfigParseError{Path: name, Err: err}
	}

	desc := &Descriptor{
		Default:   file.Default,
		Overrides: make(map[TitleID]TitleConfig, len(file.Overrides)),
	}
	for key, title := range file.Overrides {
		id, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			return nil, &ConfigParseError{Path: name, Err: fmt.Errorf("override %q: invalid title id: %w", key, err)}
		}
		desc.Overrides[TitleID(id)] = title
	}
	return desc, nil
}

// Marshal encodes the descriptor back to TOML.
func (d *Descriptor) Marshal() ([]byte, error) {
	file := descriptorFile{
		Default:   d.Default,
		Overrides: make(map[string]TitleConfig, len(d.Overrides)),
	}
	for id, title := range d.Overrides {
		file.Overrides[strconv.FormatUint(uint64(id), 10)] = title
	}
	return toml.Marshal(file)
}
