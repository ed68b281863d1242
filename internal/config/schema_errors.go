// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// MaxDescriptorSize bounds the size of a single descriptor file.
const MaxDescriptorSize int64 = 1 << 20

// ErrDescriptorTooLarge is returned for descriptor files above MaxDescriptorSize.
var ErrDescriptorTooLarge = errors.New("descriptor file too large")

// formatSchemaError flattens a CUE validation error into one line per
// offending field, using dotted paths such as override.123.compat_type.
func formatSchemaError(err error) error {
	if err == nil {
		return nil
	}

	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return err
	}

	lines := make([]string, 0, len(list))
	for _, e := range list {
		path := formatSchemaPath(cueerrors.Path(e))
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if path != "" {
			lines = append(lines, path+": "+msg)
		} else {
			lines = append(lines, msg)
		}
	}

	if len(lines) == 1 {
		return errors.New(lines[0])
	}
	return fmt.Errorf("schema validation failed:\n  %s", strings.Join(lines, "\n  "))
}

// formatSchemaPath renders a CUE error path, dropping the #Descriptor root and
// the quotes CUE puts around numeric override keys.
func formatSchemaPath(path []string) string {
	parts := make([]string, 0, len(path))
	for _, part := range path {
		if strings.HasPrefix(part, "#") {
			continue
		}
		parts = append(parts, strings.Trim(part, `"`))
	}
	return strings.Join(parts, ".")
}

func checkDescriptorSize(data []byte) error {
	if int64(len(data)) > MaxDescriptorSize {
		return fmt.Errorf("%w: %d bytes exceeds maximum %d bytes", ErrDescriptorTooLarge, len(data), MaxDescriptorSize)
	}
	return nil
}
