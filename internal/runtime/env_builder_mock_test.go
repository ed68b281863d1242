// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"maps"

	"github.com/boson-compat/boson/internal/config"
)

// mockEnvBuilder returns a fixed environment map.
type mockEnvBuilder struct {
	env map[string]string
}

func (m *mockEnvBuilder) Build(*config.ResolvedConfig) map[string]string {
	return maps.Clone(m.env)
}
