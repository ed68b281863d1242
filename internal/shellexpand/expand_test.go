// SPDX-License-Identifier: MPL-2.0

package shellexpand

import (
	"slices"
	"testing"
)

func TestExpand(t *testing.T) {
	t.Parallel()

	env := Map{
		"HOME":    "/home/deck",
		"SDK":     "/opt/sdk",
		"EMPTY":   "",
		"SPACED":  "a b",
		"PROTON":  "/games/proton",
		"NESTED":  "$HOME",
		"PERCENT": "50%",
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "proton", "proton"},
		{"empty", "", ""},
		{"dollar name", "$SDK/lib", "/opt/sdk/lib"},
		{"braced name", "${SDK}lib", "/opt/sdklib"},
		{"two references", "$SDK:$PROTON", "/opt/sdk:/games/proton"},
		{"unresolved plain kept", "$MISSING/lib", "$MISSING/lib"},
		{"unresolved braced kept", "${MISSING}/lib", "${MISSING}/lib"},
		{"mixed resolved and unresolved", "$SDK/$MISSING", "/opt/sdk/$MISSING"},
		{"set but empty", "x${EMPTY}y", "xy"},
		{"default operator", "${MISSING:-fallback}", "fallback"},
		{"value with spaces stays one string", "$SPACED", "a b"},
		{"value is not re-expanded", "$NESTED", "$HOME"},
		{"tilde alone", "~", "/home/deck"},
		{"tilde slash", "~/.steam/root", "/home/deck/.steam/root"},
		{"tilde user untouched", "~deck/x", "~deck/x"},
		{"tilde mid-string untouched", "a/~/b", "a/~/b"},
		{"tilde then variable", "~/$SDK", "/home/deck//opt/sdk"},
		{"quotes are literal", `"$SDK"`, `"/opt/sdk"`},
		{"verb placeholder untouched", "%verb%", "%verb%"},
		{"unterminated brace returned as is", "${SDK", "${SDK"},
		{"command substitution not run", "$(id -u)", "$(id -u)"},
		{"lone dollar", "cost$", "cost$"},
		{"percent in value", "$PERCENT", "50%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Expand(tt.in, env); got != tt.want {
				t.Errorf("Expand(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExpand_TildeWithoutHome(t *testing.T) {
	t.Parallel()

	if got := Expand("~/x", Map{}); got != "~/x" {
		t.Errorf("Expand(~/x) without HOME = %q, want ~/x", got)
	}
}

func TestExpandAll(t *testing.T) {
	t.Parallel()

	env := Map{"A": "1"}
	got := ExpandAll([]string{"$A", "b", "$C"}, env)
	want := []string{"1", "b", "$C"}
	if !slices.Equal(got, want) {
		t.Errorf("ExpandAll() = %v, want %v", got, want)
	}
	if ExpandAll(nil, env) != nil {
		t.Error("ExpandAll(nil) should return nil")
	}
}
