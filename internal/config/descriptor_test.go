// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/boson-compat/boson/internal/testutil"
)

func TestParseDescriptor(t *testing.T) {
	t.Parallel()

	data := `
[default]
compat_type = "DeferProton"
compat_tool_dir = "Proton 9.0"

[override.123456]
compat_type = "Electron"
disable_steam_overlay = true
wrapper_command = "/custom/path/to/electron"
wrapper_args = ["--enable-logging"]
env_vars = { ELECTRON_ENABLE_LOGGING = "1" }

[override.2379780]
compat_type = "Love"
extra_preloads = ["$HOME/.local/share/lovely/liblovely.so"]
`
	desc, err := ParseDescriptor("test.toml", []byte(data))
	if err != nil {
		t.Fatalf("ParseDescriptor() error: %v", err)
	}

	if desc.Default == nil {
		t.Fatal("expected [default] table to be decoded")
	}
	if desc.Default.ToolDir() != "Proton 9.0" {
		t.Errorf("Default.CompatToolDir = %q, want Proton 9.0", desc.Default.ToolDir())
	}

	if len(desc.Overrides) != 2 {
		t.Fatalf("expected 2 overrides, got %d", len(desc.Overrides))
	}

	electron := desc.Overrides[123456]
	if electron.CompatType != Electron {
		t.Errorf("123456 CompatType = %v, want Electron", electron.CompatType)
	}
	if !electron.DisableSteamOverlay {
		t.Error("123456 DisableSteamOverlay = false, want true")
	}
	if electron.Wrapper() != "/custom/path/to/electron" {
		t.Errorf("123456 WrapperCommand = %q", electron.Wrapper())
	}
	if !slices.Equal(electron.WrapperArgs, []string{"--enable-logging"}) {
		t.Errorf("123456 WrapperArgs = %v", electron.WrapperArgs)
	}
	if electron.EnvVars["ELECTRON_ENABLE_LOGGING"] != "1" {
		t.Errorf("123456 EnvVars = %v", electron.EnvVars)
	}

	love := desc.Overrides[2379780]
	if love.CompatType != Love {
		t.Errorf("2379780 CompatType = %v, want Love", love.CompatType)
	}
	if !slices.Equal(love.ExtraPreloads, []string{"$HOME/.local/share/lovely/liblovely.so"}) {
		t.Errorf("2379780 ExtraPreloads = %v", love.ExtraPreloads)
	}
}

func TestParseDescriptor_MissingCompatTypeDefaultsToDeferProton(t *testing.T) {
	t.Parallel()

	desc, err := ParseDescriptor("test.toml", []byte("[override.42]\nwrapper_args = [\"-x\"]\n"))
	if err != nil {
		t.Fatalf("ParseDescriptor() error: %v", err)
	}
	if got := desc.Overrides[42].CompatType; got != DeferProton {
		t.Errorf("CompatType = %v, want DeferProton", got)
	}
}

func TestParseDescriptor_Empty(t *testing.T) {
	t.Parallel()

	desc, err := ParseDescriptor("empty.toml", nil)
	if err != nil {
		t.Fatalf("ParseDescriptor() error: %v", err)
	}
	if desc.Default != nil || len(desc.Overrides) != 0 {
		t.Errorf("expected empty descriptor, got %+v", desc)
	}
}

func TestParseDescriptor_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{
			name: "malformed toml",
			data: "[override.1\ncompat_type = ",
		},
		{
			name:    "unknown compat type",
			data:    "[override.1]\ncompat_type = \"Wine\"\n",
			wantMsg: "compat_type",
		},
		{
			name:    "wrong field type",
			data:    "[override.1]\ndisable_steam_overlay = \"yes\"\n",
			wantMsg: "disable_steam_overlay",
		},
		{
			name: "non-numeric title id",
			data: "[override.balatro]\ncompat_type = \"Love\"\n",
		},
		{
			name: "title id out of range",
			data: "[override.99999999999]\ncompat_type = \"Love\"\n",
		},
		{
			name:    "env var value not a string",
			data:    "[override.1]\nenv_vars = { A = 1 }\n",
			wantMsg: "env_vars",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseDescriptor("bad.toml", []byte(tt.data))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrConfigParse) {
				t.Errorf("error should wrap ErrConfigParse, got %v", err)
			}
			var parseErr *ConfigParseError
			if !errors.As(err, &parseErr) || parseErr.Path != "bad.toml" {
				t.Errorf("expected *ConfigParseError for bad.toml, got %v", err)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParseDescriptor_IgnoresUnknownFields(t *testing.T) {
	t.Parallel()

	data := "comment = \"factory defaults\"\n[override.7]\ncompat_type = \"ForceNative\"\nfuture_option = true\n"
	desc, err := ParseDescriptor("test.toml", []byte(data))
	if err != nil {
		t.Fatalf("ParseDescriptor() error: %v", err)
	}
	if desc.Overrides[7].CompatType != ForceNative {
		t.Errorf("CompatType = %v, want ForceNative", desc.Overrides[7].CompatType)
	}
}

func TestDescriptor_MarshalRoundTrip(t *testing.T) {
	t.Parallel()

	orig := &Descriptor{
		Default: &TitleConfig{CompatType: ForceNative},
		Overrides: map[TitleID]TitleConfig{
			1454400: {CompatType: Electron, DisableSteamOverlay: true, WrapperCommand: StringPtr("electron36")},
		},
	}
	data, err := orig.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	decoded, err := ParseDescriptor("roundtrip.toml", data)
	if err != nil {
		t.Fatalf("ParseDescriptor() error: %v\n%s", err, data)
	}
	if decoded.Default == nil || decoded.Default.CompatType != ForceNative {
		t.Errorf("Default = %+v, want ForceNative", decoded.Default)
	}
	got := decoded.Overrides[1454400]
	if got.CompatType != Electron || !got.DisableSteamOverlay || got.Wrapper() != "electron36" {
		t.Errorf("override 1454400 = %+v", got)
	}
}

func TestLoadDescriptor_MissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.toml")
	_, err := LoadDescriptor(path)
	if !errors.Is(err, ErrConfigParse) {
		t.Fatalf("LoadDescriptor() error = %v, want ErrConfigParse", err)
	}
}

func TestLoadDescriptor(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "titles.toml")
	testutil.MustWriteFile(t, path, "[override.10]\ncompat_type = \"Love\"\n")

	desc, err := LoadDescriptor(path)
	if err != nil {
		t.Fatalf("LoadDescriptor() error: %v", err)
	}
	if desc.Overrides[10].CompatType != Love {
		t.Errorf("CompatType = %v, want Love", desc.Overrides[10].CompatType)
	}
}

func TestParseDescriptor_SchemaErrorPath(t *testing.T) {
	t.Parallel()

	_, err := ParseDescriptor("bad.toml", []byte("[override.77]\ncompat_type = \"Wine\"\n"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "override.77.compat_type") {
		t.Errorf("error %q should carry the dotted field path", err.Error())
	}
	if strings.Contains(err.Error(), "#Descriptor") {
		t.Errorf("error %q should not expose the schema root", err.Error())
	}
}

func TestParseDescriptor_TooLarge(t *testing.T) {
	t.Parallel()

	data := []byte("# " + strings.Repeat("x", int(MaxDescriptorSize)) + "\n")
	_, err := ParseDescriptor("huge.toml", data)
	if !errors.Is(err, ErrDescriptorTooLarge) {
		t.Fatalf("ParseDescriptor() error = %v, want ErrDescriptorTooLarge", err)
	}
	if !errors.Is(err, ErrConfigParse) {
		t.Errorf("error should also wrap ErrConfigParse, got %v", err)
	}
}

func TestFormatSchemaPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"#Descriptor", "override", `"123"`, "compat_type"}, "override.123.compat_type"},
		{[]string{"default", "env_vars", "A"}, "default.env_vars.A"},
	}
	for _, tt := range tests {
		if got := formatSchemaPath(tt.in); got != tt.want {
			t.Errorf("formatSchemaPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
