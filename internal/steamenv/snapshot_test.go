// SPDX-License-Identifier: MPL-2.0

package steamenv

import (
	"errors"
	"slices"
	"testing"

	"github.com/boson-compat/boson/internal/testutil"
)

func TestFromMap(t *testing.T) {
	t.Parallel()

	s, err := FromMap(map[string]string{
		"SteamAppId":                       "1454400",
		"STEAM_COMPAT_DATA_PATH":           "/steam/steamapps/compatdata/1454400",
		"STEAM_COMPAT_CLIENT_INSTALL_PATH": "/home/deck/.steam/root",
		"STEAM_COMPAT_INSTALL_PATH":        "/steam/steamapps/common/Cookie Clicker",
		"STEAM_COMPAT_LIBRARY_PATHS":       "/steam/steamapps:/mnt/sd/steamapps",
		"STEAM_COMPAT_TOOL_PATHS":          "/tools/boson:/tools/runtime",
		"BOSON_LOAD_PATH":                  "resources/app",
		"LD_PRELOAD":                       "/a.so:/b.so",
		"HOME":                             "/home/deck",
	})
	if err != nil {
		t.Fatalf("FromMap() error: %v", err)
	}

	if s.ClientInstallPath != "/home/deck/.steam/root" {
		t.Errorf("ClientInstallPath = %q", s.ClientInstallPath)
	}
	if s.InstallPath != "/steam/steamapps/common/Cookie Clicker" {
		t.Errorf("InstallPath = %q", s.InstallPath)
	}
	if !slices.Equal(s.ToolPaths, []string{"/tools/boson", "/tools/runtime"}) {
		t.Errorf("ToolPaths = %v", s.ToolPaths)
	}
	if s.LoadPath != "resources/app" {
		t.Errorf("LoadPath = %q", s.LoadPath)
	}
	if s.ElectronPath != DefaultElectronPath {
		t.Errorf("ElectronPath = %q, want default %q", s.ElectronPath, DefaultElectronPath)
	}
	if s.Preload != "/a.so:/b.so" || s.Home != "/home/deck" {
		t.Errorf("Preload = %q, Home = %q", s.Preload, s.Home)
	}

	roots, ok := s.LibraryRoots()
	if !ok || !slices.Equal(roots, []string{"/steam/steamapps", "/mnt/sd/steamapps"}) {
		t.Errorf("LibraryRoots() = %v, %v", roots, ok)
	}
}

func TestFromMap_CopiesInput(t *testing.T) {
	t.Parallel()

	vars := map[string]string{"A": "1"}
	s, err := FromMap(vars)
	if err != nil {
		t.Fatalf("FromMap() error: %v", err)
	}
	vars["A"] = "2"
	vars["B"] = "3"

	if v, _ := s.Lookup("A"); v != "1" {
		t.Errorf("Lookup(A) = %q, want 1", v)
	}
	if _, ok := s.Lookup("B"); ok {
		t.Error("snapshot should not observe later map changes")
	}
}

func TestSnapshot_ElectronPathOverride(t *testing.T) {
	t.Parallel()

	s, err := FromMap(map[string]string{"ELECTRON_PATH": "/opt/electron36/electron"})
	if err != nil {
		t.Fatalf("FromMap() error: %v", err)
	}
	if s.ElectronPath != "/opt/electron36/electron" {
		t.Errorf("ElectronPath = %q", s.ElectronPath)
	}
}

func TestSnapshot_AppID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		vars    map[string]string
		want    uint32
		wantErr bool
	}{
		{"SteamAppId", map[string]string{"SteamAppId": "2379780"}, 2379780, false},
		{"SteamAppId preferred", map[string]string{"SteamAppId": "1", "STEAM_COMPAT_APP_ID": "2"}, 1, false},
		{"compat app id fallback", map[string]string{"STEAM_COMPAT_APP_ID": "1454400"}, 1454400, false},
		{"non-numeric SteamAppId falls back", map[string]string{"SteamAppId": "x", "STEAM_COMPAT_APP_ID": "7"}, 7, false},
		{"non-numeric compat app id", map[string]string{"STEAM_COMPAT_APP_ID": "shortcut"}, 0, true},
		{"out of range", map[string]string{"SteamAppId": "4294967296"}, 0, true},
		{"unset", map[string]string{}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := FromMap(tt.vars)
			if err != nil {
				t.Fatalf("FromMap() error: %v", err)
			}
			got, err := s.AppID()
			if tt.wantErr {
				if !errors.Is(err, ErrAppIDUnset) {
					t.Errorf("AppID() error = %v, want ErrAppIDUnset", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("AppID() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("AppID() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSnapshot_LibraryRootsUnset(t *testing.T) {
	t.Parallel()

	s, err := FromMap(nil)
	if err != nil {
		t.Fatalf("FromMap() error: %v", err)
	}
	if roots, ok := s.LibraryRoots(); ok || roots != nil {
		t.Errorf("LibraryRoots() = %v, %v; want nil, false", roots, ok)
	}

	s, err = FromMap(map[string]string{"STEAM_COMPAT_LIBRARY_PATHS": ""})
	if err != nil {
		t.Fatalf("FromMap() error: %v", err)
	}
	if roots, ok := s.LibraryRoots(); !ok || len(roots) != 0 {
		t.Errorf("LibraryRoots() = %v, %v; want empty, true", roots, ok)
	}
}

func TestSnapshot_Environ(t *testing.T) {
	t.Parallel()

	s, err := FromEnviron([]string{"B=2", "A=1", "C=x=y"})
	if err != nil {
		t.Fatalf("FromEnviron() error: %v", err)
	}
	want := []string{"A=1", "B=2", "C=x=y"}
	if got := s.Environ(); !slices.Equal(got, want) {
		t.Errorf("Environ() = %v, want %v", got, want)
	}
}

func TestCapture(t *testing.T) {
	t.Cleanup(testutil.MustSetenv(t, "SteamAppId", "2379780"))

	s, err := Capture()
	if err != nil {
		t.Fatalf("Capture() error: %v", err)
	}
	if id, err := s.AppID(); err != nil || id != 2379780 {
		t.Errorf("AppID() = %d, %v; want 2379780", id, err)
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	got := SplitList("::/a::/b:")
	if !slices.Equal(got, []string{"/a", "/b"}) {
		t.Errorf("SplitList() = %v", got)
	}
	if SplitList("") != nil {
		t.Error("SplitList(\"\") should be nil")
	}
}
