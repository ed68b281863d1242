// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/boson-compat/boson/internal/compattool"
	"github.com/boson-compat/boson/internal/config"
	"github.com/boson-compat/boson/internal/runtime"
	"github.com/boson-compat/boson/internal/steamenv"
	"github.com/boson-compat/boson/internal/testutil"
)

var errProviderDown = errors.New("provider down")

type failingProvider struct{}

func (failingProvider) Load(context.Context, config.LoadOptions) (*config.Store, error) {
	return nil, errProviderDown
}

func mustSnapshot(t *testing.T, vars map[string]string) *steamenv.Snapshot {
	t.Helper()
	s, err := steamenv.FromMap(vars)
	if err != nil {
		t.Fatalf("steamenv.FromMap() error: %v", err)
	}
	return s
}

// newTestService returns a service reading descriptors from a fresh directory.
func newTestService(t *testing.T, vars map[string]string) (*Service, string, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	var out bytes.Buffer
	return &Service{
		Provider:      config.NewProvider(),
		SearchDirs:    []string{dir},
		Env:           mustSnapshot(t, vars),
		ExecutableDir: t.TempDir(),
		Stdout:        &out,
		Stderr:        &out,
	}, dir, &out
}

func TestResolve_Builtins(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t, nil)

	balatro, err := svc.Resolve(context.Background(), 2379780)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if balatro.CompatType != config.Love || balatro.DisableSteamOverlay {
		t.Errorf("2379780 = %v overlay=%v, want Love overlay=false", balatro.CompatType, balatro.DisableSteamOverlay)
	}

	unknown, err := svc.Resolve(context.Background(), 1)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if unknown.HasOverride || unknown.CompatType != config.DeferProton {
		t.Errorf("unknown title = %+v, want global default without override", unknown)
	}
}

func TestResolve_ProviderError(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t, nil)
	svc.Provider = failingProvider{}

	if _, err := svc.Resolve(context.Background(), 1); !errors.Is(err, errProviderDown) {
		t.Fatalf("Resolve() error = %v, want provider error", err)
	}
}

func TestLaunch_PropagatesExitCode(t *testing.T) {
	t.Parallel()
	testutil.RequireShell(t)

	svc, dir, _ := newTestService(t, nil)
	testutil.MustWriteFile(t, filepath.Join(dir, "native.toml"), "[override.500]\ncompat_type = \"ForceNative\"\n")

	game := filepath.Join(t.TempDir(), "game.sh")
	testutil.MustWriteExecutable(t, game, "exit 3\n")

	err := svc.Launch(context.Background(), Request{TitleID: 500, InstallPath: game})
	var exitErr *runtime.NonZeroExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 3 {
		t.Fatalf("Launch() error = %v, want exit status 3", err)
	}
}

func TestLaunch_ToolNotFoundSpawnsNothing(t *testing.T) {
	t.Parallel()
	testutil.RequireShell(t)

	library := t.TempDir()
	testutil.MustMkdirAll(t, filepath.Join(library, compattool.CommonDirName))
	svc, dir, _ := newTestService(t, map[string]string{"STEAM_COMPAT_LIBRARY_PATHS": library})
	testutil.MustWriteFile(t, filepath.Join(dir, "proton.toml"),
		"[override.600]\ncompat_type = \"DeferProton\"\ncompat_tool_dir = \"Proton 1.0\"\n")

	install := t.TempDir()
	marker := filepath.Join(install, "spawned")
	game := filepath.Join(install, "game.sh")
	testutil.MustWriteExecutable(t, game, "touch "+marker+"\n")

	err := svc.Launch(context.Background(), Request{TitleID: 600, InstallPath: game})
	if !errors.Is(err, compattool.ErrToolNotFound) {
		t.Fatalf("Launch() error = %v, want ErrToolNotFound", err)
	}
	if _, statErr := os.Stat(marker); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("no process should be spawned when the tool is missing")
	}
}

func TestPrepare_PassesVerb(t *testing.T) {
	t.Parallel()

	library := t.TempDir()
	toolDir := filepath.Join(library, compattool.CommonDirName, "Proton 9.0")
	testutil.MustWriteFile(t, filepath.Join(toolDir, compattool.ManifestName),
		"\"manifest\"\n{\n  \"commandline\" \"/proton %verb%\"\n}\n")

	svc, dir, _ := newTestService(t, map[string]string{"STEAM_COMPAT_LIBRARY_PATHS": library})
	testutil.MustWriteFile(t, filepath.Join(dir, "proton.toml"), "[override.700]\ncompat_tool_dir = \"Proton 9.0\"\n")

	plan, err := svc.Prepare(context.Background(), Request{
		TitleID:     700,
		InstallPath: "/games/title/game.exe",
		Verb:        compattool.VerbWaitForExitAndRun,
	})
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	if len(plan.Args) == 0 || plan.Args[0] != compattool.VerbWaitForExitAndRun {
		t.Errorf("Args = %v, want verb first", plan.Args)
	}
}

func TestPrepare_RequiresInstallPath(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t, nil)
	if _, err := svc.Prepare(context.Background(), Request{TitleID: 1}); !errors.Is(err, ErrInstallPathRequired) {
		t.Fatalf("Prepare() error = %v, want ErrInstallPathRequired", err)
	}
}

func TestTitleIDFromEnv(t *testing.T) {
	t.Parallel()

	id, err := TitleIDFromEnv(mustSnapshot(t, map[string]string{"SteamAppId": "1454400"}))
	if err != nil || id != 1454400 {
		t.Errorf("TitleIDFromEnv() = %d, %v, want 1454400", id, err)
	}

	if _, err := TitleIDFromEnv(mustSnapshot(t, nil)); !errors.Is(err, steamenv.ErrAppIDUnset) {
		t.Errorf("TitleIDFromEnv() error = %v, want ErrAppIDUnset", err)
	}
}

func TestResolveInstallPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "game.exe")
	testutil.MustWriteFile(t, file, "")

	got, err := ResolveInstallPath(file)
	if err != nil {
		t.Fatalf("ResolveInstallPath() error: %v", err)
	}
	want, _ := filepath.EvalSymlinks(dir)
	if got != want {
		t.Errorf("ResolveInstallPath() = %q, want %q", got, want)
	}
}

func TestConfigSearchDirs_Explicit(t *testing.T) {
	t.Parallel()

	svc, dir, _ := newTestService(t, nil)

	got, err := svc.ConfigSearchDirs()
	if err != nil {
		t.Fatalf("ConfigSearchDirs() error: %v", err)
	}
	if !slices.Equal(got, []string{dir}) {
		t.Errorf("ConfigSearchDirs() = %v, want [%s]", got, dir)
	}
}

func TestConfigSearchDirs_DefaultMatchesLoadStore(t *testing.T) {
	cfgHome := t.TempDir()
	config.SetConfigHomeOverride(cfgHome)
	t.Cleanup(config.Reset)

	exeDir := t.TempDir()
	svc := &Service{Provider: config.NewProvider(), Env: mustSnapshot(t, nil), ExecutableDir: exeDir}

	got, err := svc.ConfigSearchDirs()
	if err != nil {
		t.Fatalf("ConfigSearchDirs() error: %v", err)
	}
	want := []string{filepath.Join(cfgHome, "boson.d"), filepath.Join(exeDir, "data")}
	if !slices.Equal(got, want) {
		t.Fatalf("ConfigSearchDirs() = %v, want %v", got, want)
	}

	testutil.MustWriteFile(t, filepath.Join(want[0], "user.toml"), "[override.7]\ncompat_type = \"Love\"\n")
	store, err := svc.LoadStore(context.Background())
	if err != nil {
		t.Fatalf("LoadStore() error: %v", err)
	}
	if store.Resolve(7).CompatType != config.Love {
		t.Errorf("LoadStore() did not read %s", want[0])
	}
}
