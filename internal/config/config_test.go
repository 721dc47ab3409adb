// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points config discovery at a fresh temp dir and clears the
// environment toggles, so tests never read the developer's real config.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)
	t.Setenv(EnvManuallyCompiled, "")
	t.Setenv(EnvEnableUnsafePointer, "")
	return dir
}

func writeConfigFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config fixture: %v", err)
	}
	return path
}

func TestLoad_defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.SkipBeginProfiles != 5 {
		t.Errorf("SkipBeginProfiles = %d, want 5", cfg.SkipBeginProfiles)
	}
	if cfg.Build.ManuallyCompiled || cfg.Build.EnableUnsafePointer {
		t.Errorf("Build = %+v, want all toggles off", cfg.Build)
	}
}

func TestLoad_configFile(t *testing.T) {
	dir := isolate(t)
	writeConfigFile(t, dir, `
skip_begin_profiles: 10
project_root: "/src/fusion-blossom"

build: {
	enable_unsafe_pointer: true
	extra_args: ["--locked"]
}

ui: {
	verbose: true
}
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.SkipBeginProfiles != 10 {
		t.Errorf("SkipBeginProfiles = %d, want 10", cfg.SkipBeginProfiles)
	}
	if cfg.ProjectRoot != "/src/fusion-blossom" {
		t.Errorf("ProjectRoot = %q, want %q", cfg.ProjectRoot, "/src/fusion-blossom")
	}
	if !cfg.Build.EnableUnsafePointer {
		t.Error("Build.EnableUnsafePointer = false, want true")
	}
	if len(cfg.Build.ExtraArgs) != 1 || cfg.Build.ExtraArgs[0] != "--locked" {
		t.Errorf("Build.ExtraArgs = %v, want [--locked]", cfg.Build.ExtraArgs)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose = false, want true")
	}
}

func TestLoad_partialConfigKeepsDefaults(t *testing.T) {
	dir := isolate(t)
	writeConfigFile(t, dir, "skip_begin_profiles: 0\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SkipBeginProfiles != 0 {
		t.Errorf("SkipBeginProfiles = %d, want 0", cfg.SkipBeginProfiles)
	}
	if cfg.Build.ManuallyCompiled {
		t.Error("Build.ManuallyCompiled = true, want the default false")
	}
}

func TestLoad_envToggles(t *testing.T) {
	tests := []struct {
		name          string
		manual        string
		unsafePointer string
		wantManual    bool
		wantUnsafe    bool
	}{
		{"both unset", "", "", false, false},
		{"both TRUE", "TRUE", "TRUE", true, true},
		{"exact match only", "true", "True", false, false},
		{"other truthy values ignored", "1", "yes", false, false},
		{"manual only", "TRUE", "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(EnvManuallyCompiled, tt.manual)
			t.Setenv(EnvEnableUnsafePointer, tt.unsafePointer)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Build.ManuallyCompiled != tt.wantManual {
				t.Errorf("Build.ManuallyCompiled = %v, want %v", cfg.Build.ManuallyCompiled, tt.wantManual)
			}
			if cfg.Build.EnableUnsafePointer != tt.wantUnsafe {
				t.Errorf("Build.EnableUnsafePointer = %v, want %v", cfg.Build.EnableUnsafePointer, tt.wantUnsafe)
			}
		})
	}
}

func TestLoad_envWinsOverFile(t *testing.T) {
	dir := isolate(t)
	writeConfigFile(t, dir, "build: {\n\tmanually_compiled: false\n}\n")
	t.Setenv(EnvManuallyCompiled, "TRUE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Build.ManuallyCompiled {
		t.Error("Build.ManuallyCompiled = false, want env toggle to win over the file")
	}
}

func TestLoad_explicitPathOverride(t *testing.T) {
	dir := isolate(t)
	// A decoy in the config dir proves the override path is used exclusively.
	writeConfigFile(t, dir, "skip_begin_profiles: 99\n")

	explicit := filepath.Join(t.TempDir(), "custom.cue")
	if err := os.WriteFile(explicit, []byte("skip_begin_profiles: 7\n"), 0o644); err != nil {
		t.Fatalf("write explicit config: %v", err)
	}
	SetConfigFilePathOverride(explicit)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SkipBeginProfiles != 7 {
		t.Errorf("SkipBeginProfiles = %d, want 7 from the explicit path", cfg.SkipBeginProfiles)
	}
}

func TestLoad_explicitPathMissing(t *testing.T) {
	isolate(t)
	SetConfigFilePathOverride(filepath.Join(t.TempDir(), "nope.cue"))

	_, err := Load()
	if err == nil {
		t.Fatal("Load() succeeded with a missing explicit config file")
	}
	if !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("error = %v, want a config-file-not-found failure", err)
	}
}

func TestLoad_invalidCUESyntax(t *testing.T) {
	dir := isolate(t)
	writeConfigFile(t, dir, "skip_begin_profiles: {{{\n")

	if _, err := Load(); err == nil {
		t.Fatal("Load() succeeded on malformed CUE")
	}
}

func TestLoad_schemaViolation(t *testing.T) {
	dir := isolate(t)
	writeConfigFile(t, dir, `skip_begin_profiles: "five"`)

	if _, err := Load(); err == nil {
		t.Fatal("Load() succeeded on a schema-violating config")
	}
}

func TestLoad_negativeSkipRejected(t *testing.T) {
	dir := isolate(t)
	writeConfigFile(t, dir, "skip_begin_profiles: -1\n")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() accepted a negative skip count")
	}
	if !strings.Contains(err.Error(), "skip_begin_profiles") {
		t.Errorf("error = %v, want it to name skip_begin_profiles", err)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	dir := isolate(t)

	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}

	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read created config: %v", err)
	}
	if !strings.Contains(string(data), "skip_begin_profiles: 5") {
		t.Errorf("created config missing default skip count:\n%s", data)
	}

	// A second call must not clobber an existing file.
	if err := os.WriteFile(path, []byte("skip_begin_profiles: 9\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("CreateDefaultConfig() second call error = %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("re-read config: %v", err)
	}
	if !strings.Contains(string(data), "skip_begin_profiles: 9") {
		t.Error("CreateDefaultConfig() overwrote an existing config file")
	}
}

func TestGenerateCUE_roundTrips(t *testing.T) {
	dir := isolate(t)

	want := &Config{
		SkipBeginProfiles: 8,
		ProjectRoot:       "/src/fusion-blossom",
		Build: BuildConfig{
			ManuallyCompiled:    true,
			EnableUnsafePointer: true,
			ExtraArgs:           []string{"--locked", "--offline"},
		},
		UI: UIConfig{Verbose: true},
	}

	writeConfigFile(t, dir, GenerateCUE(want))

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.SkipBeginProfiles != want.SkipBeginProfiles {
		t.Errorf("SkipBeginProfiles = %d, want %d", got.SkipBeginProfiles, want.SkipBeginProfiles)
	}
	if got.ProjectRoot != want.ProjectRoot {
		t.Errorf("ProjectRoot = %q, want %q", got.ProjectRoot, want.ProjectRoot)
	}
	if !got.Build.ManuallyCompiled || !got.Build.EnableUnsafePointer {
		t.Errorf("Build = %+v, want both toggles on", got.Build)
	}
	if len(got.Build.ExtraArgs) != 2 {
		t.Errorf("Build.ExtraArgs = %v, want two args", got.Build.ExtraArgs)
	}
	if !got.UI.Verbose {
		t.Error("UI.Verbose = false, want true")
	}
}

func TestConfigDir_override(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if got != dir {
		t.Errorf("ConfigDir() = %q, want the override %q", got, dir)
	}
}
