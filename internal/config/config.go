// SPDX-License-Identifier: MPL-2.0

package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"fbbench/internal/cueutil"
	"fbbench/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "fbbench"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"

	// EnvManuallyCompiled marks the decoder as compiled out-of-band.
	// Only the exact value "TRUE" activates the toggle.
	EnvManuallyCompiled = "MANUALLY_COMPILE_QEC"
	// EnvEnableUnsafePointer enables the unsafe_pointer build feature.
	// Only the exact value "TRUE" activates the toggle.
	EnvEnableUnsafePointer = "FUSION_BLOSSOM_ENABLE_UNSAFE_POINTER"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the fbbench configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load resolves the configuration: defaults, then the config file (explicit
// override path, platform config dir, or current directory, in that order),
// then the environment toggles on top.
func Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("skip_begin_profiles", defaults.SkipBeginProfiles)
	v.SetDefault("project_root", defaults.ProjectRoot)
	v.SetDefault("build.manually_compiled", defaults.Build.ManuallyCompiled)
	v.SetDefault("build.enable_unsafe_pointer", defaults.Build.EnableUnsafePointer)
	v.SetDefault("build.extra_args", defaults.Build.ExtraArgs)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	// If a custom config file path is set via --config, use it exclusively.
	if configFilePathOverride != "" {
		if !fileExists(configFilePathOverride) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(configFilePathOverride).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'fbbench config init' to create a default one").
				Wrap(fmt.Errorf("config file not found: %s", configFilePathOverride)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, configFilePathOverride); err != nil {
			return nil, wrapConfigFileError(err, configFilePathOverride)
		}
	} else {
		cfgDir, err := ConfigDir()
		if err != nil {
			return nil, err
		}

		cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		switch {
		case fileExists(cuePath):
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, wrapConfigFileError(err, cuePath)
			}
		case fileExists(ConfigFileName + "." + ConfigFileExt):
			// Also check the current directory.
			localPath := ConfigFileName + "." + ConfigFileExt
			if err := loadCUEIntoViper(v, localPath); err != nil {
				return nil, wrapConfigFileError(err, localPath)
			}
		}
		// No config file found: defaults apply, not an error.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(&cfg)

	if valid, errs := cfg.IsValid(); !valid {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Check skip_begin_profiles is not negative").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, nil
}

// applyEnvOverrides layers the historical environment toggles on top of the
// file configuration. Both compare against the exact string "TRUE", matching
// the behavior every existing benchmark script relies on.
func applyEnvOverrides(cfg *Config) {
	if os.Getenv(EnvManuallyCompiled) == "TRUE" {
		cfg.Build.ManuallyCompiled = true
	}
	if os.Getenv(EnvEnableUnsafePointer) == "TRUE" {
		cfg.Build.EnableUnsafePointer = true
	}
}

func wrapConfigFileError(err error, path string) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the values match the expected schema").
		WithSuggestion("Run 'fbbench config show' to see the resolved configuration").
		Wrap(err).
		BuildError()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config
// schema, and merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	// Unify with the schema; Concrete(false) because all fields are optional.
	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(cfgDir, 0o755)
}

// CreateDefaultConfig creates a default config file if it doesn't exist.
func CreateDefaultConfig() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)

	if _, err := os.Stat(cfgPath); err == nil {
		return nil // file exists
	}

	defaults := DefaultConfig()
	cueContent := GenerateCUE(defaults)

	if err := os.WriteFile(cfgPath, []byte(cueContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateCUE generates a CUE representation of the configuration.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// fbbench configuration file\n\n")

	sb.WriteString(fmt.Sprintf("skip_begin_profiles: %d\n", cfg.SkipBeginProfiles))

	if cfg.ProjectRoot != "" {
		sb.WriteString(fmt.Sprintf("project_root: %q\n", cfg.ProjectRoot))
	}

	sb.WriteString("\nbuild: {\n")
	sb.WriteString(fmt.Sprintf("\tmanually_compiled: %v\n", cfg.Build.ManuallyCompiled))
	sb.WriteString(fmt.Sprintf("\tenable_unsafe_pointer: %v\n", cfg.Build.EnableUnsafePointer))
	if len(cfg.Build.ExtraArgs) > 0 {
		sb.WriteString("\textra_args: [\n")
		for _, arg := range cfg.Build.ExtraArgs {
			sb.WriteString(fmt.Sprintf("\t\t%q,\n", arg))
		}
		sb.WriteString("\t]\n")
	}
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	sb.WriteString(fmt.Sprintf("\tverbose: %v\n", cfg.UI.Verbose))
	sb.WriteString("}\n")

	return sb.String()
}
