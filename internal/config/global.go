// SPDX-License-Identifier: MPL-2.0

package config

var (
	// configDirOverride allows tests (and the --config flag plumbing) to
	// override the config directory. os.UserHomeDir() doesn't reliably
	// respect the HOME environment variable on all platforms.
	configDirOverride string

	// configFilePathOverride is the explicit --config flag value.
	configFilePathOverride string
)

// Reset clears overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
	configFilePathOverride = ""
}

// SetConfigDirOverride sets a custom config directory path, bypassing the
// platform lookup. Primarily intended for tests.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// SetConfigFilePathOverride sets an explicit config file path, used
// exclusively when non-empty.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
}
