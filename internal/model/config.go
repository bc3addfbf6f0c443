package model

// Config is the daemon-side configuration file. Dashboard behavior settings
// (columns, limits) live in the persisted State; this file only carries
// host concerns.
type Config struct {
	Dashboard DashboardConfig `yaml:"dashboard"`
	Runner    RunnerConfig    `yaml:"runner"`
	Watcher   WatcherConfig   `yaml:"watcher"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type DashboardConfig struct {
	StatePath string `yaml:"state_path"`
}

type RunnerConfig struct {
	PythonPath       string `yaml:"python_path,omitempty"`
	DefaultTimeoutMs int    `yaml:"default_timeout_ms"`
}

type WatcherConfig struct {
	DebounceSec     float64 `yaml:"debounce_sec"`
	ScanIntervalSec int     `yaml:"scan_interval_sec"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Output string `yaml:"output"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Runner:  RunnerConfig{DefaultTimeoutMs: 10000},
		Watcher: WatcherConfig{DebounceSec: 0.5, ScanIntervalSec: 10},
		Logging: LoggingConfig{Level: "info", Output: "stderr"},
	}
}
