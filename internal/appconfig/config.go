package appconfig

import (
	"os"
	"path/filepath"
	"time"

	"pkt.systems/ncmctl/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int              `mapstructure:"config_version" yaml:"config_version"`
	App           AppConfig        `mapstructure:"app" yaml:"app"`
	Debug         DebugConfig      `mapstructure:"debug" yaml:"debug"`
	Driver        DriverConfig     `mapstructure:"driver" yaml:"driver"`
	Wait          WaitConfig       `mapstructure:"wait" yaml:"wait"`
	Selectors     schema.Selectors `mapstructure:"selectors" yaml:"selectors"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// AppConfig describes the music client process.
type AppConfig struct {
	// Executable is the client binary. Empty or missing falls back to the platform default.
	Executable string   `mapstructure:"executable" yaml:"executable"`
	Args       []string `mapstructure:"args" yaml:"args"`
	// TargetMatch selects the page target whose URL contains it.
	TargetMatch string `mapstructure:"target_match" yaml:"target_match"`
	// Launch starts the client. When false ncmctl attaches to an already running one.
	Launch bool `mapstructure:"launch" yaml:"launch"`
}

// DebugConfig controls the remote debugging endpoint of the client.
type DebugConfig struct {
	DynamicPort bool   `mapstructure:"dynamic_port" yaml:"dynamic_port"`
	StaticPort  int    `mapstructure:"static_port" yaml:"static_port"`
	Host        string `mapstructure:"host" yaml:"host"`
}

// DriverConfig tunes the DevTools driver.
type DriverConfig struct {
	// Path is the Chrome binary used by selftest. Empty uses the default lookup.
	Path                  string `mapstructure:"path" yaml:"path"`
	StartupTimeoutSeconds int    `mapstructure:"startup_timeout_seconds" yaml:"startup_timeout_seconds"`
	OpTimeoutSeconds      int    `mapstructure:"op_timeout_seconds" yaml:"op_timeout_seconds"`
}

// WaitConfig bounds UI waits, in milliseconds.
type WaitConfig struct {
	ElementTimeoutMS int `mapstructure:"element_timeout_ms" yaml:"element_timeout_ms"`
	PollIntervalMS   int `mapstructure:"poll_interval_ms" yaml:"poll_interval_ms"`
	SearchTimeoutMS  int `mapstructure:"search_timeout_ms" yaml:"search_timeout_ms"`
	TabSettleMS      int `mapstructure:"tab_settle_ms" yaml:"tab_settle_ms"`
}

// Timing converts the wait settings for the controller.
func (w WaitConfig) Timing() schema.Timing {
	return schema.NormalizeTiming(schema.Timing{
		ElementTimeout: time.Duration(w.ElementTimeoutMS) * time.Millisecond,
		PollInterval:   time.Duration(w.PollIntervalMS) * time.Millisecond,
		SearchTimeout:  time.Duration(w.SearchTimeoutMS) * time.Millisecond,
		TabSettle:      time.Duration(w.TabSettleMS) * time.Millisecond,
	})
}

// StartupTimeout returns the driver startup bound.
func (d DriverConfig) StartupTimeout() time.Duration {
	return time.Duration(d.StartupTimeoutSeconds) * time.Second
}

// OpTimeout returns the per-call driver bound.
func (d DriverConfig) OpTimeout() time.Duration {
	return time.Duration(d.OpTimeoutSeconds) * time.Second
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	timing := schema.DefaultTiming()
	return Config{
		ConfigVersion: CurrentConfigVersion,
		App: AppConfig{
			Executable:  "",
			Args:        []string{},
			TargetMatch: "orpheus://",
			Launch:      true,
		},
		Debug: DebugConfig{
			DynamicPort: true,
			StaticPort:  9222,
			Host:        "127.0.0.1",
		},
		Driver: DriverConfig{
			Path:                  "",
			StartupTimeoutSeconds: 30,
			OpTimeoutSeconds:      5,
		},
		Wait: WaitConfig{
			ElementTimeoutMS: int(timing.ElementTimeout / time.Millisecond),
			PollIntervalMS:   int(timing.PollInterval / time.Millisecond),
			SearchTimeoutMS:  int(timing.SearchTimeout / time.Millisecond),
			TabSettleMS:      int(timing.TabSettle / time.Millisecond),
		},
		Selectors: schema.DefaultSelectors(),
	}
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ncmctl", "config.yaml"), nil
}
