package appconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from the provided path. If path is empty, uses DefaultConfigPath.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg := DefaultConfig()
	selectorDefaults, err := selectorMap(cfg)
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("app.executable", cfg.App.Executable)
	v.SetDefault("app.args", cfg.App.Args)
	v.SetDefault("app.target_match", cfg.App.TargetMatch)
	v.SetDefault("app.launch", cfg.App.Launch)
	v.SetDefault("debug.dynamic_port", cfg.Debug.DynamicPort)
	v.SetDefault("debug.static_port", cfg.Debug.StaticPort)
	v.SetDefault("debug.host", cfg.Debug.Host)
	v.SetDefault("driver.path", cfg.Driver.Path)
	v.SetDefault("driver.startup_timeout_seconds", cfg.Driver.StartupTimeoutSeconds)
	v.SetDefault("driver.op_timeout_seconds", cfg.Driver.OpTimeoutSeconds)
	v.SetDefault("wait.element_timeout_ms", cfg.Wait.ElementTimeoutMS)
	v.SetDefault("wait.poll_interval_ms", cfg.Wait.PollIntervalMS)
	v.SetDefault("wait.search_timeout_ms", cfg.Wait.SearchTimeoutMS)
	v.SetDefault("wait.tab_settle_ms", cfg.Wait.TabSettleMS)
	for key, value := range selectorDefaults {
		v.SetDefault("selectors."+key, value)
	}

	configLoaded := false
	if err := v.ReadInConfig(); err != nil {
		if !isNotExist(err) {
			return Config{}, err
		}
	} else {
		configLoaded = true
	}

	if configLoaded {
		if !v.IsSet("config_version") {
			return Config{}, fmt.Errorf("config_version is required; expected %d", CurrentConfigVersion)
		}
		if v.GetInt("config_version") != CurrentConfigVersion {
			return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	expandConfigEnv(&cfg)
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// isNotExist reports whether ReadInConfig failed because the file is absent. With an
// explicit config file viper reports the os error instead of ConfigFileNotFoundError.
func isNotExist(err error) bool {
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return true
	}
	return os.IsNotExist(err)
}

// selectorMap flattens the default selectors into dotted keys for viper defaults.
func selectorMap(cfg Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg.Selectors)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := map[string]any{}
	flatten("", raw, out)
	return out, nil
}

func flatten(prefix string, in map[string]any, out map[string]any) {
	for key, value := range in {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			flatten(full, nested, out)
			continue
		}
		out[full] = value
	}
}

func validate(cfg Config) error {
	if !cfg.Debug.DynamicPort && (cfg.Debug.StaticPort <= 0 || cfg.Debug.StaticPort > 65535) {
		return fmt.Errorf("debug.static_port must be between 1 and 65535 when debug.dynamic_port is false")
	}
	if strings.TrimSpace(cfg.Debug.Host) == "" {
		return fmt.Errorf("debug.host is required")
	}
	if strings.TrimSpace(cfg.App.TargetMatch) == "" {
		return fmt.Errorf("app.target_match is required")
	}
	if cfg.Wait.ElementTimeoutMS < 0 || cfg.Wait.PollIntervalMS < 0 || cfg.Wait.SearchTimeoutMS < 0 || cfg.Wait.TabSettleMS < 0 {
		return fmt.Errorf("wait durations must not be negative")
	}
	if strings.TrimSpace(cfg.Selectors.PlayButton) == "" || strings.TrimSpace(cfg.Selectors.ActionButtons) == "" {
		return fmt.Errorf("selectors.play_button and selectors.action_buttons are required")
	}
	return nil
}

func expandConfigEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.App.Executable = expandEnv(cfg.App.Executable)
	cfg.Driver.Path = expandEnv(cfg.Driver.Path)
	for i, arg := range cfg.App.Args {
		cfg.App.Args[i] = expandEnv(arg)
	}
}

func expandEnv(value string) string {
	if value == "" {
		return value
	}
	if value == "~" || strings.HasPrefix(value, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			value = filepath.Join(home, strings.TrimPrefix(value, "~"))
		}
	}
	return os.Expand(value, func(key string) string {
		if key == "" {
			return ""
		}
		if val, ok := lookupEnv(key); ok {
			return val
		}
		return "$" + key
	})
}

func lookupEnv(key string) (string, bool) {
	if val, ok := os.LookupEnv(key); ok {
		return val, true
	}
	switch key {
	case "UID":
		return fmt.Sprintf("%d", os.Getuid()), true
	case "GID":
		return fmt.Sprintf("%d", os.Getgid()), true
	}
	return "", false
}

// WriteDefault writes the default config to the target path.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
