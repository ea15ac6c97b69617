package cfg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"fraudguard-launcher/internal/common"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Settings is the launcher configuration. It is resolved once at start-up and
// never mutated afterwards.
type Settings struct {
	DatabaseURL  string
	Port         string
	Interpreter  string // explicit interpreter override, empty means detect
	AppPath      string // absolute path to the dashboard entry-point
	MetricsPort  int
	DataPath     string
	ReadyCheck   bool
	ReadyTimeout time.Duration
	LogLevel     string
}

type ConfigFile struct {
	App struct {
		Path        string `yaml:"path"`
		DatabaseURL string `yaml:"database_url"`
		Port        string `yaml:"port"`
	} `yaml:"app"`

	Python struct {
		Interpreter string `yaml:"interpreter"`
	} `yaml:"python"`

	System struct {
		MetricsPort  int    `yaml:"metrics_port"`
		DataPath     string `yaml:"data_path"`
		ReadyCheck   *bool  `yaml:"ready_check"`
		ReadyTimeout string `yaml:"ready_timeout"`
		LogLevel     string `yaml:"log_level"`
	} `yaml:"system"`
}

// LookupFunc has the semantics of os.LookupEnv: a key that is present with an
// empty value is still present.
type LookupFunc func(key string) (string, bool)

// Load resolves settings from the process environment. baseDir is the
// launcher's own directory; the default .env file and the default dashboard
// entry-point are resolved relative to it.
func Load(baseDir string) (Settings, error) {
	return LoadWith(os.LookupEnv, baseDir)
}

// LoadWith resolves settings against lookup instead of the process
// environment. Precedence is lookup, then the .env file, then CONFIG_FILE,
// then the built-in defaults.
func LoadWith(lookup LookupFunc, baseDir string) (Settings, error) {
	dotenv, err := readEnvFile(lookup, baseDir)
	if err != nil {
		return Settings{}, err
	}
	lookup = Chain(lookup, MapLookup(dotenv))

	if path := getEnvOrDefault(lookup, common.EnvConfigFile, ""); path != "" {
		file, err := loadFromYAML(path)
		if err != nil {
			return Settings{}, err
		}
		lookup = Chain(lookup, MapLookup(file.values()))
	}

	settings := ApplyDefaults(lookup)
	settings.Interpreter = getEnvOrDefault(lookup, common.EnvPython, "")
	settings.MetricsPort = getIntOrDefault(lookup, common.EnvMetricsPort, common.DefaultMetricsPort)
	settings.DataPath = getEnvOrDefault(lookup, common.EnvDataPath, "")
	settings.ReadyCheck = getBoolOrDefault(lookup, common.EnvReadyCheck, common.DefaultReadyCheck)
	settings.ReadyTimeout = getDurationOrDefault(lookup, common.EnvReadyTimeout, 60*time.Second)
	settings.LogLevel = getEnvOrDefault(lookup, common.EnvLogLevel, common.DefaultLogLevel)

	appPath := getEnvOrDefault(lookup, common.EnvAppPath,
		filepath.Join(baseDir, common.DefaultAppDir, common.DefaultAppFile))
	if settings.AppPath, err = filepath.Abs(appPath); err != nil {
		return Settings{}, fmt.Errorf("resolve app path %s: %w", appPath, err)
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

// ApplyDefaults resolves DATABASE_URL and PORT. A key already present in
// lookup is kept verbatim, even when empty; only absent keys get a default.
func ApplyDefaults(lookup LookupFunc) Settings {
	return Settings{
		DatabaseURL: lookupOrDefault(lookup, common.EnvDatabaseURL, common.DefaultDatabaseURL),
		Port:        lookupOrDefault(lookup, common.EnvPort, common.DefaultPort),
	}
}

// Chain returns a LookupFunc that consults fns in order and returns the
// first hit.
func Chain(fns ...LookupFunc) LookupFunc {
	return func(key string) (string, bool) {
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			if v, ok := fn(key); ok {
				return v, true
			}
		}
		return "", false
	}
}

func MapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func readEnvFile(lookup LookupFunc, baseDir string) (map[string]string, error) {
	path, explicit := lookup(common.EnvEnvFile)
	if !explicit || path == "" {
		path = filepath.Join(baseDir, common.DefaultEnvFile)
		explicit = false
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return values, nil
}

func loadFromYAML(path string) (ConfigFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ConfigFile{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return ConfigFile{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// values flattens the file into environment keys so it can sit in a lookup
// chain. Zero values are treated as unset.
func (c ConfigFile) values() map[string]string {
	m := make(map[string]string)
	set := func(key, v string) {
		if v != "" {
			m[key] = v
		}
	}

	set(common.EnvAppPath, c.App.Path)
	set(common.EnvDatabaseURL, c.App.DatabaseURL)
	set(common.EnvPort, c.App.Port)
	set(common.EnvPython, c.Python.Interpreter)
	set(common.EnvDataPath, c.System.DataPath)
	set(common.EnvReadyTimeout, c.System.ReadyTimeout)
	set(common.EnvLogLevel, c.System.LogLevel)
	if c.System.MetricsPort != 0 {
		m[common.EnvMetricsPort] = strconv.Itoa(c.System.MetricsPort)
	}
	if c.System.ReadyCheck != nil {
		m[common.EnvReadyCheck] = strconv.FormatBool(*c.System.ReadyCheck)
	}
	return m
}

func lookupOrDefault(lookup LookupFunc, key, defaultValue string) string {
	if v, ok := lookup(key); ok {
		return v
	}
	return defaultValue
}

func getEnvOrDefault(lookup LookupFunc, key, defaultValue string) string {
	if v, _ := lookup(key); v != "" {
		return v
	}
	return defaultValue
}

func getDurationOrDefault(lookup LookupFunc, key string, defaultValue time.Duration) time.Duration {
	if v, _ := lookup(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntOrDefault(lookup LookupFunc, key string, defaultValue int) int {
	if v, _ := lookup(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(lookup LookupFunc, key string, defaultValue bool) bool {
	if v, _ := lookup(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

// validateSettings checks ranges of the values the launcher acts on
func validateSettings(settings *Settings) error {
	port, err := strconv.Atoi(settings.Port)
	if err != nil {
		return fmt.Errorf("port must be an integer, got %q", settings.Port)
	}
	if port < common.MinPort || port > common.MaxPort {
		return fmt.Errorf("port must be between %d and %d, got %d", common.MinPort, common.MaxPort, port)
	}

	if settings.MetricsPort != 0 {
		if settings.MetricsPort < common.MinMetricsPort || settings.MetricsPort > common.MaxMetricsPort {
			return fmt.Errorf("metrics port must be 0 or between %d and %d, got %d",
				common.MinMetricsPort, common.MaxMetricsPort, settings.MetricsPort)
		}
		if settings.MetricsPort == port {
			return fmt.Errorf("metrics port %d collides with dashboard port", settings.MetricsPort)
		}
	}

	if settings.ReadyTimeout < common.MinReadyTimeout*time.Second || settings.ReadyTimeout > common.MaxReadyTimeout*time.Second {
		return fmt.Errorf("ready timeout must be between %ds and %ds, got %v",
			common.MinReadyTimeout, common.MaxReadyTimeout, settings.ReadyTimeout)
	}

	return nil
}
