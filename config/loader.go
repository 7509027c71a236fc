package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/fileflow/logger"
	"github.com/kbukum/fileflow/util"
)

type fileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

type osFS struct{}

func (osFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (osFS) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderOption overrides where LoadConfig looks for its files.
type LoaderOption func(*loader)

// WithConfigFile skips the config file search and reads path.
func WithConfigFile(path string) LoaderOption {
	return func(l *loader) { l.configFile = path }
}

// WithEnvFile skips the .env search and loads path.
func WithEnvFile(path string) LoaderOption {
	return func(l *loader) { l.envFile = path }
}

type loader struct {
	fs         fileSystem
	service    string
	configFile string
	envFile    string
}

// LoadConfig fills cfg for the named service in three layers: the YAML
// config file, then a .env file, then SERVICE_* environment variables.
// Files that are absent are skipped. Without explicit paths, the first
// match of ./cmd/<service>/config.yml, ./<service>.yml, ./config/config.yml
// and ./config.yml is read.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	l := &loader{fs: osFS{}, service: serviceName}
	for _, opt := range opts {
		opt(l)
	}
	return l.load(cfg)
}

func (l *loader) resolve() (configFile, envFile string) {
	configFile, envFile = l.configFile, l.envFile
	if configFile == "" {
		configFile = l.firstExisting(
			fmt.Sprintf("./cmd/%s/config.yml", l.service),
			fmt.Sprintf("./%s.yml", l.service),
			"./config/config.yml",
			"./config.yml",
		)
	}
	if envFile == "" {
		var candidates []string
		for _, dir := range []string{".", "./config", "./cmd/" + l.service} {
			candidates = append(candidates, fmt.Sprintf("%s/.env.%s", dir, l.service), dir+"/.env")
		}
		envFile = l.firstExisting(candidates...)
	}
	return configFile, envFile
}

func (l *loader) firstExisting(paths ...string) string {
	for _, p := range paths {
		if l.fs.Exists(p) {
			return p
		}
	}
	return ""
}

func (l *loader) load(cfg interface{}) error {
	configFile, envFile := l.resolve()
	v := viper.New()

	if configFile != "" && l.fs.Exists(configFile) {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	if envFile != "" && l.fs.Exists(envFile) {
		if err := l.fs.LoadEnv(envFile); err != nil {
			logger.WithComponent("config").Warn("failed to load .env file",
				logger.Fields(logger.FieldFile, envFile, logger.FieldError, err.Error()))
		}
	}

	autoBindEnvVars(v, envPrefix(l.service))

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", l.service, err)
	}
	return nil
}

// envPrefix maps "file-flow" to "FILE_FLOW".
func envPrefix(service string) string {
	return strings.ToUpper(strings.ReplaceAll(service, "-", "_"))
}

// autoBindEnvVars binds PREFIX_* environment variables to Viper by
// converting UPPER_CASE_WITH_UNDERSCORES to the possible nested key formats.
func autoBindEnvVars(v *viper.Viper, prefix string) {
	want := prefix + "_"
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 || !strings.HasPrefix(pair[0], want) {
			continue
		}

		key := strings.TrimPrefix(pair[0], want)
		value := pair[1]

		for _, variant := range generateEnvKeyVariants(key) {
			v.Set(variant, value)
		}
	}
}

// generateEnvKeyVariants creates all possible key variants for environment variable binding.
// Examples:
//
//	PROBE_MAX_ATTEMPTS -> [probe_max_attempts, probe.max.attempts, probe.max_attempts]
func generateEnvKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")

	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{
		lowerKey,
		strings.ReplaceAll(lowerKey, "_", "."),
	}

	// Generate progressive nesting patterns
	for i := 1; i < len(parts); i++ {
		prefix := strings.Join(parts[:i], ".")
		suffix := strings.Join(parts[i:], "_")
		variants = append(variants, prefix+"."+suffix)
	}

	return util.Unique(variants)
}
