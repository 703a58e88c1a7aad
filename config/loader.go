package config

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/textforge/errors"
	"github.com/kbukum/textforge/logger"
)

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver handles finding and resolving config and env files.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles finds config and env files for a service.
// Returns explicit paths if provided, otherwise searches for them.
func (cr *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}

	if resolved.ConfigFile == "" {
		resolved.ConfigFile = cr.findConfigFile(serviceName)
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = cr.findEnvFile(serviceName)
	}

	return resolved
}

// findConfigFile searches for config.yml (or config.yaml) in standard locations.
func (cr *Resolver) findConfigFile(serviceName string) string {
	for _, dir := range searchDirs(serviceName) {
		for _, name := range []string{"config.yml", "config.yaml"} {
			p := path.Join(dir, name)
			if cr.FileSystem.Exists(p) {
				return p
			}
		}
	}
	return ""
}

// findEnvFile searches for .env.{service} and .env in standard locations.
func (cr *Resolver) findEnvFile(serviceName string) string {
	for _, name := range []string{".env." + serviceName, ".env"} {
		for _, dir := range searchDirs(serviceName) {
			p := path.Join(dir, name)
			if cr.FileSystem.Exists(p) {
				return p
			}
		}
	}
	return ""
}

// searchDirs lists the directories searched for config and env files,
// most specific first.
func searchDirs(serviceName string) []string {
	dirs := make([]string, 0, 12)
	for _, up := range []string{".", "..", "../.."} {
		dirs = append(dirs, path.Join(up, "cmd", serviceName))
	}
	for _, up := range []string{".", ".."} {
		dirs = append(dirs, path.Join(up, "config", serviceName), path.Join(up, "config"))
	}
	return append(dirs, ".")
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct env file path (optional)
	EnvPrefix  string // Prefix of environment overrides, e.g. TEXTFORGE
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path. A missing explicit file
// is an error.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix sets the prefix of environment overrides. Defaults to the
// upper-cased service name.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// LoadConfig loads configuration for a service into the provided cfg struct.
// It reads config.yml, then the .env file, then environment variables
// starting with the env prefix (TEXTFORGE_EXECUTOR_WORKERS sets
// executor.workers), and unmarshals the result into cfg.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	_, err := LoadConfigFiles(serviceName, cfg, opts...)
	return err
}

// LoadConfigFiles is LoadConfig that also reports which config and env
// files were used, so callers can resolve paths relative to them.
func LoadConfigFiles(serviceName string, cfg interface{}, opts ...LoaderOption) (ResolvedFiles, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}
	if lc.EnvPrefix == "" {
		lc.EnvPrefix = envPrefix(serviceName)
	}

	if lc.ConfigFile != "" && !lc.FileSystem.Exists(lc.ConfigFile) {
		return ResolvedFiles{}, errors.IO(fmt.Sprintf("config file %s not found", lc.ConfigFile)).WithDetail("path", lc.ConfigFile)
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(serviceName, lc)

	if err := loadFromResolvedFiles(serviceName, cfg, files, lc); err != nil {
		return ResolvedFiles{}, err
	}
	return files, nil
}

// loadFromResolvedFiles loads configuration from specific files.
func loadFromResolvedFiles(serviceName string, cfg interface{}, files ResolvedFiles, lc LoaderConfig) error {
	v := viper.New()

	// 1. Load YAML config first (base configuration)
	if files.ConfigFile != "" {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.InvalidConfig("config", fmt.Sprintf("failed to read %s: %v", files.ConfigFile, err)).WithCause(err)
		}
	}

	// 2. Load .env file
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			logger.Warn("failed to load .env file", logger.Fields("path", files.EnvFile, logger.FieldError, err.Error()))
		}
	}

	// 3. Environment overrides win over both
	bindEnvVars(v, lc.EnvPrefix)

	// 4. Unmarshal into config struct
	if err := v.Unmarshal(cfg); err != nil {
		return errors.InvalidConfig("config", fmt.Sprintf("failed to unmarshal config for service %s: %v", serviceName, err)).WithCause(err)
	}

	return nil
}

func envPrefix(serviceName string) string {
	return strings.ToUpper(strings.ReplaceAll(serviceName, "-", "_"))
}

// bindEnvVars sets every PREFIX_* environment variable on v under each
// nested key it may stand for.
func bindEnvVars(v *viper.Viper, prefix string) {
	prefix = strings.TrimSuffix(prefix, "_") + "_"
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, prefix) || len(key) == len(prefix) {
			continue
		}

		for _, variant := range generateEnvKeyVariants(key[len(prefix):]) {
			v.Set(variant, value)
		}
	}
}

// generateEnvKeyVariants creates all possible key variants for environment variable binding.
// Examples:
//
//	EXECUTOR_WORKERS -> [executor_workers, executor.workers]
//	OBSERVABILITY_SAMPLE_RATE -> [observability_sample_rate, observability.sample.rate, observability.sample_rate]
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

	// Every split point between a dotted prefix and an underscored suffix.
	for i := 1; i < len(parts); i++ {
		prefix := strings.Join(parts[:i], ".")
		suffix := strings.Join(parts[i:], "_")
		variants = append(variants, prefix+"."+suffix)
	}

	return removeDuplicates(variants)
}

// removeDuplicates removes duplicate strings from a slice.
func removeDuplicates(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))

	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}

	return result
}
