package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/textforge/errors"
)

const sampleConfig = `
name: textforge-test
environment: staging
logging:
  level: warn
  format: json
pipeline:
  name: normalize
  stages:
    - kind: tokenizer
      params:
        trim_punctuation: true
    - kind: lowercase
executor:
  workers: 3
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty config gets development defaults", func(t *testing.T) {
		var cfg ServiceConfig
		cfg.ApplyDefaults()
		if cfg.Name != ServiceName {
			t.Errorf("expected name %q, got %q", ServiceName, cfg.Name)
		}
		if cfg.Environment != "development" || !cfg.Debug {
			t.Errorf("expected development with debug, got %q debug=%v", cfg.Environment, cfg.Debug)
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug logging in development, got %q", cfg.Logging.Level)
		}
		if cfg.Logging.ServiceName != ServiceName {
			t.Errorf("expected logging service name to follow name, got %q", cfg.Logging.ServiceName)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info logging, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	valid := func() ServiceConfig {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*ServiceConfig)
		errMsg string
	}{
		{"valid", func(*ServiceConfig) {}, ""},
		{"missing name", func(c *ServiceConfig) { c.Name = "" }, "name: is required"},
		{"invalid environment", func(c *ServiceConfig) { c.Environment = "qa" }, "environment: must be one of"},
		{"invalid logging", func(c *ServiceConfig) { c.Logging.Format = "xml" }, "logging"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.errMsg == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", sampleConfig)

	cfg, err := Load(WithConfigFile(path), WithEnvPrefix("TEXTFORGE_LOAD_TEST"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Name != "textforge-test" || cfg.Environment != "staging" {
		t.Errorf("unexpected service config %+v", cfg.ServiceConfig)
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
	if cfg.Pipeline.Name != "normalize" || len(cfg.Pipeline.Stages) != 2 {
		t.Fatalf("unexpected pipeline %+v", cfg.Pipeline)
	}
	if trim, _ := cfg.Pipeline.Stages[0].Params.Bool("trim_punctuation", false); !trim {
		t.Error("expected trim_punctuation=true")
	}
	if cfg.Executor.Workers != 3 || cfg.Executor.Capacity != 6 {
		t.Errorf("unexpected executor %+v", cfg.Executor)
	}
	if cfg.Observability.ServiceName != "textforge-test" || cfg.Observability.Enabled {
		t.Errorf("unexpected observability %+v", cfg.Observability)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", sampleConfig)
	envPath := writeFile(t, dir, ".env", "TEXTFORGE_ENV_TEST_EXECUTOR_CAPACITY=11\n")

	t.Setenv("TEXTFORGE_ENV_TEST_EXECUTOR_WORKERS", "7")
	t.Setenv("TEXTFORGE_ENV_TEST_LOGGING_LEVEL", "error")
	t.Cleanup(func() { os.Unsetenv("TEXTFORGE_ENV_TEST_EXECUTOR_CAPACITY") })

	cfg, err := Load(WithConfigFile(path), WithEnvFile(envPath), WithEnvPrefix("TEXTFORGE_ENV_TEST"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Executor.Workers != 7 {
		t.Errorf("expected env override workers=7, got %d", cfg.Executor.Workers)
	}
	if cfg.Executor.Capacity != 11 {
		t.Errorf("expected .env override capacity=11, got %d", cfg.Executor.Capacity)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected env override level=error, got %q", cfg.Logging.Level)
	}
}

func TestLoad_PipelineFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "normalize.yaml", "name: from-file\nstages:\n  - kind: tokenizer\n")
	path := writeFile(t, dir, "config.yml", "name: textforge\npipeline_file: normalize.yaml\n")

	cfg, err := Load(WithConfigFile(path), WithEnvPrefix("TEXTFORGE_FILE_TEST"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Pipeline.Name != "from-file" {
		t.Errorf("expected pipeline from file, got %+v", cfg.Pipeline)
	}
}

func TestLoad_PipelineFileNextToSearchedConfig(t *testing.T) {
	dir := t.TempDir()
	confDir := filepath.Join(dir, "config")
	if err := os.Mkdir(confDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, confDir, "normalize.yaml", "name: searched\nstages:\n  - kind: tokenizer\n")
	writeFile(t, confDir, "config.yml", "name: textforge\npipeline_file: normalize.yaml\n")
	t.Chdir(dir)

	var cfg Config
	files, err := LoadConfigFiles(ServiceName, &cfg, WithEnvPrefix("TEXTFORGE_SEARCH_TEST"))
	if err != nil {
		t.Fatalf("LoadConfigFiles failed: %v", err)
	}
	if files.ConfigFile != filepath.Join("config", "config.yml") {
		t.Errorf("expected config/config.yml to be found, got %q", files.ConfigFile)
	}

	loaded, err := Load(WithEnvPrefix("TEXTFORGE_SEARCH_TEST"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Pipeline.Name != "searched" {
		t.Errorf("expected pipeline next to config/config.yml, got %+v", loaded.Pipeline)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(WithConfigFile(filepath.Join(dir, "missing.yml")))
	if !errors.HasCode(err, errors.ErrCodeIO) {
		t.Errorf("expected IO_ERROR for missing explicit file, got %v", err)
	}

	noStages := writeFile(t, dir, "empty.yml", "name: textforge\n")
	_, err = Load(WithConfigFile(noStages), WithEnvPrefix("TEXTFORGE_ERR_TEST"))
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) || !strings.Contains(err.Error(), "pipeline.stages") {
		t.Errorf("expected INVALID_INPUT about pipeline.stages, got %v", err)
	}

	noKind := writeFile(t, dir, "nokind.yml", "name: textforge\npipeline:\n  stages:\n    - name: x\n")
	_, err = Load(WithConfigFile(noKind), WithEnvPrefix("TEXTFORGE_ERR_TEST"))
	if err == nil || !strings.Contains(err.Error(), "pipeline.stages[0].kind: is required") {
		t.Errorf("expected missing kind error, got %v", err)
	}

	badYAML := writeFile(t, dir, "bad.yml", "name: [")
	if _, err := Load(WithConfigFile(badYAML)); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for unreadable YAML, got %v", err)
	}

	missingPipeline := writeFile(t, dir, "ref.yml", "name: textforge\npipeline_file: nope.yaml\n")
	if _, err := Load(WithConfigFile(missingPipeline), WithEnvPrefix("TEXTFORGE_ERR_TEST")); !errors.HasCode(err, errors.ErrCodeIO) {
		t.Errorf("expected IO_ERROR for missing pipeline file, got %v", err)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"cmd/textforge/config.yml": true,
		"config/.env":              true,
		".env":                     true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("textforge", LoaderConfig{})
	want := ResolvedFiles{ConfigFile: "cmd/textforge/config.yml", EnvFile: "config/.env"}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("resolved files mismatch (-want +got):\n%s", diff)
	}

	explicit := resolver.ResolveFiles("textforge", LoaderConfig{ConfigFile: "/etc/tf.yml", EnvFile: "/etc/tf.env"})
	if explicit.ConfigFile != "/etc/tf.yml" || explicit.EnvFile != "/etc/tf.env" {
		t.Errorf("expected explicit paths, got %+v", explicit)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestGenerateEnvKeyVariants(t *testing.T) {
	got := generateEnvKeyVariants("OBSERVABILITY_SAMPLE_RATE")
	want := []string{
		"observability_sample_rate",
		"observability.sample.rate",
		"observability.sample_rate",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("variants mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"name"}, generateEnvKeyVariants("NAME")); diff != "" {
		t.Errorf("variants mismatch (-want +got):\n%s", diff)
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithEnvPrefix("APP")(&lc)
	if lc.FileSystem == nil || lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" || lc.EnvPrefix != "APP" {
		t.Errorf("unexpected loader config %+v", lc)
	}
}
