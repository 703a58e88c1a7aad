package config

import (
	"path/filepath"

	"github.com/kbukum/textforge/batch"
	"github.com/kbukum/textforge/errors"
	"github.com/kbukum/textforge/observability"
	"github.com/kbukum/textforge/pipeline"
	"github.com/kbukum/textforge/validation"
)

// ServiceName is the default service name and env prefix source.
const ServiceName = "textforge"

// Config is the full textforge configuration.
//
//	name: textforge
//	logging:
//	  level: info
//	pipeline:
//	  name: normalize
//	  stages:
//	    - kind: tokenizer
//	executor:
//	  workers: 8
//
// The pipeline may live in its own file instead, referenced with
// pipeline_file (relative to the config file).
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Pipeline      pipeline.Definition  `yaml:"pipeline" mapstructure:"pipeline"`
	PipelineFile  string               `yaml:"pipeline_file" mapstructure:"pipeline_file"`
	Executor      batch.Config         `yaml:"executor" mapstructure:"executor"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills unset fields in every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Executor.ApplyDefaults()
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = c.Name
	}
	if c.Observability.ServiceVersion == "" {
		c.Observability.ServiceVersion = c.Version
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	c.Observability.ApplyDefaults()
}

// Validate checks every section. All problems are reported together.
func (c *Config) Validate() error {
	v := validation.New().
		Merge("", c.ServiceConfig.Validate()).
		Merge("executor", c.Executor.Validate()).
		Check(len(c.Pipeline.Stages) > 0, "pipeline.stages", "must list at least one stage").
		Merge("", validation.Validate(c))
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Load reads, completes and validates the configuration. A pipeline_file
// replaces the inline pipeline section.
func Load(opts ...LoaderOption) (*Config, error) {
	var cfg Config
	files, err := LoadConfigFiles(ServiceName, &cfg, opts...)
	if err != nil {
		return nil, err
	}

	if cfg.PipelineFile != "" {
		p := cfg.PipelineFile
		if !filepath.IsAbs(p) && files.ConfigFile != "" {
			p = filepath.Join(filepath.Dir(files.ConfigFile), p)
		}
		def, err := pipeline.LoadDefinition(p)
		if err != nil {
			return nil, err
		}
		cfg.Pipeline = *def
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err)
	}
	return &cfg, nil
}
