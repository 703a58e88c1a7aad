package batch

import (
	"fmt"
	"runtime"

	"github.com/kbukum/textforge/errors"
)

// Config sizes the worker pool and the result buffer.
type Config struct {
	// Workers is the number of concurrent workers. Defaults to runtime.NumCPU().
	Workers int `yaml:"workers" mapstructure:"workers" validate:"gte=0"`
	// Capacity bounds the number of finished results waiting for the
	// consumer. Defaults to twice the worker count.
	Capacity int `yaml:"capacity" mapstructure:"capacity" validate:"gte=0"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Capacity <= 0 {
		c.Capacity = 2 * c.Workers
	}
}

// Validate checks the configuration after defaults were applied.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return errors.InvalidConfig("executor.workers", fmt.Sprintf("executor.workers must be positive (got: %d)", c.Workers))
	}
	if c.Capacity <= 0 {
		return errors.InvalidConfig("executor.capacity", fmt.Sprintf("executor.capacity must be positive (got: %d)", c.Capacity))
	}
	return nil
}
