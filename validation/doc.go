// Package validation checks loaded configuration.
//
// Struct tags are checked with go-playground/validator, using the
// mapstructure key of each field in messages so errors point at the key a
// user wrote in config.yml:
//
//	type Config struct {
//	    Workers int `mapstructure:"workers" validate:"gte=0"`
//	}
//	err := validation.Validate(cfg)
//
// Checks that tags cannot express are collected with a Validator:
//
//	v := validation.New()
//	v.Required("name", cfg.Name).OneOf("environment", cfg.Environment, envs)
//	return v.Validate()
//
// Both report INVALID_INPUT errors carrying the failing fields.
package validation
