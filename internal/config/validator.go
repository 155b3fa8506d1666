package config

import (
	"errors"
	"fmt"
)

// Ошибки валидации конфигурации.
var (
	ErrEmptyPort           = errors.New("port is required")
	ErrNoSources           = errors.New("at least one source is required")
	ErrNoEnabledSources    = errors.New("at least one source must be enabled")
	ErrMultipleTrusted     = errors.New("at most one source may be trusted")
	ErrInvalidWorkers      = errors.New("build_workers must be at least 1")
	ErrInvalidFetchTimeout = errors.New("fetch_timeout_sec must be at least 1")
	ErrInvalidMinLength    = errors.New("min_name_length must be non-negative")
	ErrInvalidAcronymLen   = errors.New("max_acronym_length must be at least min_name_length")
)

// Validate проверяет согласованность конфигурации.
func (c *Config) Validate() error {
	if c.Port == "" {
		return ErrEmptyPort
	}
	if len(c.Sources) == 0 {
		return ErrNoSources
	}

	enabled := 0
	trusted := 0
	for _, source := range c.Sources {
		if source.Name == "" {
			return fmt.Errorf("source without name in configuration")
		}
		if source.Enabled {
			enabled++
		}
		if source.Enabled && source.Trusted {
			trusted++
		}
	}
	if enabled == 0 {
		return ErrNoEnabledSources
	}
	if trusted > 1 {
		return ErrMultipleTrusted
	}

	if c.BuildWorkers < 1 {
		return ErrInvalidWorkers
	}
	if c.FetchTimeoutSec < 1 {
		return ErrInvalidFetchTimeout
	}
	if c.MinNameLength < 0 {
		return ErrInvalidMinLength
	}
	if c.MaxAcronymLength < c.MinNameLength {
		return ErrInvalidAcronymLen
	}

	return nil
}
