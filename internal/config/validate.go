package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/pingboard/internal/errors"
)

// Limits applied to probe timing.
const (
	MinInterval    = 100 * time.Millisecond
	MaxTimeout     = 30 * time.Second
	MaxConcurrency = 64
)

var validMethods = []string{MethodAuto, MethodICMP, MethodTCP}

var validColors = []string{ColorAuto, ColorAlways, ColorNever}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but pingboard only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade pingboard or lower the version field.")
	}

	if err := validateTiming(cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Use durations like 1s, 500ms, or 3s.")
	}

	if err := validateProbe(cfg.Probe); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Check the 'probe' section in your .pingboard.yaml.")
	}

	if !contains(validColors, cfg.Output.Color) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("output.color '%s' isn't a color mode", cfg.Output.Color),
			fmt.Sprintf("Use one of: %s", strings.Join(validColors, ", ")))
	}

	return nil
}

func validateTiming(cfg *Config) error {
	if cfg.Interval < MinInterval {
		return fmt.Errorf("interval %s is too short (minimum %s)", cfg.Interval, MinInterval)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	if cfg.Timeout > MaxTimeout {
		return fmt.Errorf("timeout %s is too long (maximum %s)", cfg.Timeout, MaxTimeout)
	}
	if cfg.Concurrency < 1 || cfg.Concurrency > MaxConcurrency {
		return fmt.Errorf("concurrency must be between 1 and %d, got %d", MaxConcurrency, cfg.Concurrency)
	}
	return nil
}

func validateProbe(p ProbeConfig) error {
	if !contains(validMethods, p.Method) {
		return fmt.Errorf("probe method '%s' isn't supported (use %s)", p.Method, strings.Join(validMethods, ", "))
	}
	if p.TCPPort < 1 || p.TCPPort > 65535 {
		return fmt.Errorf("probe.tcp_port %d is out of range", p.TCPPort)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
