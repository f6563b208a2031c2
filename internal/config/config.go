package config

import (
	"fmt"
	"strings"
)

// Unbounded is the sentinel limit value meaning "no limit".
const Unbounded int64 = -1

// Config is the immutable configuration snapshot the factory is built from.
type Config struct {
	AmmoFile          string   `mapstructure:"ammo_file"`
	AmmoType          string   `mapstructure:"ammo_type"`
	URIs              []string `mapstructure:"uris"`
	Headers           []string `mapstructure:"headers"`
	HTTPVersion       string   `mapstructure:"http_ver"`
	RPSSchedule       string   `mapstructure:"rps_schedule"`
	InstancesSchedule string   `mapstructure:"instances_schedule"`
	Instances         int      `mapstructure:"instances"`
	LoopLimit         int64    `mapstructure:"loop_limit"`
	AmmoLimit         int64    `mapstructure:"ammo_limit"`
	Autocases         string   `mapstructure:"autocases"`
	Output            string   `mapstructure:"output"`
	MaxRPS            int      `mapstructure:"max_rps"`
	Pace              bool     `mapstructure:"pace"`
	Verbose           bool     `mapstructure:"verbose"`
	ConfigFile        string   `mapstructure:"-"`
}

// ValidationError aggregates every problem found in a configuration.
type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

// Issues returns the individual validation problems.
func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

// Validate checks field-level constraints. Mutual exclusion between ammo
// sources and between schedules is enforced by the factory at selection
// time, matching the error taxonomy there.
func (c Config) Validate() error {
	var issues []string

	if c.LoopLimit < Unbounded {
		issues = append(issues, fmt.Sprintf("loop_limit must be >= -1, got %d", c.LoopLimit))
	}
	if c.AmmoLimit < Unbounded {
		issues = append(issues, fmt.Sprintf("ammo_limit must be >= -1, got %d", c.AmmoLimit))
	}
	if c.Instances < 0 {
		issues = append(issues, fmt.Sprintf("instances must be >= 0, got %d", c.Instances))
	}
	if c.MaxRPS < 0 {
		issues = append(issues, fmt.Sprintf("max_rps must be >= 0, got %d", c.MaxRPS))
	}
	for idx, header := range c.Headers {
		if !strings.Contains(header, ":") {
			issues = append(issues, fmt.Sprintf("headers[%d]: %q is not a \"Name: value\" line", idx, header))
		}
	}
	for idx, uri := range c.URIs {
		if strings.TrimSpace(uri) == "" {
			issues = append(issues, fmt.Sprintf("uris[%d]: URI cannot be blank", idx))
		}
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}
