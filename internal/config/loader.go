package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader handles loading configuration from files and command-line arguments.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help flag.
var ErrHelpRequested = errors.New("help requested")

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments and configuration files to produce a
// Config. File values are applied first, then flag overrides.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}

	configPath := flagSet.Lookup("config").Value.String()
	if len(args) == 0 && configPath == "" {
		displayHelp(cmd)
		return nil, ErrHelpRequested
	}
	cfgViper := viper.New()
	if configPath != "" {
		cfgViper.SetConfigFile(configPath)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	settings := cfgViper.AllSettings()

	cfg := &Config{
		HTTPVersion: "1.1",
		Instances:   1000,
		LoopLimit:   Unbounded,
		AmmoLimit:   Unbounded,
		ConfigFile:  configPath,
	}

	if err := applyConfigSettings(cfg, settings); err != nil {
		return nil, err
	}

	if err := applyFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	cfg.AmmoFile = strings.TrimSpace(cfg.AmmoFile)
	cfg.AmmoType = strings.TrimSpace(cfg.AmmoType)
	cfg.HTTPVersion = strings.TrimSpace(cfg.HTTPVersion)

	return cfg, nil
}

// applyConfigSettings applies settings from a config file to the Config.
func applyConfigSettings(cfg *Config, settings map[string]interface{}) error {
	if len(settings) == 0 {
		return nil
	}

	if raw, ok := lookupSetting(settings, "ammofile", "ammo_file", "ammo-file"); ok {
		val, err := asString(raw)
		if err != nil {
			return wrapKey("ammo_file", err)
		}
		cfg.AmmoFile = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "ammotype", "ammo_type", "ammo-type"); ok {
		val, err := asString(raw)
		if err != nil {
			return wrapKey("ammo_type", err)
		}
		cfg.AmmoType = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "uris"); ok {
		uris, err := asStringSlice(raw)
		if err != nil {
			return wrapKey("uris", err)
		}
		cfg.URIs = uris
	}

	if raw, ok := lookupSetting(settings, "headers"); ok {
		headers, err := asStringSlice(raw)
		if err != nil {
			return wrapKey("headers", err)
		}
		cfg.Headers = headers
	}

	if raw, ok := lookupSetting(settings, "httpver", "http_ver", "http-ver"); ok {
		val, err := asString(raw)
		if err != nil {
			return wrapKey("http_ver", err)
		}
		if val != "" {
			cfg.HTTPVersion = val
		}
	}

	if raw, ok := lookupSetting(settings, "rpsschedule", "rps_schedule", "rps-schedule", "rps"); ok {
		val, err := asString(raw)
		if err != nil {
			return wrapKey("rps_schedule", err)
		}
		cfg.RPSSchedule = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "instancesschedule", "instances_schedule", "instances-schedule"); ok {
		val, err := asString(raw)
		if err != nil {
			return wrapKey("instances_schedule", err)
		}
		cfg.InstancesSchedule = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "instances"); ok {
		val, err := asInt(raw)
		if err != nil {
			return wrapKey("instances", err)
		}
		cfg.Instances = val
	}

	if raw, ok := lookupSetting(settings, "looplimit", "loop_limit", "loop-limit"); ok {
		val, err := asInt64(raw)
		if err != nil {
			return wrapKey("loop_limit", err)
		}
		cfg.LoopLimit = val
	}

	if raw, ok := lookupSetting(settings, "ammolimit", "ammo_limit", "ammo-limit"); ok {
		val, err := asInt64(raw)
		if err != nil {
			return wrapKey("ammo_limit", err)
		}
		cfg.AmmoLimit = val
	}

	if raw, ok := lookupSetting(settings, "autocases"); ok {
		val, err := asString(raw)
		if err != nil {
			return wrapKey("autocases", err)
		}
		cfg.Autocases = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "output"); ok {
		val, err := asString(raw)
		if err != nil {
			return wrapKey("output", err)
		}
		cfg.Output = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "maxrps", "max_rps", "max-rps"); ok {
		val, err := asInt(raw)
		if err != nil {
			return wrapKey("max_rps", err)
		}
		cfg.MaxRPS = val
	}

	if raw, ok := lookupSetting(settings, "pace"); ok {
		val, err := asBool(raw)
		if err != nil {
			return wrapKey("pace", err)
		}
		cfg.Pace = val
	}

	if raw, ok := lookupSetting(settings, "verbose"); ok {
		val, err := asBool(raw)
		if err != nil {
			return wrapKey("verbose", err)
		}
		cfg.Verbose = val
	}

	return nil
}

func wrapKey(key string, err error) error {
	return fmt.Errorf("%s: %w", key, err)
}
