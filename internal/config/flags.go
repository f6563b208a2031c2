package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// RegisterFlags registers all CLI flags to a cobra command.
func RegisterFlags(cmd *cobra.Command) {
	configureFlags(cmd.Flags())
}

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "beltfeed",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Ammo source flags
	flags.StringP("ammo-file", "f", "", "Path to the ammo file")
	flags.String("ammo-type", "", "Ammo file format: binary-chunk, slow-log, line, uri or uri-post")
	flags.StringSliceP("uri", "u", nil, "Request URI to cycle through (repeatable; mutually exclusive with --ammo-file)")
	flags.StringSliceP("header", "H", nil, "Request header line 'Name: value' (repeatable)")
	flags.String("http-ver", "1.1", "HTTP protocol version label")
	flags.String("autocases", "", "Marker derivation: 'uri' or a path depth (empty disables)")

	// Load control flags
	flags.String("rps", "", "RPS schedule, e.g. 'const(10, 30s) line(10, 100, 2m)'")
	flags.String("instances-schedule", "", "Instances schedule, e.g. 'line(1, 10, 1m)' (mutually exclusive with --rps)")
	flags.Int("instances", 1000, "Instance count published to the status board")
	flags.Int64("loop-limit", -1, "Max passes over the ammo source (-1 means unbounded)")
	flags.Int64("ammo-limit", -1, "Max records to emit (-1 means unbounded)")

	// Output flags
	flags.StringP("output", "o", "", "Write the stepped stream to this file instead of stdout")
	flags.Bool("pace", false, "Emit records in real time according to the load plan")
	flags.Int("max-rps", 0, "Cap on real-time emission rate (0 means uncapped)")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\nFlags:\n", cmd.UseLine())
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config,
// overriding values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("ammo-file") {
		val, err := fs.GetString("ammo-file")
		if err != nil {
			return err
		}
		cfg.AmmoFile = strings.TrimSpace(val)
	}
	if fs.Changed("ammo-type") {
		val, err := fs.GetString("ammo-type")
		if err != nil {
			return err
		}
		cfg.AmmoType = strings.TrimSpace(val)
	}
	if fs.Changed("uri") {
		val, err := fs.GetStringSlice("uri")
		if err != nil {
			return err
		}
		cfg.URIs = val
	}
	if fs.Changed("http-ver") {
		val, err := fs.GetString("http-ver")
		if err != nil {
			return err
		}
		cfg.HTTPVersion = strings.TrimSpace(val)
	}
	if fs.Changed("autocases") {
		val, err := fs.GetString("autocases")
		if err != nil {
			return err
		}
		cfg.Autocases = strings.TrimSpace(val)
	}
	if fs.Changed("rps") {
		val, err := fs.GetString("rps")
		if err != nil {
			return err
		}
		cfg.RPSSchedule = strings.TrimSpace(val)
	}
	if fs.Changed("instances-schedule") {
		val, err := fs.GetString("instances-schedule")
		if err != nil {
			return err
		}
		cfg.InstancesSchedule = strings.TrimSpace(val)
	}
	if fs.Changed("instances") {
		val, err := fs.GetInt("instances")
		if err != nil {
			return err
		}
		cfg.Instances = val
	}
	if fs.Changed("loop-limit") {
		val, err := fs.GetInt64("loop-limit")
		if err != nil {
			return err
		}
		cfg.LoopLimit = val
	}
	if fs.Changed("ammo-limit") {
		val, err := fs.GetInt64("ammo-limit")
		if err != nil {
			return err
		}
		cfg.AmmoLimit = val
	}
	if fs.Changed("output") {
		val, err := fs.GetString("output")
		if err != nil {
			return err
		}
		cfg.Output = strings.TrimSpace(val)
	}
	if fs.Changed("pace") {
		val, err := fs.GetBool("pace")
		if err != nil {
			return err
		}
		cfg.Pace = val
	}
	if fs.Changed("max-rps") {
		val, err := fs.GetInt("max-rps")
		if err != nil {
			return err
		}
		cfg.MaxRPS = val
	}
	if fs.Changed("verbose") {
		val, err := fs.GetBool("verbose")
		if err != nil {
			return err
		}
		cfg.Verbose = val
	}

	vals, err := fs.GetStringSlice("header")
	if err != nil {
		return err
	}
	if len(vals) > 0 {
		for _, entry := range vals {
			if !strings.Contains(entry, ":") {
				return fmt.Errorf("header must be a 'Name: value' line: %s", entry)
			}
			cfg.Headers = append(cfg.Headers, strings.TrimSpace(entry))
		}
	}

	return nil
}
