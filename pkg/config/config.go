// Package config loads aidwarf's CLI flags and YAML config file into one
// Config value: viper reads a config file (flag-specified, or ".aidwarf"
// from the home directory), layered under environment variables and
// command-line flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the resolved set of knobs the CLI's subcommands consult.
type Config struct {
	// InlineDepth is the configured multi-level frame-tree visiting depth;
	// 0 means top-level-only. No aidwarf subcommand reads it: emit-dwarf
	// always visits with the default debuginfo.VisitPolicy.
	InlineDepth int

	// OmitInlined is the configured switch for dropping inlined-subroutine
	// DIEs. No aidwarf subcommand reads it; the emitter always writes them.
	OmitInlined bool

	// UseSourceMappings is the configured preference for host-reported
	// source files over synthesized paths. No aidwarf subcommand reads it.
	UseSourceMappings bool

	// SourceCachePath is the configured source-text directory. No aidwarf
	// subcommand reads it; the debug UI renders no source text.
	SourceCachePath string

	// JITRegistration toggles whether emit-dwarf also drives
	// dwarf.JITRegistry for the emitted sections.
	JITRegistration bool

	// DWARFVersion selects dwarf.Version4 or dwarf.Version5 for emission.
	DWARFVersion int
}

const envPrefix = "AIDWARF"

// flagSource is the command whose persistent flags BindFlags registered;
// Load binds them so that flags set on the command line take precedence.
var flagSource *cobra.Command

// Load resolves a Config from cfgFile (if non-empty), environment
// variables prefixed AIDWARF_, and whatever was already bound from command
// line flags via BindFlags. A missing config file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flagSource != nil {
		if err := v.BindPFlags(flagSource.PersistentFlags()); err != nil {
			return nil, fmt.Errorf("binding command-line flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory for default config: %w", err)
		}
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(".aidwarf")
	}

	v.SetDefault("inline-depth", 1)
	v.SetDefault("omit-inlined", false)
	v.SetDefault("use-source-mappings", true)
	v.SetDefault("source-cache-path", "")
	v.SetDefault("jit-registration", false)
	v.SetDefault("dwarf-version", 5)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	return &Config{
		InlineDepth:       v.GetInt("inline-depth"),
		OmitInlined:       v.GetBool("omit-inlined"),
		UseSourceMappings: v.GetBool("use-source-mappings"),
		SourceCachePath:   v.GetString("source-cache-path"),
		JITRegistration:   v.GetBool("jit-registration"),
		DWARFVersion:      v.GetInt("dwarf-version"),
	}, nil
}

// BindFlags registers the config-backed flags on cmd, for subcommands that
// want to override config-file/env values from the command line.
func BindFlags(cmd *cobra.Command) {
	flagSource = cmd
	cmd.PersistentFlags().Int("inline-depth", 1, "maximum frame-tree inlining depth to visit")
	cmd.PersistentFlags().Bool("omit-inlined", false, "drop inlined-subroutine DIEs")
	cmd.PersistentFlags().Bool("use-source-mappings", true, "prefer host-reported source files over synthesized ones")
	cmd.PersistentFlags().String("source-cache-path", "", "directory the debug UI resolves source text from")
	cmd.PersistentFlags().Bool("jit-registration", false, "register emitted sections with the GDB JIT interface")
	cmd.PersistentFlags().Int("dwarf-version", 5, "DWARF version to emit (4 or 5)")
}
