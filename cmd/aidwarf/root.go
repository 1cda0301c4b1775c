// Package aidwarf is the CLI entry point: analyze runs the abstract
// interpreter over a demo method and prints its per-block frame states,
// emit-dwarf builds the DWARF sections for a compiled-method fixture, and
// inspect opens the interactive debug-info tree viewer.
package aidwarf

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Manu343726/aidwarf/pkg/config"
	"github.com/Manu343726/aidwarf/pkg/telemetry"
)

var (
	cfgFile   string
	auditPath string

	cfg    *config.Config
	logger *slog.Logger
)

// RootCmd is the base command when aidwarf is invoked with no subcommand.
var RootCmd = &cobra.Command{
	Use:   "aidwarf",
	Short: "An abstract interpreter and DWARF emitter for JIT-compiled methods",
	Long: `aidwarf runs a generic forward data-flow abstract interpreter over
bytecode and turns a compiled method's frame/range tree into DWARF debug
sections, optionally registering them with a running debugger through the
GDB JIT interface.`,
}

// Execute runs RootCmd; its child commands are added in init. Called once
// by main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.aidwarf.yaml)")
	RootCmd.PersistentFlags().StringVar(&auditPath, "audit-file", "", "JSON audit log path (disabled if empty)")
	config.BindFlags(RootCmd)

	RootCmd.AddCommand(analyzeCmd, emitDwarfCmd, inspectCmd)

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "aidwarf: loading config:", err)
		os.Exit(1)
	}
	cfg = loaded

	opts := telemetry.Options{Level: slog.LevelInfo, Component: "aidwarf"}
	if auditPath != "" {
		f, err := telemetry.OpenAuditFile(auditPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "aidwarf: opening audit file:", err)
			os.Exit(1)
		}
		opts.AuditFile = f
	}
	logger = telemetry.New(opts)
}
