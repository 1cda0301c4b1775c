package aidwarf

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Manu343726/aidwarf/pkg/debuginfo"
	"github.com/Manu343726/aidwarf/pkg/debugui"
)

var inspectSnapshotPath string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Open an interactive tree view of a debug-info snapshot",
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectSnapshotPath, "snapshot", "s", "", "YAML file holding a []*debuginfo.ClassEntry snapshot (uses the demo class when empty)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	classes, err := loadClasses(inspectSnapshotPath)
	if err != nil {
		return err
	}

	app := debugui.NewApp(classes)
	if err := app.Run(); err != nil {
		return fmt.Errorf("running debug UI: %w", err)
	}
	return nil
}

func loadClasses(path string) ([]*debuginfo.ClassEntry, error) {
	if path == "" {
		_, class := demoClassEntry()
		return []*debuginfo.ClassEntry{class}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %q: %w", path, err)
	}

	var classes []*debuginfo.ClassEntry
	if err := yaml.Unmarshal(data, &classes); err != nil {
		return nil, fmt.Errorf("parsing snapshot %q: %w", path, err)
	}
	return classes, nil
}
