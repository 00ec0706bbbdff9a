// Package initcmder provides the init command for initializing a local .kiosk
// directory in the current working directory.
package initcmder

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/kiosk/pkg/cliui"
	"github.com/papercomputeco/kiosk/pkg/config"
)

const dirName = ".kiosk"

const initLongDesc string = `Initialize a new .kiosk/ directory in the current working directory.

Creates a local .kiosk/ directory that takes precedence over the default
~/.kiosk/ directory for configuration and the default SQLite database.

Use --preset to write a starter config.toml:
  local     single kiosk, chat logs in ./kiosk.sqlite
  cluster   PostgreSQL, Redis dashboard cache and Kafka events on localhost

Examples:
  kiosk init
  kiosk init --preset local`

const initShortDesc string = "Initialize a local .kiosk/ directory"

type initCommander struct {
	preset string
}

func NewInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&cmder.preset, "preset", "", "Write a starter config (local, cluster)")

	return cmd
}

func (c *initCommander) run(w io.Writer) error {
	var preset *config.Config
	if c.preset != "" {
		var err error
		preset, err = config.PresetConfig(c.preset)
		if err != nil {
			return err
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dirName)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		fmt.Fprintf(w, "Already initialized: %s\n", dir)
	} else {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating .kiosk directory: %w", err)
		}
		fmt.Fprintf(w, "Initialized .kiosk directory: %s\n", dir)
	}

	if preset == nil {
		return nil
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfger.SaveConfig(preset); err != nil {
		return err
	}

	fmt.Fprintf(w, "  %s Wrote %s preset to %s\n", cliui.SuccessMark, c.preset, cfger.GetTarget())
	return nil
}
