// Package seedcmder provides the seed command for filling a store with demo
// chat logs.
package seedcmder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/kiosk/cmd/kiosk/sqlitepath"
	"github.com/papercomputeco/kiosk/pkg/cliui"
	"github.com/papercomputeco/kiosk/pkg/config"
	"github.com/papercomputeco/kiosk/pkg/deck"
	"github.com/papercomputeco/kiosk/pkg/logger"
	storageutils "github.com/papercomputeco/kiosk/pkg/storage/utils"
)

const seedLongDesc string = `Seed demo chat logs into a kiosk store.

The demo spreads visitor questions over the last year with a realistic mix of
services, response times and failed answers, so "kiosk deck" and the
dashboard have something to show.

Seeding refuses to touch a store that already has chat logs unless --force is
given. --overwrite deletes an existing SQLite file first.

Examples:
  kiosk seed
  kiosk seed --demo
  kiosk seed --sqlite ./kiosk.sqlite -n 5000
  kiosk seed --overwrite`

const seedShortDesc string = "Seed demo chat logs"

type seedCommander struct {
	sqlitePath  string
	postgresDSN string
	demo        bool
	overwrite   bool
	force       bool
	count       int

	logger *slog.Logger
}

var seedFlags = []string{
	config.FlagSQLite,
	config.FlagPostgres,
}

func NewSeedCmd() *cobra.Command {
	cmder := &seedCommander{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: seedShortDesc,
		Long:  seedLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, seedFlags)
			cmder.load(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			cmder.logger = logger.New(
				logger.WithDebug(debug),
				logger.WithPretty(true),
				logger.WithWriter(cmd.ErrOrStderr()),
			)
			return cmder.run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.Flags, config.FlagPostgres, &cmder.postgresDSN)
	cmd.Flags().BoolVar(&cmder.demo, "demo", false, "Seed the dedicated demo database ("+deck.DemoSQLitePath+")")
	cmd.Flags().BoolVarP(&cmder.overwrite, "overwrite", "f", false, "Delete the SQLite database before seeding")
	cmd.Flags().BoolVar(&cmder.force, "force", false, "Seed even when the store already has chat logs")
	cmd.Flags().IntVarP(&cmder.count, "count", "n", deck.DefaultDemoLogs, "Number of demo chat logs")

	return cmd
}

func (c *seedCommander) load(v *viper.Viper) {
	c.sqlitePath = v.GetString("storage.sqlite_path")
	c.postgresDSN = v.GetString("storage.postgres_dsn")
}

func (c *seedCommander) run(ctx context.Context, w io.Writer) error {
	if c.logger == nil {
		c.logger = logger.Nop()
	}

	opts := &storageutils.NewDriverOpts{
		PostgresDSN: c.postgresDSN,
		Logger:      c.logger,
	}

	target := "PostgreSQL"
	if c.postgresDSN == "" {
		opts.SQLitePath = c.resolveSQLitePath()
		target = opts.SQLitePath

		if err := deck.PrepareSQLitePath(opts.SQLitePath, c.overwrite); err != nil {
			return err
		}
	} else if c.overwrite {
		c.logger.Warn("--overwrite only applies to SQLite, ignoring")
	}

	driver, err := storageutils.NewDriver(ctx, opts)
	if err != nil {
		return err
	}
	defer driver.Close()

	var seeded int
	if err := cliui.Step(w, "Seeding demo chat logs", func() error {
		var seedErr error
		seeded, seedErr = deck.SeedDemo(ctx, driver, time.Now(), c.count, c.force)
		return seedErr
	}); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n  %s Seeded %s chat logs into %s\n\n",
		cliui.SuccessMark,
		cliui.ValueStyle.Render(cliui.FormatNumber(seeded)),
		cliui.DimStyle.Render(target),
	)
	return nil
}

func (c *seedCommander) resolveSQLitePath() string {
	if strings.TrimSpace(c.sqlitePath) != "" {
		return c.sqlitePath
	}

	if c.demo {
		return deck.DemoSQLitePath
	}

	path, err := sqlitepath.ResolveSQLitePath("")
	if err == nil {
		return path
	}

	return "kiosk.sqlite"
}
