// Package configcmder provides the config command for managing persistent
// kiosk configuration stored in the .kiosk/ directory.
package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/kiosk/pkg/cliui"
	"github.com/papercomputeco/kiosk/pkg/config"
)

const configLongDesc string = `Manage persistent kiosk configuration.

Configuration is stored as config.toml in the .kiosk/ directory and provides
default values for command flags. CLI flags and KIOSK_* environment
variables take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  storage.sqlite_path, storage.postgres_dsn,
  api.listen,
  assistant.model, assistant.api_key, assistant.profile_path,
  deck.lookback_days, deck.cache_ttl, deck.redis_addr,
  eventstream.kafka_brokers, eventstream.kafka_topic,
  client.api_target

Use subcommands to get, set, or list configuration values:
  kiosk config set <key> <value>    Set a configuration value
  kiosk config get <key>            Get a configuration value
  kiosk config list                 List all configuration values

Examples:
  kiosk config set storage.sqlite_path ./kiosk.sqlite
  kiosk config set deck.cache_ttl 30s
  kiosk config get assistant.model
  kiosk config list`

const configShortDesc string = "Manage persistent kiosk configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// printTarget tells the user which config file a command reads or writes.
func printTarget(w io.Writer, target string) {
	if target != "" {
		fmt.Fprintf(w, "\n  %s %s\n\n",
			cliui.KeyStyle.Render("Config file:"),
			cliui.DimStyle.Render(target),
		)
		return
	}
	fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render("No config file found. Using defaults."))
}
