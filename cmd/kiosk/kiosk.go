// Package kioskcmder is the root kiosk command.
package kioskcmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/papercomputeco/kiosk/cmd/kiosk/chat"
	configcmder "github.com/papercomputeco/kiosk/cmd/kiosk/config"
	deckcmder "github.com/papercomputeco/kiosk/cmd/kiosk/deck"
	initcmder "github.com/papercomputeco/kiosk/cmd/kiosk/init"
	seedcmder "github.com/papercomputeco/kiosk/cmd/kiosk/seed"
	servecmder "github.com/papercomputeco/kiosk/cmd/kiosk/serve"
	versioncmder "github.com/papercomputeco/kiosk/cmd/version"
)

const kioskLongDesc string = `Kiosk runs the public-service chat assistant and its analytics deck.

Run services using:
  kiosk serve          Run the API server (dashboard + chat assistant)
  kiosk chat           Chat with the assistant in the terminal
  kiosk deck           Summarize visitor questions and export reports
  kiosk seed           Fill a database with demo chat logs`

const kioskShortDesc string = "Kiosk - public-service assistant and analytics"

func NewKioskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "kiosk",
		Short:        kioskShortDesc,
		Long:         kioskLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .kiosk/ config directory")

	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(deckcmder.NewDeckCmd())
	cmd.AddCommand(seedcmder.NewSeedCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
