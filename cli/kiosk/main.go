package main

import (
	"os"

	kioskcmder "github.com/papercomputeco/kiosk/cmd/kiosk"
)

func main() {
	cmd := kioskcmder.NewKioskCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
