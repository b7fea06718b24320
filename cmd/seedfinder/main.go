package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Artimuz/nightreign-seed-finder-go/internal/api"
)

func main() {
	root := &cobra.Command{
		Use:   "seedfinder",
		Short: "Map seed resolution service for Elden Ring Nightreign",
	}
	root.Version = api.EngineVersion
	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(serveCmd())
	root.AddCommand(replayCmd())
	root.AddCommand(catalogCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
