package main

import (
	"github.com/spf13/cobra"

	"github.com/Artimuz/nightreign-seed-finder-go/internal/api"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print seedfinder version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := api.GetVersionInfo()
			cmd.Printf("seedfinder %s (commit %s, built %s)\n",
				info.EngineVersion, info.GitCommit, info.BuildTime)
		},
	}
}
