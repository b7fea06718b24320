package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Artimuz/nightreign-seed-finder-go/internal/catalog"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the embedded seed catalog",
	}
	cmd.AddCommand(catalogValidateCmd())
	cmd.AddCommand(catalogStatsCmd())
	return cmd
}

func catalogValidateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a catalog file (or the embedded one)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cat *catalog.Catalog
			var err error
			if file == "" {
				cat, err = catalog.Load()
			} else {
				var data []byte
				data, err = os.ReadFile(file)
				if err == nil {
					cat, err = catalog.Parse(data)
				}
			}
			if err != nil {
				return err
			}
			cmd.Printf("ok: %d entries\n", cat.Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "catalog JSON file (default: embedded)")
	return cmd
}

func catalogStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print per-map-type entry counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load()
			if err != nil {
				return err
			}
			cmd.Printf("entries: %d\n", cat.Len())
			for _, mt := range catalog.MapTypes {
				cmd.Printf("  %-13s %d\n", mt, cat.TypeCount(mt))
			}

			// Building frequency across all slots, a quick sanity read on
			// the data distribution.
			counts := map[catalog.Building]int{}
			for _, e := range cat.Entries() {
				for _, v := range e.Slots {
					counts[v.Building]++
				}
			}
			cmd.Printf("buildings:\n")
			for _, b := range catalog.Buildings {
				if b == catalog.BuildingEmpty {
					continue
				}
				cmd.Printf("  %-16s %d\n", b, counts[b])
			}
			return nil
		},
	}
}
