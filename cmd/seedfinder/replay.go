package main

import (
	"github.com/spf13/cobra"

	"github.com/Artimuz/nightreign-seed-finder-go/internal/catalog"
	"github.com/Artimuz/nightreign-seed-finder-go/internal/resolve"
)

func replayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <token>",
		Short: "Replay a share token and print the state it reaches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, args[0])
		},
	}
}

func runReplay(cmd *cobra.Command, token string) error {
	cat, err := catalog.Load()
	if err != nil {
		return err
	}

	sess, err := resolve.Replay(cat, token, nil)
	if err != nil {
		return err
	}

	cmd.Printf("state:     %s\n", sess.State())
	cmd.Printf("remaining: %d\n", sess.RemainingCount())
	cmd.Printf("token:     %s\n", sess.Token())

	entry, ok := sess.Resolved()
	if !ok {
		if report := sess.AnalyzeSpawns(); report.BestSlot != "" {
			cmd.Printf("best spawn guess: slot %s (confidence %.2f)\n", report.BestSlot, report.Confidence)
		}
		return nil
	}

	cmd.Printf("resolved:  %s (%s", entry.ID, entry.MapType)
	if entry.Boss != catalog.BossEmpty {
		cmd.Printf(", boss %s", entry.Boss)
	}
	cmd.Printf(")\n")
	cmd.Printf("spawn:     slot %s\n", entry.SpawnSlot())
	for _, id := range catalog.SlotIDs() {
		v := entry.Slot(id)
		if v.Building == catalog.BuildingEmpty {
			continue
		}
		marker := ""
		if v.Spawn {
			marker = "  <- spawn"
		}
		cmd.Printf("  %s  %s%s\n", id, v.Building, marker)
	}
	return nil
}
