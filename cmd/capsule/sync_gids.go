package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/maisonhaus/capsule/internal/catalog"
	"github.com/maisonhaus/capsule/internal/mutate"
)

var syncGidsMapPath string

var syncGidsCmd = &cobra.Command{
	Use:   "sync-gids",
	Short: "Inject external product GIDs into state by CPI",
	Long: `Reads a CPI-to-GID mapping and stores each GID on the matching product
record. CPIs without a mapping are reported but never fail the run.`,
	RunE: runSyncGids,
}

func init() {
	syncGidsCmd.Flags().StringVar(&syncGidsMapPath, "map", "", "CPI-to-GID mapping JSON (required)")
	_ = syncGidsCmd.MarkFlagRequired("map")
	rootCmd.AddCommand(syncGidsCmd)
}

func runSyncGids(cmd *cobra.Command, args []string) error {
	capsule, err := requireCapsule()
	if err != nil {
		return err
	}

	gids, err := catalog.LoadProductMap(syncGidsMapPath)
	if err != nil {
		return err
	}

	s, err := mutate.SyncExternalIDs(openStore(), capsule, gids, time.Now().UTC())
	if err != nil {
		return err
	}
	printSummary(s)
	return nil
}
