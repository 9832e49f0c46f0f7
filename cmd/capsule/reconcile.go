package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/maisonhaus/capsule/internal/mutate"
	"github.com/maisonhaus/capsule/internal/queue"
)

var (
	reconcileAssetsPath string
	reconcileQueuePath  string
	reconcileDriftPath  string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile product state with a remote-assets snapshot",
	Long: `Compares local asset records against a catalog-side snapshot: adopts
the first hero candidate for products with no look image, queues work
items for missing swatches and heroes, and appends a drift record per
product so every run is auditable.`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileAssetsPath, "assets", "", "Remote-assets snapshot JSON (required)")
	reconcileCmd.Flags().StringVar(&reconcileQueuePath, "queue", "", "Asset queue path (default: capsules/<C>/state/asset_queue_<C>.jsonl)")
	reconcileCmd.Flags().StringVar(&reconcileDriftPath, "drift", "", "Drift log path (default: capsules/<C>/state/reconcile_drift_<C>.jsonl)")
	_ = reconcileCmd.MarkFlagRequired("assets")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	capsule, err := requireCapsule()
	if err != nil {
		return err
	}

	remote, err := mutate.LoadRemoteAssets(reconcileAssetsPath)
	if err != nil {
		return err
	}

	opts := mutate.ReconcileOptions{
		AssetQueuePath: reconcileQueuePath,
		DriftLogPath:   reconcileDriftPath,
	}
	if opts.AssetQueuePath == "" {
		opts.AssetQueuePath = queue.AssetQueuePath(workspaceRoot(), capsule)
	}
	if opts.DriftLogPath == "" {
		opts.DriftLogPath = queue.DriftLogPath(workspaceRoot(), capsule)
	}

	s, err := mutate.ReconcileCapsuleAssets(openStore(), capsule, remote, opts, time.Now().UTC())
	if err != nil {
		return err
	}
	printSummary(s)
	return nil
}
