package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/maisonhaus/capsule/internal/mutate"
	"github.com/maisonhaus/capsule/internal/queue"
)

var (
	swatchDir       string
	swatchQueuePath string
)

var registerSwatchesCmd = &cobra.Command{
	Use:   "register-swatches",
	Short: "Adopt locally created swatch files into product state",
	Long: `Matches files in the swatch directory to products by CPI token and
adopts each unambiguous match, enabling image_upsert and
metafield_write and queueing a SWATCH_CREATED work item. A product with
two or more candidate files is reported and skipped; the tool never
guesses.`,
	RunE: runRegisterSwatches,
}

func init() {
	registerSwatchesCmd.Flags().StringVar(&swatchDir, "dir", "", "Directory of created swatch files (required)")
	registerSwatchesCmd.Flags().StringVar(&swatchQueuePath, "queue", "", "Swatch queue path (default: capsules/<C>/state/swatch_queue_<C>.jsonl)")
	_ = registerSwatchesCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(registerSwatchesCmd)
}

func runRegisterSwatches(cmd *cobra.Command, args []string) error {
	capsule, err := requireCapsule()
	if err != nil {
		return err
	}

	queuePath := swatchQueuePath
	if queuePath == "" {
		queuePath = queue.SwatchQueuePath(workspaceRoot(), capsule)
	}

	s, err := mutate.AdoptLocalSwatches(openStore(), capsule, swatchDir, queuePath, time.Now().UTC())
	if err != nil {
		return err
	}
	printSummary(s)
	return nil
}
