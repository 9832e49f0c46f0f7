package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/maisonhaus/capsule/internal/mutate"
)

var promoteStaticCmd = &cobra.Command{
	Use:   "promote-static",
	Short: "Enable the static write actions for all active products",
	Long: `Batch-enables collection_write and size_guide_write for every product
that is not SKIP and not locked. These actions have no per-product
readiness requirement. Safe to re-run; already-promoted records are
left untouched.`,
	RunE: runPromoteStatic,
}

func init() {
	rootCmd.AddCommand(promoteStaticCmd)
}

func runPromoteStatic(cmd *cobra.Command, args []string) error {
	capsule, err := requireCapsule()
	if err != nil {
		return err
	}

	s, err := mutate.PromoteStaticActions(openStore(), capsule, time.Now().UTC())
	if err != nil {
		return err
	}
	printSummary(s)
	return nil
}
