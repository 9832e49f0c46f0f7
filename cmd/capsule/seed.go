package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/maisonhaus/capsule/internal/debug"
	"github.com/maisonhaus/capsule/internal/preflight"
	"github.com/maisonhaus/capsule/internal/seed"
)

var (
	seedReportPath string
	seedForce      bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the product-state document from a preflight report",
	Long: `Transforms a preflight report into a fresh product-state document,
deriving the initial allowed_actions map for every product. Refuses to
overwrite an existing state file unless --force is given: seeding is a
one-way reset that discards all accumulated mutations.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedReportPath, "report", "", "Preflight report JSON (default: capsules/<C>/state/preflight_report_<C>.json)")
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "Overwrite an existing state file")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	capsule, err := requireCapsule()
	if err != nil {
		return err
	}

	store := openStore()
	if store.Exists(capsule) && !seedForce {
		return fmt.Errorf("state file already exists for %s; use --force to reseed (discards all mutations)", capsule)
	}

	reportPath := seedReportPath
	if reportPath == "" {
		reportPath = defaultReportPath(capsule)
	}
	report, err := preflight.LoadReport(reportPath)
	if err != nil {
		return err
	}
	if report.Capsule != capsule {
		return fmt.Errorf("report is for capsule %s, not %s", report.Capsule, capsule)
	}

	doc := seed.FromReport(report, time.Now().UTC())
	if err := store.Save(doc); err != nil {
		return err
	}

	if jsonOutput {
		outputJSON(map[string]interface{}{
			"capsule":  capsule,
			"products": len(doc.Products),
			"path":     store.Path(capsule),
		})
	} else {
		debug.PrintNormal("Seeded %d products into %s\n", len(doc.Products), store.Path(capsule))
	}
	return nil
}
