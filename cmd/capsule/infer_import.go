package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/maisonhaus/capsule/internal/catalog"
	"github.com/maisonhaus/capsule/internal/mutate"
)

var (
	inferCombinedPath  string
	inferAnomaliesPath string
	inferAnomaliesOpt  bool
)

var inferImportCmd = &cobra.Command{
	Use:   "infer-import",
	Short: "Mark products as imported based on the import ledgers",
	Long: `Reads the combined import ledger and marks matching eligible products
as imported, transitioning them to the IMPORTED stage. The anomalies
ledger is only consulted with --include-anomalies; importing an anomaly
records that the client knowingly accepted a NO-GO product. The
transition is once-only and never reverts.`,
	RunE: runInferImport,
}

func init() {
	inferImportCmd.Flags().StringVar(&inferCombinedPath, "combined-csv", "", "Combined import ledger CSV (required)")
	inferImportCmd.Flags().StringVar(&inferAnomaliesPath, "anomalies-csv", "", "Anomalies import ledger CSV")
	inferImportCmd.Flags().BoolVar(&inferAnomaliesOpt, "include-anomalies", false, "Consult the anomalies ledger (requires --anomalies-csv)")
	_ = inferImportCmd.MarkFlagRequired("combined-csv")
	rootCmd.AddCommand(inferImportCmd)
}

func runInferImport(cmd *cobra.Command, args []string) error {
	capsule, err := requireCapsule()
	if err != nil {
		return err
	}

	if inferAnomaliesOpt && inferAnomaliesPath == "" {
		return fmt.Errorf("--include-anomalies requires --anomalies-csv")
	}
	if !inferAnomaliesOpt && inferAnomaliesPath != "" {
		return fmt.Errorf("--anomalies-csv has no effect without --include-anomalies")
	}

	ledgers := mutate.ImportLedgers{}
	ledgers.Combined, err = catalog.LoadHandleSet(inferCombinedPath)
	if err != nil {
		return err
	}
	if inferAnomaliesOpt {
		ledgers.Anomalies, err = catalog.LoadHandleSet(inferAnomaliesPath)
		if err != nil {
			return err
		}
	}

	s, err := mutate.InferImportStage(openStore(), capsule, ledgers, time.Now().UTC())
	if err != nil {
		return err
	}
	printSummary(s)
	return nil
}
