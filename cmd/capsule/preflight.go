package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/maisonhaus/capsule/internal/catalog"
	"github.com/maisonhaus/capsule/internal/debug"
	"github.com/maisonhaus/capsule/internal/preflight"
	"github.com/maisonhaus/capsule/internal/ui"
)

var (
	preflightExportPath  string
	preflightTrackerPath string
	preflightImageLists  []string
	preflightReportPath  string
	preflightCSVPath     string
)

var preflightCmd = &cobra.Command{
	Use:   "preflight",
	Short: "Validate capsule products against collaborator inputs",
	Long: `Runs the readiness checks for every product in the import export:
identity, details, imagery, season and category codes. Writes the full
report JSON plus the client advisory CSV. Exits 1 when any product is
NO-GO so pipelines can gate on the result.`,
	RunE: runPreflight,
}

func init() {
	preflightCmd.Flags().StringVar(&preflightExportPath, "export", "", "Import export CSV (required)")
	preflightCmd.Flags().StringVar(&preflightTrackerPath, "tracker", "", "Product tracker CSV (required)")
	preflightCmd.Flags().StringArrayVar(&preflightImageLists, "images", nil, "Image filename listing (repeatable)")
	preflightCmd.Flags().StringVar(&preflightReportPath, "report", "", "Report JSON output path (default: capsules/<C>/state/preflight_report_<C>.json)")
	preflightCmd.Flags().StringVar(&preflightCSVPath, "advisory", "", "Client advisory CSV output path (default: capsules/<C>/state/preflight_advisory_<C>.csv)")
	_ = preflightCmd.MarkFlagRequired("export")
	_ = preflightCmd.MarkFlagRequired("tracker")
	rootCmd.AddCommand(preflightCmd)
}

func defaultReportPath(capsule string) string {
	return filepath.Join(workspaceRoot(), "capsules", capsule, "state", "preflight_report_"+capsule+".json")
}

func defaultAdvisoryPath(capsule string) string {
	return filepath.Join(workspaceRoot(), "capsules", capsule, "state", "preflight_advisory_"+capsule+".csv")
}

func runPreflight(cmd *cobra.Command, args []string) error {
	capsule, err := requireCapsule()
	if err != nil {
		return err
	}

	groups, err := catalog.LoadExport(preflightExportPath)
	if err != nil {
		return err
	}
	tracker, err := catalog.LoadTracker(preflightTrackerPath)
	if err != nil {
		return err
	}

	var lists [][]string
	for _, path := range preflightImageLists {
		names, err := catalog.LoadFilenames(path)
		if err != nil {
			return err
		}
		lists = append(lists, names)
	}
	pool := catalog.PoolFilenames(lists...)
	debug.Logf("preflight: %d export groups, %d tracker rows, %d pooled filenames",
		len(groups), tracker.Len(), len(pool))

	report := preflight.New(capsule).Run(groups, tracker, pool)

	reportPath := preflightReportPath
	if reportPath == "" {
		reportPath = defaultReportPath(capsule)
	}
	if err := report.WriteInternalJSON(reportPath); err != nil {
		return err
	}
	advisoryPath := preflightCSVPath
	if advisoryPath == "" {
		advisoryPath = defaultAdvisoryPath(capsule)
	}
	if err := report.WriteClientAdvisoryCSV(advisoryPath); err != nil {
		return err
	}

	if jsonOutput {
		outputJSON(report.Summary)
	} else {
		printPreflightSummary(report)
	}

	if report.Summary.NoGoCount > 0 {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return fmt.Errorf("%d product(s) NO-GO", report.Summary.NoGoCount)
	}
	return nil
}

func printPreflightSummary(report *preflight.Report) {
	if debug.IsQuiet() {
		return
	}
	fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("Preflight %s", report.Capsule)))
	fmt.Printf("  %s %d GO\n", ui.RenderPass(ui.IconPass), report.Summary.GoCount)
	fmt.Printf("  %s %d NO-GO\n", ui.RenderFail(ui.IconFail), report.Summary.NoGoCount)
	fmt.Printf("  %s %d SKIP\n", ui.RenderMuted(ui.IconSkip), report.Summary.SkipCount)
	if report.Summary.WarningProducts > 0 {
		fmt.Printf("  %s %d with warnings\n", ui.RenderWarn(ui.IconWarn), report.Summary.WarningProducts)
	}

	for _, r := range report.Products {
		if len(r.Errors) == 0 {
			continue
		}
		fmt.Printf("  %s %s: %s\n", ui.RenderFail(ui.IconFail), r.Handle, ui.RenderMuted(r.Errors[0]))
	}
}
