package preflight

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/maisonhaus/capsule/internal/types"
	"github.com/maisonhaus/capsule/internal/utils"
)

// Summary holds aggregate counts over one preflight run.
type Summary struct {
	TotalProducts   int `json:"total_products"`
	GoCount         int `json:"go_count"`
	NoGoCount       int `json:"no_go_count"`
	SkipCount       int `json:"skip_count"`
	WarningProducts int `json:"warning_products_count"`
	ErrorProducts   int `json:"error_products_count"`
}

// Report is the full output of a preflight run: per-product results plus
// summary counts. It is the sole input for seeding a capsule's
// product-state document.
type Report struct {
	Capsule     string    `json:"capsule"`
	GeneratedAt time.Time `json:"generated_at"`
	Summary     Summary   `json:"summary"`
	Products    []*Result `json:"products"`
}

func buildReport(capsule string, results []*Result) *Report {
	report := &Report{
		Capsule:     capsule,
		GeneratedAt: time.Now().UTC(),
		Products:    results,
	}
	for _, r := range results {
		report.Summary.TotalProducts++
		switch r.Status {
		case types.StatusGo:
			report.Summary.GoCount++
		case types.StatusNoGo:
			report.Summary.NoGoCount++
		case types.StatusSkip:
			report.Summary.SkipCount++
		}
		if len(r.Warnings) > 0 {
			report.Summary.WarningProducts++
		}
		if len(r.Errors) > 0 {
			report.Summary.ErrorProducts++
		}
	}
	return report
}

// WriteInternalJSON writes the full report to path atomically.
func (r *Report) WriteInternalJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling preflight report: %w", err)
	}
	data = append(data, '\n')
	return utils.WriteFileAtomic(path, data, 0o644)
}

// LoadReport reads a previously written internal report.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path) // #nosec G304 - input path from CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading preflight report: %w", err)
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing preflight report %s: %w", path, err)
	}
	return &report, nil
}

// advisoryHeader is the client advisory CSV column order.
var advisoryHeader = []string{"handle", "product_id", "cpi", "title", "status", "client_recommendation", "errors", "warnings"}

// WriteClientAdvisoryCSV writes the client-facing per-product summary.
func (r *Report) WriteClientAdvisoryCSV(path string) error {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(advisoryHeader); err != nil {
		return fmt.Errorf("writing advisory header: %w", err)
	}
	for _, p := range r.Products {
		record := []string{
			p.Handle,
			p.ProductID,
			p.CPI,
			p.Title,
			string(p.Status),
			p.ClientRecommendation,
			strings.Join(p.Errors, "; "),
			strings.Join(p.Warnings, "; "),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing advisory row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing advisory CSV: %w", err)
	}

	return utils.WriteFileAtomic(path, []byte(sb.String()), 0o644)
}
