package mutate

import (
	"fmt"
	"time"

	"github.com/maisonhaus/capsule/internal/statestore"
	"github.com/maisonhaus/capsule/internal/types"
)

// ImportLedgers holds the post-import evidence: sets of handles that
// actually went through each import path. Anomalies is nil unless the
// operator explicitly opted in to the anomalies ledger.
type ImportLedgers struct {
	Combined  map[string]bool
	Anomalies map[string]bool
}

// InferImportStage marks records as imported based on the import
// ledgers. The transition is once-only: an already-imported record is
// never touched again, and the IMPORTED stage never reverts. Records
// that are not import-eligible are reported, not mutated, even when a
// ledger claims them.
func InferImportStage(store *statestore.Store, capsule string, ledgers ImportLedgers, now time.Time) (*Summary, error) {
	return run(store, capsule, "infer-import", now, func(doc *types.Document, s *Summary) error {
		for _, p := range doc.Products {
			s.Examined++

			inCombined := ledgers.Combined[p.Handle]
			inAnomalies := ledgers.Anomalies != nil && ledgers.Anomalies[p.Handle]

			if !p.Import.Eligible {
				if inCombined || inAnomalies {
					s.note("ineligible product %s present in import ledger, ignored", p.Handle)
				}
				continue
			}
			if p.Import.Imported {
				continue
			}

			var source types.ImportSource
			switch {
			case inCombined:
				source = types.ImportSourceCombined
			case inAnomalies:
				source = types.ImportSourceAnomalies
			default:
				continue
			}

			p.Import.Imported = true
			p.Import.ImportedAt = timePtr(now)
			p.Import.ImportSource = source
			// Accepting an anomaly means the client knowingly imported a
			// product preflight had flagged NO-GO.
			p.Import.AnomalyAccepted = source == types.ImportSourceAnomalies &&
				p.Preflight.Status == types.StatusNoGo

			if p.Promotion.Stage == types.StagePreFlight {
				p.Promotion.Stage = types.StageImported
				p.Promotion.LastTransitionAt = timePtr(now)
			}

			p.AppendAudit("infer-import", fmt.Sprintf("marked imported via %s", source), now)
			s.Changed++
		}
		return nil
	})
}
