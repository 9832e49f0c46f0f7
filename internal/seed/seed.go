// Package seed performs the one-way transform from a preflight report to
// a fresh product-state document. It is intentionally simple and
// deterministic: no re-validation, no enrichment, no catalog logic.
package seed

import (
	"time"

	"github.com/maisonhaus/capsule/internal/preflight"
	"github.com/maisonhaus/capsule/internal/types"
)

// DeriveAllowedActions computes the initial permission map strictly from
// preflight findings. Manual overrides come later, through mutators.
// size_guide_write starts false; the static-action promotion mutator
// raises it together with collection_write.
func DeriveAllowedActions(result *preflight.Result) map[types.Action]bool {
	include := !result.WSBuy && result.Status != types.StatusSkip

	imageUpsert := include &&
		(result.ImageStatus == types.ImageReady || result.ImageStatus == types.ImageMinimal)

	return map[types.Action]bool{
		types.ActionIncludeInImportCSV: include,
		types.ActionImageUpsert:        imageUpsert,
		types.ActionMetafieldWrite:     include,
		types.ActionCollectionWrite:    include,
		types.ActionSizeGuideWrite:     false,
	}
}

// FromReport builds a state document from a preflight report. SKIP
// products get the terminal SKIP stage and are never import-eligible;
// everything else starts at PRE_FLIGHT.
func FromReport(report *preflight.Report, now time.Time) *types.Document {
	doc := &types.Document{
		SchemaVersion: types.SchemaVersion,
		Capsule:       report.Capsule,
		GeneratedAt:   now,
		GeneratedFrom: "preflight",
		Products:      make(map[string]*types.Product, len(report.Products)),
	}

	for _, result := range report.Products {
		stage := types.StagePreFlight
		if result.Status == types.StatusSkip {
			stage = types.StageSkip
		}

		doc.Products[result.Handle] = &types.Product{
			Handle:      result.Handle,
			ProductID:   result.ProductID,
			CPI:         result.CPI,
			Title:       result.Title,
			IsAccessory: result.IsAccessory,
			WSBuy:       result.WSBuy,
			Preflight: types.Preflight{
				Status:               result.Status,
				ImageStatus:          result.ImageStatus,
				Errors:               append([]string{}, result.Errors...),
				Warnings:             append([]string{}, result.Warnings...),
				ClientRecommendation: result.ClientRecommendation,
				DetailsReady:         result.DetailsReady,
				BodyReady:            result.BodyStatus == preflight.BodyWriteOK,
			},
			Import: types.Import{
				Eligible: result.Status != types.StatusSkip,
			},
			ExpectedImages: &types.ExpectedImages{
				Count:       result.TotalImages,
				MaxPosition: len(result.PlannedPositions),
			},
			Promotion: types.Promotion{
				Stage: stage,
			},
			AllowedActions: DeriveAllowedActions(result),
		}
	}

	return doc
}
