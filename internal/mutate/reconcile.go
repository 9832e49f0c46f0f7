package mutate

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/maisonhaus/capsule/internal/debug"
	"github.com/maisonhaus/capsule/internal/queue"
	"github.com/maisonhaus/capsule/internal/statestore"
	"github.com/maisonhaus/capsule/internal/types"
)

// SourceShopify marks assets adopted from the external catalog.
const SourceShopify = "shopify"

// HeroCandidate is one remote image that could serve as a product's
// look image. Candidates arrive pre-ordered by the export; the first
// one wins.
type HeroCandidate struct {
	MediaGID string `json:"media_gid"`
	Filename string `json:"filename,omitempty"`
}

// RemoteAssets is the snapshot of catalog-side assets used for
// reconciliation, keyed by CPI. It is produced out of band and read
// from a JSON file; this tool performs no network I/O.
type RemoteAssets struct {
	Heroes   map[string][]HeroCandidate `json:"heroes"`
	Swatches map[string]bool            `json:"swatches"`
}

// LoadRemoteAssets reads a remote-assets snapshot file.
func LoadRemoteAssets(path string) (*RemoteAssets, error) {
	data, err := os.ReadFile(path) // #nosec G304 - controlled path from caller
	if err != nil {
		return nil, fmt.Errorf("reading remote assets snapshot: %w", err)
	}
	var ra RemoteAssets
	if err := json.Unmarshal(data, &ra); err != nil {
		return nil, fmt.Errorf("parsing remote assets snapshot: %w", err)
	}
	return &ra, nil
}

// ReconcileOptions names the output files a reconcile run writes
// besides the state document itself.
type ReconcileOptions struct {
	AssetQueuePath string
	DriftLogPath   string
}

// ReconcileCapsuleAssets aligns local state with a remote-assets
// snapshot: adopts the first hero candidate for records that have no
// look image yet, queues work items for missing assets, and appends a
// drift record per examined product so runs stay auditable even when
// nothing changed.
func ReconcileCapsuleAssets(store *statestore.Store, capsule string, remote *RemoteAssets, opts ReconcileOptions, now time.Time) (*Summary, error) {
	var (
		drift     []queue.Entry
		workItems []queue.Entry
	)

	summary, err := run(store, capsule, "reconcile", now, func(doc *types.Document, s *Summary) error {
		for _, p := range doc.Products {
			s.Examined++
			if p.CPI == "" || p.IsSkip() {
				continue
			}

			candidates := remote.Heroes[p.CPI]

			// Baseline is the pre-adoption state; the drift log must be
			// able to tell "adopted this run" from "already present".
			baselineLook := p.Assets != nil && len(p.Assets.LookImages) > 0
			hasLocalSwatch := p.Assets != nil && p.Assets.Swatch != nil

			adopted := ""
			if len(candidates) > 0 && !baselineLook && !p.Promotion.Locked {
				adoptHero(p, candidates[0], now)
				s.Changed++
				adopted = candidates[0].MediaGID
			}

			if len(candidates) == 0 {
				workItems = append(workItems, queue.Entry{
					CPI:       p.CPI,
					Handle:    p.Handle,
					Reason:    queue.ReasonNoHeroCandidate,
					Timestamp: now,
				})
			}
			if !hasLocalSwatch {
				workItems = append(workItems, queue.Entry{
					CPI:       p.CPI,
					Handle:    p.Handle,
					Reason:    queue.ReasonSwatchMissingLocally,
					Timestamp: now,
				})
			}

			drift = append(drift, queue.Entry{
				CPI:    p.CPI,
				Handle: p.Handle,
				Reason: fmt.Sprintf("baseline look_images=%v local_swatch=%v remote_swatch=%v hero_candidates=%d adopted=%s",
					baselineLook, hasLocalSwatch, remote.Swatches[p.CPI], len(candidates), adoptedOrNone(adopted)),
				Timestamp: now,
			})
		}

		if len(workItems) > 0 {
			written, err := queue.Append(opts.AssetQueuePath, workItems, queue.ByCPIReason)
			if err != nil {
				return fmt.Errorf("writing asset queue: %w", err)
			}
			debug.Logf("reconcile: queued %d asset work items", written)
		}
		if len(drift) > 0 {
			if _, err := queue.Append(opts.DriftLogPath, drift, queue.ByCPITimestamp); err != nil {
				return fmt.Errorf("writing drift log: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}

func adoptedOrNone(gid string) string {
	if gid == "" {
		return "none"
	}
	return gid
}

func adoptHero(p *types.Product, candidate HeroCandidate, now time.Time) {
	if p.Assets == nil {
		p.Assets = &types.Assets{}
	}
	p.Assets.LookImages = []types.LookImage{{
		MediaGID:        candidate.MediaGID,
		Source:          SourceShopify,
		SelectionReason: "first_hero_candidate",
		AdoptedAt:       now,
	}}
	if p.AssetsProvenance == nil {
		p.AssetsProvenance = make(map[string]string)
	}
	p.AssetsProvenance["look_images"] = SourceShopify

	p.Preflight.ImageStatus = types.ImageReady
	p.Preflight.Status = types.StatusGo

	aa := p.EnsureAllowedActions()
	aa[types.ActionMetafieldWrite] = true

	p.AppendAudit("reconcile", fmt.Sprintf("adopted look image %s", candidate.MediaGID), now)
}
