package mutate

import (
	"time"

	"github.com/maisonhaus/capsule/internal/statestore"
	"github.com/maisonhaus/capsule/internal/types"
)

// PromoteStaticActions enables the static write permissions,
// collection_write and size_guide_write, for every record that is not
// SKIP and not locked. These actions carry no per-product readiness
// requirement; they are batch-enabled once the capsule moves past
// manual review.
func PromoteStaticActions(store *statestore.Store, capsule string, now time.Time) (*Summary, error) {
	return run(store, capsule, "promote-static", now, func(doc *types.Document, s *Summary) error {
		for _, p := range doc.Products {
			s.Examined++
			if !mutable(p) {
				continue
			}

			aa := p.EnsureAllowedActions()
			if aa[types.ActionCollectionWrite] && aa[types.ActionSizeGuideWrite] {
				continue
			}

			aa[types.ActionCollectionWrite] = true
			aa[types.ActionSizeGuideWrite] = true
			p.AppendAudit("promote-static", "enabled collection_write and size_guide_write", now)
			s.Changed++
		}
		return nil
	})
}
