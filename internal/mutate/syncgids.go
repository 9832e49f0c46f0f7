package mutate

import (
	"fmt"
	"sort"
	"time"

	"github.com/maisonhaus/capsule/internal/statestore"
	"github.com/maisonhaus/capsule/internal/types"
)

// SyncExternalIDs injects the external catalog's product GIDs into
// state, matched by CPI. Products without a mapping are collected in
// Summary.Missing and reported; a partial mapping never fails the run.
func SyncExternalIDs(store *statestore.Store, capsule string, gids map[string]string, now time.Time) (*Summary, error) {
	return run(store, capsule, "sync-gids", now, func(doc *types.Document, s *Summary) error {
		for _, p := range doc.Products {
			s.Examined++
			if p.CPI == "" {
				continue
			}

			gid, ok := gids[p.CPI]
			if !ok {
				s.Missing = append(s.Missing, p.CPI)
				continue
			}
			if p.ProductGID == gid {
				continue
			}

			p.ProductGID = gid
			p.AppendAudit("sync-gids", fmt.Sprintf("set product_gid %s", gid), now)
			s.Changed++
		}
		sort.Strings(s.Missing)
		return nil
	})
}
