// Package mutate holds the state mutators: the only code paths allowed
// to change a capsule's product-state document. Every mutator follows
// the same discipline: load, apply, audit each changed record, save
// only when something changed. Re-running any mutator against already
// up-to-date state is a no-op that rewrites nothing.
package mutate

import (
	"errors"
	"fmt"
	"time"

	"github.com/maisonhaus/capsule/internal/debug"
	"github.com/maisonhaus/capsule/internal/statestore"
	"github.com/maisonhaus/capsule/internal/types"
)

// Summary reports what a mutator run did. Printed by the CLI and
// returned to callers for assertions.
type Summary struct {
	Script   string   `json:"script"`
	Capsule  string   `json:"capsule"`
	Examined int      `json:"examined"`
	Changed  int      `json:"changed"`
	Skipped  bool     `json:"skipped"`
	Notes    []string `json:"notes,omitempty"`
	Missing  []string `json:"missing_cpis,omitempty"`
}

func (s *Summary) note(format string, args ...interface{}) {
	s.Notes = append(s.Notes, fmt.Sprintf(format, args...))
}

// run is the shared mutator skeleton. A missing state file is a clean
// no-op, not an error: upstream steps may legitimately not have seeded
// this capsule yet.
func run(store *statestore.Store, capsule, script string, now time.Time, apply func(doc *types.Document, s *Summary) error) (*Summary, error) {
	s := &Summary{Script: script, Capsule: capsule}

	doc, err := store.Load(capsule)
	if err != nil {
		if errors.Is(err, statestore.ErrNotFound) {
			debug.Logf("%s: no state file for capsule %s, nothing to do", script, capsule)
			s.Skipped = true
			return s, nil
		}
		return nil, err
	}

	enforceLocked(doc, s, script, now)

	if err := apply(doc, s); err != nil {
		return nil, err
	}

	if s.Changed == 0 {
		debug.Logf("%s: no changes for capsule %s", script, capsule)
		return s, nil
	}

	if err := store.Save(doc); err != nil {
		return nil, err
	}
	return s, nil
}

// enforceLocked forces every stored permission on a locked record to
// false. Locked overrides everything, including previously granted
// actions; every mutator re-asserts this before doing its own work.
func enforceLocked(doc *types.Document, s *Summary, script string, now time.Time) {
	for _, p := range doc.Products {
		if !p.Promotion.Locked || p.AllowedActions == nil {
			continue
		}
		forced := false
		for action, allowed := range p.AllowedActions {
			if allowed {
				p.AllowedActions[action] = false
				forced = true
			}
		}
		if forced {
			p.AppendAudit(script, "locked record: forced allowed_actions to deny-all", now)
			s.Changed++
		}
	}
}

// mutable reports whether a record accepts permission changes. SKIP is
// terminal and locked records are frozen entirely.
func mutable(p *types.Product) bool {
	return !p.IsSkip() && !p.Promotion.Locked
}

func timePtr(t time.Time) *time.Time { return &t }
