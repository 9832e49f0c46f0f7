package mutate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/maisonhaus/capsule/internal/debug"
	"github.com/maisonhaus/capsule/internal/queue"
	"github.com/maisonhaus/capsule/internal/statestore"
	"github.com/maisonhaus/capsule/internal/types"
)

// SourceLocalCreated marks assets adopted from the local swatch
// directory rather than the external catalog.
const SourceLocalCreated = "local_created"

var tokenSplitRE = regexp.MustCompile(`[^a-z0-9]+`)

// AdoptLocalSwatches scans swatchDir for created swatch files and
// adopts each unambiguous match into its product record, enabling
// image_upsert and metafield_write and queueing a SWATCH_CREATED work
// item for the client. Ambiguous matches (two or more candidate files
// for one product) are reported and skipped: the tool never guesses
// which file is right.
func AdoptLocalSwatches(store *statestore.Store, capsule, swatchDir, queuePath string, now time.Time) (*Summary, error) {
	files, err := listSwatchFiles(swatchDir)
	if err != nil {
		return nil, err
	}

	var queued []queue.Entry

	summary, err := run(store, capsule, "register-swatches", now, func(doc *types.Document, s *Summary) error {
		for _, p := range doc.Products {
			s.Examined++
			if p.CPI == "" || !mutable(p) {
				continue
			}

			matches := matchSwatchFiles(files, capsule, p.CPI)
			switch len(matches) {
			case 0:
				debug.Logf("register-swatches: no swatch file for %s", p.CPI)
				continue
			case 1:
				// fall through to adoption
			default:
				debug.Logf("register-swatches: %d candidate files for %s: %v", len(matches), p.CPI, matches)
				s.note("ambiguous swatch match for %s (%d files), skipped", p.CPI, len(matches))
				continue
			}

			path := filepath.Join(swatchDir, matches[0])
			if p.Assets != nil && p.Assets.Swatch != nil && p.Assets.Swatch.FilePath == path {
				continue
			}

			if p.Assets == nil {
				p.Assets = &types.Assets{}
			}
			p.Assets.Swatch = &types.Swatch{
				FilePath:     path,
				Source:       SourceLocalCreated,
				RegisteredAt: now,
			}
			if p.AssetsProvenance == nil {
				p.AssetsProvenance = make(map[string]string)
			}
			p.AssetsProvenance["swatch"] = SourceLocalCreated

			aa := p.EnsureAllowedActions()
			aa[types.ActionImageUpsert] = true
			aa[types.ActionMetafieldWrite] = true

			p.AppendAudit("register-swatches", fmt.Sprintf("adopted swatch %s", matches[0]), now)
			s.Changed++

			queued = append(queued, queue.Entry{
				CPI:       p.CPI,
				Handle:    p.Handle,
				Action:    "image_upsert",
				Reason:    queue.ReasonSwatchCreated,
				FilePath:  path,
				Timestamp: now,
			})
		}

		// Queue before saving state so a failed queue write leaves the
		// whole run retriable.
		if len(queued) > 0 {
			written, err := queue.Append(queuePath, queued, queue.ByCPI)
			if err != nil {
				return fmt.Errorf("writing swatch queue: %w", err)
			}
			debug.Logf("register-swatches: queued %d swatch work items", written)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}

func listSwatchFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading swatch directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// matchSwatchFiles returns the filenames that identify cpi. A file
// matches when it mentions the capsule, calls itself a swatch, and
// carries every CPI segment as a whole token. Whole-token matching
// keeps colour code 010 from matching 0101.
func matchSwatchFiles(files []string, capsule, cpi string) []string {
	capsuleLower := strings.ToLower(capsule)
	want := tokenSplitRE.Split(strings.ToLower(cpi), -1)

	var matches []string
	for _, name := range files {
		lower := strings.ToLower(name)
		if !strings.Contains(lower, capsuleLower) || !strings.Contains(lower, "swatch") {
			continue
		}
		tokens := make(map[string]bool)
		for _, t := range tokenSplitRE.Split(lower, -1) {
			if t != "" {
				tokens[t] = true
			}
		}
		ok := true
		for _, w := range want {
			if w != "" && !tokens[w] {
				ok = false
				break
			}
		}
		if ok {
			matches = append(matches, name)
		}
	}
	return matches
}
