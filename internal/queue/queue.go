// Package queue manages the JSONL action queues that feed the client
// workflow: swatch creation requests, missing-asset reports, and the
// reconcile drift log. Each queue is an append-only log of JSON lines,
// deduplicated on append so that re-running a pipeline step never
// produces duplicate work items.
package queue

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Well-known queue reasons written by the pipeline steps.
const (
	ReasonSwatchCreated        = "SWATCH_CREATED"
	ReasonSwatchMissingLocally = "SWATCH_MISSING_LOCALLY"
	ReasonNoHeroCandidate      = "NO_HERO_CANDIDATE"
)

// Entry is a single work item in a queue file. Not every queue uses
// every field: the swatch queue carries FilePath, the drift log carries
// neither FilePath nor the resolution fields.
type Entry struct {
	CPI        string     `json:"cpi"`
	Handle     string     `json:"handle,omitempty"`
	Action     string     `json:"action,omitempty"`
	Reason     string     `json:"reason"`
	FilePath   string     `json:"file_path,omitempty"`
	Timestamp  time.Time  `json:"ts"`
	Resolved   bool       `json:"resolved,omitempty"`
	ResolvedBy string     `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// KeyFunc derives the deduplication key for an entry. Entries sharing a
// key are considered the same work item.
type KeyFunc func(Entry) string

// ByCPI dedupes on product identity alone: at most one open item per
// product.
func ByCPI(e Entry) string { return e.CPI }

// ByCPIReason dedupes on product identity and reason, so one product can
// carry several distinct findings.
func ByCPIReason(e Entry) string { return e.CPI + "\x00" + e.Reason }

// ByCPITimestamp keeps every run's entries distinct. Used by the drift
// log, which is a history rather than a work list.
func ByCPITimestamp(e Entry) string { return e.CPI + "\x00" + e.Timestamp.UTC().Format(time.RFC3339) }

// Load reads a queue file. A missing file is an empty queue. Corrupt
// lines are skipped with a warning to stderr rather than failing the
// load; the skipped count is reported so callers can surface it.
func Load(path string) ([]Entry, int, error) {
	f, err := os.Open(path) // #nosec G304 - controlled path from caller
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to open queue file: %w", err)
	}
	defer f.Close()

	var entries []Entry
	skipped := 0
	lineNo := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024), 1024*1024)

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}

		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping corrupt line %d in %s: %v\n", lineNo, filepath.Base(path), err)
			skipped++
			continue
		}
		if e.CPI == "" {
			fmt.Fprintf(os.Stderr, "Warning: skipping line %d in %s: missing cpi\n", lineNo, filepath.Base(path))
			skipped++
			continue
		}

		entries = append(entries, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("error reading queue file: %w", err)
	}

	return entries, skipped, nil
}

// Append adds entries to the queue, skipping any whose key already
// exists in the file. Returns the number of entries actually written.
func Append(path string, entries []Entry, key KeyFunc) (int, error) {
	existing, _, err := Load(path)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[key(e)] = true
	}

	var fresh []Entry
	for _, e := range entries {
		k := key(e)
		if seen[k] {
			continue
		}
		seen[k] = true
		fresh = append(fresh, e)
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create queue directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) // #nosec G304 - controlled path
	if err != nil {
		return 0, fmt.Errorf("failed to open queue file for append: %w", err)
	}
	defer f.Close()

	for _, e := range fresh {
		data, err := json.Marshal(e)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal queue entry: %w", err)
		}
		if _, err := f.Write(append(data, '\n')); err != nil {
			return 0, fmt.Errorf("failed to write queue entry: %w", err)
		}
	}

	return len(fresh), nil
}

// MarkResolved marks the entries for the given CPIs as resolved and
// rewrites the queue file atomically, collapsing to one record per
// (cpi, resolved). Resolution is set-once: an already-resolved entry
// keeps its original resolver and timestamp. Returns the number of
// entries newly resolved.
func MarkResolved(path string, cpis []string, resolvedBy string, now time.Time) (int, error) {
	entries, _, err := Load(path)
	if err != nil {
		return 0, err
	}

	target := make(map[string]bool, len(cpis))
	for _, cpi := range cpis {
		target[cpi] = true
	}

	resolved := 0
	for i := range entries {
		if !target[entries[i].CPI] || entries[i].Resolved {
			continue
		}
		at := now
		entries[i].Resolved = true
		entries[i].ResolvedBy = resolvedBy
		entries[i].ResolvedAt = &at
		resolved++
	}

	// Collapse to one entry per (cpi, resolved), first occurrence wins.
	// A resolved and an unresolved record for the same CPI both survive,
	// so resolving never erases a finding that arrived after resolution.
	index := make(map[string]int)
	var compact []Entry
	for _, e := range entries {
		k := fmt.Sprintf("%s\x00%v", e.CPI, e.Resolved)
		if _, ok := index[k]; ok {
			continue
		}
		index[k] = len(compact)
		compact = append(compact, e)
	}

	if err := Write(path, compact); err != nil {
		return 0, err
	}
	return resolved, nil
}

// Write atomically replaces the queue file with the given entries.
func Write(path string, entries []Entry) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create queue directory: %w", err)
	}

	base := filepath.Base(path)
	tempFile, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	defer func() {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
	}()

	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal queue entry: %w", err)
		}
		if _, err := tempFile.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write queue entry: %w", err)
		}
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to replace queue file: %w", err)
	}

	return nil
}

// SwatchQueuePath returns the conventional path of the swatch action
// queue for a capsule root.
func SwatchQueuePath(root, capsule string) string {
	return filepath.Join(root, "capsules", capsule, "state", "swatch_queue_"+capsule+".jsonl")
}

// AssetQueuePath returns the conventional path of the missing-asset
// queue for a capsule root.
func AssetQueuePath(root, capsule string) string {
	return filepath.Join(root, "capsules", capsule, "state", "asset_queue_"+capsule+".jsonl")
}

// DriftLogPath returns the conventional path of the reconcile drift log
// for a capsule root.
func DriftLogPath(root, capsule string) string {
	return filepath.Join(root, "capsules", capsule, "state", "reconcile_drift_"+capsule+".jsonl")
}
