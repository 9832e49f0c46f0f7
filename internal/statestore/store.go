// Package statestore persists the per-capsule product-state document.
//
// The store exposes whole-document load and save only. Callers read the
// full document, mutate it in memory, and save the full document back;
// there is no field-level patch API. Saves are atomic (temp file + rename)
// but the store provides no cross-process locking: running two writers
// against the same capsule concurrently is undefined behavior and must be
// avoided by the caller. Idempotent mutators are the crash-recovery story.
package statestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/maisonhaus/capsule/internal/types"
	"github.com/maisonhaus/capsule/internal/utils"
)

// ErrNotFound is returned by Load when the capsule has no state file yet.
var ErrNotFound = errors.New("product state file not found")

// Store locates and persists product-state documents under a capsule root
// directory (the directory containing capsules/<CAPSULE>/...).
type Store struct {
	Root string
}

// New returns a store rooted at dir. An empty dir means the current
// working directory.
func New(dir string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{Root: dir}
}

// Path returns the canonical state-file path for a capsule.
func (s *Store) Path(capsule string) string {
	return filepath.Join(s.Root, "capsules", capsule, "state", fmt.Sprintf("product_state_%s.json", capsule))
}

// Exists reports whether a state document exists for the capsule.
func (s *Store) Exists(capsule string) bool {
	_, err := os.Stat(s.Path(capsule))
	return err == nil
}

// Load reads and validates the capsule's state document.
//
// Returns ErrNotFound when no state file exists, and a
// *types.SchemaViolationError when the file exists but does not conform
// to the v1.0 schema. Both are fatal to callers other than mutators,
// which treat ErrNotFound as a clean no-op.
func (s *Store) Load(capsule string) (*types.Document, error) {
	path := s.Path(capsule)
	data, err := os.ReadFile(path) // #nosec G304 - path derived from capsule code
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	var doc types.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &types.SchemaViolationError{Path: path, Detail: fmt.Sprintf("not valid JSON: %v", err)}
	}
	if err := doc.Validate(); err != nil {
		var sv *types.SchemaViolationError
		if errors.As(err, &sv) && sv.Path == "" {
			sv.Path = path
		}
		return nil, err
	}
	if doc.Capsule != capsule {
		return nil, &types.SchemaViolationError{Path: path, Detail: fmt.Sprintf("capsule mismatch: document says %q, loading %q", doc.Capsule, capsule)}
	}
	return &doc, nil
}

// Save validates and writes the document atomically, replacing any
// previous version in full. Partial writes are never visible to readers.
func (s *Store) Save(doc *types.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state document: %w", err)
	}
	data = append(data, '\n')

	path := s.Path(doc.Capsule)
	if err := utils.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}
