package types

import (
	"fmt"
)

// SchemaViolationError reports a structurally invalid product-state
// document. It is fatal: callers abort the run rather than skipping the
// malformed parts.
type SchemaViolationError struct {
	Path   string // capsule or file path the document came from
	Detail string
}

func (e *SchemaViolationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("schema violation: %s", e.Detail)
	}
	return fmt.Sprintf("schema violation in %s: %s", e.Path, e.Detail)
}

// Validate checks the document against the closed v1.0 schema. Invalid
// documents fail fast instead of being partially processed.
func (d *Document) Validate() error {
	if d.SchemaVersion != SchemaVersion {
		return &SchemaViolationError{Detail: fmt.Sprintf("unsupported schema_version %q (want %q)", d.SchemaVersion, SchemaVersion)}
	}
	if d.Capsule == "" {
		return &SchemaViolationError{Detail: "missing capsule code"}
	}
	if d.Products == nil {
		return &SchemaViolationError{Detail: "missing top-level products map"}
	}
	for handle, p := range d.Products {
		if p == nil {
			return &SchemaViolationError{Detail: fmt.Sprintf("product %q is null", handle)}
		}
		if err := p.validate(handle); err != nil {
			return err
		}
	}
	return nil
}

func (p *Product) validate(handle string) error {
	if p.Handle != "" && p.Handle != handle {
		return &SchemaViolationError{Detail: fmt.Sprintf("product %q: handle field %q disagrees with map key", handle, p.Handle)}
	}
	if !p.Preflight.Status.IsValid() {
		return &SchemaViolationError{Detail: fmt.Sprintf("product %q: invalid preflight status %q", handle, p.Preflight.Status)}
	}
	if p.Preflight.ImageStatus != "" && !p.Preflight.ImageStatus.IsValid() {
		return &SchemaViolationError{Detail: fmt.Sprintf("product %q: invalid image status %q", handle, p.Preflight.ImageStatus)}
	}
	if !p.Promotion.Stage.IsValid() {
		return &SchemaViolationError{Detail: fmt.Sprintf("product %q: invalid promotion stage %q", handle, p.Promotion.Stage)}
	}
	if p.Import.ImportSource != "" && !p.Import.ImportSource.IsValid() {
		return &SchemaViolationError{Detail: fmt.Sprintf("product %q: invalid import source %q", handle, p.Import.ImportSource)}
	}
	for action := range p.AllowedActions {
		if !action.IsValid() {
			return &SchemaViolationError{Detail: fmt.Sprintf("product %q: unknown action %q in allowed_actions", handle, action)}
		}
	}
	return nil
}
