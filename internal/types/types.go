// Package types defines the capsule product-state schema: the persisted
// document, the per-product record, and the closed enums used by the
// preflight engine, the permission gate, and the state mutators.
package types

import (
	"time"
)

// SchemaVersion is the only product-state schema version this build reads
// or writes. Documents with any other version fail validation on load.
const SchemaVersion = "1.0"

// Status is the preflight readiness classification for a product.
type Status string

const (
	StatusGo   Status = "GO"
	StatusNoGo Status = "NO-GO"
	StatusSkip Status = "SKIP"
)

// IsValid checks if the status value is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusGo, StatusNoGo, StatusSkip:
		return true
	}
	return false
}

// ImageStatus summarizes the imagery readiness of a product.
type ImageStatus string

const (
	// ImageReady: ghost present plus at least one other image.
	ImageReady ImageStatus = "IMAGE_READY"
	// ImageMinimal: ghost present but nothing else.
	ImageMinimal ImageStatus = "IMAGE_MINIMAL"
	// ImageIncomplete: no images, or no ghost.
	ImageIncomplete ImageStatus = "IMAGE_INCOMPLETE"
	// ImageInvalid: the simulated position plan is broken (gap, duplicate,
	// or not starting at 1). Outranks every other image status.
	ImageInvalid ImageStatus = "IMAGE_INVALID"
	// ImageNotApplicable is used for wholesale-only products that skip
	// image analysis entirely.
	ImageNotApplicable ImageStatus = "N/A"
)

// IsValid checks if the image status value is valid
func (s ImageStatus) IsValid() bool {
	switch s {
	case ImageReady, ImageMinimal, ImageIncomplete, ImageInvalid, ImageNotApplicable:
		return true
	}
	return false
}

// Stage is the promotion stage of a product record.
//
// The only forward edge is PRE_FLIGHT -> IMPORTED. SKIP is terminal and is
// assigned only at seed time; once a record is SKIP it is excluded from
// every write-enabling mutator.
type Stage string

const (
	StagePreFlight Stage = "PRE_FLIGHT"
	StageImported  Stage = "IMPORTED"
	StageSkip      Stage = "SKIP"
)

// IsValid checks if the stage value is valid
func (s Stage) IsValid() bool {
	switch s {
	case StagePreFlight, StageImported, StageSkip:
		return true
	}
	return false
}

// Action is one of the fixed permission-gated operations. Every external
// writer consults the gate with one of these before touching the catalog.
type Action string

const (
	ActionIncludeInImportCSV Action = "include_in_import_csv"
	ActionImageUpsert        Action = "image_upsert"
	ActionMetafieldWrite     Action = "metafield_write"
	ActionCollectionWrite    Action = "collection_write"
	ActionSizeGuideWrite     Action = "size_guide_write"
)

// AllActions lists the supported action vocabulary in a stable order.
var AllActions = []Action{
	ActionIncludeInImportCSV,
	ActionImageUpsert,
	ActionMetafieldWrite,
	ActionCollectionWrite,
	ActionSizeGuideWrite,
}

// IsValid checks if the action is part of the supported vocabulary
func (a Action) IsValid() bool {
	switch a {
	case ActionIncludeInImportCSV, ActionImageUpsert, ActionMetafieldWrite,
		ActionCollectionWrite, ActionSizeGuideWrite:
		return true
	}
	return false
}

// ImportSource records which ledger a product's import was inferred from.
type ImportSource string

const (
	ImportSourceCombined  ImportSource = "combined_csv"
	ImportSourceAnomalies ImportSource = "anomalies_csv"
)

// IsValid checks if the import source value is valid
func (s ImportSource) IsValid() bool {
	switch s {
	case ImportSourceCombined, ImportSourceAnomalies:
		return true
	}
	return false
}

// Preflight holds the outcome of the one-time readiness validation pass.
type Preflight struct {
	Status               Status      `json:"status"`
	ImageStatus          ImageStatus `json:"image_status,omitempty"`
	Errors               []string    `json:"errors"`
	Warnings             []string    `json:"warnings"`
	ClientRecommendation string      `json:"client_recommendation,omitempty"`
	DetailsReady         bool        `json:"details_ready,omitempty"`
	BodyReady            bool        `json:"body_ready,omitempty"`
}

// Import tracks whether (and how) the product reached the remote catalog.
type Import struct {
	Eligible        bool         `json:"eligible"`
	Imported        bool         `json:"imported"`
	ImportedAt      *time.Time   `json:"imported_at,omitempty"`
	ImportSource    ImportSource `json:"import_source,omitempty"`
	AnomalyAccepted bool         `json:"anomaly_accepted"`
}

// ExpectedImages is descriptive only: what the import rows implied about
// imagery. It is never authoritative for permission derivation.
type ExpectedImages struct {
	Count       int `json:"count"`
	MaxPosition int `json:"max_position"`
}

// Swatch is a locally created swatch asset adopted into state.
type Swatch struct {
	FilePath     string    `json:"file_path"`
	Source       string    `json:"source"`
	RegisteredAt time.Time `json:"registered_at"`
}

// LookImage is a remote look/hero asset adopted from the external catalog.
type LookImage struct {
	MediaGID        string    `json:"media_gid"`
	Source          string    `json:"source"`
	SelectionReason string    `json:"selection_reason,omitempty"`
	AdoptedAt       time.Time `json:"adopted_at"`
}

// Assets holds adopted asset references. Both fields are optional; absence
// means nothing has been adopted yet.
type Assets struct {
	Swatch     *Swatch     `json:"swatch,omitempty"`
	LookImages []LookImage `json:"look_images,omitempty"`
}

// Promotion tracks the record's stage in the capsule lifecycle.
//
// Locked is an orthogonal override: when true, permission derivation
// treats every allowed action as false regardless of stored values.
type Promotion struct {
	Stage            Stage      `json:"stage"`
	Locked           bool       `json:"locked"`
	LastTransitionAt *time.Time `json:"last_transition_at,omitempty"`
}

// Overrides carries manual client decisions layered on top of preflight.
type Overrides struct {
	ManualGo bool   `json:"manual_go,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// AuditEntry records one mutation applied to a product record.
type AuditEntry struct {
	Script      string    `json:"script"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
}

// Product is one product record, keyed by handle within the document.
type Product struct {
	Handle      string `json:"handle"`
	ProductID   string `json:"product_id,omitempty"`
	CPI         string `json:"cpi,omitempty"`
	Title       string `json:"title,omitempty"`
	IsAccessory bool   `json:"is_accessory"`
	WSBuy       bool   `json:"ws_buy"`

	// ProductGID is the external catalog's global identifier, injected by
	// the GID sync mutator. Opaque to this tool.
	ProductGID string `json:"product_gid,omitempty"`

	Preflight        Preflight          `json:"preflight"`
	Import           Import             `json:"import"`
	ExpectedImages   *ExpectedImages    `json:"images_expected,omitempty"`
	Assets           *Assets            `json:"assets,omitempty"`
	AssetsProvenance map[string]string  `json:"assets_provenance,omitempty"`
	Promotion        Promotion          `json:"promotion"`
	Overrides        *Overrides         `json:"overrides,omitempty"`
	AllowedActions   map[Action]bool    `json:"allowed_actions"`
	Audit            []AuditEntry       `json:"audit,omitempty"`
}

// Document is the whole-capsule product-state file. It is the sole source
// of truth for permission decisions within a capsule.
type Document struct {
	SchemaVersion string              `json:"schema_version"`
	Capsule       string              `json:"capsule"`
	GeneratedAt   time.Time           `json:"generated_at"`
	GeneratedFrom string              `json:"generated_from,omitempty"`
	Products      map[string]*Product `json:"products"`
}

// AppendAudit records a mutation event on the product.
func (p *Product) AppendAudit(script, description string, now time.Time) {
	p.Audit = append(p.Audit, AuditEntry{
		Script:      script,
		Timestamp:   now,
		Description: description,
	})
}

// EnsureAllowedActions returns the allowed_actions map, allocating it if
// the record predates permission derivation.
func (p *Product) EnsureAllowedActions() map[Action]bool {
	if p.AllowedActions == nil {
		p.AllowedActions = make(map[Action]bool)
	}
	return p.AllowedActions
}

// IsSkip reports whether the record is terminally excluded from
// write-enabling mutators.
func (p *Product) IsSkip() bool {
	return p.Promotion.Stage == StageSkip
}
