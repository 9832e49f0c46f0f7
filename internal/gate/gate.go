// Package gate is the read-only permission evaluator consulted before any
// external-effecting write. It answers exactly one question: "is this
// action allowed for this product right now?"
//
// The gate never mutates state, never infers outcomes, and never
// recomputes permissions: the decision is the stored allowed_actions
// value, verbatim. Denial reasons are reconstructed heuristically for
// humans and must never influence the decision itself.
package gate

import (
	"errors"
	"fmt"

	"github.com/maisonhaus/capsule/internal/types"
)

var (
	// ErrUnsupportedAction reports a query outside the fixed action
	// vocabulary. Fatal to the caller: it indicates a programming error,
	// not a denied permission.
	ErrUnsupportedAction = errors.New("unsupported action")

	// ErrUnknownHandle reports a query for a handle absent from the
	// state document.
	ErrUnknownHandle = errors.New("product handle not found in state")
)

// Snapshot captures the state fields relevant to a decision, for
// observability only.
type Snapshot struct {
	Stage           types.Stage       `json:"current_stage"`
	PreflightStatus types.Status      `json:"preflight_status"`
	ImageStatus     types.ImageStatus `json:"image_status"`
}

// Decision is the gate's answer. Allowed is authoritative; Reason is
// explanatory only and is nil whenever the action is allowed.
type Decision struct {
	Allowed  bool     `json:"allowed"`
	Reason   *string  `json:"reason"`
	Snapshot Snapshot `json:"state_snapshot"`
}

// Gate evaluates action permissions against a loaded state document.
type Gate struct {
	doc *types.Document
}

// New wraps a state document for permission queries.
func New(doc *types.Document) *Gate {
	return &Gate{doc: doc}
}

// Can evaluates whether action is allowed for the product identified by
// handle.
func (g *Gate) Can(handle string, action types.Action) (Decision, error) {
	if !action.IsValid() {
		return Decision{}, fmt.Errorf("%w: %q (supported: %v)", ErrUnsupportedAction, action, types.AllActions)
	}

	product, ok := g.doc.Products[handle]
	if !ok {
		return Decision{}, fmt.Errorf("%w: %q", ErrUnknownHandle, handle)
	}

	return Evaluate(product, action), nil
}

// Evaluate computes the decision for a single record. Pure: it reads only
// the record and touches nothing else.
func Evaluate(product *types.Product, action types.Action) Decision {
	snapshot := Snapshot{
		Stage:           product.Promotion.Stage,
		PreflightStatus: product.Preflight.Status,
		ImageStatus:     product.Preflight.ImageStatus,
	}

	if product.AllowedActions == nil {
		reason := "allowed_actions_missing"
		return Decision{Allowed: false, Reason: &reason, Snapshot: snapshot}
	}

	// The authoritative rule. Everything below is commentary.
	allowed := product.AllowedActions[action]

	var reason *string
	if !allowed {
		r := deriveReason(product, action)
		reason = &r
	}

	return Decision{Allowed: allowed, Reason: reason, Snapshot: snapshot}
}

// deriveReason builds a human-readable explanation for a denial. Best
// effort only: it inspects fields the mutators usually derive permissions
// from, but its output must never feed back into the decision.
func deriveReason(product *types.Product, action types.Action) string {
	if product.Promotion.Locked {
		return "promotion.locked=true"
	}
	if product.WSBuy {
		return "ws_buy=true"
	}
	if s := product.Preflight.Status; s != "" && s != types.StatusGo {
		return fmt.Sprintf("preflight_status=%s", s)
	}
	if action == types.ActionImageUpsert && product.Preflight.ImageStatus != "" {
		return fmt.Sprintf("image_state=%s", product.Preflight.ImageStatus)
	}
	return fmt.Sprintf("allowed_actions.%s=false", action)
}
