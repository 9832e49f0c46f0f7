// Package preflight implements the readiness validation pass that
// classifies every product in a capsule export as GO, NO-GO, or SKIP
// before any import or upload work is allowed to start.
//
// Checks are cumulative: structural failures (bad parent rows, missing or
// unknown product ID) stop a product immediately, everything after that
// accumulates errors and warnings. Any error means NO-GO; warnings never
// downgrade a GO.
package preflight

import (
	"sort"
	"strconv"
	"strings"

	"github.com/maisonhaus/capsule/internal/catalog"
	"github.com/maisonhaus/capsule/internal/types"
)

// Client recommendation strings, fixed vocabulary surfaced in the
// advisory report.
const (
	RecommendUpload        = "Upload"
	RecommendUploadMinimal = "Upload (minimal imagery)"
	RecommendHoldGhost     = "Hold – ghost image required"
	RecommendHoldInvestigate = "Hold – investigate"
	RecommendWholesaleOnly = "Wholesale only – excluded from DTC"
)

// wsBuyTag is the tag literal marking wholesale-only products excluded
// from direct-to-consumer import.
const wsBuyTag = "WS Buy"

// categoryTags maps tracker category codes to collection tag sets. Code 8
// is the knitwear sentinel: resolution defers to the knit category code.
var categoryTags = map[int]string{
	1:  "collection_ready-to-wear, collection_jackets",
	2:  "collection_ready-to-wear, collection_jackets",
	3:  "collection_ready-to-wear, collection_dresses",
	4:  "collection_ready-to-wear, collection_tops",
	5:  "collection_ready-to-wear, collection_skirts",
	6:  "collection_ready-to-wear, collection_pants",
	9:  "collection_accessories, collection_SHOES",
	70: "collection_accessories, collection_Bags",
	71: "collection_accessories, collection_Bags",
	76: "collection_accessories, collection_belts",
	79: "collection_accessories, collection_Jewelry",
	81: "collection_ready-to-wear, collection_knitwear, collection_jackets",
	82: "collection_ready-to-wear, collection_knitwear, collection_jackets",
	83: "collection_ready-to-wear, collection_knitwear, collection_dresses",
	84: "collection_ready-to-wear, collection_knitwear, collection_tops",
	85: "collection_ready-to-wear, collection_knitwear, collection_skirts",
	86: "collection_ready-to-wear, collection_knitwear, collection_pants",
	88: "collection_ready-to-wear, collection_knitwear, collection_tops",
}

const knitSentinelCode = 8

// accessoryCategoryCodes are category codes that mark a product as an
// accessory rather than ready-to-wear.
var accessoryCategoryCodes = map[int]bool{9: true, 70: true, 71: true, 76: true, 79: true}

var accessoryProductTypes = map[string]bool{"BELT": true, "BAG": true, "SHOES": true, "JEWELRY": true}

// Result is the structured preflight outcome for one product.
type Result struct {
	Handle      string `json:"handle"`
	ProductID   string `json:"product_id,omitempty"`
	CPI         string `json:"cpi,omitempty"`
	Title       string `json:"title,omitempty"`
	IsAccessory bool   `json:"is_accessory"`
	WSBuy       bool   `json:"ws_buy"`

	Status   types.Status `json:"status"`
	Errors   []string     `json:"errors"`
	Warnings []string     `json:"warnings"`

	DetailsSource      DetailsSource `json:"details_source"`
	DetailsReady       bool          `json:"details_ready"`
	DetailsBulletCount int           `json:"details_bullet_count"`
	BodyStatus         BodyStatus    `json:"body_status,omitempty"`

	VariantPricePresent bool `json:"variant_price_present"`
	SeasonCodeValid     bool `json:"season_code_valid"`
	CategoryCodeKnown   bool `json:"category_code_known"`
	ColorMatch          bool `json:"color_match"`

	GhostCount     int `json:"ghost_count"`
	HeroCount      int `json:"hero_count"`
	ModelCount     int `json:"model_count"`
	EditorialCount int `json:"editorial_count"`
	TotalImages    int `json:"total_images"`
	ChildRowCount  int `json:"child_row_count"`
	OverflowRows   int `json:"overflow_rows_required"`

	PlannedPositions []int             `json:"planned_positions,omitempty"`
	ImageStatus      types.ImageStatus `json:"image_status,omitempty"`

	ClientRecommendation string `json:"client_recommendation,omitempty"`
}

func (r *Result) addError(msg string) {
	r.Errors = append(r.Errors, msg)
}

func (r *Result) addWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// failNoGo marks the product NO-GO with the standard investigate
// recommendation; used for structural short-circuit failures.
func (r *Result) failNoGo(msg string) {
	r.addError(msg)
	r.Status = types.StatusNoGo
	r.ClientRecommendation = RecommendHoldInvestigate
}

// Engine runs the preflight rules for one capsule.
type Engine struct {
	Capsule string
}

// New returns a preflight engine for the capsule code (e.g. "S226").
func New(capsule string) *Engine {
	return &Engine{Capsule: capsule}
}

// Run validates every product group against the tracker and the pooled
// image inventory, producing per-product results in group order plus
// aggregate counts. Per-product problems never abort the run.
func (e *Engine) Run(groups []catalog.ExportGroup, tracker *catalog.Tracker, imagePool []string) *Report {
	results := make([]*Result, 0, len(groups))
	for _, group := range groups {
		results = append(results, e.CheckProduct(group, tracker, imagePool))
	}
	return buildReport(e.Capsule, results)
}

// CheckProduct runs the ordered rule set for a single product group.
func (e *Engine) CheckProduct(group catalog.ExportGroup, tracker *catalog.Tracker, imagePool []string) *Result {
	result := &Result{
		Handle:        group.Handle,
		Status:        types.StatusGo,
		Errors:        []string{},
		Warnings:      []string{},
		DetailsSource: DetailsNone,
	}

	// Exactly one parent row (non-blank title) must exist.
	var parents []catalog.ExportRow
	for _, row := range group.Rows {
		if row.IsParent() {
			parents = append(parents, row)
		}
	}
	if len(parents) == 0 {
		result.failNoGo("Missing parent row")
		return result
	}
	if len(parents) > 1 {
		result.failNoGo("Multiple parent rows")
		return result
	}
	parent := parents[0]
	result.Title = parent.Title

	// Wholesale-only products are excluded from DTC entirely.
	if strings.Contains(parent.Tags, wsBuyTag) {
		result.WSBuy = true
		result.Status = types.StatusSkip
		result.ImageStatus = types.ImageNotApplicable
		result.ClientRecommendation = RecommendWholesaleOnly
		result.addWarning("Wholesale product (WS Buy) – skipped")
		return result
	}

	// Product ID extraction scoped to this capsule.
	productID, foundAnyID := ExtractProductID(parent.Tags, e.Capsule)
	if productID == "" {
		if strings.TrimSpace(parent.Tags) != "" && foundAnyID {
			result.failNoGo("Malformed Product ID tag")
		} else {
			result.failNoGo("Missing Product ID tag")
		}
		return result
	}
	result.ProductID = productID
	result.CPI = DeriveCPI(productID)

	// Tracker join by exact key.
	source, ok := tracker.Lookup(productID)
	if !ok {
		result.failNoGo("Product ID not found in masterfile")
		return result
	}

	result.IsAccessory = isAccessory(source)

	// Pricing sanity.
	result.VariantPricePresent = strings.TrimSpace(parent.VariantPrice) != ""
	if !result.VariantPricePresent {
		result.addError("Missing Variant Price")
	}

	e.checkDetails(result, source)
	e.checkBody(result, parent, source)
	e.checkSeasonCode(result, source)
	e.checkCategoryCode(result, source)
	e.checkColorMatch(result, source)
	e.checkImages(result, imagePool, len(group.Rows)-1)

	// Status decision: any error means NO-GO, warnings never downgrade.
	if len(result.Errors) > 0 {
		result.Status = types.StatusNoGo
	} else {
		result.Status = types.StatusGo
	}
	result.ClientRecommendation = recommend(result)

	return result
}

func (e *Engine) checkDetails(result *Result, source catalog.TrackerRow) {
	switch {
	case strings.TrimSpace(source.ProductDetails) != "":
		result.DetailsSource = DetailsProductDetails
		result.DetailsReady = true
		result.DetailsBulletCount = countBulletLines(source.ProductDetails)
	case strings.TrimSpace(source.TextileContent) != "":
		result.DetailsSource = DetailsTextileContent
		_, count := BulletizePercentContent(source.TextileContent)
		result.DetailsBulletCount = count
		if count == 0 {
			result.addWarning("Textile Content present but could not parse percentages")
		} else {
			result.DetailsReady = true
		}
	case strings.TrimSpace(source.FabricContent) != "":
		result.DetailsSource = DetailsFabricContent
		_, count := BulletizePercentContent(source.FabricContent)
		result.DetailsBulletCount = count
		if count == 0 {
			result.addWarning("Fabric Content present but could not parse percentages")
		} else {
			result.DetailsReady = true
		}
	default:
		result.addWarning("No content for Details metafield")
	}
}

func (e *Engine) checkBody(result *Result, parent catalog.ExportRow, source catalog.TrackerRow) {
	switch {
	case strings.TrimSpace(parent.BodyHTML) != "":
		result.BodyStatus = BodyAuthoritative
	case strings.TrimSpace(source.ProductDescription) != "":
		result.BodyStatus = BodyWriteOK
	default:
		result.BodyStatus = BodyMissing
		result.addWarning("No Body (HTML) or Product Description")
	}
}

func (e *Engine) checkSeasonCode(result *Result, source catalog.TrackerRow) {
	result.SeasonCodeValid = IsValidSeasonCode(source.SeasonCode)
	if !result.SeasonCodeValid {
		result.addWarning("Invalid or missing SEASON CODE")
	}
}

func (e *Engine) checkCategoryCode(result *Result, source catalog.TrackerRow) {
	code, err := parseCode(source.CategoryCode)
	if err != nil {
		result.addWarning("Unknown CATEGORY CODE")
		return
	}

	if code == knitSentinelCode {
		// Knitwear sentinel: the real category lives in the knit code field.
		knit, err := parseCode(source.KnitCategoryCode)
		if err != nil {
			result.addWarning("Unknown KNIT CATEGORY CODE")
			return
		}
		if _, ok := categoryTags[knit]; !ok {
			result.addWarning("Unknown KNIT CATEGORY CODE")
			return
		}
		result.CategoryCodeKnown = true
		return
	}

	if _, ok := categoryTags[code]; !ok {
		result.addWarning("Unknown CATEGORY CODE")
		return
	}
	result.CategoryCodeKnown = true
}

func (e *Engine) checkColorMatch(result *Result, source catalog.TrackerRow) {
	parsed, _ := ParseProductID(result.ProductID)
	pidColor := NormalizeColor(parsed.ColorName)

	if strings.TrimSpace(source.Colour) == "" {
		result.addWarning("Missing Colour")
		return
	}
	result.ColorMatch = pidColor == NormalizeColor(source.Colour)
	if !result.ColorMatch {
		result.addWarning("Colour mismatch between Product ID and masterfile")
	}
}

func (e *Engine) checkImages(result *Result, imagePool []string, childRows int) {
	images := FindImagesForProduct(result.ProductID, imagePool)
	sort.Strings(images)
	classified := ClassifyImages(images)

	result.GhostCount = len(classified.Ghosts)
	result.HeroCount = len(classified.Heroes)
	result.ModelCount = len(classified.Models)
	result.EditorialCount = len(classified.Editorials)
	result.TotalImages = classified.Total()
	result.ChildRowCount = childRows

	nonGhost := classified.NonGhost()
	if overflow := nonGhost - childRows; overflow > 0 {
		result.OverflowRows = overflow
		result.addWarning("Image overflow: " + strconv.Itoa(overflow) + " additional rows required")
	}

	if result.GhostCount == 0 {
		result.addError("Missing ghost image")
	}
	if result.GhostCount > 1 {
		result.addWarning("Multiple ghost images found")
	}

	result.PlannedPositions = PlanPositions(nonGhost)
	planValid := ValidPositionPlan(result.PlannedPositions)
	if !planValid {
		result.addError("Invalid image position plan")
	}

	switch {
	case !planValid:
		result.ImageStatus = types.ImageInvalid
	case result.GhostCount == 0 || result.TotalImages == 0:
		result.ImageStatus = types.ImageIncomplete
	case nonGhost == 0:
		result.ImageStatus = types.ImageMinimal
	default:
		result.ImageStatus = types.ImageReady
	}
}

// recommend derives the client-facing recommendation from a fixed
// priority table.
func recommend(result *Result) string {
	switch {
	case result.Status == types.StatusNoGo && contains(result.Errors, "Missing ghost image"):
		return RecommendHoldGhost
	case result.ImageStatus == types.ImageInvalid:
		return RecommendHoldInvestigate
	case result.ImageStatus == types.ImageMinimal:
		return RecommendUploadMinimal
	case result.Status == types.StatusGo:
		return RecommendUpload
	default:
		return RecommendHoldInvestigate
	}
}

func isAccessory(source catalog.TrackerRow) bool {
	if code, err := parseCode(source.CategoryCode); err == nil && accessoryCategoryCodes[code] {
		return true
	}
	return accessoryProductTypes[strings.ToUpper(strings.TrimSpace(source.ProductType))]
}

func parseCode(value string) (int, error) {
	v := strings.TrimSpace(value)
	// Tracker exports sometimes render codes as floats ("3.0").
	v = strings.TrimSuffix(v, ".0")
	return strconv.Atoi(v)
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
