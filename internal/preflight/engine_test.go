package preflight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maisonhaus/capsule/internal/catalog"
	"github.com/maisonhaus/capsule/internal/types"
)

const (
	testCapsule   = "S226"
	testProductID = "S226-1041 WC 430600 BLACK"
)

func trackerWith(rows ...catalog.TrackerRow) *catalog.Tracker {
	return catalog.NewTracker(rows...)
}

func goodTrackerRow() catalog.TrackerRow {
	return catalog.TrackerRow{
		ProductID:      testProductID,
		ProductDetails: "- 100% Wool",
		SeasonCode:     "S226",
		CategoryCode:   "2",
		Colour:         "BLACK",
	}
}

// groupWithRows builds a product group: one parent row plus n-1 blank
// child rows.
func groupWithRows(handle, title, tags, price string, rowCount int) catalog.ExportGroup {
	rows := []catalog.ExportRow{{Handle: handle, Title: title, Tags: tags, VariantPrice: price, BodyHTML: "<p>x</p>"}}
	for i := 1; i < rowCount; i++ {
		rows = append(rows, catalog.ExportRow{Handle: handle})
	}
	return catalog.ExportGroup{Handle: handle, Rows: rows}
}

func TestMissingParentRow(t *testing.T) {
	engine := New(testCapsule)
	group := catalog.ExportGroup{Handle: "x", Rows: []catalog.ExportRow{{Handle: "x"}, {Handle: "x"}}}

	result := engine.CheckProduct(group, trackerWith(), nil)
	assert.Equal(t, types.StatusNoGo, result.Status)
	assert.Contains(t, result.Errors, "Missing parent row")
	assert.Equal(t, RecommendHoldInvestigate, result.ClientRecommendation)
}

func TestMultipleParentRows(t *testing.T) {
	engine := New(testCapsule)
	group := catalog.ExportGroup{Handle: "x", Rows: []catalog.ExportRow{
		{Handle: "x", Title: "One"},
		{Handle: "x", Title: "Two"},
	}}

	result := engine.CheckProduct(group, trackerWith(), nil)
	assert.Equal(t, types.StatusNoGo, result.Status)
	assert.Contains(t, result.Errors, "Multiple parent rows")
}

func TestWholesaleOnlySkips(t *testing.T) {
	engine := New(testCapsule)
	group := groupWithRows("x", "Wool Coat", "WS Buy, "+testProductID, "950.00", 3)

	result := engine.CheckProduct(group, trackerWith(goodTrackerRow()), nil)
	assert.Equal(t, types.StatusSkip, result.Status)
	assert.True(t, result.WSBuy)
	assert.Equal(t, types.ImageNotApplicable, result.ImageStatus)
	assert.Equal(t, RecommendWholesaleOnly, result.ClientRecommendation)
	assert.Empty(t, result.Errors)
}

func TestMissingProductIDTag(t *testing.T) {
	engine := New(testCapsule)
	group := groupWithRows("x", "Wool Coat", "some-tag, another", "950.00", 2)

	result := engine.CheckProduct(group, trackerWith(goodTrackerRow()), nil)
	assert.Equal(t, types.StatusNoGo, result.Status)
	assert.Contains(t, result.Errors, "Missing Product ID tag")
}

func TestMalformedProductIDTag(t *testing.T) {
	engine := New(testCapsule)
	// A valid product ID, but for a different capsule.
	group := groupWithRows("x", "Wool Coat", "S231-1041 WC 430600 BLACK", "950.00", 2)

	result := engine.CheckProduct(group, trackerWith(goodTrackerRow()), nil)
	assert.Equal(t, types.StatusNoGo, result.Status)
	assert.Contains(t, result.Errors, "Malformed Product ID tag")
}

func TestProductIDNotInTracker(t *testing.T) {
	engine := New(testCapsule)
	group := groupWithRows("x", "Wool Coat", testProductID, "950.00", 2)

	result := engine.CheckProduct(group, trackerWith(), nil)
	assert.Equal(t, types.StatusNoGo, result.Status)
	assert.Contains(t, result.Errors, "Product ID not found in masterfile")
}

func TestMissingVariantPriceIsError(t *testing.T) {
	engine := New(testCapsule)
	group := groupWithRows("x", "Wool Coat", testProductID, "", 3)
	pool := []string{testProductID + "_ghost.jpg"}

	result := engine.CheckProduct(group, trackerWith(goodTrackerRow()), pool)
	assert.Equal(t, types.StatusNoGo, result.Status)
	assert.Contains(t, result.Errors, "Missing Variant Price")
}

// End-to-end scenario from the decision table: one ghost, one hero,
// 3 rows -> plan [1,2], IMAGE_READY, GO, "Upload".
func TestGoldenPathGhostPlusHero(t *testing.T) {
	engine := New(testCapsule)
	group := groupWithRows("wool-coat-black", "Wool Coat", testProductID, "950.00", 3)
	pool := []string{
		testProductID + "_ghost.jpg",
		testProductID + "_hero_image.jpg",
	}

	result := engine.CheckProduct(group, trackerWith(goodTrackerRow()), pool)
	require.Empty(t, result.Errors)
	assert.Equal(t, types.StatusGo, result.Status)
	assert.Equal(t, []int{1, 2}, result.PlannedPositions)
	assert.Equal(t, types.ImageReady, result.ImageStatus)
	assert.Equal(t, RecommendUpload, result.ClientRecommendation)
	assert.Equal(t, "1041-430600", result.CPI)
	assert.Equal(t, 1, result.GhostCount)
	assert.Equal(t, 1, result.HeroCount)
}

// End-to-end scenario: zero ghost filenames -> NO-GO, ghost-hold
// recommendation.
func TestMissingGhostImage(t *testing.T) {
	engine := New(testCapsule)
	group := groupWithRows("wool-coat-black", "Wool Coat", testProductID, "950.00", 3)
	pool := []string{testProductID + "_hero_image.jpg"}

	result := engine.CheckProduct(group, trackerWith(goodTrackerRow()), pool)
	assert.Equal(t, types.StatusNoGo, result.Status)
	assert.Equal(t, []string{"Missing ghost image"}, result.Errors)
	assert.Equal(t, RecommendHoldGhost, result.ClientRecommendation)
	assert.Equal(t, types.ImageIncomplete, result.ImageStatus)
}

func TestGhostOnlyIsMinimal(t *testing.T) {
	engine := New(testCapsule)
	group := groupWithRows("x", "Wool Coat", testProductID, "950.00", 3)
	pool := []string{testProductID + "_ghost.jpg"}

	result := engine.CheckProduct(group, trackerWith(goodTrackerRow()), pool)
	assert.Equal(t, types.StatusGo, result.Status)
	assert.Equal(t, types.ImageMinimal, result.ImageStatus)
	assert.Equal(t, RecommendUploadMinimal, result.ClientRecommendation)
}

func TestMultipleGhostsIsWarningOnly(t *testing.T) {
	engine := New(testCapsule)
	group := groupWithRows("x", "Wool Coat", testProductID, "950.00", 3)
	pool := []string{
		testProductID + "_ghost.jpg",
		testProductID + "_ghost_2.jpg",
		testProductID + "_hero_image.jpg",
	}

	result := engine.CheckProduct(group, trackerWith(goodTrackerRow()), pool)
	assert.Equal(t, types.StatusGo, result.Status)
	assert.Contains(t, result.Warnings, "Multiple ghost images found")
}

func TestImageOverflowWarning(t *testing.T) {
	engine := New(testCapsule)
	// 2 rows total -> 1 child row; 3 non-ghost images -> overflow of 2.
	group := groupWithRows("x", "Wool Coat", testProductID, "950.00", 2)
	pool := []string{
		testProductID + "_ghost.jpg",
		testProductID + "_hero_image.jpg",
		testProductID + "_model_image_1.jpg",
		testProductID + "_model_image_2.jpg",
	}

	result := engine.CheckProduct(group, trackerWith(goodTrackerRow()), pool)
	assert.Equal(t, types.StatusGo, result.Status)
	assert.Equal(t, 2, result.OverflowRows)
	assert.Contains(t, result.Warnings, "Image overflow: 2 additional rows required")
}

func TestEditorialClassification(t *testing.T) {
	engine := New(testCapsule)
	group := groupWithRows("x", "Wool Coat", testProductID, "950.00", 4)
	pool := []string{
		testProductID + "_ghost.jpg",
		testProductID + "_editorial shot.jpg",
		"other-product_hero_image.jpg", // different product, excluded
	}

	result := engine.CheckProduct(group, trackerWith(goodTrackerRow()), pool)
	assert.Equal(t, 1, result.GhostCount)
	assert.Equal(t, 1, result.EditorialCount)
	assert.Equal(t, 0, result.HeroCount)
	assert.Equal(t, 2, result.TotalImages)
}

func TestWarningsAccumulate(t *testing.T) {
	engine := New(testCapsule)
	group := groupWithRows("x", "Wool Coat", testProductID, "950.00", 3)
	row := catalog.TrackerRow{
		ProductID:      testProductID,
		TextileContent: "no percentages here",
		SeasonCode:     "WINTER",
		CategoryCode:   "42",
		Colour:         "NAVY",
	}
	pool := []string{testProductID + "_ghost.jpg", testProductID + "_hero_image.jpg"}

	result := engine.CheckProduct(group, trackerWith(row), pool)
	assert.Equal(t, types.StatusGo, result.Status, "warnings alone never downgrade GO")
	assert.Contains(t, result.Warnings, "Textile Content present but could not parse percentages")
	assert.Contains(t, result.Warnings, "Invalid or missing SEASON CODE")
	assert.Contains(t, result.Warnings, "Unknown CATEGORY CODE")
	assert.Contains(t, result.Warnings, "Colour mismatch between Product ID and masterfile")
	assert.False(t, result.SeasonCodeValid)
	assert.False(t, result.CategoryCodeKnown)
	assert.False(t, result.ColorMatch)
}

func TestKnitSentinelFallback(t *testing.T) {
	engine := New(testCapsule)
	group := groupWithRows("x", "Knit Top", testProductID, "450.00", 2)
	pool := []string{testProductID + "_ghost.jpg"}

	row := goodTrackerRow()
	row.CategoryCode = "8"
	row.KnitCategoryCode = "84"
	result := engine.CheckProduct(group, trackerWith(row), pool)
	assert.True(t, result.CategoryCodeKnown)

	row.KnitCategoryCode = "99"
	result = engine.CheckProduct(group, trackerWith(row), pool)
	assert.False(t, result.CategoryCodeKnown)
	assert.Contains(t, result.Warnings, "Unknown KNIT CATEGORY CODE")

	row.KnitCategoryCode = ""
	result = engine.CheckProduct(group, trackerWith(row), pool)
	assert.False(t, result.CategoryCodeKnown)
}

func TestAccessoryDetection(t *testing.T) {
	engine := New(testCapsule)
	group := groupWithRows("x", "Leather Belt", testProductID, "250.00", 2)
	pool := []string{testProductID + "_ghost.jpg"}

	row := goodTrackerRow()
	row.CategoryCode = "76"
	result := engine.CheckProduct(group, trackerWith(row), pool)
	assert.True(t, result.IsAccessory)

	row = goodTrackerRow()
	row.ProductType = "Jewelry"
	result = engine.CheckProduct(group, trackerWith(row), pool)
	assert.True(t, result.IsAccessory)

	result = engine.CheckProduct(group, trackerWith(goodTrackerRow()), pool)
	assert.False(t, result.IsAccessory)
}

func TestColorNormalizationMatch(t *testing.T) {
	engine := New(testCapsule)
	group := groupWithRows("x", "Wool Coat", testProductID, "950.00", 2)
	pool := []string{testProductID + "_ghost.jpg"}

	row := goodTrackerRow()
	row.Colour = "430600  black" // leading code plus case/space noise
	result := engine.CheckProduct(group, trackerWith(row), pool)
	assert.True(t, result.ColorMatch)
}

func TestRunSummaryCounts(t *testing.T) {
	engine := New(testCapsule)
	groups := []catalog.ExportGroup{
		groupWithRows("go-product", "Coat", testProductID, "950.00", 2),
		groupWithRows("no-go-product", "Dress", "S226-1003 SD 210045 IVORY", "780.00", 2),
		groupWithRows("ws-product", "Scarf", "WS Buy", "120.00", 1),
	}
	tracker := trackerWith(goodTrackerRow(), catalog.TrackerRow{
		ProductID:    "S226-1003 SD 210045 IVORY",
		SeasonCode:   "S226",
		CategoryCode: "3",
		Colour:       "IVORY",
	})
	// Only the first product has a ghost; the second is NO-GO.
	pool := []string{testProductID + "_ghost.jpg"}

	report := engine.Run(groups, tracker, pool)
	assert.Equal(t, 3, report.Summary.TotalProducts)
	assert.Equal(t, 1, report.Summary.GoCount)
	assert.Equal(t, 1, report.Summary.NoGoCount)
	assert.Equal(t, 1, report.Summary.SkipCount)
	assert.Equal(t, 1, report.Summary.ErrorProducts)
	assert.Equal(t, "S226", report.Capsule)
}
