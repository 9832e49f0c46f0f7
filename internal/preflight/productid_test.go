package preflight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProductID(t *testing.T) {
	parsed, ok := ParseProductID("S226-1041 WC 430600 BLACK")
	assert.True(t, ok)
	assert.Equal(t, "226", parsed.Capsule)
	assert.Equal(t, "1041", parsed.Style)
	assert.Equal(t, "WC", parsed.StyleCode)
	assert.Equal(t, "430600", parsed.ColorCode)
	assert.Equal(t, "BLACK", parsed.ColorName)

	// Multi-word color names are captured whole.
	parsed, ok = ParseProductID("S226-1003 SD2 210045 IVORY CREAM")
	assert.True(t, ok)
	assert.Equal(t, "IVORY CREAM", parsed.ColorName)

	for _, bad := range []string{
		"",
		"S226-1041",
		"X226-1041 WC 430600 BLACK",
		"S226-104 WC 430600 BLACK",  // style too short
		"S226-1041 WC 43060 BLACK",  // color code too short
		"S226-1041 wc 430600 BLACK", // lowercase style code
	} {
		_, ok := ParseProductID(bad)
		assert.False(t, ok, "ParseProductID(%q) unexpectedly matched", bad)
	}
}

func TestExtractProductID(t *testing.T) {
	tags := "new-arrival, S226-1041 WC 430600 BLACK, collection_jackets"
	id, foundAny := ExtractProductID(tags, "S226")
	assert.Equal(t, "S226-1041 WC 430600 BLACK", id)
	assert.True(t, foundAny)

	// Valid ID from a different capsule: no extraction, but foundAny set.
	id, foundAny = ExtractProductID("S231-1041 WC 430600 BLACK", "S226")
	assert.Empty(t, id)
	assert.True(t, foundAny)

	// No product ID shaped tag at all.
	id, foundAny = ExtractProductID("just, plain, tags", "S226")
	assert.Empty(t, id)
	assert.False(t, foundAny)
}

func TestDeriveCPI(t *testing.T) {
	assert.Equal(t, "1041-430600", DeriveCPI("S226-1041 WC 430600 BLACK"))
	assert.Empty(t, DeriveCPI("not a product id"))
}

func TestIsValidSeasonCode(t *testing.T) {
	valid := []string{"S226", "SS26", " S226 "}
	for _, s := range valid {
		assert.True(t, IsValidSeasonCode(s), "IsValidSeasonCode(%q)", s)
	}
	invalid := []string{"", "S26", "SS226", "WINTER", "s226"}
	for _, s := range invalid {
		assert.False(t, IsValidSeasonCode(s), "IsValidSeasonCode(%q)", s)
	}
}

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BLACK", "BLACK"},
		{"430600 BLACK", "BLACK"},
		{"430600  ivory  cream ", "IVORY CREAM"},
		{"  Navy Blue ", "NAVY BLUE"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeColor(tt.in), "NormalizeColor(%q)", tt.in)
	}
}
