package preflight

import (
	"fmt"
	"regexp"
	"strings"
)

// Product ID tags look like "S226-1041 WC 430600 BLACK": capsule-season
// prefix and style number, style code, six-digit color code, color name.
var productIDRE = regexp.MustCompile(`^S(?P<capsule>\d{3})-(?P<style>\d{4})\s+(?P<styleCode>[A-Z0-9]+)\s+(?P<colorCode>\d{6})\s+(?P<colorName>.+)$`)

// ParsedProductID is the decomposed form of a product ID tag.
type ParsedProductID struct {
	Capsule   string // three digits, no leading "S"
	Style     string
	StyleCode string
	ColorCode string
	ColorName string
}

// ParseProductID decomposes a product ID tag, or returns false when the
// tag does not match the pattern at all.
func ParseProductID(tag string) (ParsedProductID, bool) {
	m := productIDRE.FindStringSubmatch(tag)
	if m == nil {
		return ParsedProductID{}, false
	}
	return ParsedProductID{
		Capsule:   m[productIDRE.SubexpIndex("capsule")],
		Style:     m[productIDRE.SubexpIndex("style")],
		StyleCode: m[productIDRE.SubexpIndex("styleCode")],
		ColorCode: m[productIDRE.SubexpIndex("colorCode")],
		ColorName: m[productIDRE.SubexpIndex("colorName")],
	}, true
}

// ExtractProductID scans a comma-separated tag list for a product ID tag
// scoped to the given capsule code (e.g. "S226"). The second return value
// reports whether any tag matched the product ID pattern at all, which
// distinguishes "missing" from "malformed for this capsule".
func ExtractProductID(tags, capsule string) (string, bool) {
	capsuleDigits := strings.TrimPrefix(capsule, "S")
	foundAny := false

	for _, raw := range strings.Split(tags, ",") {
		tag := strings.TrimSpace(raw)
		parsed, ok := ParseProductID(tag)
		if !ok {
			continue
		}
		foundAny = true
		if parsed.Capsule == capsuleDigits {
			return tag, true
		}
	}
	return "", foundAny
}

// DeriveCPI computes the style-color key ("NNNN-NNNNNN") from a product ID
// tag. Returns "" for unparseable tags.
func DeriveCPI(productID string) string {
	parsed, ok := ParseProductID(productID)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s-%s", parsed.Style, parsed.ColorCode)
}

var seasonCodeRE = regexp.MustCompile(`^(SS\d{2}|S\d{3})$`)

// IsValidSeasonCode reports whether value is a well-formed season code
// ("SS26" or "S226" style).
func IsValidSeasonCode(value string) bool {
	return seasonCodeRE.MatchString(strings.TrimSpace(value))
}

var leadingColorCodeRE = regexp.MustCompile(`^\d{6}\s+`)

// NormalizeColor canonicalizes a color name for comparison: strips a
// leading six-digit color code, collapses whitespace, uppercases.
func NormalizeColor(value string) string {
	v := strings.TrimSpace(value)
	v = leadingColorCodeRE.ReplaceAllString(v, "")
	v = strings.Join(strings.Fields(v), " ")
	return strings.ToUpper(v)
}
