package preflight

import (
	"fmt"
	"regexp"
	"strings"
)

// DetailsSource identifies which tracker field supplied the product
// details content.
type DetailsSource string

const (
	DetailsNone           DetailsSource = "NONE"
	DetailsProductDetails DetailsSource = "PRODUCT_DETAILS"
	DetailsTextileContent DetailsSource = "TEXTILE_CONTENT"
	DetailsFabricContent  DetailsSource = "FABRIC_CONTENT"
)

// BodyStatus classifies description readiness.
type BodyStatus string

const (
	// BodyAuthoritative: the export already carries Body (HTML); leave it.
	BodyAuthoritative BodyStatus = "BODY_AUTHORITATIVE"
	// BodyWriteOK: no body in the export but the tracker has a description
	// that downstream writers may use.
	BodyWriteOK BodyStatus = "BODY_WRITE_OK"
	BodyMissing BodyStatus = "BODY_MISSING"
)

var percentContentRE = regexp.MustCompile(`(\d+)%\s*([A-Za-z][A-Za-z\s\-]*)`)

// BulletizePercentContent converts free-form material content
// ("70% Wool 30% Cashmere") into dash bullets, returning the bulletized
// text and the number of percentage matches found.
func BulletizePercentContent(text string) (string, int) {
	matches := percentContentRE.FindAllStringSubmatch(text, -1)
	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		material := strings.Join(strings.Fields(strings.Title(strings.ToLower(strings.TrimSpace(m[2])))), " ") //nolint:staticcheck // ASCII material names only
		lines = append(lines, fmt.Sprintf("- %s%% %s", m[1], material))
	}
	return strings.Join(lines, "\n"), len(matches)
}

// countBulletLines counts lines already formatted as dash bullets.
func countBulletLines(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "-") {
			count++
		}
	}
	return count
}
