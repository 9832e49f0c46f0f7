package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadExportGroupsByHandle(t *testing.T) {
	csv := "Handle,Title,Tags,Variant Price,Body (HTML)\n" +
		"wool-coat,Wool Coat,\"S226-1041 WC 430600 BLACK\",950.00,<p>coat</p>\n" +
		"wool-coat,,,,\n" +
		"wool-coat,,,,\n" +
		"silk-dress,Silk Dress,tag,780.00,\n"
	path := writeFile(t, "export.csv", csv)

	groups, err := LoadExport(path)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "wool-coat", groups[0].Handle)
	assert.Len(t, groups[0].Rows, 3)
	assert.True(t, groups[0].Rows[0].IsParent())
	assert.False(t, groups[0].Rows[1].IsParent())
	assert.Equal(t, "950.00", groups[0].Rows[0].VariantPrice)

	assert.Equal(t, "silk-dress", groups[1].Handle)
	assert.Len(t, groups[1].Rows, 1)
}

func TestLoadExportMissingHandleColumn(t *testing.T) {
	path := writeFile(t, "export.csv", "Title,Tags\nX,Y\n")
	_, err := LoadExport(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Handle")
}

func TestLoadTracker(t *testing.T) {
	csv := "Product ID,PRODUCT DETAILS,Textile Content,SEASON CODE,CATEGORY CODE,Colour\n" +
		"S226-1041 WC 430600 BLACK,- 100% Wool,,S226,3,BLACK\n" +
		",ignored,,,,\n"
	path := writeFile(t, "master.csv", csv)

	tracker, err := LoadTracker(path)
	require.NoError(t, err)
	assert.Equal(t, 1, tracker.Len())

	row, ok := tracker.Lookup("S226-1041 WC 430600 BLACK")
	require.True(t, ok)
	assert.Equal(t, "- 100% Wool", row.ProductDetails)
	assert.Equal(t, "S226", row.SeasonCode)
	assert.Equal(t, "3", row.CategoryCode)

	_, ok = tracker.Lookup("S226-9999 XX 000000 NONE")
	assert.False(t, ok)
}

func TestParseFilenames(t *testing.T) {
	contents := "'S226-1041 WC 430600 BLACK_ghost.jpg', 'S226-1041 WC 430600 BLACK_hero_image.png'\n" +
		"S226-1003 SD 210045 IVORY_model_image_1.jpg\n" +
		"junk line without images\n" +
		"prefix S226-1003 SD 210045 IVORY_editorial shot.webp trailing\n" +
		"'S226-1041 WC 430600 BLACK_ghost.jpg'\n" // duplicate

	files := ParseFilenames(contents)
	assert.Equal(t, []string{
		"S226-1041 WC 430600 BLACK_ghost.jpg",
		"S226-1041 WC 430600 BLACK_hero_image.png",
		"S226-1003 SD 210045 IVORY_model_image_1.jpg",
		"prefix S226-1003 SD 210045 IVORY_editorial shot.webp",
	}, files)
}

func TestPoolFilenames(t *testing.T) {
	a := []string{"x_ghost.jpg", "y_hero_image.jpg"}
	b := []string{"y_hero_image.jpg", "z_model_image_1.jpg"}

	pool := PoolFilenames(a, b)
	assert.Equal(t, []string{"x_ghost.jpg", "y_hero_image.jpg", "z_model_image_1.jpg"}, pool)
}

func TestLoadHandleSet(t *testing.T) {
	path := writeFile(t, "combined.csv", "Handle,Title\nwool-coat,Wool Coat\nwool-coat,\nsilk-dress,Silk Dress\n")

	handles, err := LoadHandleSet(path)
	require.NoError(t, err)
	assert.Len(t, handles, 2)
	assert.True(t, handles["wool-coat"])
	assert.True(t, handles["silk-dress"])
}

func TestLoadHandleSetMissingColumn(t *testing.T) {
	path := writeFile(t, "combined.csv", "Title\nX\n")
	_, err := LoadHandleSet(path)
	require.Error(t, err)
}

func TestLoadProductMap(t *testing.T) {
	path := writeFile(t, "product_map.json", `{"1041-430600":"gid://catalog/Product/111"}`)

	m, err := LoadProductMap(path)
	require.NoError(t, err)
	assert.Equal(t, "gid://catalog/Product/111", m["1041-430600"])
}
