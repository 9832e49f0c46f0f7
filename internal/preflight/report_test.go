package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maisonhaus/capsule/internal/types"
)

func sampleReport() *Report {
	return buildReport("S226", []*Result{
		{
			Handle:               "wool-coat-black",
			ProductID:            testProductID,
			CPI:                  "1041-430600",
			Title:                "Wool Coat",
			Status:               types.StatusGo,
			Errors:               []string{},
			Warnings:             []string{"Multiple ghost images found"},
			ImageStatus:          types.ImageReady,
			ClientRecommendation: RecommendUpload,
		},
		{
			Handle:               "silk-dress-ivory",
			Status:               types.StatusNoGo,
			Errors:               []string{"Missing ghost image"},
			Warnings:             []string{},
			ImageStatus:          types.ImageIncomplete,
			ClientRecommendation: RecommendHoldGhost,
		},
	})
}

func TestReportRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outputs", "preflight_S226_internal.json")
	report := sampleReport()

	require.NoError(t, report.WriteInternalJSON(path))

	loaded, err := LoadReport(path)
	require.NoError(t, err)
	assert.Equal(t, "S226", loaded.Capsule)
	assert.Equal(t, 2, loaded.Summary.TotalProducts)
	assert.Equal(t, 1, loaded.Summary.GoCount)
	assert.Equal(t, 1, loaded.Summary.NoGoCount)
	require.Len(t, loaded.Products, 2)
	assert.Equal(t, "wool-coat-black", loaded.Products[0].Handle)
}

func TestWriteClientAdvisoryCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "advisory.csv")
	require.NoError(t, sampleReport().WriteClientAdvisoryCSV(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "handle,product_id,cpi,title,status,client_recommendation,errors,warnings", lines[0])
	assert.Contains(t, lines[1], "wool-coat-black")
	assert.Contains(t, lines[1], RecommendUpload)
	assert.Contains(t, lines[2], "Missing ghost image")
}
