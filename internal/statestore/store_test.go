package statestore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maisonhaus/capsule/internal/types"
)

func testDocument(capsule string) *types.Document {
	return &types.Document{
		SchemaVersion: types.SchemaVersion,
		Capsule:       capsule,
		GeneratedAt:   time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
		Products: map[string]*types.Product{
			"silk-dress-ivory": {
				Handle: "silk-dress-ivory",
				CPI:    "1003-210045",
				Preflight: types.Preflight{
					Status:      types.StatusGo,
					ImageStatus: types.ImageReady,
				},
				Import:    types.Import{Eligible: true},
				Promotion: types.Promotion{Stage: types.StagePreFlight},
				AllowedActions: map[types.Action]bool{
					types.ActionIncludeInImportCSV: true,
				},
			},
		},
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	store := New(t.TempDir())
	doc := testDocument("S226")

	require.NoError(t, store.Save(doc))
	require.True(t, store.Exists("S226"))

	loaded, err := store.Load("S226")
	require.NoError(t, err)
	assert.Equal(t, doc.Capsule, loaded.Capsule)
	assert.Equal(t, doc.SchemaVersion, loaded.SchemaVersion)

	p := loaded.Products["silk-dress-ivory"]
	require.NotNil(t, p)
	assert.Equal(t, types.StatusGo, p.Preflight.Status)
	assert.True(t, p.AllowedActions[types.ActionIncludeInImportCSV])
}

func TestLoadNotFound(t *testing.T) {
	store := New(t.TempDir())

	_, err := store.Load("S226")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadMalformedJSON(t *testing.T) {
	store := New(t.TempDir())
	path := store.Path("S226")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := store.Load("S226")
	require.Error(t, err)
	var sv *types.SchemaViolationError
	assert.True(t, errors.As(err, &sv))
}

func TestLoadSchemaViolation(t *testing.T) {
	store := New(t.TempDir())
	path := store.Path("S226")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	// Valid JSON, wrong schema version.
	require.NoError(t, os.WriteFile(path, []byte(`{"schema_version":"0.9","capsule":"S226","products":{}}`), 0o644))

	_, err := store.Load("S226")
	var sv *types.SchemaViolationError
	require.True(t, errors.As(err, &sv))
	assert.Contains(t, sv.Error(), "schema_version")
}

func TestLoadCapsuleMismatch(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Save(testDocument("S226")))

	// Copy the state file into another capsule's slot.
	data, err := os.ReadFile(store.Path("S226"))
	require.NoError(t, err)
	other := store.Path("F231")
	require.NoError(t, os.MkdirAll(filepath.Dir(other), 0o755))
	require.NoError(t, os.WriteFile(other, data, 0o644))

	_, err = store.Load("F231")
	var sv *types.SchemaViolationError
	require.True(t, errors.As(err, &sv))
	assert.Contains(t, sv.Error(), "capsule mismatch")
}

func TestSaveRejectsInvalidDocument(t *testing.T) {
	store := New(t.TempDir())
	doc := testDocument("S226")
	doc.Products["silk-dress-ivory"].Promotion.Stage = "SHIPPED"

	err := store.Save(doc)
	var sv *types.SchemaViolationError
	require.True(t, errors.As(err, &sv))
	assert.False(t, store.Exists("S226"), "invalid document must not be written")
}

func TestSaveIsDeterministic(t *testing.T) {
	store := New(t.TempDir())
	doc := testDocument("S226")

	require.NoError(t, store.Save(doc))
	first, err := os.ReadFile(store.Path("S226"))
	require.NoError(t, err)

	require.NoError(t, store.Save(doc))
	second, err := os.ReadFile(store.Path("S226"))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second), "saving the same document twice must be byte-identical")
}
