package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// TrackerRow is one row of the tracker masterfile, keyed by Product ID.
// The tracker is the buying-side source of truth the export is checked
// against.
type TrackerRow struct {
	ProductID          string
	ProductDetails     string
	TextileContent     string
	FabricContent      string
	ProductDescription string
	SeasonCode         string
	CategoryCode       string
	KnitCategoryCode   string
	Colour             string
	ProductType        string
}

// Tracker is an exact-key lookup over tracker rows.
type Tracker struct {
	rows map[string]TrackerRow
}

// NewTracker builds a tracker from rows already in memory.
func NewTracker(rows ...TrackerRow) *Tracker {
	t := &Tracker{rows: make(map[string]TrackerRow, len(rows))}
	for _, row := range rows {
		if row.ProductID != "" {
			t.rows[row.ProductID] = row
		}
	}
	return t
}

// Lookup returns the row for productID, if any.
func (t *Tracker) Lookup(productID string) (TrackerRow, bool) {
	row, ok := t.rows[productID]
	return row, ok
}

// Len returns the number of tracker rows.
func (t *Tracker) Len() int {
	return len(t.rows)
}

// LoadTracker reads the masterfile CSV indexed by the "Product ID" column.
// Later duplicates of the same Product ID overwrite earlier ones.
func LoadTracker(path string) (*Tracker, error) {
	f, err := os.Open(path) // #nosec G304 - input path from CLI flag
	if err != nil {
		return nil, fmt.Errorf("opening tracker CSV: %w", err)
	}
	defer f.Close()

	t, err := readTracker(f)
	if err != nil {
		return nil, fmt.Errorf("parsing tracker CSV %s: %w", path, err)
	}
	return t, nil
}

func readTracker(r io.Reader) (*Tracker, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	col := headerIndex(header)
	if _, ok := col["Product ID"]; !ok {
		return nil, fmt.Errorf("missing required column %q", "Product ID")
	}

	rows := make(map[string]TrackerRow)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		id := field(record, col, "Product ID")
		if id == "" {
			continue
		}
		rows[id] = TrackerRow{
			ProductID:          id,
			ProductDetails:     field(record, col, "PRODUCT DETAILS"),
			TextileContent:     field(record, col, "Textile Content"),
			FabricContent:      field(record, col, "Fabric Content"),
			ProductDescription: field(record, col, "Product Description"),
			SeasonCode:         field(record, col, "SEASON CODE"),
			CategoryCode:       field(record, col, "CATEGORY CODE"),
			KnitCategoryCode:   field(record, col, "KNIT CATEGORY CODE"),
			Colour:             field(record, col, "Colour"),
			ProductType:        field(record, col, "Product Type"),
		}
	}
	return &Tracker{rows: rows}, nil
}
