// Package catalog parses the external inputs the preflight engine and the
// state mutators consume: catalog export CSVs, the tracker masterfile,
// image-filename inventories, import ledgers, and the product GID map.
// None of these formats are owned here; the loaders extract only the
// columns the validation rules need.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// ExportRow is one row of the catalog export. A product is a group of rows
// sharing a handle; the single row with a non-blank title is the parent.
type ExportRow struct {
	Handle       string
	Title        string
	Tags         string
	VariantPrice string
	BodyHTML     string
}

// IsParent reports whether the row is a parent row (non-blank title).
func (r ExportRow) IsParent() bool {
	return strings.TrimSpace(r.Title) != ""
}

// ExportGroup is all rows for one handle, in file order.
type ExportGroup struct {
	Handle string
	Rows   []ExportRow
}

// LoadExport reads a catalog export CSV and groups rows by handle,
// preserving the order handles first appear in the file.
func LoadExport(path string) ([]ExportGroup, error) {
	f, err := os.Open(path) // #nosec G304 - input path from CLI flag
	if err != nil {
		return nil, fmt.Errorf("opening export CSV: %w", err)
	}
	defer f.Close()

	rows, err := readExportRows(f)
	if err != nil {
		return nil, fmt.Errorf("parsing export CSV %s: %w", path, err)
	}

	var order []string
	byHandle := make(map[string][]ExportRow)
	for _, row := range rows {
		if row.Handle == "" {
			continue
		}
		if _, seen := byHandle[row.Handle]; !seen {
			order = append(order, row.Handle)
		}
		byHandle[row.Handle] = append(byHandle[row.Handle], row)
	}

	groups := make([]ExportGroup, 0, len(order))
	for _, h := range order {
		groups = append(groups, ExportGroup{Handle: h, Rows: byHandle[h]})
	}
	return groups, nil
}

func readExportRows(r io.Reader) ([]ExportRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	col := headerIndex(header)

	required := []string{"Handle"}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	var rows []ExportRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, ExportRow{
			Handle:       field(record, col, "Handle"),
			Title:        field(record, col, "Title"),
			Tags:         field(record, col, "Tags"),
			VariantPrice: field(record, col, "Variant Price"),
			BodyHTML:     field(record, col, "Body (HTML)"),
		})
	}
	return rows, nil
}

// headerIndex maps trimmed column names to positions.
func headerIndex(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(stripBOM(name))] = i
	}
	return col
}

func field(record []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}
