package catalog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LoadHandleSet reads the set of handles from an import ledger CSV
// (the combined import file or the anomalies file). Only the "Handle"
// column matters; its absence is fatal.
func LoadHandleSet(path string) (map[string]bool, error) {
	f, err := os.Open(path) // #nosec G304 - input path from CLI flag
	if err != nil {
		return nil, fmt.Errorf("opening ledger CSV: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading ledger header %s: %w", path, err)
	}
	col := headerIndex(header)
	if _, ok := col["Handle"]; !ok {
		return nil, fmt.Errorf("ledger CSV missing required column \"Handle\": %s", path)
	}

	handles := make(map[string]bool)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing ledger CSV %s: %w", path, err)
		}
		if h := field(record, col, "Handle"); h != "" {
			handles[h] = true
		}
	}
	return handles, nil
}

// LoadProductMap reads the cpi -> external GID map manifest.
func LoadProductMap(path string) (map[string]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 - input path from CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading product map: %w", err)
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing product map %s: %w", path, err)
	}
	return m, nil
}
