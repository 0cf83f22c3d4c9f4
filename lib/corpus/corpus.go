// Package corpus loads and saves flat record files. A record is a
// string-keyed map of string values, which covers both the JSON source
// lists and the CSV exports the enrichment workflows exchange.
package corpus

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Load reads records from path, picking the codec by file extension:
// .json parses a JSON array, anything else is read as CSV.
func Load(path string) ([]map[string]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadJSON(path)
	}
	return LoadCSV(path)
}

// Save writes records in the format the path's extension names. The
// headers argument only applies to CSV output; JSON records carry
// their own keys.
func Save(path string, headers []string, records []map[string]string) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return SaveJSON(path, records)
	}
	return SaveCSV(path, headers, records)
}

// LoadJSON reads a file containing a JSON array of flat objects.
func LoadJSON(path string) ([]map[string]string, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []map[string]string
	if err := json.Unmarshal(contents, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

// SaveJSON writes records as an indented JSON array.
func SaveJSON(path string, records []map[string]string) error {
	contents, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, contents, 0644)
}

// LoadCSV reads a CSV file with a header row into records keyed by
// header name.
func LoadCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := rows[0]
	var records []map[string]string
	for _, row := range rows[1:] {
		record := map[string]string{}
		for i, header := range headers {
			if i < len(row) {
				record[header] = row[i]
			} else {
				record[header] = ""
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// SaveCSV writes records under the given headers. When headers is nil
// the union of all record keys is used, sorted.
func SaveCSV(path string, headers []string, records []map[string]string) error {
	if headers == nil {
		seen := map[string]bool{}
		for _, record := range records {
			for key := range record {
				if !seen[key] {
					seen[key] = true
					headers = append(headers, key)
				}
			}
		}
		sort.Strings(headers)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, record := range records {
		row := make([]string, len(headers))
		for i, header := range headers {
			row[i] = record[header]
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
