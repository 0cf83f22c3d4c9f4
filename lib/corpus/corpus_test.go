package corpus

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadSaveDispatchOnExtension(t *testing.T) {
	records := []map[string]string{{"name": "NPR", "url": "https://npr.org"}}
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "sources.json")
	require.NoError(t, Save(jsonPath, nil, records))
	contents, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	require.True(t, json.Valid(contents))

	loaded, err := Load(jsonPath)
	require.NoError(t, err)
	require.Equal(t, records, loaded)

	csvPath := filepath.Join(dir, "sources.csv")
	require.NoError(t, Save(csvPath, nil, records))
	loaded, err = Load(csvPath)
	require.NoError(t, err)
	require.Equal(t, records, loaded)
}

func TestJSONRoundTrip(t *testing.T) {
	records := []map[string]string{
		{"name": "Reuters", "url": "https://reuters.com", "status": ""},
		{"name": "ProPublica", "url": "https://propublica.org", "status": "non-profit"},
	}

	path := filepath.Join(t.TempDir(), "sources.json")
	require.NoError(t, SaveJSON(path, records))

	loaded, err := LoadJSON(path)
	require.NoError(t, err)
	require.Equal(t, records, loaded)
}

func TestCSVRoundTrip(t *testing.T) {
	records := []map[string]string{
		{"name": "Reuters", "status": "for-profit"},
		{"name": "NPR", "status": "non-profit"},
	}

	path := filepath.Join(t.TempDir(), "sources.csv")
	require.NoError(t, SaveCSV(path, []string{"name", "status"}, records))

	loaded, err := LoadCSV(path)
	require.NoError(t, err)
	require.Equal(t, records, loaded)
}

func TestSaveCSVInferredHeaders(t *testing.T) {
	records := []map[string]string{
		{"b": "2", "a": "1"},
		{"a": "3", "c": "4"},
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, SaveCSV(path, nil, records))

	loaded, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	// missing keys come back as empty cells under the union of headers
	require.Equal(t, "", loaded[0]["c"])
	require.Equal(t, "4", loaded[1]["c"])
}

func TestLoadCSVShortRows(t *testing.T) {
	// csv.Reader rejects ragged rows by default, so short rows only come
	// from padding behavior in LoadCSV itself when headers outnumber
	// record fields after a write with explicit headers
	records := []map[string]string{{"name": "AP"}}
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, SaveCSV(path, []string{"name", "status"}, records))

	loaded, err := LoadCSV(path)
	require.NoError(t, err)
	require.Equal(t, "", loaded[0]["status"])
}
