package scrapeclient

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewSetsUserAgent(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := New(Options{UserAgent: "test-agent/1.0", Timeout: time.Second})
	_, err := client.R().Get(server.URL)
	require.NoError(t, err)
	require.Equal(t, "test-agent/1.0", got)
}

func TestDumpDirCapturesExchanges(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "dumps")
	client := New(Options{UserAgent: "test-agent/1.0", DumpDir: dir})

	_, err := client.R().Get(server.URL)
	require.NoError(t, err)
	_, err = client.R().Get(server.URL)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	contents, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	require.Contains(t, string(contents), "---- REQUEST ----")
	require.Contains(t, string(contents), "hello")
}
