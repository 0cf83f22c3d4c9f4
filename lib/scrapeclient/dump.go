package scrapeclient

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// 1: request method
// 2: request url
// 3: request headers ("Key: Value" lines)
// 4: response status
// 5: response url
// 6: response headers ("Key: Value" lines)
// 7: response body
const dumpTemplate = `---- REQUEST ----

%s %s

%s

---- RESPONSE ----

%s %s

%s

%s`

// attachDumper writes a transcript of every request/response pair into
// dir, one file per exchange. The directory is cleared at client
// construction so each run starts from an empty set.
func attachDumper(client *resty.Client, dir string) {
	os.RemoveAll(dir)
	if err := os.MkdirAll(dir, 0777); err != nil {
		slog.Warn("could not create dump directory", "dir", dir, "err", err)
		return
	}

	var seq atomic.Int64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := fmt.Sprintf("%04d.txt", seq.Add(1))
		path := filepath.Join(dir, id)
		err := os.WriteFile(path, []byte(formatHttpMessage(res)), 0600)
		if err != nil {
			slog.Warn("failed to write dump file", "path", path, "err", err)
		}
		return nil
	})
}

func formatHeaders(headers http.Header) string {
	var out strings.Builder
	for k, vals := range headers {
		for _, v := range vals {
			fmt.Fprintf(&out, "%s: %s\n", k, v)
		}
	}
	return strings.TrimSuffix(out.String(), "\n")
}

func formatHttpMessage(res *resty.Response) string {
	requestHeaders := formatHeaders(res.Request.RawRequest.Header)
	responseHeaders := formatHeaders(res.Header())

	responseUrl := res.Request.URL
	redirected, err := res.RawResponse.Location()
	if err == nil {
		responseUrl = redirected.String()
	}

	return fmt.Sprintf(
		dumpTemplate,

		res.Request.Method, res.Request.URL,
		requestHeaders,

		strconv.Itoa(res.StatusCode()), responseUrl,
		responseHeaders,
		res.String(),
	)
}
