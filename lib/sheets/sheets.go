// Package sheets wraps the Google Sheets API behind the small surface
// the enrichment workflows need: read a header-keyed range and write
// individual cells back.
package sheets

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	sheetsv4 "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"
)

type Client struct {
	service       *sheetsv4.Service
	spreadsheetId string
}

// NewClient authenticates with a service account credentials file and
// binds the client to a single spreadsheet.
func NewClient(ctx context.Context, credentialsFile, spreadsheetId string) (*Client, error) {
	contents, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, contents, sheetsv4.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	service, err := sheetsv4.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{
		service:       service,
		spreadsheetId: spreadsheetId,
	}, nil
}

// Row is a single spreadsheet row keyed by header name. Index is the
// 1-based spreadsheet row number, so it can be used directly in A1
// notation.
type Row struct {
	Index  int
	Values map[string]string
}

// RowSet is the result of reading a range: the header row plus every
// data row under it.
type RowSet struct {
	Headers []string
	Rows    []Row
}

// ReadRange reads readRange (A1 notation, e.g. "Sheet1!A1:Z") and keys
// every row by the first row's headers. Rows shorter than the header
// row are padded with empty strings.
func (c *Client) ReadRange(ctx context.Context, readRange string) (RowSet, error) {
	resp, err := c.service.Spreadsheets.Values.
		Get(c.spreadsheetId, readRange).
		Context(ctx).
		Do()
	if err != nil {
		return RowSet{}, fmt.Errorf("read range %q: %w", readRange, err)
	}
	if len(resp.Values) == 0 {
		return RowSet{}, fmt.Errorf("range %q is empty", readRange)
	}

	headers := make([]string, len(resp.Values[0]))
	for i, cell := range resp.Values[0] {
		headers[i] = fmt.Sprint(cell)
	}

	out := RowSet{Headers: headers}
	for i, raw := range resp.Values[1:] {
		values := map[string]string{}
		for j, header := range headers {
			if j < len(raw) {
				values[header] = fmt.Sprint(raw[j])
			} else {
				values[header] = ""
			}
		}
		out.Rows = append(out.Rows, Row{
			// +2: skip the header row and convert to 1-based
			Index:  i + 2,
			Values: values,
		})
	}
	return out, nil
}

// ColumnIndex returns the zero-based index of the named header, or -1.
func (s RowSet) ColumnIndex(header string) int {
	for i, h := range s.Headers {
		if h == header {
			return i
		}
	}
	return -1
}

// UpdateCell writes a single value at (rowIndex, columnIndex), both
// matching the coordinates ReadRange hands out: a 1-based row number
// and a zero-based column index.
func (c *Client) UpdateCell(ctx context.Context, sheetName string, rowIndex, columnIndex int, value string) error {
	cell := fmt.Sprintf("%s!%s%d", sheetName, ColumnLetter(columnIndex), rowIndex)
	_, err := c.service.Spreadsheets.Values.
		Update(c.spreadsheetId, cell, &sheetsv4.ValueRange{
			Values: [][]any{{value}},
		}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update cell %s: %w", cell, err)
	}
	return nil
}
