package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domainSchedule "github.com/AzielCF/az-xpost/domains/schedule"
	pkgError "github.com/AzielCF/az-xpost/pkg/error"
	"github.com/sirupsen/logrus"
)

// Fixed column mapping of the schedule sheet. This is a deployment contract
// with the sheet's editors, not part of the selection algorithm. Column 0 is
// a free-form label the operators use.
const (
	colScheduledAt = 1
	colParentText  = 2
	colReply1Text  = 3
	colReply2Text  = 4
	colImageURL    = 5
	colPostedFlag  = 6
)

type Client struct {
	sheetURL   string
	httpClient *http.Client
}

func NewClient(sheetURL string) *Client {
	return &Client{
		sheetURL:   sheetURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ExportURL rewrites a Google Sheets share URL into its CSV export form.
// URLs without the /d/<id>/ shape are passed through untouched so any plain
// CSV endpoint works as a schedule source.
func ExportURL(sheetURL string) string {
	idx := strings.Index(sheetURL, "/d/")
	if !strings.Contains(sheetURL, "docs.google.com") || idx < 0 {
		return sheetURL
	}
	id := sheetURL[idx+len("/d/"):]
	if end := strings.IndexAny(id, "/?#"); end >= 0 {
		id = id[:end]
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv", id)
}

// FetchRows downloads the schedule export and maps it to rows. The header
// row is discarded; row indexes are 1-based positions below it.
func (c *Client) FetchRows(ctx context.Context) ([]domainSchedule.Row, error) {
	exportURL := ExportURL(c.sheetURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return nil, pkgError.FetchError(fmt.Sprintf("invalid schedule source URL: %v", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgError.FetchError(fmt.Sprintf("failed to fetch schedule export: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgError.FetchError(fmt.Sprintf("schedule export returned status %d", resp.StatusCode))
	}

	rows, err := parseRows(resp.Body)
	if err != nil {
		return nil, err
	}

	logrus.WithField("rows", len(rows)).Debug("[SHEETS] Schedule export parsed")
	return rows, nil
}

func parseRows(r io.Reader) ([]domainSchedule.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // human-edited sheets have ragged rows

	records, err := reader.ReadAll()
	if err != nil {
		return nil, pkgError.ParseError(fmt.Sprintf("failed to parse schedule CSV: %v", err))
	}
	if len(records) == 0 {
		return nil, nil
	}

	var rows []domainSchedule.Row
	for i, record := range records[1:] { // header discarded
		rows = append(rows, domainSchedule.Row{
			Index:       i + 1,
			ScheduledAt: col(record, colScheduledAt, ""),
			ParentText:  col(record, colParentText, ""),
			Reply1Text:  col(record, colReply1Text, ""),
			Reply2Text:  col(record, colReply2Text, ""),
			ImageURL:    col(record, colImageURL, ""),
			PostedFlag:  col(record, colPostedFlag, "no"),
		})
	}
	return rows, nil
}

// col reads a cell by position, falling back when the trailing columns of a
// ragged row are missing.
func col(record []string, idx int, fallback string) string {
	if idx >= len(record) {
		return fallback
	}
	value := strings.TrimSpace(record[idx])
	if value == "" {
		return fallback
	}
	return value
}
