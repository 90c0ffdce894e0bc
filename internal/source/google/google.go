// Package google reads the revenue table from a Google Sheets range.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"receita/internal/dataset"
	applog "receita/internal/log"
	"receita/internal/source"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// DefaultRange is read when no range is configured.
const DefaultRange = "Receita!A:H"

var _ source.RowsReader = (*Client)(nil)

func sheetsLogger(ctx context.Context) *applog.Logger {
	return applog.FromContext(ctx).WithComponent(applog.ComponentSheets)
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	readRange     string
}

// Options configure a Client. Credentials are resolved in order: inline JSON,
// file path, then GOOGLE_APPLICATION_CREDENTIALS.
type Options struct {
	SpreadsheetID   string
	Range           string
	CredentialsJSON string
	CredentialsFile string

	// ClientOptions are appended to the service options; tests use them to
	// point the client at a fake endpoint.
	ClientOptions []goption.ClientOption
}

// New creates a Sheets client for one spreadsheet range.
func New(ctx context.Context, opts Options) (*Client, error) {
	id := strings.TrimSpace(opts.SpreadsheetID)
	if id == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	rng := strings.TrimSpace(opts.Range)
	if rng == "" {
		rng = DefaultRange
	}

	svcOpts := opts.ClientOptions
	if len(svcOpts) == 0 {
		creds, err := credentials(ctx, opts)
		if err != nil {
			return nil, err
		}
		svcOpts = []goption.ClientOption{
			goption.WithCredentialsJSON(creds),
			goption.WithScopes(gsheet.SpreadsheetsReadonlyScope),
		}
	}
	svc, err := gsheet.NewService(ctx, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	sheetsLogger(ctx).InfoContext(ctx, "Google Sheets service created", "spreadsheet_id", id, "range", rng)
	return &Client{svc: svc, spreadsheetID: id, readRange: rng}, nil
}

// NewFromEnv creates a client from GOOGLE_SPREADSHEET_ID, GOOGLE_SHEET_RANGE and
// the service account variables.
func NewFromEnv(ctx context.Context) (*Client, error) {
	return New(ctx, Options{
		SpreadsheetID:   os.Getenv("GOOGLE_SPREADSHEET_ID"),
		Range:           os.Getenv("GOOGLE_SHEET_RANGE"),
		CredentialsJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		CredentialsFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
	})
}

func credentials(ctx context.Context, opts Options) ([]byte, error) {
	inline := strings.TrimSpace(opts.CredentialsJSON)
	file := strings.TrimSpace(opts.CredentialsFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		sheetsLogger(ctx).InfoContext(ctx, "Using inline JSON credentials")
		return []byte(inline), nil
	case file != "":
		sheetsLogger(ctx).InfoContext(ctx, "Reading credentials from file", "path", file)
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// ReadRows fetches the configured range. Values are requested unformatted so
// numeric money cells arrive as numbers; dates are requested as formatted
// strings so the day-first parser sees what the sheet shows.
func (c *Client) ReadRows(ctx context.Context) (*dataset.RawTable, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", c.readRange, err)
	}
	return dataset.FromValues(resp.Values)
}
