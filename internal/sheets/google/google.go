package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"radicais/internal/core"
	ports "radicais/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client talks to the Google Sheets spreadsheet holding the two ledger
// worksheets. Reads fetch the whole worksheet; writes clear it and rewrite
// header plus rows, matching the snapshot semantics of the ledger store.
type Client struct {
	svc             *gsheet.Service
	spreadsheetID   string
	titheSheet      string
	attendanceSheet string
}

var _ ports.LedgerStore = (*Client)(nil)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus service-account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional worksheet names: DIZIMOS_SHEET_NAME, FREQUENCIA_SHEET_NAME.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	titheSheet := strings.TrimSpace(os.Getenv("DIZIMOS_SHEET_NAME"))
	if titheSheet == "" {
		titheSheet = ports.TitheTable
	}
	attendanceSheet := strings.TrimSpace(os.Getenv("FREQUENCIA_SHEET_NAME"))
	if attendanceSheet == "" {
		attendanceSheet = ports.AttendanceTable
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:             svc,
		spreadsheetID:   spreadsheetID,
		titheSheet:      titheSheet,
		attendanceSheet: attendanceSheet,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) ReadTithes(ctx context.Context) ([]core.TitheRow, error) {
	values, err := c.readSheet(ctx, c.titheSheet)
	if err != nil {
		return nil, err
	}
	return ports.ParseTitheRows(values)
}

func (c *Client) ReadAttendance(ctx context.Context) ([]core.AttendanceRow, error) {
	values, err := c.readSheet(ctx, c.attendanceSheet)
	if err != nil {
		return nil, err
	}
	return ports.ParseAttendanceRows(values)
}

func (c *Client) WriteTithes(ctx context.Context, rows []core.TitheRow) error {
	return c.overwriteSheet(ctx, c.titheSheet, ports.EncodeTitheRows(rows))
}

func (c *Client) WriteAttendance(ctx context.Context, rows []core.AttendanceRow) error {
	return c.overwriteSheet(ctx, c.attendanceSheet, ports.EncodeAttendanceRows(rows))
}

func (c *Client) readSheet(ctx context.Context, sheetName string) ([][]string, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:Z", sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return toStringTable(resp.Values), nil
}

// overwriteSheet replaces the full worksheet contents: clear, then one
// Update call with every row. Partial writes are not possible by design.
func (c *Client) overwriteSheet(ctx context.Context, sheetName string, table [][]string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	clearRng := fmt.Sprintf("%s!A:Z", sheetName)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRng, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", clearRng, err)
	}
	vr := &gsheet.ValueRange{Values: toAnyTable(table)}
	rng := fmt.Sprintf("%s!A1", sheetName)
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	slog.InfoContext(ctx, "Worksheet overwritten", "sheet", sheetName, "rows", len(table)-1)
	return nil
}

// EnsureWorksheets creates the two ledger worksheets when the spreadsheet
// does not have them yet. Used by the bootstrap command.
func (c *Client) EnsureWorksheets(ctx context.Context) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	existing := map[string]bool{}
	for _, s := range meta.Sheets {
		if s.Properties != nil {
			existing[s.Properties.Title] = true
		}
	}
	var requests []*gsheet.Request
	for _, name := range []string{c.titheSheet, c.attendanceSheet} {
		if existing[name] {
			continue
		}
		requests = append(requests, &gsheet.Request{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: name},
			},
		})
	}
	if len(requests) == 0 {
		return nil
	}
	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add worksheets: %w", err)
	}
	slog.InfoContext(ctx, "Created missing worksheets", "count", len(requests))
	return nil
}
