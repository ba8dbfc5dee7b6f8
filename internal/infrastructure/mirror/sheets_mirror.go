package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	gapioption "google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"platecheck/internal/bootstrap/config"
	"platecheck/internal/bootstrap/logging"
	"platecheck/internal/errs"
	"platecheck/internal/ports"
)

// SheetsMirror appends one row per check to a Google Sheets worksheet. The
// service client is built lazily on first use so a misconfigured mirror only
// fails when actually invoked, never at bootstrap.
type SheetsMirror struct {
	cfg config.SheetsConfig

	initOnce sync.Once
	svc      *sheets.Service
	initErr  error
}

var _ ports.Mirror = (*SheetsMirror)(nil)

func NewSheetsMirror(cfg config.SheetsConfig) *SheetsMirror {
	return &SheetsMirror{cfg: cfg}
}

func (m *SheetsMirror) configured() bool {
	return strings.TrimSpace(m.cfg.Spreadsheet) != "" && strings.TrimSpace(m.cfg.CredentialsFile) != ""
}

func (m *SheetsMirror) Append(ctx context.Context, entry ports.MirrorEntry) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if !m.configured() {
		return ports.ErrMirrorNotConfigured
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "mirror.sheets"))

	m.initOnce.Do(func() {
		m.svc, m.initErr = newSheetsService(ctx, m.cfg.CredentialsFile)
	})
	if m.initErr != nil {
		return errs.Wrap(m.initErr, "build sheets client")
	}

	spreadsheetID := spreadsheetIDFromIdentifier(m.cfg.Spreadsheet)
	worksheet := strings.TrimSpace(m.cfg.Worksheet)
	if worksheet == "" {
		worksheet = "sheet1"
	}

	row := []interface{}{entry.Timestamp, entry.Branch, entry.ChefName, entry.DishName, entry.Score, entry.Notes}

	err := m.appendRow(ctx, spreadsheetID, worksheet, row)
	if isMissingWorksheet(err) {
		logging.Info(logCtx, "worksheet missing, creating it", slog.String("worksheet", worksheet))
		if addErr := m.addWorksheet(ctx, spreadsheetID, worksheet); addErr != nil {
			return errs.Wrapf(addErr, "add worksheet %q", worksheet)
		}
		err = m.appendRow(ctx, spreadsheetID, worksheet, row)
	}
	if err != nil {
		return errs.Wrap(err, "append row to sheet")
	}

	logging.Info(logCtx, "row mirrored", slog.String("worksheet", worksheet), slog.String("branch", entry.Branch))
	return nil
}

func (m *SheetsMirror) appendRow(ctx context.Context, spreadsheetID string, worksheet string, row []interface{}) error {
	_, err := m.svc.Spreadsheets.Values.
		Append(spreadsheetID, worksheet+"!A1", &sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func (m *SheetsMirror) addWorksheet(ctx context.Context, spreadsheetID string, worksheet string) error {
	_, err := m.svc.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: worksheet,
					GridProperties: &sheets.GridProperties{
						RowCount:    1000,
						ColumnCount: 12,
					},
				},
			},
		}},
	}).Context(ctx).Do()
	return err
}

func newSheetsService(ctx context.Context, credentialsFile string) (*sheets.Service, error) {
	raw, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, errs.Wrapf(err, "read credentials file %q", credentialsFile)
	}

	raw, err = normalizePrivateKey(raw)
	if err != nil {
		return nil, errs.Wrap(err, "normalize credentials")
	}

	jwtCfg, err := google.JWTConfigFromJSON(raw, sheets.SpreadsheetsScope, sheets.DriveScope)
	if err != nil {
		return nil, errs.Wrap(err, "parse service account credentials")
	}

	svc, err := sheets.NewService(ctx, gapioption.WithTokenSource(jwtCfg.TokenSource(ctx)))
	if err != nil {
		return nil, errs.Wrap(err, "create sheets service")
	}
	return svc, nil
}

// normalizePrivateKey repairs credentials where the PEM private key carries
// literal `\n` sequences instead of newlines, a common copy-paste artifact of
// secrets managers.
func normalizePrivateKey(raw []byte) ([]byte, error) {
	var creds map[string]any
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, fmt.Errorf("credentials are not valid JSON: %w", err)
	}

	pk, ok := creds["private_key"].(string)
	if !ok || !strings.Contains(pk, `\n`) {
		return raw, nil
	}

	creds["private_key"] = strings.ReplaceAll(pk, `\n`, "\n")
	return json.Marshal(creds)
}

// spreadsheetIDFromIdentifier accepts a full spreadsheet URL or a bare key.
func spreadsheetIDFromIdentifier(identifier string) string {
	trimmed := strings.TrimSpace(identifier)

	marker := "/spreadsheets/d/"
	idx := strings.Index(trimmed, marker)
	if idx < 0 {
		return trimmed
	}

	rest := trimmed[idx+len(marker):]
	if end := strings.IndexAny(rest, "/?#"); end >= 0 {
		rest = rest[:end]
	}
	return rest
}

func isMissingWorksheet(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == 400 && strings.Contains(apiErr.Message, "Unable to parse range")
}
