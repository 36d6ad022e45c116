package rowstore

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Sheets implements Store on top of one worksheet of a Google Sheets
// spreadsheet. The first row is the header and defines column order; the
// first header cell is the key column. The Sheets API offers exactly what
// the contract promises and no more: per-row writes are atomic, everything
// else is a scan.
type Sheets struct {
	svc           *sheets.Service
	spreadsheetID string
	title         string
	sheetID       int64
	headers       []string
}

// NewSheetsService builds the shared Sheets API client. Credentials file may
// be empty, in which case application default credentials are used.
func NewSheetsService(ctx context.Context, credentialsFile string) (*sheets.Service, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	return svc, nil
}

// NewSheets opens one worksheet, reading its numeric sheet ID and header row
// once at construction. The header must match the caller's schema exactly: a
// worksheet whose columns drifted from the canonical set would otherwise
// silently mis-map every cell, so it is rejected here as a deployment error
// rather than failing obscurely on first write.
func NewSheets(ctx context.Context, svc *sheets.Service, spreadsheetID, title string, schema []string) (*Sheets, error) {
	meta, err := svc.Spreadsheets.Get(spreadsheetID).Fields("sheets(properties(sheetId,title))").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet metadata: %w", err)
	}
	var sheetID int64 = -1
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			sheetID = sh.Properties.SheetId
			break
		}
	}
	if sheetID < 0 {
		return nil, fmt.Errorf("worksheet %q not found in spreadsheet", title)
	}

	header, err := svc.Spreadsheets.Values.Get(spreadsheetID, fmt.Sprintf("'%s'!1:1", title)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read header row of %q: %w", title, err)
	}
	if len(header.Values) == 0 || len(header.Values[0]) == 0 {
		return nil, fmt.Errorf("worksheet %q has no header row", title)
	}
	headers := make([]string, len(header.Values[0]))
	for i, cell := range header.Values[0] {
		headers[i] = fmt.Sprint(cell)
	}
	if err := validateHeader(title, schema, headers); err != nil {
		return nil, err
	}

	return &Sheets{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		title:         title,
		sheetID:       sheetID,
		headers:       headers,
	}, nil
}

// validateHeader checks the worksheet's header row against the expected
// schema, column for column in order.
func validateHeader(title string, schema, headers []string) error {
	if len(headers) != len(schema) {
		return fmt.Errorf("worksheet %q has %d header columns, schema expects %d",
			title, len(headers), len(schema))
	}
	for i, want := range schema {
		if headers[i] != want {
			return fmt.Errorf("worksheet %q header column %d is %q, schema expects %q",
				title, i+1, headers[i], want)
		}
	}
	return nil
}

func (s *Sheets) ListRows(ctx context.Context) ([]Row, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.dataRange()).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list rows of %q: %w", s.title, err)
	}
	rows := make([]Row, 0, len(resp.Values))
	for _, values := range resp.Values {
		rows = append(rows, s.rowFromValues(values))
	}
	return rows, nil
}

func (s *Sheets) FindRow(ctx context.Context, key string) (Row, error) {
	row, _, err := s.findRow(ctx, key)
	return row, err
}

func (s *Sheets) AppendRow(ctx context.Context, row Row) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{s.valuesFromRow(row)}}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.dataRange(), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row to %q: %w", s.title, err)
	}
	return nil
}

func (s *Sheets) ReplaceRow(ctx context.Context, key string, row Row) error {
	_, rowNum, err := s.findRow(ctx, key)
	if err != nil {
		return err
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{s.valuesFromRow(row)}}
	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, fmt.Sprintf("'%s'!A%d", s.title, rowNum), vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("replace row %d of %q: %w", rowNum, s.title, err)
	}
	return nil
}

func (s *Sheets) DeleteRow(ctx context.Context, key string) error {
	_, rowNum, err := s.findRow(ctx, key)
	if err != nil {
		return err
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    s.sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowNum - 1), // 0-based, inclusive
					EndIndex:   int64(rowNum),     // exclusive
				},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d of %q: %w", rowNum, s.title, err)
	}
	return nil
}

func (s *Sheets) ListKeyColumn(ctx context.Context) ([]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, fmt.Sprintf("'%s'!A2:A", s.title)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list key column of %q: %w", s.title, err)
	}
	keys := make([]string, 0, len(resp.Values))
	for _, values := range resp.Values {
		if len(values) == 0 {
			keys = append(keys, "")
			continue
		}
		keys = append(keys, fmt.Sprint(values[0]))
	}
	return keys, nil
}

// findRow scans for the key in the key column and returns the row plus its
// 1-based sheet row number (header is row 1, first data row is 2).
func (s *Sheets) findRow(ctx context.Context, key string) (Row, int, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.dataRange()).Context(ctx).Do()
	if err != nil {
		return nil, 0, fmt.Errorf("scan %q for key: %w", s.title, err)
	}
	for i, values := range resp.Values {
		if len(values) > 0 && fmt.Sprint(values[0]) == key {
			return s.rowFromValues(values), i + 2, nil
		}
	}
	return nil, 0, ErrRowNotFound
}

func (s *Sheets) dataRange() string {
	return fmt.Sprintf("'%s'!A2:%s", s.title, columnLetter(len(s.headers)))
}

func (s *Sheets) rowFromValues(values []interface{}) Row {
	row := make(Row, len(s.headers))
	for i, header := range s.headers {
		if i < len(values) {
			row[header] = fmt.Sprint(values[i])
		}
		// Short rows leave trailing columns absent; readers default them.
	}
	return row
}

func (s *Sheets) valuesFromRow(row Row) []interface{} {
	values := make([]interface{}, len(s.headers))
	for i, header := range s.headers {
		values[i] = row[header]
	}
	return values
}

// columnLetter converts a 1-based column count to its A1-notation letter.
func columnLetter(n int) string {
	letters := ""
	for n > 0 {
		n--
		letters = string(rune('A'+n%26)) + letters
		n /= 26
	}
	return letters
}
