package appointment

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"
)

const defaultSheetName = "TURNOS"

// SheetsRepository stores rows on a Google Sheets tab. Row 1 holds the
// header, so position p maps to sheet row p+2. Appends go through the
// Sheets append API and never reorder existing rows.
type SheetsRepository struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

func NewSheetsRepository(svc *sheets.Service, spreadsheetID, sheetName string) *SheetsRepository {
	if sheetName == "" {
		sheetName = defaultSheetName
	}
	return &SheetsRepository{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}
}

func (r *SheetsRepository) ReadAll(ctx context.Context) ([]Appointment, error) {
	resp, err := r.svc.Spreadsheets.Values.
		Get(r.spreadsheetID, fmt.Sprintf("%s!A2:J", r.sheetName)).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", r.sheetName, err)
	}

	result := make([]Appointment, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		result = append(result, FromRow(row))
	}
	return result, nil
}

func (r *SheetsRepository) Append(ctx context.Context, a Appointment) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{rowCells(a)}}
	_, err := r.svc.Spreadsheets.Values.
		Append(r.spreadsheetID, fmt.Sprintf("%s!A:J", r.sheetName), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", r.sheetName, err)
	}
	return nil
}

func (r *SheetsRepository) UpdateAt(ctx context.Context, pos int, a Appointment) error {
	if pos < 0 {
		return ErrNotFound
	}

	sheetRow := pos + 2
	vr := &sheets.ValueRange{Values: [][]interface{}{rowCells(a)}}
	_, err := r.svc.Spreadsheets.Values.
		Update(r.spreadsheetID, fmt.Sprintf("%s!A%d:J%d", r.sheetName, sheetRow, sheetRow), vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update sheet row %d: %w", sheetRow, err)
	}
	return nil
}

func rowCells(a Appointment) []interface{} {
	row := a.Row()
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}
