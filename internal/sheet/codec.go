// Package sheet converts between spreadsheet blobs and the in-memory table
// model, and renders the printable PDF report.
package sheet

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/AnaEHC/app-semaforos/internal/models"
)

var ErrNoSheet = errors.New("sheet: workbook has no sheets")

// Date layouts accepted on decode. Values are normalized to DD/MM/YYYY.
var dateLayouts = []string{
	models.DateLayout,
	"2/1/2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1-2-06 15:04",
}

// Decode reads the first sheet of an xlsx/xlsm blob: first row is the
// header, the rest are data rows. Ragged rows are padded to the header
// width; fully empty trailing rows are dropped.
func Decode(data []byte) (models.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return models.Table{}, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return models.Table{}, ErrNoSheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return models.Table{}, err
	}
	if len(rows) == 0 {
		return models.Table{}, nil
	}

	var columns []string
	for _, h := range rows[0] {
		columns = append(columns, strings.TrimSpace(h))
	}
	out := models.NewTable(columns...)

	for _, raw := range rows[1:] {
		cells := make([]models.Cell, len(columns))
		empty := true
		for i := range columns {
			if i >= len(raw) {
				break
			}
			cells[i] = ParseCell(raw[i])
			if !cells[i].IsEmpty() {
				empty = false
			}
		}
		if empty {
			continue
		}
		out.Rows = append(out.Rows, cells)
	}
	return out, nil
}

// ParseCell infers a tagged value from formatted cell text: booleans and
// dates first, then numbers, everything else as text. Leading-zero digit
// strings (client codes) stay text.
func ParseCell(s string) models.Cell {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return models.EmptyCell()
	}
	switch strings.ToUpper(trimmed) {
	case "TRUE":
		return models.BoolCell(true)
	case "FALSE":
		return models.BoolCell(false)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return models.DateCell(t)
		}
	}
	if len(trimmed) > 1 && trimmed[0] == '0' && !strings.ContainsAny(trimmed, "., ") {
		return models.TextCell(s)
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return models.NumberCell(n)
	}
	return models.TextCell(s)
}

// Encode writes the table as a single-sheet xlsx blob. Dates are written in
// their normalized DD/MM/YYYY text form so a round trip is lossless.
func Encode(t models.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	const sheetName = "Sheet1"

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, err
	}

	for r, row := range t.Rows {
		values := make([]interface{}, len(row))
		for i, cell := range row {
			values[i] = cellValue(cell)
		}
		ref, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, ref, &values); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cellValue(c models.Cell) interface{} {
	switch c.Kind {
	case models.KindText:
		return c.Text
	case models.KindNumber:
		return c.Number
	case models.KindDate:
		return c.Date.Format(models.DateLayout)
	case models.KindBool:
		return c.Bool
	default:
		return nil
	}
}
