package sheet

import (
	"bytes"
	"errors"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/AnaEHC/app-semaforos/internal/models"
)

var ErrNoColumns = errors.New("sheet: report needs at least one column")

const (
	reportFontSize = 8.0
	reportRowH     = 10.0
)

// RenderReport produces the tracking report: landscape A4, 8pt font, a
// bordered grid with one header row and one row per record, columns sized
// evenly across the page width. Rows that overflow the page continue on a
// new page. Non-latin1 runes are stripped, not transliterated.
func RenderReport(t models.Table) ([]byte, error) {
	if len(t.Columns) == 0 {
		return nil, ErrNoColumns
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", reportFontSize)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	left, top, right, bottom := pdf.GetMargins()
	colW := (pageW - left - right) / float64(len(t.Columns))
	limitY := pageH - bottom - reportRowH

	writeRow := func(values []string) {
		if pdf.GetY() > limitY {
			pdf.AddPage()
			pdf.SetY(top)
		}
		for _, v := range values {
			pdf.CellFormat(colW, reportRowH, tr(stripNonLatin1(v)), "1", 0, "", false, 0, "")
		}
		pdf.Ln(reportRowH)
	}

	writeRow(t.Columns)
	for _, row := range t.Rows {
		values := make([]string, len(t.Columns))
		for i := range t.Columns {
			if i < len(row) {
				values[i] = row[i].String()
			}
		}
		writeRow(values)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func stripNonLatin1(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r <= 0xFF {
			b.WriteRune(r)
		}
	}
	return b.String()
}
