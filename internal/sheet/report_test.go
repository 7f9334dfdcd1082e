package sheet

import (
	"bytes"
	"testing"

	"github.com/AnaEHC/app-semaforos/internal/models"
)

func TestRenderReport(t *testing.T) {
	tbl := models.NewTable(models.ColCliente, models.ColCloser, models.ColEstado)
	tbl.AppendRow(models.TextCell("Talleres Pérez"), models.TextCell("Ana"), models.TextCell(""))
	tbl.AppendRow(models.TextCell("Acme S.L."), models.TextCell("Luis"), models.TextCell("PASA CENTRAL"))

	pdf, err := RenderReport(tbl)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("expected PDF output, got %q...", pdf[:8])
	}
}

func TestRenderReportNoColumns(t *testing.T) {
	if _, err := RenderReport(models.Table{}); err != ErrNoColumns {
		t.Fatalf("expected ErrNoColumns, got %v", err)
	}
}

func TestRenderReportManyRowsOverflows(t *testing.T) {
	small := models.NewTable(models.ColCliente)
	small.AppendRow(models.TextCell("cliente"))
	large := small.Clone()
	for i := 0; i < 100; i++ {
		large.AppendRow(models.TextCell("cliente"))
	}

	smallPDF, err := RenderReport(small)
	if err != nil {
		t.Fatalf("render small: %v", err)
	}
	largePDF, err := RenderReport(large)
	if err != nil {
		t.Fatalf("render large: %v", err)
	}

	// 100 rows at 10mm cannot fit one A4 landscape page.
	marker := []byte("/Type /Page")
	if bytes.Count(largePDF, marker) <= bytes.Count(smallPDF, marker) {
		t.Fatalf("expected overflow onto additional pages")
	}
}

func TestStripNonLatin1(t *testing.T) {
	if got := stripNonLatin1("Peña 🚦 2.0"); got != "Peña  2.0" {
		t.Fatalf("stripNonLatin1 = %q", got)
	}
}
