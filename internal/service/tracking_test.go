package service

import (
	"context"
	"testing"

	"github.com/AnaEHC/app-semaforos/internal/models"
)

func storeTable(estados ...string) models.Table {
	tbl := models.NewTable(models.ColCliente, models.ColCloser, models.ColEstado)
	for i, estado := range estados {
		tbl.AppendRow(
			models.TextCell("cliente-"+string(rune('a'+i))),
			models.TextCell("Ana"),
			models.TextCell(estado),
		)
	}
	return tbl
}

func TestFilterActiveExcludesFinalizado(t *testing.T) {
	store := storeTable("", "finalizado", "FINALIZADO", "PASA CENTRAL", "EN ESPERA")

	view, ordinals := FilterActive(store, true)
	if len(view.Rows) != 3 {
		t.Fatalf("expected 3 active rows, got %d", len(view.Rows))
	}
	want := []int{0, 3, 4}
	for i, o := range want {
		if ordinals[i] != o {
			t.Fatalf("ordinals = %v, want %v", ordinals, want)
		}
	}
	// Legacy free-text states stay visible.
	if got := view.Get(2, models.ColEstado).String(); got != "EN ESPERA" {
		t.Fatalf("legacy state dropped: %q", got)
	}
}

func TestFilterActiveDisabledReturnsAll(t *testing.T) {
	store := storeTable("", "FINALIZADO")
	view, ordinals := FilterActive(store, false)
	if len(view.Rows) != 2 || len(ordinals) != 2 {
		t.Fatalf("expected all rows, got %d", len(view.Rows))
	}
}

func TestFilterActiveDoesNotMutate(t *testing.T) {
	store := storeTable("", "FINALIZADO")
	before := store.Clone()
	FilterActive(store, true)
	if len(store.Rows) != len(before.Rows) {
		t.Fatalf("store mutated by filter")
	}
	for r := range store.Rows {
		if store.Get(r, models.ColEstado).String() != before.Get(r, models.ColEstado).String() {
			t.Fatalf("store cell mutated by filter")
		}
	}
}

func TestApplyTrackingEdits(t *testing.T) {
	store := storeTable("", "")

	edited, err := ApplyTrackingEdits(store, []RowEdit{
		{Row: 0, Estado: "FINALIZADO"},
		{Row: 1, Estado: "PASA CENTRAL", Closer: "Luis"},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := edited.Get(0, models.ColEstado).String(); got != "FINALIZADO" {
		t.Fatalf("row 0 ESTADO = %q", got)
	}
	// A blank closer in the edit leaves the identity untouched.
	if got := edited.Get(0, models.ColCloser).String(); got != "Ana" {
		t.Fatalf("row 0 CLOSER = %q, want unchanged", got)
	}
	if got := edited.Get(1, models.ColCloser).String(); got != "Luis" {
		t.Fatalf("row 1 CLOSER = %q", got)
	}
	// The input snapshot is untouched.
	if got := store.Get(0, models.ColEstado); !got.IsEmpty() {
		t.Fatalf("input snapshot mutated: %+v", got)
	}
}

func TestApplyTrackingEditsToleratesFreeText(t *testing.T) {
	store := storeTable("")
	edited, err := ApplyTrackingEdits(store, []RowEdit{{Row: 0, Estado: "llamar en julio"}})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := edited.Get(0, models.ColEstado).String(); got != "llamar en julio" {
		t.Fatalf("ESTADO = %q", got)
	}
}

func TestApplyTrackingEditsOutOfRange(t *testing.T) {
	store := storeTable("")
	if _, err := ApplyTrackingEdits(store, []RowEdit{{Row: 5}}); err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestDeleteRowsKeepsOrder(t *testing.T) {
	store := storeTable("", "", "", "", "")

	remaining, err := DeleteRows(store, []int{1, 3})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(remaining.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(remaining.Rows))
	}
	want := []string{"cliente-a", "cliente-c", "cliente-e"}
	for i, w := range want {
		if got := remaining.Get(i, models.ColCliente).String(); got != w {
			t.Fatalf("row %d = %q, want %q", i, got, w)
		}
	}
}

func TestDeleteRowsOutOfRange(t *testing.T) {
	store := storeTable("")
	if _, err := DeleteRows(store, []int{2}); err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestSaveStoreBackfillsMissingColumns(t *testing.T) {
	svc, mem := newTestService(t, nil)

	// A legacy store written without NOTAS.
	legacy := models.NewTable(models.ColCliente, models.ColCloser, models.ColEstado)
	legacy.AppendRow(models.TextCell("uno"), models.TextCell("Ana"), models.TextCell(""))
	legacy.AppendRow(models.TextCell("dos"), models.TextCell("Luis"), models.TextCell("FINALIZADO"))

	if err := svc.SaveStore(context.Background(), legacy); err != nil {
		t.Fatalf("save: %v", err)
	}

	store := decodeStore(t, mem)
	if !store.HasColumn(models.ColNotas) {
		t.Fatalf("NOTAS not back-filled: %v", store.Columns)
	}
	for r := range store.Rows {
		if got := store.Get(r, models.ColNotas); !got.IsEmpty() {
			t.Fatalf("row %d NOTAS = %+v, want empty", r, got)
		}
	}
	if len(store.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(store.Rows))
	}
}
