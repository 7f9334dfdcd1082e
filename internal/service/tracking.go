package service

import (
	"fmt"
	"strings"

	"github.com/AnaEHC/app-semaforos/internal/models"
)

// RowEdit is a tracked-record edit keyed by the row's ordinal in the full
// store snapshot. Only the status and closer columns are writable; every
// other column is locked.
type RowEdit struct {
	Row    int    `json:"row"`
	Estado string `json:"estado"`
	Closer string `json:"closer"`
}

// FilterActive returns the display view of the store and the ordinals of
// its rows in the full snapshot. With activeOnly set, records whose ESTADO
// upper-cases to FINALIZADO are excluded; unknown legacy status values are
// always kept. The input is never mutated.
func FilterActive(store models.Table, activeOnly bool) (models.Table, []int) {
	ordinals := make([]int, 0, len(store.Rows))
	idx := store.ColumnIndex(models.ColEstado)
	for r, row := range store.Rows {
		if activeOnly && idx >= 0 {
			estado := strings.ToUpper(strings.TrimSpace(row[idx].String()))
			if estado == models.EstadoFinalizado {
				continue
			}
		}
		ordinals = append(ordinals, r)
	}
	return store.Select(ordinals), ordinals
}

// ApplyTrackingEdits merges row edits into a clone of the full store
// snapshot. ESTADO is written as given (empty is a valid state, and legacy
// free-text values are tolerated); CLOSER is only overwritten with a
// non-blank value, since a record must never lose its closer identity.
// Editing a row outside the snapshot is an error: it means the caller's
// view went stale.
func ApplyTrackingEdits(full models.Table, edits []RowEdit) (models.Table, error) {
	out := full.Clone()
	out.EnsureColumns(models.ColCloser, models.ColEstado)
	for _, e := range edits {
		if e.Row < 0 || e.Row >= len(out.Rows) {
			return models.Table{}, fmt.Errorf("edit references row %d outside the store (%d rows)", e.Row, len(out.Rows))
		}
		out.Set(e.Row, models.ColEstado, textOrEmpty(e.Estado))
		if closer := strings.TrimSpace(e.Closer); closer != "" {
			out.Set(e.Row, models.ColCloser, models.TextCell(closer))
		}
	}
	return out, nil
}

// DeleteRows removes the marked ordinals from a clone of the full store
// snapshot, preserving the relative order of the remainder.
func DeleteRows(full models.Table, rows []int) (models.Table, error) {
	drop := make(map[int]bool, len(rows))
	for _, r := range rows {
		if r < 0 || r >= len(full.Rows) {
			return models.Table{}, fmt.Errorf("delete references row %d outside the store (%d rows)", r, len(full.Rows))
		}
		drop[r] = true
	}
	keep := make([]int, 0, len(full.Rows))
	for r := range full.Rows {
		if !drop[r] {
			keep = append(keep, r)
		}
	}
	return full.Select(keep), nil
}

func textOrEmpty(s string) models.Cell {
	if strings.TrimSpace(s) == "" {
		return models.EmptyCell()
	}
	return models.TextCell(s)
}
