package service

import (
	"context"
	"strings"

	"github.com/AnaEHC/app-semaforos/internal/models"
)

// FilterAtRisk keeps the rows whose SEMAFORO cell, trimmed and upper-cased,
// equals the at-risk token. Tables without the column yield no rows.
func FilterAtRisk(t models.Table) models.Table {
	out := models.NewTable(t.Columns...)
	idx := t.ColumnIndex(models.ColSemaforo)
	if idx < 0 {
		return out
	}
	for _, row := range t.Rows {
		color := strings.ToUpper(strings.TrimSpace(row[idx].String()))
		if color == models.SemaforoRojo {
			out.Rows = append(out.Rows, append([]models.Cell(nil), row...))
		}
	}
	return out
}

// StampSource writes the source label into the CALL column of every row,
// creating the column if the source table lacks it.
func StampSource(t *models.Table, label string) {
	t.EnsureColumns(models.ColCall)
	for i := range t.Rows {
		t.Set(i, models.ColCall, models.TextCell(label))
	}
}

// AggregateRedList builds the candidate table: for every configured source,
// locate its folder and spreadsheet, decode, keep the ROJO rows, stamp the
// provenance, and concatenate in source order. A source that cannot be
// resolved or decoded is skipped with a warning; the aggregation never
// fails outright. The result always carries an empty CLOSER ASIGNADO
// column, even when no source yielded candidates.
func (s *Service) AggregateRedList(ctx context.Context) (models.Table, error) {
	sources, err := s.Cfg.Sources()
	if err != nil {
		return models.Table{}, err
	}

	out := models.Table{}
	for _, src := range sources {
		t, file, err := s.LoadSource(ctx, src)
		if err != nil {
			s.Logger.Warn().Err(err).Str("source", src.Label).Str("folder", src.Folder).
				Msg("semaforo source skipped")
			continue
		}
		if !t.HasColumn(models.ColSemaforo) {
			s.Logger.Warn().Str("source", src.Label).Str("file", file.Name).
				Msg("semaforo column missing, source skipped")
			continue
		}
		reds := FilterAtRisk(t)
		if reds.IsEmpty() {
			continue
		}
		StampSource(&reds, src.Label)
		out.Append(reds)
	}

	if len(out.Columns) == 0 {
		out = models.NewTable(models.SourceColumns...)
	}
	out.EnsureColumns(models.ColCloserAsignado)
	return out, nil
}
