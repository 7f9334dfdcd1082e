package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/AnaEHC/app-semaforos/internal/models"
	"github.com/AnaEHC/app-semaforos/internal/sheet"
)

// CloserBatch is one closer's records from a single commit.
type CloserBatch struct {
	Closer  string
	Records models.Table
}

type CommitResult struct {
	Assigned        int            `json:"assigned"`
	Pending         int            `json:"pending"`
	PerCloser       map[string]int `json:"per_closer"`
	NothingToAssign bool           `json:"nothing_to_assign"`
	BundleWarnings  []string       `json:"bundle_warnings,omitempty"`
}

// SplitAssignments partitions the candidate table. Rows whose CLOSER
// ASIGNADO cell is non-blank after trimming become assignment records: all
// fields copied, CLOSER set to the trimmed closer, ESTADO empty, and the
// working column dropped. The rest come back as the still-pending set, so
// nothing is lost.
func SplitAssignments(candidates models.Table) (records, pending models.Table) {
	recordCols := make([]string, 0, len(candidates.Columns)+2)
	for _, c := range candidates.Columns {
		if c != models.ColCloserAsignado {
			recordCols = append(recordCols, c)
		}
	}
	recordCols = append(recordCols, models.ColCloser, models.ColEstado)

	records = models.NewTable(recordCols...)
	pending = models.NewTable(candidates.Columns...)

	asgIdx := candidates.ColumnIndex(models.ColCloserAsignado)
	for _, row := range candidates.Rows {
		closer := ""
		if asgIdx >= 0 {
			closer = strings.TrimSpace(row[asgIdx].String())
		}
		if closer == "" {
			pending.Rows = append(pending.Rows, append([]models.Cell(nil), row...))
			continue
		}
		records.AppendRow()
		last := len(records.Rows) - 1
		for i, col := range candidates.Columns {
			if col == models.ColCloserAsignado {
				continue
			}
			records.Set(last, col, row[i])
		}
		records.Set(last, models.ColCloser, models.TextCell(closer))
		records.Set(last, models.ColEstado, models.EmptyCell())
	}
	return records, pending
}

// GroupByCloser splits records per closer identity, closers ordered by
// first appearance, rows keeping their relative order.
func GroupByCloser(records models.Table) []CloserBatch {
	idx := records.ColumnIndex(models.ColCloser)
	if idx < 0 {
		return nil
	}
	var batches []CloserBatch
	pos := map[string]int{}
	for _, row := range records.Rows {
		closer := strings.TrimSpace(row[idx].String())
		p, ok := pos[closer]
		if !ok {
			p = len(batches)
			pos[closer] = p
			batches = append(batches, CloserBatch{Closer: closer, Records: models.NewTable(records.Columns...)})
		}
		batches[p].Records.Rows = append(batches[p].Records.Rows, append([]models.Cell(nil), row...))
	}
	return batches
}

// CloserFolderName derives the deterministic per-closer export folder name.
func CloserFolderName(closer string) string {
	return "COMPARTIDO & " + closer
}

// CloserBundleName derives the per-closer export file name.
func CloserBundleName(closer string) string {
	return fmt.Sprintf("Asignaciones_%s.xlsx", closer)
}

// CommitAssignments commits every candidate annotated with a closer: the
// assignment store is extended with the new records (prior rows first) and
// overwritten, then each closer's bundle file is rewritten with exactly
// this batch's rows. The pending (unannotated) candidates are returned for
// the caller to keep presenting. A batch with no annotated row is a no-op.
//
// A store write failure fails the commit. A bundle write failure after the
// store write only leaves that bundle stale: the store is authoritative, so
// it is reported as a warning, not an error.
func (s *Service) CommitAssignments(ctx context.Context, candidates models.Table) (CommitResult, models.Table, error) {
	records, pending := SplitAssignments(candidates)
	result := CommitResult{
		Pending:   len(pending.Rows),
		PerCloser: map[string]int{},
	}
	if records.IsEmpty() {
		result.NothingToAssign = true
		return result, pending, nil
	}

	store := s.LoadStore(ctx)
	store.EnsureColumns(records.Columns...)
	store.Append(records)
	if err := s.SaveStore(ctx, store); err != nil {
		return CommitResult{}, candidates, fmt.Errorf("persist assignment store: %w", err)
	}

	batches := GroupByCloser(records)
	for _, b := range batches {
		result.PerCloser[b.Closer] = len(b.Records.Rows)
		result.Assigned += len(b.Records.Rows)
		if err := s.writeBundle(ctx, b); err != nil {
			s.Logger.Warn().Err(err).Str("closer", b.Closer).Msg("closer bundle write failed, bundle is stale")
			result.BundleWarnings = append(result.BundleWarnings,
				fmt.Sprintf("bundle for %s not updated: %v", b.Closer, err))
		}
	}
	return result, pending, nil
}

func (s *Service) writeBundle(ctx context.Context, b CloserBatch) error {
	folderID, err := s.Drive.EnsureFolder(ctx, CloserFolderName(b.Closer))
	if err != nil {
		return err
	}
	data, err := sheet.Encode(b.Records)
	if err != nil {
		return err
	}
	_, err = s.Drive.CreateOrReplace(ctx, folderID, CloserBundleName(b.Closer), data)
	return err
}
