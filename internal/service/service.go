// Package service holds the assignment lifecycle engine: red-list
// aggregation, assignment commit, status tracking, and deletion. The pure
// table logic lives in free functions; Service orchestrates them against
// the remote store.
package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/AnaEHC/app-semaforos/internal/config"
	"github.com/AnaEHC/app-semaforos/internal/drive"
	"github.com/AnaEHC/app-semaforos/internal/models"
	"github.com/AnaEHC/app-semaforos/internal/sheet"
)

type Service struct {
	Drive  drive.Store
	Cfg    config.Config
	Logger zerolog.Logger
}

// LoadStore downloads and decodes the assignment store. Any failure yields
// an empty table: a store that was never written yet looks identical to a
// missing file, and the caller still has to work.
func (s *Service) LoadStore(ctx context.Context) models.Table {
	data, err := s.Drive.Download(ctx, s.Cfg.StoreFileID)
	if err != nil {
		s.Logger.Warn().Err(err).Msg("assignment store download failed, treating as empty")
		return models.NewTable(models.StoreColumns...)
	}
	t, err := sheet.Decode(data)
	if err != nil {
		s.Logger.Warn().Err(err).Msg("assignment store decode failed, treating as empty")
		return models.NewTable(models.StoreColumns...)
	}
	return t
}

// SaveStore back-fills the fixed descriptive columns and overwrites the
// assignment store wholesale.
func (s *Service) SaveStore(ctx context.Context, t models.Table) error {
	t = t.Clone()
	t.EnsureColumns(models.StoreColumns...)
	data, err := sheet.Encode(t)
	if err != nil {
		return err
	}
	return s.Drive.Replace(ctx, s.Cfg.StoreFileID, data)
}

// LoadSource locates and decodes one semáforo source table.
func (s *Service) LoadSource(ctx context.Context, src config.Source) (models.Table, drive.File, error) {
	folderID, err := s.Drive.FindFolder(ctx, src.Folder)
	if err != nil {
		return models.Table{}, drive.File{}, err
	}
	file, err := s.Drive.FindSpreadsheet(ctx, folderID, s.Cfg.SemaforoMarker)
	if err != nil {
		return models.Table{}, drive.File{}, err
	}
	data, err := s.Drive.Download(ctx, file.ID)
	if err != nil {
		return models.Table{}, file, err
	}
	t, err := sheet.Decode(data)
	if err != nil {
		return models.Table{}, file, err
	}
	return t, file, nil
}
