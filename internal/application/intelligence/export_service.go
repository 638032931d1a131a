package intelligence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/splitfin/backend/internal/domain/shared"
	"github.com/splitfin/backend/internal/infrastructure/export"
	"go.uber.org/zap"
)

// ExportKind names the listing being exported
type ExportKind string

const (
	ExportPopularity ExportKind = "popularity"
	ExportReorder    ExportKind = "reorder"
)

// ObjectStore uploads export files and presigns downloads
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	PresignGet(ctx context.Context, key string) (string, time.Time, error)
}

// ExportFile is a rendered export. Key, URL and ExpiresAt are set only when
// the file was uploaded to object storage.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
	Key         string
	URL         string
	ExpiresAt   time.Time
}

// Uploaded reports whether the file lives in object storage
func (f *ExportFile) Uploaded() bool {
	return f.Key != ""
}

// ExportService renders popularity and reorder listings as spreadsheets
type ExportService struct {
	popularity *PopularityService
	reorder    *ReorderService
	store      ObjectStore
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

// NewExportService creates a new ExportService. A nil store streams files to the caller.
func NewExportService(popularity *PopularityService, reorder *ReorderService, store ObjectStore, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		popularity: popularity,
		reorder:    reorder,
		store:      store,
		logger:     logger,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
}

// ExportPopularity renders the popularity listing
func (s *ExportService) ExportPopularity(ctx context.Context, q PopularityQuery, format export.Format) (*ExportFile, error) {
	page, err := s.popularity.ListForExport(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, ExportPopularity, format, export.PopularityTable(page.Items))
}

// ExportReorder renders the reorder alert listing
func (s *ExportService) ExportReorder(ctx context.Context, q ReorderQuery, format export.Format) (*ExportFile, error) {
	page, err := s.reorder.ListForExport(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, ExportReorder, format, export.ReorderTable(page.Items))
}

func (s *ExportService) render(ctx context.Context, kind ExportKind, format export.Format, table export.Table) (*ExportFile, error) {
	data, err := export.Encode(format, table)
	if err != nil {
		return nil, fmt.Errorf("render %s export: %w", kind, err)
	}

	now := s.now().UTC()
	file := &ExportFile{
		Filename:    fmt.Sprintf("%s-%s.%s", kind, now.Format("20060102-150405"), format.Extension()),
		ContentType: format.ContentType(),
		Data:        data,
	}
	if s.store == nil {
		return file, nil
	}

	key := fmt.Sprintf("exports/%s/%s/%s.%s", kind, now.Format("2006-01-02"), s.newID(), format.Extension())
	if err := s.store.Put(ctx, key, data, file.ContentType); err != nil {
		return nil, shared.WrapDomainError(shared.CodeServiceUnavailable, fmt.Sprintf("upload %s export", kind), err)
	}
	url, expiresAt, err := s.store.PresignGet(ctx, key)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeServiceUnavailable, fmt.Sprintf("presign %s export", kind), err)
	}
	s.logger.Info("export uploaded",
		zap.String("kind", string(kind)),
		zap.String("key", key),
		zap.Int("rows", len(table.Rows)),
	)

	file.Key = key
	file.URL = url
	file.ExpiresAt = expiresAt
	return file, nil
}
