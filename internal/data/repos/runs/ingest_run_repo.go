package runs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/moviegraph-backend/internal/domain"
	"github.com/yungbote/moviegraph-backend/internal/ingest"
	"github.com/yungbote/moviegraph-backend/internal/platform/logger"
)

type IngestRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *types.IngestRun) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.IngestRun, error)
	List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.IngestRun, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error
	MarkFinished(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string, fields map[string]any) error
}

// runRecorder adapts the repo to the batch driver's bookkeeping port.
type runRecorder struct {
	repo IngestRunRepo
}

func NewRunRecorder(repo IngestRunRepo) ingest.RunRecorder {
	return &runRecorder{repo: repo}
}

func (r *runRecorder) Create(ctx context.Context, run *types.IngestRun) error {
	return r.repo.Create(ctx, nil, run)
}

func (r *runRecorder) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.repo.UpdateFields(ctx, nil, id, fields)
}

func (r *runRecorder) MarkFinished(ctx context.Context, id uuid.UUID, status string, fields map[string]any) error {
	return r.repo.MarkFinished(ctx, nil, id, status, fields)
}

type ingestRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngestRunRepo(db *gorm.DB, log *logger.Logger) IngestRunRepo {
	return &ingestRunRepo{db: db, log: log.With("repo", "IngestRunRepo")}
}

func (r *ingestRunRepo) Create(ctx context.Context, tx *gorm.DB, run *types.IngestRun) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	if err := transaction.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to create ingest run: %w", err)
	}
	return nil
}

func (r *ingestRunRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.IngestRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var run types.IngestRun
	if err := transaction.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get ingest run %s: %w", id, err)
	}
	return &run, nil
}

func (r *ingestRunRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.IngestRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 50
	}
	var runs []*types.IngestRun
	if err := transaction.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingest runs: %w", err)
	}
	return runs, nil
}

func (r *ingestRunRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	fields["updated_at"] = time.Now().UTC()
	if err := transaction.WithContext(ctx).
		Model(&types.IngestRun{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return fmt.Errorf("failed to update ingest run %s: %w", id, err)
	}
	return nil
}

func (r *ingestRunRepo) MarkFinished(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string, fields map[string]any) error {
	if fields == nil {
		fields = map[string]any{}
	}
	now := time.Now().UTC()
	fields["status"] = status
	fields["finished_at"] = &now
	return r.UpdateFields(ctx, tx, id, fields)
}
