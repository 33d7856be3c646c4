package repositories

import (
	"context"

	"comercia/internal/models"

	"github.com/google/uuid"
)

type ReconciliationRepository interface {
	Create(ctx context.Context, task *models.ReconciliationTask) error
	ListPending(ctx context.Context, maxAttempts, limit int) ([]*models.ReconciliationTask, error)
	MarkAttempt(ctx context.Context, id uuid.UUID, lastError string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type reconciliationRepo struct {
	db Database
}

func NewReconciliationRepo(db Database) ReconciliationRepository {
	return &reconciliationRepo{db: db}
}

func (r *reconciliationRepo) Create(ctx context.Context, task *models.ReconciliationTask) error {
	query := `
		INSERT INTO reconciliation_tasks (id, saga_id, artifact, artifact_id, store, attempts, last_error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, task.ID, task.SagaID, task.Artifact, task.ArtifactID, task.Store, task.Attempts, task.LastError)
	return err
}

func (r *reconciliationRepo) ListPending(ctx context.Context, maxAttempts, limit int) ([]*models.ReconciliationTask, error) {
	query := `
		SELECT id, saga_id, artifact, artifact_id, store, attempts, last_error, created_at, updated_at
		FROM reconciliation_tasks
		WHERE attempts < $1
		ORDER BY created_at ASC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, maxAttempts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.ReconciliationTask
	for rows.Next() {
		task := &models.ReconciliationTask{}
		if err := rows.Scan(&task.ID, &task.SagaID, &task.Artifact, &task.ArtifactID, &task.Store, &task.Attempts, &task.LastError, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *reconciliationRepo) MarkAttempt(ctx context.Context, id uuid.UUID, lastError string) error {
	query := `
		UPDATE reconciliation_tasks
		SET attempts = attempts + 1, last_error = $1, updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, query, lastError, id)
	return err
}

func (r *reconciliationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reconciliation_tasks WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
