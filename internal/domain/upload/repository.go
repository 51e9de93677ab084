package upload

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrUploadNotFound = errors.New("upload not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, u *Upload) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO uploads (id, owner_user_id, kind, object_key, mime_type, status, created_at, updated_at)
		VALUES (:id, :owner_user_id, :kind, :object_key, :mime_type, :status, :created_at, :updated_at)
	`, u)
	return err
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Upload, error) {
	var u Upload
	err := r.db.GetContext(ctx, &u, `SELECT * FROM uploads WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUploadNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ClaimPending atomically claims the oldest unprocessed upload for the
// worker. SKIP LOCKED keeps multiple workers from grabbing the same row.
func (r *Repository) ClaimPending(ctx context.Context) (*Upload, error) {
	var u Upload
	err := r.db.GetContext(ctx, &u, `
		UPDATE uploads SET status = 'processing', updated_at = now()
		WHERE id = (
			SELECT id FROM uploads
			WHERE status = 'pending'
			ORDER BY created_at
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING *
	`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUploadNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) MarkProcessed(ctx context.Context, id uuid.UUID, width, height int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE uploads SET status = 'processed', width = $1, height = $2, updated_at = now()
		WHERE id = $3
	`, width, height, id)
	return err
}

func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE uploads SET status = 'failed', error = $1, updated_at = now()
		WHERE id = $2
	`, reason, id)
	return err
}
