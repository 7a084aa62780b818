// Package postgres records upload history when a database is
// configured. The dashboard works fully without it.
package postgres

import (
	"context"
	"time"

	"growthlens/internal/errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const uploadSchema = `
CREATE TABLE IF NOT EXISTS uploads (
	id UUID PRIMARY KEY,
	filename TEXT NOT NULL,
	rows INTEGER NOT NULL,
	cols INTEGER NOT NULL,
	numeric_cols INTEGER NOT NULL,
	stored_path TEXT NOT NULL DEFAULT '',
	uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// UploadRecord is one row of upload history.
type UploadRecord struct {
	ID          uuid.UUID `db:"id"`
	Filename    string    `db:"filename"`
	Rows        int       `db:"rows"`
	Cols        int       `db:"cols"`
	NumericCols int       `db:"numeric_cols"`
	StoredPath  string    `db:"stored_path"`
	UploadedAt  time.Time `db:"uploaded_at"`
}

// UploadRepository persists upload history in PostgreSQL.
type UploadRepository struct {
	db *sqlx.DB
}

// Connect opens the database and ensures the uploads table exists.
func Connect(ctx context.Context, databaseURL string) (*UploadRepository, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	if _, err := db.ExecContext(ctx, uploadSchema); err != nil {
		db.Close()
		return nil, errors.DatabaseError("failed to ensure uploads table", err)
	}
	return &UploadRepository{db: db}, nil
}

// Close releases the underlying connection pool.
func (r *UploadRepository) Close() error {
	return r.db.Close()
}

// Insert records one upload and returns the stored record.
func (r *UploadRepository) Insert(ctx context.Context, filename string, rows, cols, numericCols int, storedPath string) (*UploadRecord, error) {
	rec := &UploadRecord{
		ID:          uuid.New(),
		Filename:    filename,
		Rows:        rows,
		Cols:        cols,
		NumericCols: numericCols,
		StoredPath:  storedPath,
		UploadedAt:  time.Now().UTC(),
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO uploads (id, filename, rows, cols, numeric_cols, stored_path, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, rec.ID, rec.Filename, rec.Rows, rec.Cols, rec.NumericCols, rec.StoredPath, rec.UploadedAt)
	if err != nil {
		return nil, errors.DatabaseError("failed to record upload", err)
	}
	return rec, nil
}

// List returns the most recent uploads, newest first.
func (r *UploadRepository) List(ctx context.Context, limit int) ([]UploadRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	var records []UploadRecord
	err := r.db.SelectContext(ctx, &records, `
		SELECT id, filename, rows, cols, numeric_cols, stored_path, uploaded_at
		FROM uploads
		ORDER BY uploaded_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, errors.DatabaseError("failed to list uploads", err)
	}
	return records, nil
}
