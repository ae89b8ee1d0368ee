package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"language-learner/internal/app/model"
)

// CommonDB implements CatalogDAO on top of database/sql using "?" placeholders.
type CommonDB struct {
	db *sql.DB
}

// NewCommonDB creates a new CommonDB instance
func NewCommonDB(db *sql.DB) *CommonDB {
	return &CommonDB{db: db}
}

var catalogColumns = []string{
	"run_id", "course", "lesson", "source_kind", "audio_file", "audio_duration",
	"language", "provider", "segment_count", "transcript", "file_hash",
	"has_error", "error_message", "created_at",
}

// Record inserts one transcription attempt.
func (c *CommonDB) Record(ctx context.Context, rec model.CatalogRecord) error {
	query := fmt.Sprintf(
		"INSERT INTO catalog (%s) VALUES (%s)",
		strings.Join(catalogColumns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(catalogColumns)), ", "),
	)

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	hasError := 0
	if rec.HasError {
		hasError = 1
	}

	_, err := c.db.ExecContext(ctx, query,
		rec.RunID, rec.Course, rec.Lesson, rec.SourceKind, rec.AudioFile, rec.AudioDuration,
		rec.Language, rec.Provider, rec.SegmentCount, rec.Transcript, rec.FileHash,
		hasError, rec.ErrorMessage, createdAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert failed: %w", err)
	}
	return nil
}

// GetAllByCourse returns every attempt recorded for course, newest first.
func (c *CommonDB) GetAllByCourse(ctx context.Context, course string) ([]model.CatalogRecord, error) {
	query := fmt.Sprintf(
		`SELECT id, %s FROM catalog WHERE course = ? ORDER BY created_at DESC, id DESC`,
		strings.Join(catalogColumns, ", "),
	)

	rows, err := c.db.QueryContext(ctx, query, course)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	records := make([]model.CatalogRecord, 0)
	for rows.Next() {
		var r model.CatalogRecord
		var hasError int
		err := rows.Scan(
			&r.ID, &r.RunID, &r.Course, &r.Lesson, &r.SourceKind, &r.AudioFile, &r.AudioDuration,
			&r.Language, &r.Provider, &r.SegmentCount, &r.Transcript, &r.FileHash,
			&hasError, &r.ErrorMessage, &r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		r.HasError = hasError != 0
		records = append(records, r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return records, nil
}

// CheckIfLessonProcessed reports whether lesson has a successful attempt.
func (c *CommonDB) CheckIfLessonProcessed(ctx context.Context, course, lesson string) (bool, error) {
	var count int
	const query = "SELECT COUNT(*) FROM catalog WHERE course = ? AND lesson = ? AND has_error = 0"

	if err := c.db.QueryRowContext(ctx, query, course, lesson).Scan(&count); err != nil {
		return false, fmt.Errorf("query failed: %w", err)
	}
	return count > 0, nil
}

// Close closes the database connection
func (c *CommonDB) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// DB returns the underlying database connection
func (c *CommonDB) DB() *sql.DB {
	return c.db
}
