package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"language-learner/internal/app/repository"
	"language-learner/internal/app/util/files"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS catalog (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id         TEXT    NOT NULL,
	course         TEXT    NOT NULL,
	lesson         TEXT    NOT NULL,
	source_kind    TEXT    NOT NULL DEFAULT '',
	audio_file     TEXT    NOT NULL DEFAULT '',
	audio_duration REAL    NOT NULL DEFAULT 0,
	language       TEXT    NOT NULL DEFAULT '',
	provider       TEXT    NOT NULL DEFAULT '',
	segment_count  INTEGER NOT NULL DEFAULT 0,
	transcript     TEXT    NOT NULL DEFAULT '',
	file_hash      TEXT    NOT NULL DEFAULT '',
	has_error      INTEGER NOT NULL DEFAULT 0,
	error_message  TEXT    NOT NULL DEFAULT '',
	created_at     TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_catalog_course_lesson ON catalog (course, lesson);
`

// SQLiteDB is the catalog stored in a local SQLite file.
type SQLiteDB struct {
	*repository.CommonDB
}

// Open opens (creating when needed) the catalog at dbFilePath.
func Open(ctx context.Context, dbFilePath string) (*SQLiteDB, error) {
	if err := files.EnsureDir(filepath.Dir(dbFilePath)); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=rwc&_busy_timeout=5000", dbFilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Parallel lessons write from several goroutines.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &SQLiteDB{CommonDB: repository.NewCommonDB(db)}, nil
}

var _ repository.CatalogDAO = (*SQLiteDB)(nil)
