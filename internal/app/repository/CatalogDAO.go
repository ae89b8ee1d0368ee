package repository

import (
	"context"

	"language-learner/internal/app/model"
)

// CatalogDAO stores one row per transcription attempt.
type CatalogDAO interface {
	Close() error

	Record(ctx context.Context, rec model.CatalogRecord) error

	GetAllByCourse(ctx context.Context, course string) ([]model.CatalogRecord, error)

	CheckIfLessonProcessed(ctx context.Context, course, lesson string) (bool, error)
}
