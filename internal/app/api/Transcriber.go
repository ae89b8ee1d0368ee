package api

import (
	"context"

	"language-learner/internal/app/model"
)

// Transcriber converts an audio file into a timed transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (*model.Transcript, error)
}

// Named is implemented by transcribers that report which backend they are.
type Named interface {
	Name() string
}
