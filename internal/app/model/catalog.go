package model

import "time"

// CatalogRecord is one transcription attempt stored in the catalog database.
type CatalogRecord struct {
	ID            int       `json:"id"`
	RunID         string    `json:"run_id"`
	Course        string    `json:"course"`
	Lesson        string    `json:"lesson"`
	SourceKind    string    `json:"source_kind"`
	AudioFile     string    `json:"audio_file"`
	AudioDuration float64   `json:"audio_duration"`
	Language      string    `json:"language"`
	Provider      string    `json:"provider"`
	SegmentCount  int       `json:"segment_count"`
	Transcript    string    `json:"transcript"`
	FileHash      string    `json:"file_hash"`
	HasError      bool      `json:"has_error"`
	ErrorMessage  string    `json:"error_message"`
	CreatedAt     time.Time `json:"created_at"`
}
