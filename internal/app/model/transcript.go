package model

import "strings"

// Segment is one timed piece of a transcript. Start and End are seconds.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the output of a transcription backend.
type Transcript struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Duration float64   `json:"duration"`
	Segments []Segment `json:"segments"`
}

// Normalize fills Text from the segments when a backend returned only
// segments, and Duration from the last segment when it is unknown.
func (t *Transcript) Normalize() {
	if strings.TrimSpace(t.Text) == "" && len(t.Segments) > 0 {
		parts := make([]string, 0, len(t.Segments))
		for _, s := range t.Segments {
			if text := strings.TrimSpace(s.Text); text != "" {
				parts = append(parts, text)
			}
		}
		t.Text = strings.Join(parts, " ")
	}
	t.Text = strings.TrimSpace(t.Text)
	if t.Duration == 0 && len(t.Segments) > 0 {
		t.Duration = t.Segments[len(t.Segments)-1].End
	}
	for i := range t.Segments {
		t.Segments[i].ID = i
	}
}
