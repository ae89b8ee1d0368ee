package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranscript_Normalize(t *testing.T) {
	tr := &Transcript{
		Segments: []Segment{
			{ID: 7, Start: 0, End: 1.5, Text: " Hola "},
			{ID: 9, Start: 1.5, End: 4, Text: ""},
			{ID: 3, Start: 4, End: 6.25, Text: "amigos"},
		},
	}
	tr.Normalize()

	assert.Equal(t, "Hola amigos", tr.Text)
	assert.Equal(t, 6.25, tr.Duration)
	assert.Equal(t, []int{0, 1, 2}, []int{tr.Segments[0].ID, tr.Segments[1].ID, tr.Segments[2].ID})
}

func TestTranscript_NormalizeKeepsText(t *testing.T) {
	tr := &Transcript{Text: "  full text\n", Duration: 10, Segments: []Segment{{End: 3, Text: "x"}}}
	tr.Normalize()

	assert.Equal(t, "full text", tr.Text)
	assert.Equal(t, 10.0, tr.Duration)
}
