package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"language-learner/internal/app/model"
)

func TestToExcel(t *testing.T) {
	out := filepath.Join(t.TempDir(), "catalog.xlsx")
	created := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	records := []model.CatalogRecord{
		{ID: 2, RunID: "r2", Course: "Arabic", Lesson: "lesson02.mp4", SourceKind: "youtube",
			Provider: "openai", Language: "ar", AudioFile: "lesson02.mp3", AudioDuration: 12.5,
			SegmentCount: 3, CreatedAt: created, Transcript: "مرحبا"},
		{ID: 1, RunID: "r1", Course: "Arabic", Lesson: "lesson01.mp4", HasError: true,
			ErrorMessage: "transcription failed", CreatedAt: created},
	}

	require.NoError(t, ToExcel(records, out))

	wb, err := xlsx.OpenFile(out)
	require.NoError(t, err)
	sheet, ok := wb.Sheet[SheetName]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "ID", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "Error Message", sheet.Rows[0].Cells[len(header)-1].Value)

	first := sheet.Rows[1].Cells
	assert.Equal(t, "2", first[0].Value)
	assert.Equal(t, "lesson02.mp4", first[3].Value)
	assert.Equal(t, "12.50", first[8].Value)
	assert.Equal(t, "2024-03-02T08:00:00Z", first[10].Value)
	assert.Equal(t, "مرحبا", first[11].Value)

	assert.Equal(t, "transcription failed", sheet.Rows[2].Cells[12].Value)
}

func TestToExcel_BadPath(t *testing.T) {
	err := ToExcel(nil, filepath.Join(t.TempDir(), "missing", "dir", "out.xlsx"))
	assert.Error(t, err)
}
