// Package export writes catalog rows to spreadsheets.
package export

import (
	"fmt"
	"time"

	"github.com/tealeg/xlsx"

	apperrors "language-learner/internal/app/errors"
	"language-learner/internal/app/model"
)

// SheetName is the worksheet holding the catalog rows.
const SheetName = "Transcriptions"

var header = []string{
	"ID", "Run", "Course", "Lesson", "Source", "Provider", "Language",
	"Audio File", "Audio Duration", "Segments", "Created At", "Transcription", "Error Message",
}

// ToExcel writes records to an xlsx workbook at outputFilePath.
func ToExcel(records []model.CatalogRecord, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(SheetName)
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindRender, "create worksheet")
	}

	headerRow := sheet.AddRow()
	for _, h := range header {
		headerRow.AddCell().Value = h
	}

	for _, r := range records {
		row := sheet.AddRow()
		row.AddCell().Value = fmt.Sprint(r.ID)
		row.AddCell().Value = r.RunID
		row.AddCell().Value = r.Course
		row.AddCell().Value = r.Lesson
		row.AddCell().Value = r.SourceKind
		row.AddCell().Value = r.Provider
		row.AddCell().Value = r.Language
		row.AddCell().Value = r.AudioFile
		row.AddCell().Value = fmt.Sprintf("%.2f", r.AudioDuration)
		row.AddCell().Value = fmt.Sprint(r.SegmentCount)
		row.AddCell().Value = r.CreatedAt.Format(time.RFC3339)
		row.AddCell().Value = r.Transcript
		row.AddCell().Value = r.ErrorMessage
	}

	if err := file.Save(outputFilePath); err != nil {
		return apperrors.Wrapf(err, apperrors.KindIO, "save %s", outputFilePath)
	}
	return nil
}
