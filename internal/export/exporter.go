// Package export dumps collected rating records to Excel or CSV files
// for analysis outside the service.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/example/aquascore/pkg/models"
	"github.com/xuri/excelize/v2"
)

// Lister is the slice of the rating repository the exporter reads from.
type Lister interface {
	AllAnnotations() ([]models.Annotation, error)
	AnnotationsByGroup(groupID string) ([]models.Annotation, error)
}

var header = []string{
	"user_id", "group_id", "image_name",
	"score_content", "score_aesthetic", "score_quality", "timestamp",
}

// Exporter writes annotation dumps
type Exporter struct {
	lister Lister
}

// New creates an exporter over the given repository
func New(lister Lister) *Exporter {
	return &Exporter{lister: lister}
}

// Export writes all annotations (or one group's when groupID is
// non-empty) to filePath. The extension picks the format: .csv writes
// CSV, anything else an Excel workbook. Returns the number of data rows.
func (e *Exporter) Export(filePath, groupID string) (int, error) {
	annotations, err := e.load(groupID)
	if err != nil {
		return 0, err
	}

	if dir := filepath.Dir(filePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("failed to create export directory: %v", err)
		}
	}

	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		return exportCSV(filePath, annotations)
	}
	return exportExcel(filePath, annotations)
}

func (e *Exporter) load(groupID string) ([]models.Annotation, error) {
	if groupID != "" {
		return e.lister.AnnotationsByGroup(groupID)
	}
	return e.lister.AllAnnotations()
}

func exportCSV(filePath string, annotations []models.Annotation) (int, error) {
	file, err := os.Create(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %v", err)
	}
	for _, a := range annotations {
		record := []string{
			a.UserID, a.GroupID, a.ImageName,
			strconv.Itoa(a.ScoreContent), strconv.Itoa(a.ScoreAesthetic), strconv.Itoa(a.ScoreQuality),
			a.Timestamp.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return 0, fmt.Errorf("failed to write CSV row: %v", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush CSV: %v", err)
	}
	return len(annotations), nil
}

func exportExcel(filePath string, annotations []models.Annotation) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Annotations"
	f.SetSheetName("Sheet1", sheet)

	for col, name := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return 0, fmt.Errorf("failed to write header: %v", err)
		}
	}

	for row, a := range annotations {
		values := []interface{}{
			a.UserID, a.GroupID, a.ImageName,
			a.ScoreContent, a.ScoreAesthetic, a.ScoreQuality,
			a.Timestamp.UTC().Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return 0, fmt.Errorf("failed to write row %d: %v", row+2, err)
			}
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return 0, fmt.Errorf("failed to save Excel file: %v", err)
	}
	return len(annotations), nil
}
