// Package scheduler runs the periodic export of collected ratings.
package scheduler

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/go-co-op/gocron"
)

// Exporter is the export entry point the scheduler drives.
type Exporter interface {
	Export(filePath, groupID string) (int, error)
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	exporter  Exporter
	exportDir string
}

// New creates a new scheduler instance
func New(exporter Exporter, exportDir string) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		exporter:  exporter,
		exportDir: exportDir,
	}
}

// Start schedules the export job every intervalHours hours and runs the
// scheduler in the background. A non-positive interval disables it.
func (s *Scheduler) Start(intervalHours int) {
	if intervalHours <= 0 {
		log.Println("Scheduled export disabled")
		return
	}
	s.scheduler.Every(intervalHours).Hours().Do(s.runExport)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RunManualExport writes a full dump immediately and returns its path.
func (s *Scheduler) RunManualExport() (string, error) {
	return s.exportTo(time.Now().UTC())
}

func (s *Scheduler) runExport() {
	if _, err := s.exportTo(time.Now().UTC()); err != nil {
		log.Printf("Scheduled export failed: %v", err)
	}
}

func (s *Scheduler) exportTo(now time.Time) (string, error) {
	path := filepath.Join(s.exportDir, fmt.Sprintf("annotations_%s.xlsx", now.Format("20060102_150405")))
	n, err := s.exporter.Export(path, "")
	if err != nil {
		return "", err
	}
	log.Printf("Exported %d annotations to %s", n, path)
	return path, nil
}
