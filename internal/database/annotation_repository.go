package database

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/example/aquascore/pkg/models"
	"github.com/jmoiron/sqlx"
)

// AnnotationRepository handles database operations for rating records.
// Read and write failures degrade to empty / sentinel results so that a
// transient store outage never takes a participant session down with it.
type AnnotationRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewAnnotationRepository creates a new repository instance
func NewAnnotationRepository(db *sqlx.DB, timeout time.Duration) *AnnotationRepository {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &AnnotationRepository{db: db, timeout: timeout}
}

// lockRetries is how many times a write is retried when sqlite reports
// the database file as locked by another process.
const lockRetries = 5

// EnsureSchema creates the annotations table if it is absent. It is safe
// to call from multiple processes; IF NOT EXISTS makes the race benign.
func (r *AnnotationRepository) EnsureSchema() error {
	ctx, cancel := r.opContext()
	defer cancel()

	var schema string
	if r.db.DriverName() == "postgres" {
		schema = `
			CREATE TABLE IF NOT EXISTS annotations (
				user_id         VARCHAR(50)  NOT NULL,
				group_id        VARCHAR(50)  NOT NULL,
				image_name      VARCHAR(255) NOT NULL,
				score_content   INT          NOT NULL,
				score_aesthetic INT          NOT NULL,
				score_quality   INT          NOT NULL,
				timestamp       TIMESTAMP    NOT NULL,
				PRIMARY KEY (user_id, image_name)
			)
		`
	} else {
		schema = `
			CREATE TABLE IF NOT EXISTS annotations (
				user_id         TEXT     NOT NULL,
				group_id        TEXT     NOT NULL,
				image_name      TEXT     NOT NULL,
				score_content   INTEGER  NOT NULL,
				score_aesthetic INTEGER  NOT NULL,
				score_quality   INTEGER  NOT NULL,
				timestamp       DATETIME NOT NULL,
				PRIMARY KEY (user_id, image_name)
			)
		`
	}

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create annotations table: %v", err)
	}
	return nil
}

// CompletedImages returns the set of image names the participant has
// already rated. On any store error it returns an empty set: the session
// degrades to "start over" visibility instead of failing.
func (r *AnnotationRepository) CompletedImages(userID string) map[string]bool {
	ctx, cancel := r.opContext()
	defer cancel()

	query := r.rebind("SELECT image_name FROM annotations WHERE user_id = ?")
	var names []string
	if err := r.db.SelectContext(ctx, &names, query, userID); err != nil {
		log.Printf("completed_images lookup failed for %q: %v", userID, err)
		return map[string]bool{}
	}

	completed := make(map[string]bool, len(names))
	for _, n := range names {
		completed[n] = true
	}
	return completed
}

// SavedScores returns the stored scores for one (participant, image)
// pair, or the neutral (50, 50, 50) when no record exists or the lookup
// fails. Used to prefill the sliders when a participant revisits an image.
func (r *AnnotationRepository) SavedScores(userID, imageName string) (content, aesthetic, quality int) {
	ctx, cancel := r.opContext()
	defer cancel()

	query := r.rebind(`
		SELECT score_content, score_aesthetic, score_quality
		FROM annotations WHERE user_id = ? AND image_name = ?
	`)
	row := r.db.QueryRowContext(ctx, query, userID, imageName)
	if err := row.Scan(&content, &aesthetic, &quality); err != nil {
		return models.NeutralScore, models.NeutralScore, models.NeutralScore
	}
	return content, aesthetic, quality
}

// Upsert writes or replaces the rating record for (userID, imageName)
// with the given scores and the current time. Reports success; it never
// panics on a store error, the caller decides whether to retry.
func (r *AnnotationRepository) Upsert(userID, groupID, imageName string, content, aesthetic, quality int) bool {
	now := time.Now().UTC()

	var query string
	if r.db.DriverName() == "postgres" {
		query = `
			INSERT INTO annotations
				(user_id, group_id, image_name, score_content, score_aesthetic, score_quality, timestamp)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (user_id, image_name) DO UPDATE SET
				group_id = EXCLUDED.group_id,
				score_content = EXCLUDED.score_content,
				score_aesthetic = EXCLUDED.score_aesthetic,
				score_quality = EXCLUDED.score_quality,
				timestamp = EXCLUDED.timestamp
		`
	} else {
		query = `
			INSERT OR REPLACE INTO annotations
				(user_id, group_id, image_name, score_content, score_aesthetic, score_quality, timestamp)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`
	}

	for attempt := 0; attempt < lockRetries; attempt++ {
		ctx, cancel := r.opContext()
		_, err := r.db.ExecContext(ctx, query, userID, groupID, imageName, content, aesthetic, quality, now)
		cancel()
		if err == nil {
			return true
		}
		// Another writer holds the sqlite file; back off and retry.
		if strings.Contains(err.Error(), "database is locked") {
			time.Sleep(time.Duration(attempt+1) * 100 * time.Millisecond)
			continue
		}
		log.Printf("upsert failed for (%q, %q): %v", userID, imageName, err)
		return false
	}
	log.Printf("upsert gave up after %d lock retries for (%q, %q)", lockRetries, userID, imageName)
	return false
}

// CompletedCount returns how many images the participant has rated.
func (r *AnnotationRepository) CompletedCount(userID string) (int, error) {
	ctx, cancel := r.opContext()
	defer cancel()

	var count int
	query := r.rebind("SELECT COUNT(*) FROM annotations WHERE user_id = ?")
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count annotations: %v", err)
	}
	return count, nil
}

// AnnotationsByGroup returns every rating record for one group, ordered
// for stable export output.
func (r *AnnotationRepository) AnnotationsByGroup(groupID string) ([]models.Annotation, error) {
	ctx, cancel := r.opContext()
	defer cancel()

	var annotations []models.Annotation
	query := r.rebind(`
		SELECT user_id, group_id, image_name, score_content, score_aesthetic, score_quality, timestamp
		FROM annotations WHERE group_id = ?
		ORDER BY user_id, image_name
	`)
	if err := r.db.SelectContext(ctx, &annotations, query, groupID); err != nil {
		return nil, fmt.Errorf("failed to get annotations by group: %v", err)
	}
	return annotations, nil
}

// AllAnnotations returns every rating record in the store.
func (r *AnnotationRepository) AllAnnotations() ([]models.Annotation, error) {
	ctx, cancel := r.opContext()
	defer cancel()

	var annotations []models.Annotation
	query := `
		SELECT user_id, group_id, image_name, score_content, score_aesthetic, score_quality, timestamp
		FROM annotations
		ORDER BY group_id, user_id, image_name
	`
	if err := r.db.SelectContext(ctx, &annotations, query); err != nil {
		return nil, fmt.Errorf("failed to get annotations: %v", err)
	}
	return annotations, nil
}

func (r *AnnotationRepository) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (r *AnnotationRepository) rebind(query string) string {
	if r.db.DriverName() == "postgres" {
		return sqlx.Rebind(sqlx.DOLLAR, query)
	}
	return query
}
