package models

import "time"

// Annotation is one participant's rating of one image.
// There is at most one row per (user_id, image_name) pair; a re-rating
// replaces the previous row entirely.
type Annotation struct {
	UserID         string    `json:"user_id" db:"user_id"`
	GroupID        string    `json:"group_id" db:"group_id"`
	ImageName      string    `json:"image_name" db:"image_name"`
	// Scores are on the study's 0-100 scale.
	ScoreContent   int       `json:"score_content" db:"score_content"`
	ScoreAesthetic int       `json:"score_aesthetic" db:"score_aesthetic"`
	ScoreQuality   int       `json:"score_quality" db:"score_quality"`
	Timestamp      time.Time `json:"timestamp" db:"timestamp"`
}

// NeutralScore is the slider midpoint shown before a participant has
// rated an image, and the sentinel returned when no stored rating exists.
const NeutralScore = 50

// ValidScore reports whether v is inside the rating scale.
func ValidScore(v int) bool {
	return v >= 0 && v <= 100
}
