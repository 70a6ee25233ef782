package server

import (
	"errors"
	"net/http"

	"github.com/example/aquascore/internal/session"
	"github.com/gin-gonic/gin"
)

type startSessionRequest struct {
	ParticipantID string `json:"participant_id"`
	Group         string `json:"group"`
}

type setScoresRequest struct {
	Content   *int `json:"content"`
	Aesthetic *int `json:"aesthetic"`
	Quality   *int `json:"quality"`
}

type sessionResponse struct {
	SessionID     string         `json:"session_id"`
	ParticipantID string         `json:"participant_id"`
	Group         string         `json:"group"`
	Status        session.Status `json:"status"`
	Index         int            `json:"index"`
	Total         int            `json:"total"`
	ImageName     string         `json:"image_name"`
	ImageURL      string         `json:"image_url"`
	Scores        session.Scores `json:"scores"`
}

func (s *Server) sessionResponse(state *session.State) sessionResponse {
	return sessionResponse{
		SessionID:     state.ID,
		ParticipantID: state.ParticipantID,
		Group:         state.Group,
		Status:        state.Status,
		Index:         state.Index,
		Total:         len(state.Assignment),
		ImageName:     state.CurrentImage(),
		ImageURL:      s.imageURL(state.CurrentImage()),
		Scores:        state.Scores,
	}
}

// respondSessionError maps controller errors onto HTTP statuses. Every
// failure is a passive inline notice for the UI; nothing here is fatal.
func respondSessionError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrBlankParticipant),
		errors.Is(err, session.ErrUnknownGroup),
		errors.Is(err, session.ErrInvalidScore):
		status = http.StatusBadRequest
	case errors.Is(err, session.ErrEmptyCorpus),
		errors.Is(err, session.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrScoresUntouched):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrStoreUnavailable):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// StartSession begins (or rejoins) the session for a participant and
// group, returning the resume position on their deterministic sequence.
func (s *Server) StartSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	state, err := s.manager.Start(req.ParticipantID, req.Group)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.sessionResponse(state))
}

func (s *Server) GetSession(c *gin.Context) {
	state, err := s.manager.Get(c.Param("id"))
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.sessionResponse(state))
}

// SetScores records confirmed slider values. Omitted fields stay
// unconfirmed; submit requires all three.
func (s *Server) SetScores(c *gin.Context) {
	var req setScoresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	state, err := s.manager.SetScores(c.Param("id"), req.Content, req.Aesthetic, req.Quality)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.sessionResponse(state))
}

// Submit persists the current rating and advances the session. A store
// failure keeps the session on the same image and reports 409 so the
// participant can retry.
func (s *Server) Submit(c *gin.Context) {
	state, err := s.manager.Submit(c.Param("id"))
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.sessionResponse(state))
}

func (s *Server) Prev(c *gin.Context) {
	state, err := s.manager.Prev(c.Param("id"))
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.sessionResponse(state))
}

// Progress reports how many images a participant has rated so far.
func (s *Server) Progress(c *gin.Context) {
	count, err := s.repo.CompletedCount(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"participant_id": c.Param("id"), "completed": count})
}
