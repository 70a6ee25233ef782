// Package session drives one participant's pass through their assigned
// image sequence. All per-session state lives in an explicit State value
// owned by the Manager; the assignment engine and the rating store stay
// stateless underneath it.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/example/aquascore/internal/assignment"
	"github.com/example/aquascore/internal/corpus"
	"github.com/example/aquascore/pkg/models"
	"github.com/google/uuid"
)

// Status is the lifecycle phase of a participant session.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusComplete   Status = "complete"
)

var (
	ErrBlankParticipant = errors.New("participant id must not be blank")
	ErrUnknownGroup     = errors.New("unknown group label")
	ErrEmptyCorpus      = errors.New("no images found for group")
	ErrNotFound         = errors.New("session not found")
	ErrInvalidScore     = errors.New("scores must be between 0 and 100")
	ErrScoresUntouched  = errors.New("all three scores must be confirmed before submitting")
	ErrStoreUnavailable = errors.New("saving the rating failed, please retry")
)

// Store is the slice of the rating repository the controller needs.
type Store interface {
	CompletedImages(userID string) map[string]bool
	SavedScores(userID, imageName string) (content, aesthetic, quality int)
	Upsert(userID, groupID, imageName string, content, aesthetic, quality int) bool
}

// Scores holds the three slider values for the current image.
type Scores struct {
	Content   int `json:"content"`
	Aesthetic int `json:"aesthetic"`
	Quality   int `json:"quality"`
}

// State is the session record for one (participant, group) pair. The
// assignment is computed once at Start and held fixed for the session's
// lifetime; recomputing it mid-session would reorder the remaining
// images under the participant's feet.
type State struct {
	ID            string
	ParticipantID string
	Group         string
	Assignment    []string
	Index         int
	Completed     map[string]bool
	Status        Status
	Scores        Scores
	touched       [3]bool
}

// CurrentImage returns the image the session is positioned on, or ""
// for an empty assignment.
func (s *State) CurrentImage() string {
	if len(s.Assignment) == 0 {
		return ""
	}
	return s.Assignment[s.Index]
}

// Manager owns all live sessions, keyed by session id and indexed by
// (participant, group) so a page reload rejoins the running session
// instead of reshuffling.
type Manager struct {
	mu         sync.Mutex
	store      Store
	provider   corpus.Provider
	groupCount int
	sessions   map[string]*State
	byPair     map[string]string // "participant\x00group" -> session id

	// OnComplete, when set, is invoked after the final image of a
	// session is rated.
	OnComplete func(participantID, group string, total int)
}

// NewManager creates a session manager
func NewManager(store Store, provider corpus.Provider, groupCount int) *Manager {
	return &Manager{
		store:      store,
		provider:   provider,
		groupCount: groupCount,
		sessions:   make(map[string]*State),
		byPair:     make(map[string]string),
	}
}

func pairKey(participantID, group string) string {
	return participantID + "\x00" + group
}

// Start begins a session for the participant in the given group, or
// rejoins the existing one for the same pair. The assignment and resume
// position follow the deterministic engine; the completed set is read
// once and cached on the session.
func (m *Manager) Start(participantID, group string) (*State, error) {
	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return nil, ErrBlankParticipant
	}
	if !models.ValidGroup(group, m.groupCount) {
		return nil, ErrUnknownGroup
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.byPair[pairKey(participantID, group)]; ok {
		return m.sessions[id], nil
	}

	images, err := m.provider.Images(group)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus for %s: %v", group, err)
	}
	if len(images) == 0 {
		return nil, ErrEmptyCorpus
	}

	assigned := assignment.Assign(participantID, images)
	completed := m.store.CompletedImages(participantID)

	state := &State{
		ID:            uuid.NewString(),
		ParticipantID: participantID,
		Group:         group,
		Assignment:    assigned,
		Index:         assignment.ResumeIndex(assigned, completed),
		Completed:     completed,
		Status:        StatusInProgress,
	}
	m.loadScoresLocked(state)

	m.sessions[state.ID] = state
	m.byPair[pairKey(participantID, group)] = state.ID
	return state, nil
}

// Get returns the session with the given id.
func (m *Manager) Get(sessionID string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(sessionID)
}

// SetScores records the slider values a participant has confirmed.
// Only non-nil values are applied; each one marks its slider as touched.
// Submitting requires all three to have been touched at least once.
func (m *Manager) SetScores(sessionID string, content, aesthetic, quality *int) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := m.getLocked(sessionID)
	if err != nil {
		return nil, err
	}
	for _, v := range []*int{content, aesthetic, quality} {
		if v != nil && !models.ValidScore(*v) {
			return nil, ErrInvalidScore
		}
	}
	if content != nil {
		state.Scores.Content = *content
		state.touched[0] = true
	}
	if aesthetic != nil {
		state.Scores.Aesthetic = *aesthetic
		state.touched[1] = true
	}
	if quality != nil {
		state.Scores.Quality = *quality
		state.touched[2] = true
	}
	return state, nil
}

// Submit persists the current scores for the current image. On success
// the session advances to the next image (or completes on the last one)
// with the sliders reset to neutral. On a store failure the session
// stays on the same image so the participant can retry; a failed write
// must never masquerade as progress.
func (m *Manager) Submit(sessionID string) (*State, error) {
	m.mu.Lock()
	state, err := m.getLocked(sessionID)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	if !(state.touched[0] && state.touched[1] && state.touched[2]) {
		m.mu.Unlock()
		return nil, ErrScoresUntouched
	}

	image := state.CurrentImage()
	saved := m.store.Upsert(state.ParticipantID, state.Group, image,
		state.Scores.Content, state.Scores.Aesthetic, state.Scores.Quality)
	if !saved {
		m.mu.Unlock()
		return nil, ErrStoreUnavailable
	}

	state.Completed[image] = true

	var completedNow bool
	if state.Index < len(state.Assignment)-1 {
		state.Index++
		m.resetScoresLocked(state)
	} else {
		completedNow = state.Status != StatusComplete
		state.Status = StatusComplete
	}
	participant, group, total := state.ParticipantID, state.Group, len(state.Assignment)
	m.mu.Unlock()

	if completedNow && m.OnComplete != nil {
		m.OnComplete(participant, group, total)
	}
	return state, nil
}

// Prev steps back one image. Always permitted down to index 0 and never
// touches stored records; the revisited image's saved scores are
// preloaded so the participant sees their prior rating.
func (m *Manager) Prev(sessionID string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := m.getLocked(sessionID)
	if err != nil {
		return nil, err
	}
	if state.Index > 0 {
		state.Index--
		state.Status = StatusInProgress
		m.loadScoresLocked(state)
	}
	return state, nil
}

func (m *Manager) getLocked(sessionID string) (*State, error) {
	state, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return state, nil
}

// loadScoresLocked prefills the sliders for the current image: the
// stored rating when one exists (already touched by definition), the
// neutral midpoint otherwise.
func (m *Manager) loadScoresLocked(state *State) {
	image := state.CurrentImage()
	if image != "" && state.Completed[image] {
		c, a, q := m.store.SavedScores(state.ParticipantID, image)
		state.Scores = Scores{Content: c, Aesthetic: a, Quality: q}
		state.touched = [3]bool{true, true, true}
		return
	}
	m.resetScoresLocked(state)
}

func (m *Manager) resetScoresLocked(state *State) {
	state.Scores = Scores{
		Content:   models.NeutralScore,
		Aesthetic: models.NeutralScore,
		Quality:   models.NeutralScore,
	}
	state.touched = [3]bool{}
}
