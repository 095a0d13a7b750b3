package model

import "time"

// SessionPhase is a state of the review session machine
type SessionPhase string

const (
	PhaseLoading    SessionPhase = "loading"
	PhasePresenting SessionPhase = "presenting"
	PhaseRecorded   SessionPhase = "recorded"
	PhaseAdvancing  SessionPhase = "advancing"
	PhaseCompleted  SessionPhase = "completed"
)

// SessionState is the full state of one review session. It is an explicit
// value passed through the selector and controller; persistence is a side
// effect performed by the controller through a session store, never an ambient
// global.
type SessionState struct {
	ID        string       `json:"id" bson:"_id,omitempty"`
	Domain    string       `json:"domain" bson:"domain"`
	UserEmail string       `json:"userEmail" bson:"userEmail"`
	Phase     SessionPhase `json:"phase" bson:"phase"`

	// Pool is the eligibility-filtered, shuffled question pool fixed at start.
	Pool []Question `json:"pool" bson:"pool"`

	// GlobalCounts is the remote count snapshot taken at session start.
	GlobalCounts map[string]int `json:"globalCounts" bson:"globalCounts"`

	// CurrentIndex points into Pool; -1 when no question is presented.
	CurrentIndex int `json:"currentIndex" bson:"currentIndex"`

	// Completed holds IDs of questions recorded this session. Skipped
	// questions stay out of this set and remain assignable.
	Completed map[string]bool `json:"completed" bson:"completed"`

	// LocalCounts tracks per-question recordings made this session.
	LocalCounts map[string]int `json:"localCounts" bson:"localCounts"`

	// Recorded is the number of review records created this session.
	Recorded int `json:"recorded" bson:"recorded"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Current returns the question being presented, or nil.
func (s *SessionState) Current() *Question {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Pool) {
		return nil
	}
	return &s.Pool[s.CurrentIndex]
}

// RecordLocal increments the session-local counter for a question and marks it
// completed. Called by the controller only, after validation passes.
func (s *SessionState) RecordLocal(questionID string) {
	if s.LocalCounts == nil {
		s.LocalCounts = make(map[string]int)
	}
	if s.Completed == nil {
		s.Completed = make(map[string]bool)
	}
	s.LocalCounts[questionID]++
	s.Completed[questionID] = true
}

// Count returns both counters for a question.
func (s *SessionState) Count(questionID string) ReviewCount {
	return ReviewCount{
		Global: s.GlobalCounts[questionID],
		Local:  s.LocalCounts[questionID],
	}
}

// IsCompleted reports whether the question was recorded this session.
func (s *SessionState) IsCompleted(questionID string) bool {
	return s.Completed[questionID]
}
