package model

// ReviewStatus is the remote ledger snapshot for one (domain, user) pair:
// which questions the user already reviewed and how many reviews each question
// has accumulated across all users.
type ReviewStatus struct {
	UserReviewed      map[string]bool `json:"userReviewed"`
	GlobalCounts      map[string]int  `json:"reviewCounts"`
	UserReviewedCount int             `json:"userReviewedCount"`
}

// EmptyStatus returns a status that treats nothing as reviewed. Used when the
// remote ledger is unreachable (fail-open).
func EmptyStatus() *ReviewStatus {
	return &ReviewStatus{
		UserReviewed: make(map[string]bool),
		GlobalCounts: make(map[string]int),
	}
}

// HasReviewed reports whether the user already reviewed the question.
func (s *ReviewStatus) HasReviewed(questionID string) bool {
	return s.UserReviewed[questionID]
}

// GlobalCount returns the all-users review count for the question.
func (s *ReviewStatus) GlobalCount(questionID string) int {
	return s.GlobalCounts[questionID]
}

// ReviewCount carries both counters tracked for a question during a session.
// Global is the remote snapshot taken at session start; Local is the number of
// recordings made in this session. Which one drives selection is an explicit
// selector configuration, not an implicit choice.
type ReviewCount struct {
	Global int `json:"global"`
	Local  int `json:"local"`
}

// Effective returns the count as seen through the given source: the local
// session counter alone, or the remote snapshot advanced by this session's
// recordings.
func (c ReviewCount) Effective(source CountSource) int {
	if source == CountLocal {
		return c.Local
	}
	return c.Global + c.Local
}

// CountSource names which counter drives selector eligibility and priority
type CountSource string

const (
	CountLocal  CountSource = "local"  // Per-session recordings only
	CountGlobal CountSource = "global" // Remote snapshot plus session recordings
)
