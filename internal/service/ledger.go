package service

import (
	"context"
	"log"

	"sciannotate/internal/model"
)

// Ledger combines the remote review-status snapshot with the session-local
// seen set to decide which questions may still be assigned.
type Ledger struct {
	client    StatusClient
	reviewCap int
}

// NewLedger creates a ledger over the given status client. A nil client means
// no remote ledger is configured; every fetch degrades to an empty status.
func NewLedger(client StatusClient, reviewCap int) *Ledger {
	if reviewCap <= 0 {
		reviewCap = model.DefaultReviewCap
	}
	return &Ledger{client: client, reviewCap: reviewCap}
}

// ReviewCap returns the per-question review cap.
func (l *Ledger) ReviewCap() int { return l.reviewCap }

// FetchRemoteStatus returns the remote status for a (domain, user) pair. Any
// failure degrades to an empty status: the user is treated as having reviewed
// nothing. Fail-open maximizes availability at the cost of possibly assigning
// a question past its cap while the remote ledger is unreachable.
func (l *Ledger) FetchRemoteStatus(ctx context.Context, domain, userEmail string) *model.ReviewStatus {
	if l.client == nil {
		return model.EmptyStatus()
	}
	status, err := l.client.FetchStatus(ctx, domain, userEmail)
	if err != nil {
		log.Printf("[Ledger] status fetch failed for domain %q, degrading to empty: %v", domain, err)
		return model.EmptyStatus()
	}
	return status
}

// IsEligible reports whether a question may be assigned: its global review
// count is under the cap, the user has not reviewed it, and it has not been
// completed in the current session.
func (l *Ledger) IsEligible(q *model.Question, status *model.ReviewStatus, session *model.SessionState) bool {
	if status.GlobalCount(q.ID) >= l.reviewCap {
		return false
	}
	if status.HasReviewed(q.ID) {
		return false
	}
	if session != nil && session.IsCompleted(q.ID) {
		return false
	}
	return true
}
