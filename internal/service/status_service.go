package service

import (
	"context"
	"log"

	"sciannotate/internal/cache"
	"sciannotate/internal/model"
	"sciannotate/internal/repository"
)

// StatusService serves the remote review-status endpoint: per-question review
// counts and the caller's reviewed set for a domain. Counts come from the
// Redis ledger, falling back to a Mongo aggregation when the cache is cold.
type StatusService struct {
	ledgerCache  cache.LedgerCache
	responseRepo repository.ResponseRepo
}

// NewStatusService creates a new status service
func NewStatusService(ledgerCache cache.LedgerCache, responseRepo repository.ResponseRepo) *StatusService {
	return &StatusService{
		ledgerCache:  ledgerCache,
		responseRepo: responseRepo,
	}
}

// FetchStatus assembles the review status for a (domain, user) pair. The
// method satisfies the engine's status client interface, so a co-located
// deployment skips the HTTP round trip.
func (s *StatusService) FetchStatus(ctx context.Context, domain, userEmail string) (*model.ReviewStatus, error) {
	d := model.DomainBySlug(domain)
	if d == nil {
		return nil, ErrUnknownDomain
	}

	status := model.EmptyStatus()

	counts, err := s.ledgerCache.Counts(ctx, d.Name)
	if err != nil || len(counts) == 0 {
		if err != nil {
			log.Printf("[Status] redis counts unavailable for %s, falling back to mongo: %v", d.Slug, err)
		}
		counts, err = s.responseRepo.CountsByQuestion(ctx, d.Name)
		if err != nil {
			return nil, err
		}
		if warmErr := s.ledgerCache.Warm(ctx, d.Name, counts); warmErr != nil {
			log.Printf("[Status] failed to warm count cache for %s: %v", d.Slug, warmErr)
		}
	}
	status.GlobalCounts = counts

	reviewed, err := s.ledgerCache.UserReviewed(ctx, d.Name, userEmail)
	if err != nil {
		log.Printf("[Status] redis reviewed-set unavailable for %s, falling back to mongo: %v", d.Slug, err)
		reviewed, err = s.responseRepo.UserReviewed(ctx, d.Name, userEmail)
		if err != nil {
			return nil, err
		}
	}
	for _, id := range reviewed {
		status.UserReviewed[id] = true
	}
	status.UserReviewedCount = len(reviewed)

	return status, nil
}
