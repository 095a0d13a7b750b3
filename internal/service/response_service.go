package service

import (
	"context"
	"log"
	"time"

	"sciannotate/internal/cache"
	"sciannotate/internal/model"
	"sciannotate/internal/repository"

	"github.com/google/uuid"
)

// ResponseService is the collection endpoint's write path: it persists review
// records and advances the review-count ledger.
type ResponseService struct {
	responseRepo repository.ResponseRepo
	ledgerCache  cache.LedgerCache
}

// NewResponseService creates a new response service
func NewResponseService(responseRepo repository.ResponseRepo, ledgerCache cache.LedgerCache) *ResponseService {
	return &ResponseService{
		responseRepo: responseRepo,
		ledgerCache:  ledgerCache,
	}
}

// Submit validates and stores a review record, marks the question reviewed
// for the user, and increments the question's review count. A repeat
// submission for the same (user, question) pair is stored for audit but does
// not advance the count a second time.
func (s *ResponseService) Submit(ctx context.Context, record *model.ReviewRecord) error {
	d := model.DomainBySlug(record.Domain)
	if d == nil {
		return ErrUnknownDomain
	}
	record.Domain = d.Name

	if record.QuestionID == "" {
		return &ValidationError{Reason: "questionId is required"}
	}
	if len(record.Answers) == 0 {
		return &ValidationError{Reason: "at least one answer review is required"}
	}
	for _, a := range record.Answers {
		if a.Ratings.Overall() == 0 {
			return &ValidationError{Reason: "every answer needs a non-zero overall rating"}
		}
	}
	if d.Kind == model.DomainPreference && record.PreferredAnswer == "" {
		return &ValidationError{Reason: "preferredAnswer is required for preference domains"}
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Kind == "" {
		record.Kind = model.KindForDomain(d)
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	repeat, err := s.responseRepo.Exists(ctx, d.Name, record.UserEmail, record.QuestionID)
	if err != nil {
		log.Printf("[Response] duplicate check failed for question %s: %v", record.QuestionID, err)
		repeat = false
	}

	if err := s.responseRepo.Create(ctx, record); err != nil {
		return err
	}

	if repeat {
		log.Printf("[Response] repeat submission for question %s by %s, count not advanced", record.QuestionID, record.UserEmail)
		return nil
	}

	if _, err := s.ledgerCache.IncrCount(ctx, d.Name, record.QuestionID); err != nil {
		log.Printf("[Response] failed to increment count for question %s: %v", record.QuestionID, err)
	}
	if record.UserEmail != "" {
		if err := s.ledgerCache.MarkUserReviewed(ctx, d.Name, record.UserEmail, record.QuestionID); err != nil {
			log.Printf("[Response] failed to mark reviewed for %s: %v", record.UserEmail, err)
		}
	}
	return nil
}
