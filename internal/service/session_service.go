package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"sciannotate/internal/model"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrUnknownDomain    = errors.New("unknown domain")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionCompleted = errors.New("session is completed")
	ErrAlreadyRecorded  = errors.New("feedback already recorded for this question")
	ErrNotRecorded      = errors.New("record feedback before advancing")
	ErrSkipConfirmation = errors.New("skipping discards unsaved feedback and requires confirmation")
)

// ValidationError blocks the record transition and is surfaced to the user.
// The session stays in the presenting phase.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// RecordInput is the reviewer's feedback for the currently presented question.
type RecordInput struct {
	// Ratings and Comments are keyed by answer ID.
	Ratings  map[string]model.Rating `json:"ratings"`
	Comments map[string]string       `json:"comments"`

	// PreferredAnswer is required in preference domains.
	PreferredAnswer string `json:"preferredAnswer"`
	GeneralComments string `json:"generalComments"`
}

// SessionService orchestrates the review session state machine: load,
// present, record, advance or skip, complete. All session state lives in an
// explicit SessionState value persisted through the session store.
type SessionService struct {
	loader   Loader
	ledger   *Ledger
	selector *Selector
	sink     Sink
	store    SessionStore
	rng      *rand.Rand

	// Serializes state transitions; the random source is not safe for
	// concurrent use.
	mu sync.Mutex
}

// NewSessionService creates the session controller.
func NewSessionService(loader Loader, ledger *Ledger, selector *Selector, sink Sink, store SessionStore, rng *rand.Rand) *SessionService {
	return &SessionService{
		loader:   loader,
		ledger:   ledger,
		selector: selector,
		sink:     sink,
		store:    store,
		rng:      rng,
	}
}

// Start loads the question pool and the remote review status concurrently,
// filters the pool down to eligible questions, shuffles it once, and presents
// the first assignment. An empty filtered pool completes the session
// immediately. Load failures are fatal to the session and not retried.
func (s *SessionService) Start(ctx context.Context, domain, userEmail string) (*model.SessionState, error) {
	d := model.DomainBySlug(domain)
	if d == nil {
		return nil, ErrUnknownDomain
	}

	var (
		pool   []model.Question
		status *model.ReviewStatus
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pool, err = s.loader.Load(gctx, d.Name)
		return err
	})
	g.Go(func() error {
		// Degrades to an empty status internally; never fails the session.
		status = s.ledger.FetchRemoteStatus(gctx, d.Name, userEmail)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	eligible := make([]model.Question, 0, len(pool))
	for i := range pool {
		if s.ledger.IsEligible(&pool[i], status, nil) {
			eligible = append(eligible, pool[i])
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rng.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})

	now := time.Now().UTC()
	state := &model.SessionState{
		ID:           uuid.New().String(),
		Domain:       d.Slug,
		UserEmail:    userEmail,
		Phase:        model.PhaseLoading,
		Pool:         eligible,
		GlobalCounts: status.GlobalCounts,
		CurrentIndex: -1,
		Completed:    make(map[string]bool),
		LocalCounts:  make(map[string]int),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if idx := s.selector.Next(state); idx >= 0 {
		state.CurrentIndex = idx
		state.Phase = model.PhasePresenting
	} else {
		state.Phase = model.PhaseCompleted
	}

	log.Printf("[Session] started %s domain=%s pool=%d reviewed=%d", state.ID, d.Slug, len(eligible), status.UserReviewedCount)

	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return state, nil
}

// Get returns the current session state.
func (s *SessionService) Get(ctx context.Context, id string) (*model.SessionState, error) {
	state, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrSessionNotFound
	}
	return state, nil
}

// Record validates the reviewer's feedback for the current question and, on
// success, builds the review record, dispatches it to the submission sink
// fire-and-forget, and marks the question completed for this session. A
// validation failure leaves the session presenting the same question.
func (s *SessionService) Record(ctx context.Context, id string, input *RecordInput) (*model.ReviewRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch state.Phase {
	case model.PhaseCompleted:
		return nil, ErrSessionCompleted
	case model.PhaseRecorded:
		return nil, ErrAlreadyRecorded
	}

	d := model.DomainBySlug(state.Domain)
	if d == nil {
		return nil, ErrUnknownDomain
	}
	q := state.Current()
	if q == nil {
		return nil, ErrSessionCompleted
	}

	if err := validateInput(d, q, input); err != nil {
		return nil, err
	}

	record := buildRecord(d, state, q, input)

	// Fire-and-forget: the record is durable locally the moment validation
	// passes, independent of delivery. One attempt, errors logged only.
	go func(rec model.ReviewRecord) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Session] recovered from panic in submission: %v", r)
			}
		}()
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.sink.Submit(sendCtx, &rec); err != nil {
			log.Printf("[Session] submission failed for question %s: %v", rec.QuestionID, err)
		}
	}(*record)

	state.RecordLocal(q.ID)
	state.Recorded++
	state.Phase = model.PhaseRecorded
	state.UpdatedAt = time.Now().UTC()

	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return record, nil
}

// Advance moves from a recorded question to the next assignment, or to the
// completed state when the pool is exhausted. Advancing a completed session is
// idempotent.
func (s *SessionService) Advance(ctx context.Context, id string) (*model.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if state.Phase == model.PhaseCompleted {
		return state, nil
	}
	if state.Phase != model.PhaseRecorded {
		return nil, ErrNotRecorded
	}
	return s.advance(ctx, state)
}

// Skip abandons the current question without recording. When the reviewer has
// unsaved feedback, skipping must be confirmed first. Skipped questions are
// not marked completed and may be re-assigned when nothing else remains.
func (s *SessionService) Skip(ctx context.Context, id string, unsaved, confirmed bool) (*model.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if state.Phase == model.PhaseCompleted {
		return state, nil
	}
	if state.Phase == model.PhasePresenting && unsaved && !confirmed {
		return nil, ErrSkipConfirmation
	}
	return s.advance(ctx, state)
}

func (s *SessionService) advance(ctx context.Context, state *model.SessionState) (*model.SessionState, error) {
	state.Phase = model.PhaseAdvancing
	if idx := s.selector.Next(state); idx >= 0 {
		state.CurrentIndex = idx
		state.Phase = model.PhasePresenting
	} else {
		state.CurrentIndex = -1
		state.Phase = model.PhaseCompleted
		log.Printf("[Session] %s completed, %d records this session", state.ID, state.Recorded)
	}
	state.UpdatedAt = time.Now().UTC()

	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return state, nil
}

func validateInput(d *model.Domain, q *model.Question, input *RecordInput) error {
	if input == nil {
		return &ValidationError{Reason: "feedback is required"}
	}
	if d.Kind == model.DomainPreference {
		if input.PreferredAnswer == "" {
			return &ValidationError{Reason: "select your preferred answer first"}
		}
		if q.AnswerByID(input.PreferredAnswer) == nil {
			return &ValidationError{Reason: "preferred answer does not belong to this question"}
		}
	}
	for _, a := range q.Answers {
		rating, ok := input.Ratings[a.ID]
		if !ok || rating.Overall() == 0 {
			return &ValidationError{Reason: "provide an overall rating for all answers before submitting"}
		}
		if err := rating.Validate(d); err != nil {
			return &ValidationError{Reason: err.Error()}
		}
	}
	return nil
}

func buildRecord(d *model.Domain, state *model.SessionState, q *model.Question, input *RecordInput) *model.ReviewRecord {
	kind := model.KindForDomain(d)

	answers := make([]model.AnswerReview, 0, len(q.Answers))
	for _, a := range q.Answers {
		review := model.AnswerReview{
			AnswerID: a.ID,
			Label:    a.Label,
			Text:     a.Text,
			Ratings:  input.Ratings[a.ID],
			Comment:  input.Comments[a.ID],
		}
		if kind == model.RecordPreference {
			review.IsPreferred = a.ID == input.PreferredAnswer
		}
		answers = append(answers, review)
	}

	record := &model.ReviewRecord{
		ID:           uuid.New().String(),
		Kind:         kind,
		Timestamp:    time.Now().UTC(),
		Domain:       d.Name,
		UserEmail:    state.UserEmail,
		QuestionID:   q.ID,
		QuestionText: q.Text,
		QuestionType: q.QuestionType,
		Answers:      answers,
	}
	switch kind {
	case model.RecordPreference:
		record.PreferredAnswer = input.PreferredAnswer
		record.GeneralComments = input.GeneralComments
	default:
		record.PolymerDetails = q.PolymerDetails
	}
	return record
}
