package service

import (
	"context"
	"testing"
	"time"

	"sciannotate/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockResponseRepo is a mock type for the ResponseRepo interface
type MockResponseRepo struct {
	mock.Mock
}

func (m *MockResponseRepo) Create(ctx context.Context, record *model.ReviewRecord) error {
	args := m.Called(record)
	return args.Error(0)
}

func (m *MockResponseRepo) GetAll(ctx context.Context) ([]*model.ReviewRecord, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ReviewRecord), args.Error(1)
}

func (m *MockResponseRepo) GetByDomain(ctx context.Context, domain string) ([]*model.ReviewRecord, error) {
	args := m.Called(domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ReviewRecord), args.Error(1)
}

func (m *MockResponseRepo) CountsByQuestion(ctx context.Context, domain string) (map[string]int, error) {
	args := m.Called(domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockResponseRepo) UserReviewed(ctx context.Context, domain, userEmail string) ([]string, error) {
	args := m.Called(domain, userEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockResponseRepo) Exists(ctx context.Context, domain, userEmail, questionID string) (bool, error) {
	args := m.Called(domain, userEmail, questionID)
	return args.Bool(0), args.Error(1)
}

// MockLedgerCache is a mock type for the LedgerCache interface
type MockLedgerCache struct {
	mock.Mock
}

func (m *MockLedgerCache) IncrCount(ctx context.Context, domain, questionID string) (int64, error) {
	args := m.Called(domain, questionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerCache) Counts(ctx context.Context, domain string) (map[string]int, error) {
	args := m.Called(domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockLedgerCache) MarkUserReviewed(ctx context.Context, domain, userEmail, questionID string) error {
	args := m.Called(domain, userEmail, questionID)
	return args.Error(0)
}

func (m *MockLedgerCache) UserReviewed(ctx context.Context, domain, userEmail string) ([]string, error) {
	args := m.Called(domain, userEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLedgerCache) Warm(ctx context.Context, domain string, counts map[string]int) error {
	args := m.Called(domain, counts)
	return args.Error(0)
}

func validRecord() *model.ReviewRecord {
	return &model.ReviewRecord{
		Domain:     "knowledge-distillation",
		UserEmail:  "ada@example.com",
		QuestionID: "q1",
		Answers: []model.AnswerReview{
			{AnswerID: "q1_a", Text: "answer", Ratings: model.Rating{"overall": 4}},
		},
	}
}

func TestResponseSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the record and advances the ledger", func(t *testing.T) {
		repo := new(MockResponseRepo)
		ledger := new(MockLedgerCache)
		repo.On("Exists", "Knowledge Distillation", "ada@example.com", "q1").Return(false, nil)
		repo.On("Create", mock.Anything).Return(nil)
		ledger.On("IncrCount", "Knowledge Distillation", "q1").Return(int64(1), nil)
		ledger.On("MarkUserReviewed", "Knowledge Distillation", "ada@example.com", "q1").Return(nil)

		svc := NewResponseService(repo, ledger)
		record := validRecord()
		err := svc.Submit(ctx, record)
		require.NoError(t, err)

		// Defaults were filled in.
		assert.NotEmpty(t, record.ID)
		assert.Equal(t, model.RecordRegular, record.Kind)
		assert.False(t, record.Timestamp.IsZero())
		assert.Equal(t, "Knowledge Distillation", record.Domain)

		repo.AssertExpectations(t)
		ledger.AssertExpectations(t)
	})

	t.Run("repeat submission is stored but the count stands", func(t *testing.T) {
		repo := new(MockResponseRepo)
		ledger := new(MockLedgerCache)
		repo.On("Exists", "Knowledge Distillation", "ada@example.com", "q1").Return(true, nil)
		repo.On("Create", mock.Anything).Return(nil)

		svc := NewResponseService(repo, ledger)
		err := svc.Submit(ctx, validRecord())
		require.NoError(t, err)

		repo.AssertExpectations(t)
		ledger.AssertNotCalled(t, "IncrCount", mock.Anything, mock.Anything)
	})

	t.Run("unknown domain", func(t *testing.T) {
		svc := NewResponseService(new(MockResponseRepo), new(MockLedgerCache))
		record := validRecord()
		record.Domain = "astrology"
		assert.ErrorIs(t, svc.Submit(ctx, record), ErrUnknownDomain)
	})

	t.Run("validation failures", func(t *testing.T) {
		svc := NewResponseService(new(MockResponseRepo), new(MockLedgerCache))

		missingQuestion := validRecord()
		missingQuestion.QuestionID = ""

		noAnswers := validRecord()
		noAnswers.Answers = nil

		unrated := validRecord()
		unrated.Answers[0].Ratings = model.Rating{}

		noPreference := validRecord()
		noPreference.Domain = "response-preference"

		for name, record := range map[string]*model.ReviewRecord{
			"missing questionId":      missingQuestion,
			"no answers":              noAnswers,
			"unrated answer":          unrated,
			"missing preferredAnswer": noPreference,
		} {
			var vErr *ValidationError
			assert.ErrorAs(t, svc.Submit(ctx, record), &vErr, name)
		}
	})

	t.Run("keeps the caller's timestamp and id", func(t *testing.T) {
		repo := new(MockResponseRepo)
		ledger := new(MockLedgerCache)
		repo.On("Exists", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
		repo.On("Create", mock.Anything).Return(nil)
		ledger.On("IncrCount", mock.Anything, mock.Anything).Return(int64(1), nil)
		ledger.On("MarkUserReviewed", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
		record := validRecord()
		record.ID = "given-id"
		record.Timestamp = ts

		svc := NewResponseService(repo, ledger)
		require.NoError(t, svc.Submit(ctx, record))
		assert.Equal(t, "given-id", record.ID)
		assert.Equal(t, ts, record.Timestamp)
	})
}
