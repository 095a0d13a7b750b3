package service

import (
	"context"
	"testing"
	"time"

	"sciannotate/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCompute(t *testing.T) {
	ctx := context.Background()

	records := []*model.ReviewRecord{
		{
			Domain:     "Knowledge Distillation",
			QuestionID: "q1",
			Answers: []model.AnswerReview{
				{AnswerID: "a1", Ratings: model.Rating{"overall": 4, "accuracy": 5}},
				{AnswerID: "a2", Ratings: model.Rating{"overall": 2, "accuracy": 0}},
			},
		},
		{
			Domain:     "Response Preference",
			QuestionID: "q2",
			Answers: []model.AnswerReview{
				{AnswerID: "b1", Ratings: model.Rating{"overall": 7}},
			},
		},
	}

	repo := new(MockResponseRepo)
	repo.On("GetAll").Return(records, nil)

	stats, err := NewStatsService(repo).Compute(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalResponses)
	assert.Equal(t, 1, stats.Domains["Knowledge Distillation"])
	assert.Equal(t, 1, stats.Domains["Response Preference"])

	// (4 + 2 + 7) / 3, rounded to two decimals.
	assert.Equal(t, 4.33, stats.CriteriaAverages["overall"])

	// The zero accuracy score on a2 is unrated, not a rating of zero.
	assert.Equal(t, 5.0, stats.CriteriaAverages["accuracy"])
}

func TestStatsDomainSummary(t *testing.T) {
	ctx := context.Background()

	records := []*model.ReviewRecord{
		{Domain: "Knowledge Distillation", QuestionID: "q1"},
		{Domain: "Knowledge Distillation", QuestionID: "q1"},
		{Domain: "Knowledge Distillation", QuestionID: "q2"},
	}

	repo := new(MockResponseRepo)
	repo.On("GetByDomain", "Knowledge Distillation").Return(records, nil)

	svc := NewStatsService(repo)
	responses, questions, err := svc.DomainSummary(ctx, "knowledge-distillation")
	require.NoError(t, err)
	assert.Equal(t, 3, responses)
	assert.Equal(t, 2, questions)

	_, _, err = svc.DomainSummary(ctx, "astrology")
	assert.ErrorIs(t, err, ErrUnknownDomain)
}

func TestExportFilename(t *testing.T) {
	ctx := context.Background()

	repo := new(MockResponseRepo)
	repo.On("GetAll").Return([]*model.ReviewRecord{{QuestionID: "q1"}}, nil)

	records, filename, err := NewExportService(repo).Export(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "annotation_responses_"+time.Now().Format("2006-01-02")+".json", filename)
}
