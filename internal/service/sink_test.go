package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"sciannotate/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookSink(t *testing.T) {
	ctx := context.Background()

	record := &model.ReviewRecord{
		Kind:       model.RecordRegular,
		Domain:     "Knowledge Distillation",
		QuestionID: "q1",
		Answers: []model.AnswerReview{
			{AnswerID: "q1_a", Text: "answer", Ratings: model.Rating{"overall": 4}},
		},
	}

	t.Run("posts the kind-shaped payload", func(t *testing.T) {
		var got map[string]interface{}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &got))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		sink := NewWebhookSink(srv.URL)
		require.NoError(t, sink.Submit(ctx, record))
		assert.Equal(t, "q1", got["questionId"])
	})

	t.Run("empty URL drops the record without error", func(t *testing.T) {
		sink := NewWebhookSink("")
		assert.NoError(t, sink.Submit(ctx, record))
	})

	t.Run("unreachable endpoint reports the failure", func(t *testing.T) {
		sink := NewWebhookSink("http://127.0.0.1:1/collect")
		assert.Error(t, sink.Submit(ctx, record))
	})
}
