package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"sciannotate/internal/model"
)

// Sink transmits a completed review record to the external collection
// endpoint. Delivery is fire-and-forget: one attempt, no retry, no outbox.
// The local record is considered durable regardless of the outcome.
type Sink interface {
	Submit(ctx context.Context, record *model.ReviewRecord) error
}

// WebhookSink posts review records to a spreadsheet-backed web app. The
// response body is never read; success is assumed once the request is
// dispatched and the server answers.
type WebhookSink struct {
	url    string
	client *http.Client
}

// NewWebhookSink creates a sink posting to the given URL. An empty URL
// disables submission.
func NewWebhookSink(url string) *WebhookSink {
	return &WebhookSink{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *WebhookSink) Submit(ctx context.Context, record *model.ReviewRecord) error {
	if s.url == "" {
		log.Printf("[Webhook] no collection endpoint configured, dropping record for question %s", record.QuestionID)
		return nil
	}

	payload, err := record.Payload()
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}
	// Drain and discard; the endpoint's response is opaque.
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	log.Printf("[Webhook] record for question %s dispatched (%s)", record.QuestionID, record.Kind)
	return nil
}
