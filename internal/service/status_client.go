package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"sciannotate/internal/model"
)

// StatusClient fetches the remote review-status snapshot for a user.
type StatusClient interface {
	FetchStatus(ctx context.Context, domain, userEmail string) (*model.ReviewStatus, error)
}

// HTTPStatusClient queries the remote review-status endpoint over HTTP GET
// with action=getAvailableQuestions query parameters.
type HTTPStatusClient struct {
	endpoint string
	client   *http.Client
}

// NewHTTPStatusClient creates a status client against the given endpoint URL.
func NewHTTPStatusClient(endpoint string) *HTTPStatusClient {
	return &HTTPStatusClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// statusResponse is the wire shape of the review-status endpoint
type statusResponse struct {
	UserReviewed      []string       `json:"userReviewed"`
	ReviewCounts      map[string]int `json:"reviewCounts"`
	UserReviewedCount int            `json:"userReviewedCount"`
	Error             string         `json:"error"`
}

func (c *HTTPStatusClient) FetchStatus(ctx context.Context, domain, userEmail string) (*model.ReviewStatus, error) {
	params := url.Values{}
	params.Set("action", "getAvailableQuestions")
	params.Set("domain", domain)
	params.Set("userEmail", userEmail)
	reqURL := c.endpoint + "?" + params.Encode()

	log.Printf("[Status Client] GET %s domain=%s", c.endpoint, domain)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read status response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("status endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var decoded statusResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to parse status response: %w", err)
	}
	if decoded.Error != "" {
		return nil, fmt.Errorf("status endpoint error: %s", decoded.Error)
	}

	status := model.EmptyStatus()
	for _, id := range decoded.UserReviewed {
		status.UserReviewed[id] = true
	}
	for id, count := range decoded.ReviewCounts {
		status.GlobalCounts[id] = count
	}
	status.UserReviewedCount = decoded.UserReviewedCount
	return status, nil
}
