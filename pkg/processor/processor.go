// Package processor calls the external document processing service.
package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseBytes caps how much of a processor reply is read
const maxResponseBytes = 1 << 20

// StatusError is returned when the processor answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("processor returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("processor returned status %d: %s", e.StatusCode, e.Body)
}

// Request is the payload sent to the processor
type Request struct {
	DocumentID uint `json:"document_id"`
}

// Client posts trigger requests to a single processor URL
type Client struct {
	url     string
	http    *http.Client
	retries int
}

// NewClient creates a client. timeout bounds each attempt; retries (0 or 1)
// is the number of extra attempts after a transport error or 5xx reply.
func NewClient(url string, timeout time.Duration, retries int) *Client {
	return &Client{
		url:     url,
		http:    &http.Client{Timeout: timeout},
		retries: retries,
	}
}

// Trigger asks the processor to process documentID and returns the decoded
// JSON reply, or nil when the reply has no JSON body.
func (c *Client) Trigger(ctx context.Context, documentID uint) (any, error) {
	payload, err := json.Marshal(Request{DocumentID: documentID})
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		result, err := c.post(ctx, payload)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable(err) || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) post(ctx context.Context, payload []byte) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var result any
	if err := json.Unmarshal(body, &result); err != nil {
		// a 2xx reply is a success even when it isn't JSON
		return string(body), nil
	}
	return result, nil
}

// retryable reports whether an attempt may be repeated: transport errors
// and 5xx replies are, 4xx replies are not.
func retryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500
	}
	return true
}
