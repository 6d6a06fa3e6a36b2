package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"pricewatch_api/pkg/logger"
)

// StatusError is returned when the remote side answered with an unexpected status.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("non-2xx status %d from %s", e.StatusCode, e.URL)
}

type BaseClient struct {
	ApiURL string
	log    logger.Logger
	client *http.Client
}

func NewBaseClient(apiURL string, timeout time.Duration, log logger.Logger) *BaseClient {
	return &BaseClient{
		ApiURL: apiURL,
		log:    log,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *BaseClient) doRequest(ctx context.Context, method, endpoint string, query url.Values, requestBody interface{}, response interface{}) error {
	target := c.ApiURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	c.log.Debug("outbound_request", "method", method, "endpoint", endpoint)

	var body io.Reader
	if requestBody != nil {
		bodyBytes, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		select {
		case <-ctx.Done():
			return fmt.Errorf("request was cancelled: %w", ctx.Err())
		default:
			return fmt.Errorf("failed to execute request: %w", err)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return &StatusError{StatusCode: resp.StatusCode, URL: endpoint}
	}

	if response == nil {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(respBody, response); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
