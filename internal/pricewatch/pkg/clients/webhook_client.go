package clients

import (
	"context"
	"net/http"
	"time"

	"pricewatch_api/pkg/logger"
)

type webhookPayload struct {
	Content string `json:"content"`
}

// WebhookClient posts notification messages to caller-supplied endpoints.
type WebhookClient struct {
	BaseClient
}

func NewWebhookClient(timeout time.Duration, log logger.Logger) *WebhookClient {
	return &WebhookClient{
		BaseClient: *NewBaseClient("", timeout, log.WithPrefix("[WebhookClient]")),
	}
}

func (c *WebhookClient) Send(ctx context.Context, endpoint, content string) error {
	return c.doRequest(ctx, http.MethodPost, endpoint, nil, webhookPayload{Content: content}, nil)
}
