package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"pricewatch_api/internal/pricewatch/models"
	"pricewatch_api/pkg/logger"
)

// IdentityClient talks to the external auth service.
type IdentityClient struct {
	BaseClient
}

func NewIdentityClient(apiURL string, timeout time.Duration, log logger.Logger) *IdentityClient {
	return &IdentityClient{
		BaseClient: *NewBaseClient(apiURL, timeout, log.WithPrefix("[IdentityClient]")),
	}
}

// UserByToken resolves (userID, token) through GET /user-by-token.
func (c *IdentityClient) UserByToken(ctx context.Context, userID int64, token string) (*models.VerifiedUser, error) {
	query := url.Values{}
	query.Set("token", token)
	query.Set("user_id", strconv.FormatInt(userID, 10))

	var user models.VerifiedUser
	if err := c.doRequest(ctx, http.MethodGet, "/user-by-token", query, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
