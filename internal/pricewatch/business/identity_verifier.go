package business

import (
	"context"
	"errors"
	"net/http"

	"pricewatch_api/internal/pricewatch/models"
	"pricewatch_api/internal/pricewatch/pkg/clients"
	"pricewatch_api/pkg/logger"
)

// IdentityVerifier maps auth service outcomes onto ErrUnauthenticated and ErrIdentityUnavailable.
// Results are never cached.
type IdentityVerifier struct {
	users UserResolver
	log   logger.Logger
}

func NewIdentityVerifier(users UserResolver, log logger.Logger) *IdentityVerifier {
	return &IdentityVerifier{users: users, log: log.WithPrefix("[IdentityVerifier]")}
}

func (v *IdentityVerifier) Verify(ctx context.Context, userID int64, token string) (*models.VerifiedUser, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	user, err := v.users.UserByToken(ctx, userID, token)
	if err != nil {
		var se *clients.StatusError
		if errors.As(err, &se) && se.StatusCode < http.StatusInternalServerError {
			v.log.Info("identity_rejected", "user_id", userID, "status", se.StatusCode)
			return nil, ErrUnauthenticated
		}
		v.log.Warn("identity_unreachable", "user_id", userID, "error", err)
		return nil, ErrIdentityUnavailable
	}
	// The auth service must vouch for the same user the request claims to be.
	if user.ID != userID {
		v.log.Warn("identity_mismatch", "user_id", userID, "verified_id", user.ID)
		return nil, ErrUnauthenticated
	}
	return user, nil
}
