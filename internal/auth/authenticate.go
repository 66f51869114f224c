package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopcore/backend/internal/model"
	"github.com/shopcore/backend/internal/store"
	"github.com/shopcore/backend/internal/token"
)

// Authenticate resolves an access token to its user record. An expired
// token returns ErrAccessExpired so the transport layer can tell clients to
// run the refresh flow; every other token defect is a plain ErrUnauthorized.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*model.User, error) {
	if accessToken == "" {
		return nil, ErrUnauthorized
	}

	userID, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return nil, ErrAccessExpired
		}
		return nil, ErrUnauthorized
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("authenticate lookup: %w", err)
	}

	return user, nil
}
