package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopcore/backend/internal/audit"
	"github.com/shopcore/backend/internal/model"
	"github.com/shopcore/backend/internal/store"
	"github.com/shopcore/backend/internal/token"
)

// Login verifies credentials and opens a fresh session, overwriting any
// existing session entry for the identity. The previous refresh token stops
// working at that point even if it has not expired.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, token.Pair, error) {
	normalized := store.NormalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.emit(ctx, audit.EventLogin, "", normalized, ErrInvalidCredentials)
			s.metrics.IncLoginFailure()
			return nil, token.Pair{}, ErrInvalidCredentials
		}
		return nil, token.Pair{}, fmt.Errorf("login lookup: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, token.Pair{}, fmt.Errorf("login verify: %w", err)
	}
	if !ok {
		s.emit(ctx, audit.EventLogin, user.ID, normalized, ErrInvalidCredentials)
		s.metrics.IncLoginFailure()
		return nil, token.Pair{}, ErrInvalidCredentials
	}

	pair, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, token.Pair{}, err
	}

	s.emit(ctx, audit.EventLogin, user.ID, normalized, nil)
	s.metrics.IncLoginSuccess()
	s.log.InfoContext(ctx, "user logged in", "user_id", user.ID)

	return user, pair, nil
}
