package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopcore/backend/internal/audit"
	"github.com/shopcore/backend/internal/session"
)

// Refresh exchanges a valid refresh token for a new access token. The token
// must verify cryptographically AND literally match the cached entry for its
// identity; the cache is the sole source of truth for revocation. The
// refresh token itself is not rotated.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		s.metrics.IncRefreshFailure()
		return "", ErrUnauthorized
	}

	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		s.emit(ctx, audit.EventRefresh, "", "", ErrUnauthorized)
		s.metrics.IncRefreshFailure()
		return "", ErrUnauthorized
	}

	stored, err := s.cache.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			s.emit(ctx, audit.EventRefresh, userID, "", ErrUnauthorized)
			s.metrics.IncRefreshFailure()
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("refresh lookup: %w", err)
	}
	if stored != refreshToken {
		// superseded by a newer login, or revoked by logout
		s.emit(ctx, audit.EventRefresh, userID, "", ErrUnauthorized)
		s.metrics.IncRefreshFailure()
		return "", ErrUnauthorized
	}

	access, err := s.tokens.MintAccess(userID)
	if err != nil {
		return "", fmt.Errorf("refresh mint: %w", err)
	}

	s.emit(ctx, audit.EventRefresh, userID, "", nil)
	s.metrics.IncRefreshSuccess()

	return access, nil
}
