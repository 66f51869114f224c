package auth

import (
	"context"
	"fmt"

	"github.com/shopcore/backend/internal/audit"
)

// Logout revokes the session named by refreshToken. It is idempotent and
// never fails because of the token itself: an absent, expired, or malformed
// token simply means there is nothing to revoke. Only a cache outage
// surfaces as an error.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		s.metrics.IncLogout()
		return nil
	}

	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		// nothing to revoke; the cookie carries a dead token
		s.emit(ctx, audit.EventLogout, "", "", nil)
		s.metrics.IncLogout()
		return nil
	}

	if err := s.cache.Delete(ctx, userID); err != nil {
		return fmt.Errorf("logout revoke: %w", err)
	}

	s.emit(ctx, audit.EventLogout, userID, "", nil)
	s.metrics.IncLogout()
	s.log.InfoContext(ctx, "user logged out", "user_id", userID)

	return nil
}
