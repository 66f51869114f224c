// Package auth orchestrates signup, login, logout, and refresh over the
// credential store, password hasher, token issuer, and session cache.
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopcore/backend/internal/audit"
	"github.com/shopcore/backend/internal/metrics"
	"github.com/shopcore/backend/internal/store"
	"github.com/shopcore/backend/internal/token"
)

// SessionCache is the consumed slice of the session cache: one live refresh
// token per user, with expiry. Get reports a missing entry with
// session.ErrNotFound.
type SessionCache interface {
	Put(ctx context.Context, userID, refreshToken string, ttl time.Duration) error
	Get(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, userID string) error
}

// Hasher is the consumed slice of the password hasher.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// Service is the auth flow controller. Construct with NewService; all
// dependencies are injected explicitly and the service holds no global
// state.
type Service struct {
	users   store.UserStore
	cache   SessionCache
	tokens  *token.Issuer
	hasher  Hasher
	audit   *audit.Dispatcher
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewService wires an auth service. dispatcher and m may be nil; log must
// not be.
func NewService(
	users store.UserStore,
	cache SessionCache,
	tokens *token.Issuer,
	hasher Hasher,
	dispatcher *audit.Dispatcher,
	m *metrics.Metrics,
	log *slog.Logger,
) *Service {
	return &Service{
		users:   users,
		cache:   cache,
		tokens:  tokens,
		hasher:  hasher,
		audit:   dispatcher,
		metrics: m,
		log:     log,
	}
}

// AccessTTL exposes the access-token validity window for cookie max-age.
func (s *Service) AccessTTL() time.Duration { return s.tokens.AccessTTL() }

// RefreshTTL exposes the refresh-token validity window for cookie max-age.
func (s *Service) RefreshTTL() time.Duration { return s.tokens.RefreshTTL() }

func (s *Service) emit(ctx context.Context, eventType, userID, email string, err error) {
	event := audit.Event{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		Email:     email,
		Success:   err == nil,
	}
	if err != nil {
		event.Error = err.Error()
	}
	s.audit.Emit(ctx, event)
}
