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

// SignupInput carries the already-validated signup payload.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Signup creates an account with the default role, opens a session, and
// returns the created user with the token pair. The password is hashed as an
// explicit step before anything reaches the credential store.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*model.User, token.Pair, error) {
	email := store.NormalizeEmail(in.Email)

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		s.emit(ctx, audit.EventSignup, "", email, ErrEmailTaken)
		return nil, token.Pair{}, ErrEmailTaken
	case !errors.Is(err, store.ErrNotFound):
		return nil, token.Pair{}, fmt.Errorf("signup lookup: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, token.Pair{}, fmt.Errorf("signup hash: %w", err)
	}

	user, err := s.users.Create(ctx, &model.User{
		Name:         in.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
	})
	if err != nil {
		// lost the race against a concurrent signup for the same email
		if errors.Is(err, store.ErrDuplicateEmail) {
			s.emit(ctx, audit.EventSignup, "", email, ErrEmailTaken)
			return nil, token.Pair{}, ErrEmailTaken
		}
		return nil, token.Pair{}, fmt.Errorf("signup create: %w", err)
	}

	pair, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, token.Pair{}, err
	}

	s.emit(ctx, audit.EventSignup, user.ID, email, nil)
	s.metrics.IncSignup()
	s.log.InfoContext(ctx, "user signed up", "user_id", user.ID)

	return user, pair, nil
}

// openSession mints a token pair and stores the refresh half as the single
// live session entry for userID. The two writes are sequential, not atomic:
// a crash in between leaves an account with no session, which the user
// recovers from by logging in.
func (s *Service) openSession(ctx context.Context, userID string) (token.Pair, error) {
	pair, err := s.tokens.Mint(userID)
	if err != nil {
		return token.Pair{}, fmt.Errorf("mint tokens: %w", err)
	}
	if err := s.cache.Put(ctx, userID, pair.Refresh, s.tokens.RefreshTTL()); err != nil {
		return token.Pair{}, fmt.Errorf("persist session: %w", err)
	}
	return pair, nil
}
