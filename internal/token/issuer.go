// Package token mints and verifies the access/refresh token pair. Access and
// refresh tokens are HS256 JWTs signed with distinct secrets so that a leaked
// access-signing key cannot forge refresh tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind selects which secret and TTL a token is bound to.
type Kind int

const (
	// KindAccess identifies short-lived API credentials.
	KindAccess Kind = iota
	// KindRefresh identifies the long-lived credential exchanged for new
	// access tokens.
	KindRefresh
)

var (
	// ErrExpired is returned when a structurally valid token is past its
	// expiry claim. For access tokens this is a normal, retryable condition
	// that triggers the refresh flow.
	ErrExpired = errors.New("token expired")
	// ErrInvalid is returned for malformed tokens, bad signatures, and
	// tokens signed with the wrong key. Always a hard auth failure.
	ErrInvalid = errors.New("invalid token")
)

// Claims is the payload carried by both token kinds.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Pair is an access/refresh token pair. It is ephemeral: only the refresh
// half is ever persisted, inside the session cache.
type Pair struct {
	Access  string
	Refresh string
}

// Config holds the signing material and validity windows for an Issuer.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// Issuer mints and verifies signed tokens. Safe for concurrent use.
type Issuer struct {
	config Config
}

// NewIssuer validates cfg and returns an Issuer. Both secrets must be set
// and must differ from each other.
func NewIssuer(cfg Config) (*Issuer, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("token: both signing secrets are required")
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, errors.New("token: access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token: TTLs must be positive")
	}
	return &Issuer{config: cfg}, nil
}

// AccessTTL returns the configured access token validity window.
func (i *Issuer) AccessTTL() time.Duration { return i.config.AccessTTL }

// RefreshTTL returns the configured refresh token validity window.
func (i *Issuer) RefreshTTL() time.Duration { return i.config.RefreshTTL }

// Mint produces a fresh token pair bound to userID.
func (i *Issuer) Mint(userID string) (Pair, error) {
	access, err := i.mint(userID, KindAccess)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := i.mint(userID, KindRefresh)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

// MintAccess produces a new access token only. Used by the refresh flow,
// which does not rotate the refresh token.
func (i *Issuer) MintAccess(userID string) (string, error) {
	return i.mint(userID, KindAccess)
}

// VerifyAccess validates an access token and returns the bound user ID.
func (i *Issuer) VerifyAccess(tokenStr string) (string, error) {
	return i.verify(tokenStr, KindAccess)
}

// VerifyRefresh validates a refresh token and returns the bound user ID.
func (i *Issuer) VerifyRefresh(tokenStr string) (string, error) {
	return i.verify(tokenStr, KindRefresh)
}

func (i *Issuer) mint(userID string, kind Kind) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti makes every minted token unique even within the same
			// second, so a refreshed access token never equals its predecessor.
			ID:        uuid.NewString(),
			Issuer:    i.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl(kind))),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret(kind))
}

func (i *Issuer) verify(tokenStr string, kind Kind) (string, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if i.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(i.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return i.secret(kind), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: %v", ErrExpired, err)
		}
		return "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", ErrInvalid
	}

	return claims.UserID, nil
}

func (i *Issuer) secret(kind Kind) []byte {
	if kind == KindRefresh {
		return i.config.RefreshSecret
	}
	return i.config.AccessSecret
}

func (i *Issuer) ttl(kind Kind) time.Duration {
	if kind == KindRefresh {
		return i.config.RefreshTTL
	}
	return i.config.AccessTTL
}
