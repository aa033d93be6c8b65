package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gelataria/internal/domain"
	sessionrepo "gelataria/internal/repository/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type tokenClaims struct {
	jwt.RegisteredClaims
}

type tokenMeta struct {
	SessionID string
	UserID    string
	ExpiresAt time.Time
}

// tokenManager signs HS256 access tokens whose jti names a row in sessions,
// so a token stops validating as soon as its session row is deleted.
type tokenManager struct {
	repo   sessionrepo.Repository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *log.Logger
}

func newTokenManager(repo sessionrepo.Repository, secret []byte, ttl time.Duration, logger *log.Logger) *tokenManager {
	return &tokenManager{
		repo:   repo,
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

func (m *tokenManager) Issue(ctx context.Context, userID string) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	jti := uuid.NewString()
	if err := m.repo.Create(ctx, sessionrepo.Session{
		ID:        jti,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}); err != nil {
		return "", time.Time{}, err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse checks signature and expiry only; it does not consult the store.
func (m *tokenManager) Parse(raw string) (tokenMeta, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return tokenMeta{}, err
	}
	if claims.ID == "" || claims.Subject == "" {
		return tokenMeta{}, errors.New("token missing jti or sub")
	}
	meta := tokenMeta{SessionID: claims.ID, UserID: claims.Subject}
	if claims.ExpiresAt != nil {
		meta.ExpiresAt = claims.ExpiresAt.Time
	}
	return meta, nil
}

// Validate returns ErrInvalidToken for bad, revoked or expired tokens.
// Store failures are returned as they are.
func (m *tokenManager) Validate(ctx context.Context, raw string) (tokenMeta, error) {
	meta, err := m.Parse(raw)
	if err != nil {
		return tokenMeta{}, ErrInvalidToken
	}
	stored, err := m.repo.Get(ctx, meta.SessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return tokenMeta{}, ErrInvalidToken
	}
	if err != nil {
		m.logger.Printf("session: load session_id=%s error=%v", meta.SessionID, err)
		return tokenMeta{}, err
	}
	if stored.UserID != meta.UserID {
		return tokenMeta{}, ErrInvalidToken
	}
	if m.now().After(stored.ExpiresAt) {
		if err := m.repo.Delete(ctx, meta.SessionID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			m.logger.Printf("session: delete expired session_id=%s error=%v", meta.SessionID, err)
		}
		return tokenMeta{}, ErrInvalidToken
	}
	return meta, nil
}

func (m *tokenManager) Revoke(ctx context.Context, sessionID string) error {
	err := m.repo.Delete(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}
