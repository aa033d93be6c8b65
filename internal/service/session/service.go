package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"gelataria/internal/domain"
	"gelataria/internal/events"
	sessionrepo "gelataria/internal/repository/session"
	userrepo "gelataria/internal/repository/user"
	"gelataria/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateAccount is returned when the email is already registered.
	ErrDuplicateAccount = errors.New("an account with this email already exists")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// Config tunes token issuing.
type Config struct {
	Secret []byte
	TTL    time.Duration
}

// Service handles sign-up, sign-in and token lookups.
type Service struct {
	users  userrepo.Repository
	tokens *tokenManager
	events events.Publisher
	logger *log.Logger
}

func New(users userrepo.Repository, sessions sessionrepo.Repository, cfg Config, publisher events.Publisher, logger *log.Logger) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if publisher == nil {
		publisher = events.Discard
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		users:  users,
		tokens: newTokenManager(sessions, cfg.Secret, cfg.TTL, logger),
		events: publisher,
		logger: logger,
	}
}

// SignUpInput captures fields expected by the signup endpoint.
type SignUpInput struct {
	FullName        string `json:"fullName" validate:"min=2,max=100" msg:"name must be at least 2 characters"`
	Email           string `json:"email" validate:"required,email,max=255" msg:"invalid email"`
	Password        string `json:"password" validate:"min=6" msg:"password must be at least 6 characters"`
	ConfirmPassword string `json:"confirmPassword" validate:"omitempty,eqfield=Password" msg:"passwords do not match"`
}

// SignInInput captures fields expected by the signin endpoint.
type SignInInput struct {
	Email    string `json:"email" validate:"required,email,max=255" msg:"invalid email"`
	Password string `json:"password" validate:"min=6" msg:"password must be at least 6 characters"`
}

// Session is what a successful sign-in hands back to the client.
type Session struct {
	User        domain.User `json:"user"`
	IsAdmin     bool        `json:"isAdmin"`
	AccessToken string      `json:"accessToken"`
	ExpiresAt   time.Time   `json:"expiresAt"`
}

// SignUp registers a user together with a profile carrying the display name.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*domain.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u, err := s.users.CreateWithProfile(ctx, domain.User{
		Email:        in.Email,
		PasswordHash: string(hashed),
	}, in.FullName)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, ErrDuplicateAccount
		}
		s.logger.Printf("session: signup email=%s error=%v", in.Email, err)
		return nil, fmt.Errorf("signup: %w", err)
	}
	return u, nil
}

// SignIn validates credentials and issues an access token.
func (s *Service) SignIn(ctx context.Context, in SignInInput) (*Session, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	isAdmin, err := s.users.HasRole(ctx, u.ID, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.tokens.Issue(ctx, u.ID)
	if err != nil {
		s.logger.Printf("session: issue token user_id=%s error=%v", u.ID, err)
		return nil, err
	}

	s.events.Publish(ctx, events.Event{Topic: events.TopicSignedIn, Key: u.ID})
	return &Session{
		User:        *u,
		IsAdmin:     isAdmin,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// SignOut revokes the session behind token. Unknown or already revoked
// sessions are not an error.
func (s *Service) SignOut(ctx context.Context, token string) error {
	meta, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}
	if err := s.tokens.Revoke(ctx, meta.SessionID); err != nil {
		s.logger.Printf("session: revoke session_id=%s error=%v", meta.SessionID, err)
		return err
	}
	s.events.Publish(ctx, events.Event{Topic: events.TopicSignedOut, Key: meta.UserID})
	return nil
}

// Lookup resolves a token to its user. The admin role is read on every call.
func (s *Service) Lookup(ctx context.Context, token string) (domain.Identity, error) {
	meta, err := s.tokens.Validate(ctx, token)
	if err != nil {
		return domain.Identity{}, err
	}
	u, err := s.users.GetByID(ctx, meta.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Identity{}, ErrInvalidToken
		}
		return domain.Identity{}, err
	}
	isAdmin, err := s.users.HasRole(ctx, u.ID, domain.RoleAdmin)
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{User: *u, IsAdmin: isAdmin}, nil
}
