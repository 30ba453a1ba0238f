// Package auth covers user accounts, user tokens and the admin gate.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bilgisen/peacenet/internal/logger"
	"github.com/bilgisen/peacenet/internal/models"
	"github.com/bilgisen/peacenet/internal/store"
	"github.com/bilgisen/peacenet/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	errInvalidCredentials = fmt.Errorf("%w: invalid email or password", models.ErrAuth)
	errEmailTaken         = fmt.Errorf("%w: email already registered", models.ErrAuth)
)

// RegisterInput is the sign-up form
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginInput is the sign-in form
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// GoogleInput carries the credential returned by Google sign-in
type GoogleInput struct {
	Credential string `json:"credential" validate:"required"`
}

// Session is a signed-in user and their token
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Service manages user accounts and user tokens
type Service struct {
	users     store.UserStore
	validator *validation.Validator
	tokens    *Tokens
	google    GoogleVerifier
	ttl       time.Duration
	cost      int
	log       zerolog.Logger
}

func NewService(users store.UserStore, v *validation.Validator, tokens *Tokens, google GoogleVerifier, ttl time.Duration) *Service {
	return &Service{
		users:     users,
		validator: v,
		tokens:    tokens,
		google:    google,
		ttl:       ttl,
		cost:      bcrypt.DefaultCost,
		log:       logger.Component("auth"),
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = store.NormalizeEmail(in.Email)
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Provider:     models.ProviderLocal,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, errEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("User registered")
	return s.session(user)
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = store.NormalizeEmail(in.Email)
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if user.PasswordHash == "" {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		s.log.Warn().Str("user_id", user.ID).Msg("Failed login attempt")
		return nil, errInvalidCredentials
	}

	return s.session(user)
}

// LoginWithGoogle verifies the credential and signs the user in, creating
// the account on first use
func (s *Service) LoginWithGoogle(ctx context.Context, in GoogleInput) (*Session, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	if s.google == nil {
		return nil, fmt.Errorf("%w: google sign-in is not configured", models.ErrAuth)
	}

	identity, err := s.google.Verify(ctx, in.Credential)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		return s.session(user)
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name = strings.SplitN(identity.Email, "@", 2)[0]
	}
	user = &models.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    identity.Email,
		Provider: models.ProviderGoogle,
		GoogleID: identity.Subject,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if !errors.Is(err, models.ErrConflict) {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		// a concurrent first sign-in created the account
		existing, getErr := s.users.GetUserByEmail(ctx, identity.Email)
		if getErr != nil {
			return nil, fmt.Errorf("failed to load user: %w", getErr)
		}
		return s.session(existing)
	}

	s.log.Info().Str("user_id", user.ID).Msg("User registered with Google")
	return s.session(user)
}

// Authenticate turns a user token into the caller's principal
func (s *Service) Authenticate(token string) (models.Principal, error) {
	claims, err := s.tokens.Parse(token, RoleUser)
	if err != nil {
		return models.Principal{}, err
	}
	return models.Principal{
		UserID: claims.Subject,
		Name:   claims.Name,
		Email:  claims.Email,
	}, nil
}

// Me loads the account behind principal
func (s *Service) Me(ctx context.Context, p models.Principal) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: account no longer exists", models.ErrAuth)
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) session(user *models.User) (*Session, error) {
	token, _, err := s.tokens.Issue(user.ID, RoleUser, s.ttl, user.Name, user.Email)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}
