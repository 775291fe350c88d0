package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"task-tracker/internal/domain"
	"task-tracker/internal/repository"
)

// Password length bounds. bcrypt ignores input past 72 bytes.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer issues and validates bearer tokens carrying a user id.
type TokenIssuer interface {
	Issue(subject uuid.UUID, ttl time.Duration) (string, error)
	Validate(token string) (uuid.UUID, error)
	TTL() time.Duration
}

// UserService describes registration, login and bearer-token resolution.
type UserService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	// Login checks the password and returns the user with a fresh token.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	// Authenticate resolves a bearer token to its stored user.
	Authenticate(ctx context.Context, rawToken string) (*domain.User, error)
	// IssueToken signs a new token for user with the default lifetime.
	IssueToken(user *domain.User) (string, error)
}

type userService struct {
	users     repository.UserRepository
	hasher    PasswordHasher
	tokens    TokenIssuer
	log       logrus.FieldLogger
	dummyHash string
}

func NewUserService(users repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer, log logrus.FieldLogger) (UserService, error) {
	// compared against when the email is unknown so both login failures cost one bcrypt
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &userService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		log:       log.WithField("component", "user_service"),
		dummyHash: dummy,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return nil, fmt.Errorf("%w: password must be %d to %d bytes", ErrValidation, MinPasswordLength, MaxPasswordLength)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, storeFailure(s.log, "get user by email", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, storeFailure(s.log, "create user", err)
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = normalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", storeFailure(s.log, "get user by email", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *userService) Authenticate(ctx context.Context, rawToken string) (*domain.User, error) {
	subject, err := s.tokens.Validate(rawToken)
	if err != nil {
		s.log.WithError(err).Debug("bearer token rejected")
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.log.WithField("user_id", subject).Debug("bearer token for unknown user")
			return nil, ErrInvalidCredentials
		}
		return nil, storeFailure(s.log, "get user by id", err)
	}
	return user, nil
}

func (s *userService) IssueToken(user *domain.User) (string, error) {
	token, err := s.tokens.Issue(user.ID, s.tokens.TTL())
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
