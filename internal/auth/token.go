package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken covers bad signatures, malformed payloads and unusable subjects.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned once the current time reaches the token expiry.
	ErrTokenExpired = errors.New("token expired")
)

// MinTokenTTL is the shortest accepted lifetime. Expiry claims carry whole
// seconds, so anything shorter can be expired at the moment of issue.
const MinTokenTTL = time.Second

// TokenConfig is the signing configuration. It is read once at startup.
type TokenConfig struct {
	Secret    []byte
	Algorithm string
	TTL       time.Duration
}

// TokenService issues and validates HMAC-signed JWT bearer tokens.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

func NewTokenService(cfg TokenConfig, opts ...TokenOption) (*TokenService, error) {
	if len(cfg.Secret) == 0 {
		return nil, fmt.Errorf("token secret is required")
	}
	if cfg.TTL < MinTokenTTL {
		return nil, fmt.Errorf("token ttl must be at least %s", MinTokenTTL)
	}
	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	s := &TokenService{
		secret: secret,
		method: method,
		ttl:    cfg.TTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL is the default token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for subject that expires ttl from now.
func (s *TokenService) Issue(subject uuid.UUID, ttl time.Duration) (string, error) {
	if subject == uuid.Nil {
		return "", fmt.Errorf("token subject is required")
	}
	if ttl < MinTokenTTL {
		return "", fmt.Errorf("token ttl must be at least %s", MinTokenTTL)
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Validate checks signature and expiry and returns the subject.
func (s *TokenService) Validate(token string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrTokenExpired
		}
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return uuid.Nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	subject, err := uuid.Parse(claims.Subject)
	if err != nil || subject == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: malformed subject", ErrInvalidToken)
	}
	return subject, nil
}
