package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTypeAccess = "access"

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("invalid token type")
)

// Claims carried by access tokens. Tokens are issued by the auth provider;
// this service only verifies them.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// Option configures a Manager
type Option func(*Manager)

// WithIssuer requires and stamps the iss claim
func WithIssuer(issuer string) Option {
	return func(m *Manager) { m.issuer = issuer }
}

// WithLeeway tolerates clock skew with the issuing service
func WithLeeway(d time.Duration) Option {
	return func(m *Manager) { m.leeway = d }
}

// Manager verifies access tokens and, for tooling and tests, signs them
type Manager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	leeway time.Duration
	parser *jwt.Parser
}

func NewManager(secret string, ttl time.Duration, opts ...Option) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	m := &Manager{secret: []byte(secret), ttl: ttl}
	for _, opt := range opts {
		opt(m)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(m.leeway),
	}
	if m.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(m.issuer))
	}
	m.parser = jwt.NewParser(parserOpts...)
	return m
}

// GenerateAccessToken signs an access token for userID
func (m *Manager) GenerateAccessToken(userID, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		Type:   tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ValidateAccessToken parses tokenString and checks it is an unexpired
// HS256 access token. Failures wrap ErrInvalidToken or ErrWrongTokenType.
func (m *Manager) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := m.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != tokenTypeAccess {
		return nil, fmt.Errorf("%w: expected %s, got %q", ErrWrongTokenType, tokenTypeAccess, claims.Type)
	}

	return claims, nil
}
