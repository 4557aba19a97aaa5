package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers malformed, forged and foreign tokens
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned for a well-formed token past its expiry
	ErrExpiredToken = errors.New("token expired")
)

// Manager issues and verifies the HS256 bearer tokens that identify actors
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	clock  func() time.Time
}

// NewManager creates a manager signing with secret. Tokens it issues carry
// issuer and live for ttl unless IssueFor overrides it.
func NewManager(secret, issuer string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		clock:  time.Now,
	}
}

// Issue signs a token for id with the default lifetime
func (m *Manager) Issue(id Identity) (string, error) {
	return m.IssueFor(id, m.ttl)
}

// IssueFor signs a token for id that expires after ttl
func (m *Manager) IssueFor(id Identity, ttl time.Duration) (string, error) {
	now := m.clock()
	claims := &Claims{
		UserID: id.UserID,
		Email:  id.Email,
		Role:   id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   id.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Verify checks signature, issuer and lifetime, and returns the claims
func (m *Manager) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.clock),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	case !parsed.Valid:
		return nil, ErrInvalidToken
	}

	if claims.Subject != claims.UserID.String() {
		return nil, fmt.Errorf("%w: subject does not match user", ErrInvalidToken)
	}
	return claims, nil
}

// TTL returns the default token lifetime
func (m *Manager) TTL() time.Duration {
	return m.ttl
}
