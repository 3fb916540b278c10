package security

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"hazel-marketplace/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
	ErrRevokedToken   = errors.New("token has been revoked")
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

const issuer = "hazel-auth"

// UserClaims defines the claims carried by HAZEL tokens
type UserClaims struct {
	UserID int32           `json:"user_id"`
	Email  string          `json:"email,omitempty"`
	Role   domain.UserRole `json:"role,omitempty"`
	Type   TokenType       `json:"type"`
	jwt.RegisteredClaims
}

// TokenPair is what login, signup and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type TokenManager interface {
	GeneratePair(user *domain.User) (*TokenPair, error)
	// ValidateToken parses tokenString and checks it is of the expected type
	// and not revoked.
	ValidateToken(tokenString string, expected TokenType) (*UserClaims, error)
	// Revoke denies the token id until its expiry.
	Revoke(claims *UserClaims)
}

type tokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) TokenManager {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &tokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
		revoked:    make(map[string]time.Time),
	}
}

func (m *tokenManager) GeneratePair(user *domain.User) (*TokenPair, error) {
	access, exp, err := m.sign(user, TokenTypeAccess, m.accessTTL, "api-access")
	if err != nil {
		return nil, err
	}
	refresh, _, err := m.sign(user, TokenTypeRefresh, m.refreshTTL, "token-refresh")
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: exp}, nil
}

func (m *tokenManager) sign(user *domain.User, typ TokenType, ttl time.Duration, audience string) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(ttl)
	claims := UserClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(user.ID)),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	return signed, exp, err
}

func (m *tokenManager) ValidateToken(tokenString string, expected TokenType) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != expected {
		return nil, ErrWrongTokenType
	}
	if m.isRevoked(claims.ID) {
		return nil, ErrRevokedToken
	}
	return claims, nil
}

func (m *tokenManager) Revoke(claims *UserClaims) {
	if claims == nil || claims.ID == "" {
		return
	}
	exp := m.now().Add(m.refreshTTL)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[claims.ID] = exp
	m.pruneLocked()
}

func (m *tokenManager) isRevoked(jti string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok
}

// pruneLocked drops denylist entries whose token would have expired anyway.
func (m *tokenManager) pruneLocked() {
	now := m.now()
	for id, exp := range m.revoked {
		if now.After(exp) {
			delete(m.revoked, id)
		}
	}
}
