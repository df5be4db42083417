package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/fastygo/taskdesk/domain"
)

type tokenClaims struct {
	UserID     string `json:"id"`
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Profession string `json:"profession,omitempty"`
	SessionID  string `json:"sid"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 session tokens.
type TokenManager struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewTokenManager(secret, issuer string) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// Issue signs a token for session. The session id travels as sid and jti.
func (m *TokenManager) Issue(session *domain.Session, user domain.PublicUser) (string, error) {
	if session == nil || session.ID == "" {
		return "", domain.ErrInvalidPayload
	}
	claims := tokenClaims{
		UserID:     user.ID,
		FullName:   user.FullName,
		Email:      user.Email,
		Profession: string(user.Profession),
		SessionID:  session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   user.ID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(m.now()),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature, expiry and issuer of tokenString.
func (m *TokenManager) Parse(tokenString string) (*domain.Claims, error) {
	var claims tokenClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.WrapError(domain.ErrCodeUnauthorized, "invalid token", err)
	}
	if m.issuer != "" && !claims.VerifyIssuer(m.issuer, true) {
		return nil, domain.NewError(domain.ErrCodeUnauthorized, "invalid token issuer")
	}
	sessionID := claims.SessionID
	if sessionID == "" {
		sessionID = claims.ID
	}
	if claims.UserID == "" || sessionID == "" {
		return nil, domain.NewError(domain.ErrCodeUnauthorized, "incomplete token claims")
	}

	out := &domain.Claims{
		SessionID: sessionID,
		User: domain.PublicUser{
			ID:         claims.UserID,
			FullName:   claims.FullName,
			Email:      claims.Email,
			Profession: domain.Profession(claims.Profession),
		},
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// Authenticate checks the token alone, without consulting a session store.
func (m *TokenManager) Authenticate(_ context.Context, tokenString string) (*domain.Claims, error) {
	return m.Parse(tokenString)
}
