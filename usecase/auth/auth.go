package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/taskdesk/domain"
	"github.com/fastygo/taskdesk/pkg/logger"
	"github.com/fastygo/taskdesk/repository"
	"github.com/fastygo/taskdesk/usecase"
)

// bcrypt ignores everything past 72 bytes.
const maxPasswordBytes = 72

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(session *domain.Session, user domain.PublicUser) (string, error)
	Parse(token string) (*domain.Claims, error)
}

type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

type LoginResult struct {
	Token   string            `json:"token"`
	User    domain.PublicUser `json:"user"`
	Session *domain.Session   `json:"-"`
}

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func New(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	ttl time.Duration,
	logger *zap.Logger,
) *UseCase {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		tokens:   tokens,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

func (uc *UseCase) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.TrimSpace(in.Email)
	if fullName == "" || email == "" || in.Password == "" {
		return nil, domain.ErrFieldsRequired
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, domain.ErrPasswordTooLong
	}

	if _, err := uc.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, usecase.Internal("failed to look up user", err)
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, usecase.Internal("failed to hash password", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, usecase.Internal("failed to create user", err)
	}

	logger.WithRequestID(ctx, uc.logger).Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// Login answers unknown email and wrong password with the same error.
func (uc *UseCase) Login(ctx context.Context, email, password, userAgent string) (*LoginResult, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, usecase.Internal("failed to look up user", err)
	}
	if err := uc.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := uc.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		UserAgent: userAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.ttl),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, usecase.Internal("failed to store session", err)
	}

	public := user.Public()
	token, err := uc.tokens.Issue(session, public)
	if err != nil {
		_ = uc.sessions.Delete(ctx, session.ID)
		return nil, usecase.Internal("failed to issue token", err)
	}

	logger.WithRequestID(ctx, uc.logger).Info("user logged in",
		zap.String("user_id", user.ID),
		zap.String("session_id", session.ID))
	return &LoginResult{Token: token, User: public, Session: session}, nil
}

// Authenticate accepts a token only while its session is still stored.
func (uc *UseCase) Authenticate(ctx context.Context, token string) (*domain.Claims, error) {
	claims, err := uc.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	if _, err := uc.liveSession(ctx, claims.SessionID, claims.User.ID); err != nil {
		return nil, err
	}
	return claims, nil
}

// Reissue signs a fresh token for an existing session so claims pick up
// profile changes. The session keeps its expiry.
func (uc *UseCase) Reissue(ctx context.Context, sessionID string, user domain.PublicUser) (string, error) {
	session, err := uc.liveSession(ctx, sessionID, user.ID)
	if err != nil {
		return "", err
	}
	token, err := uc.tokens.Issue(session, user)
	if err != nil {
		return "", usecase.Internal("failed to issue token", err)
	}
	return token, nil
}

func (uc *UseCase) liveSession(ctx context.Context, sessionID, userID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, domain.ErrUnauthorized
	}
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, usecase.Internal("failed to load session", err)
	}
	if session.UserID != userID || session.IsExpired(uc.now()) {
		return nil, domain.ErrUnauthorized
	}
	return session, nil
}

func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return domain.ErrUnauthorized
	}
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		return usecase.Internal("failed to revoke session", err)
	}
	return nil
}
