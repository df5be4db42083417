package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/taskdesk/domain"
	"github.com/fastygo/taskdesk/repository"
	"github.com/fastygo/taskdesk/usecase"
)

type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		logger: logger,
	}
}

func (uc *UseCase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, usecase.Internal("failed to load profile", err)
	}
	return user, nil
}

// SelectProfession stores which dashboard the user should land on.
func (uc *UseCase) SelectProfession(ctx context.Context, userID, profession string) (*domain.User, error) {
	p, err := domain.ParseProfession(profession)
	if err != nil {
		return nil, err
	}
	user, err := uc.users.UpdateProfession(ctx, userID, p)
	if err != nil {
		return nil, usecase.Internal("failed to update profession", err)
	}
	uc.logger.Info("profession selected", zap.String("user_id", userID), zap.String("profession", string(p)))
	return user, nil
}
