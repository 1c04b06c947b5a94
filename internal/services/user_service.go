package services

import (
	"context"

	"estatehub_backend/internal/logger"
	"estatehub_backend/internal/models"
	"estatehub_backend/internal/repositories"
	"estatehub_backend/internal/services/dto"
	"estatehub_backend/pkg/apperrors"
)

type UserService struct {
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context, q *dto.AdminUserQuery) ([]models.User, int64, error) {
	list, total, err := s.users.List(ctx, repositories.UserFilter{
		UserType: q.UserType,
		Status:   q.Status,
		Search:   q.Search,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	return list, total, mapRepoErr(err, "list users", nil, nil)
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "get user", apperrors.ErrUserNotFound, nil)
	}
	return user, nil
}

// UpdateStatus suspends or reactivates an account. Admins cannot change their own status.
func (s *UserService) UpdateStatus(ctx context.Context, actor Actor, id string, status models.UserStatus) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.ID == actor.ID {
		return nil, apperrors.ErrCannotModifySelf
	}
	if err := s.users.UpdateStatus(ctx, user.ID, status); err != nil {
		return nil, mapRepoErr(err, "update user status", apperrors.ErrUserNotFound, nil)
	}
	user.Status = status

	logger.CtxInfo(ctx, "user status changed", "target_user_id", user.ID.Hex(), "status", status)
	return user, nil
}
