package services

import (
	"errors"
	"fmt"

	"estatehub_backend/internal/repositories"
	"estatehub_backend/pkg/apperrors"
)

// mapRepoErr turns repository sentinels into the given AppErrors. Anything
// else is wrapped with op and surfaces as a 500.
func mapRepoErr(err error, op string, notFound, duplicate *apperrors.AppError) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, repositories.ErrDuplicate) && duplicate != nil:
		return duplicate
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return fmt.Errorf("%s: %w", op, err)
}
