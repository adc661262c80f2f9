package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
	pkgdb "github.com/Skotchmaster/ecommerce_api/pkg/db"
	"github.com/Skotchmaster/ecommerce_api/pkg/hash"
)

type UserService struct {
	Repo *repo.GormRepo
}

func (s *UserService) ListUsers(ctx context.Context, offset, limit int) (int64, []models.User, error) {
	return s.Repo.ListUsers(ctx, offset, limit)
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, req transport.UpdateUserRequest) (uuid.UUID, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}

	if req.Password != nil {
		pwHash, err := hash.HashPassword(*req.Password)
		if err != nil || pwHash == "" {
			return uuid.Nil, fmt.Errorf("%w: could not hash password", ErrValidation)
		}
		user.Password = pwHash
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Country != nil {
		user.Country = *req.Country
	}
	if req.City != nil {
		user.City = *req.City
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		if pkgdb.IsUniqueViolation(err) {
			return uuid.Nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return uuid.Nil, err
	}
	return user.ID, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return uuid.Nil, fmt.Errorf("%w: user not found", ErrNotFound)
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return uuid.Nil, fmt.Errorf("%w: user has orders", ErrConflict)
		}
		return uuid.Nil, err
	}
	return id, nil
}
