package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/filmatch/filmatch-backend/internal/logger"
	"github.com/filmatch/filmatch-backend/internal/repos"
	"github.com/filmatch/filmatch-backend/internal/utils"
)

type AuthService interface {
	// Login verifies the credentials and returns the user's id on match.
	Login(ctx context.Context, name, password string) (int, error)
}

type authService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewAuthService(log *logger.Logger, userRepo repos.UserRepo) AuthService {
	return &authService{
		log:      log.With("service", "AuthService"),
		userRepo: userRepo,
	}
}

func (as *authService) Login(ctx context.Context, name, password string) (int, error) {
	if name == "" || password == "" {
		return 0, ErrInvalidCredentials
	}

	user, err := as.userRepo.GetByName(ctx, nil, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrInvalidCredentials
		}
		return 0, fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.CheckPassword(user.Password, password) {
		return 0, ErrInvalidCredentials
	}
	return user.ID, nil
}
