package auth

import (
	"context"
	"errors"

	"go-erp/internal/features/user"
	"go-erp/pkg/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
}

type AuthServiceImpl struct {
	UserService user.UserService
}

func NewAuthService(userService user.UserService) AuthService {
	return &AuthServiceImpl{UserService: userService}
}

// Login matches the stored credential and issues a token.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, error) {
	usr, err := s.UserService.GetByUsername(ctx, username)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if usr.Password != password {
		return "", ErrInvalidCredentials
	}

	return utils.GenerateToken(usr.ID, usr.Username, string(usr.Role))
}
