package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/berekarkirti/Fruit-Inventory/config"
	"github.com/berekarkirti/Fruit-Inventory/internal/database/models"
	"github.com/berekarkirti/Fruit-Inventory/internal/dto"
	"github.com/berekarkirti/Fruit-Inventory/internal/repository"
	"github.com/berekarkirti/Fruit-Inventory/internal/utils"
	"github.com/berekarkirti/Fruit-Inventory/internal/workflow"
)

// ErrInvalidCredentials is deliberately generic: unknown username and
// wrong password are indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid username or password")

const bcryptCost = 12

// Default accounts created by Setup on an empty user directory.
const (
	defaultManagerUsername = "manager"
	defaultManagerPassword = "manager123"
	defaultOwnerUsername   = "owner"
	defaultOwnerPassword   = "owner123"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Setup(ctx context.Context) (*dto.SetupResponse, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

type authService struct {
	repo repository.UserRepository
	cfg  config.AuthConfig
}

func NewAuthService(repo repository.UserRepository, cfg config.AuthConfig) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, _, err := utils.GenerateToken([]byte(s.cfg.JWTSecret), user.Username, user.Role, s.cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Message:   "Login successful",
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.cfg.TokenTTL.Seconds()),
		User: dto.UserSummary{
			Username: user.Username,
			Role:     user.Role,
		},
	}, nil
}

// Setup bootstraps one Manager and one Owner on an empty directory.
// Calling it again creates nothing and returns the existing accounts.
func (s *authService) Setup(ctx context.Context) (*dto.SetupResponse, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	if n > 0 {
		users, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		return &dto.SetupResponse{
			Message: "Accounts already exist",
			Created: false,
			Users:   summarize(users),
		}, nil
	}

	defaults := []struct {
		username, password string
		role               workflow.Role
	}{
		{defaultManagerUsername, defaultManagerPassword, workflow.RoleManager},
		{defaultOwnerUsername, defaultOwnerPassword, workflow.RoleOwner},
	}

	created := make([]models.User, 0, len(defaults))
	for _, d := range defaults {
		hash, err := bcrypt.GenerateFromPassword([]byte(d.password), bcryptCost)
		if err != nil {
			return nil, err
		}
		u := models.User{
			Username:     d.username,
			PasswordHash: string(hash),
			Role:         string(d.role),
		}
		if err := s.repo.Create(ctx, &u); err != nil {
			return nil, err
		}
		created = append(created, u)
	}

	return &dto.SetupResponse{
		Message: "Default accounts created",
		Created: true,
		Users:   summarize(created),
	}, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

func summarize(users []models.User) []dto.UserSummary {
	out := make([]dto.UserSummary, len(users))
	for i, u := range users {
		out[i] = dto.UserSummary{Username: u.Username, Role: u.Role}
	}
	return out
}
