package user

import (
	"context"
	"errors"
	"strings"

	"fitplatform/internal/auth"
	"fitplatform/internal/logger"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("role must be client or trainer")
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error)
}

// WalletOpener provisions a wallet for new accounts.
type WalletOpener interface {
	Open(ctx context.Context, userID int) error
}

type service struct {
	repo      Repository
	wallets   WalletOpener
	jwtSecret string
}

func NewService(repo Repository, wallets WalletOpener, jwtSecret string) Service {
	return &service{
		repo:      repo,
		wallets:   wallets,
		jwtSecret: jwtSecret,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	role := req.Role
	if role == "" {
		role = auth.RoleClient
	}
	if role != auth.RoleClient && role != auth.RoleTrainer {
		return nil, ErrInvalidRole
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, strings.TrimSpace(req.Name), email, passwordHash, role)
	if err != nil {
		return nil, err
	}

	if s.wallets != nil {
		if err := s.wallets.Open(ctx, user.ID); err != nil {
			logger.Error("failed to open wallet", "user_id", user.ID, "error", err)
		}
	}

	logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return s.issue(user, true)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user, true)
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	claims, err := auth.ParseRefreshToken(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return s.issue(user, false)
}

func (s *service) issue(user *User, withRefresh bool) (*LoginResponse, error) {
	resp := &LoginResponse{User: *user}

	var err error
	if withRefresh {
		resp.AccessToken, resp.RefreshToken, err = auth.GenerateTokens(user.ID, user.Email, user.Role, s.jwtSecret)
	} else {
		resp.AccessToken, err = auth.GenerateAccessToken(user.ID, user.Email, user.Role, s.jwtSecret)
	}
	if err != nil {
		return nil, err
	}

	return resp, nil
}
