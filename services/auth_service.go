package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"stashbox/config"
	"stashbox/models"
	"stashbox/repositories"
	"stashbox/utils"

	"gorm.io/gorm"
)

type RegisterInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthUser struct {
	ID    uint        `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

type LoginOutput struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

type ProfileOutput struct {
	ID              uint        `json:"id"`
	Email           string      `json:"email"`
	Role            models.Role `json:"role"`
	IsEmailVerified bool        `json:"is_email_verified"`
	CreatedAt       time.Time   `json:"created_at"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (AuthUser, error)
	Login(ctx context.Context, in LoginInput) (LoginOutput, error)
	GetProfile(ctx context.Context, userID uint) (ProfileOutput, error)
}

type authService struct {
	txManager TxManager
	users     repositories.UserRepository
	usage     repositories.UsageRepository
}

func NewAuthService(txManager TxManager, users repositories.UserRepository, usage repositories.UsageRepository) AuthService {
	return &authService{txManager: txManager, users: users, usage: usage}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (AuthUser, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return AuthUser{}, newValidationError("a valid email is required")
	}
	if len(in.Password) < 8 {
		return AuthUser{}, newValidationError("password must be at least 8 characters")
	}
	count, err := s.users.CountByEmail(ctx, email)
	if err != nil {
		return AuthUser{}, newInternalError("failed to check email", err)
	}
	if count > 0 {
		return AuthUser{}, newConflictError("email already registered")
	}

	hashedPassword, err := utils.HashPassword(in.Password)
	if err != nil {
		return AuthUser{}, newInternalError("failed to hash password", err)
	}

	quota := config.AppConfig.Quota
	user := models.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         models.RoleUser,
		IsActive:     true,
	}

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.users.Create(ctx, tx, &user); err != nil {
			return err
		}
		usage := models.UserUsage{
			UserID:          user.ID,
			MaxStorageBytes: quota.DefaultStorageBytes,
			MaxItems:        quota.DefaultMaxItems,
			MaxCollections:  quota.DefaultMaxCollections,
		}
		return s.usage.Create(ctx, tx, &usage)
	})
	if err != nil {
		return AuthUser{}, newInternalError("failed to create user", err)
	}

	return AuthUser{ID: user.ID, Email: user.Email, Role: user.Role}, nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := s.users.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginOutput{}, newUnauthorizedError("invalid email or password")
		}
		return LoginOutput{}, newInternalError("failed to query user", err)
	}

	if !user.IsActive {
		return LoginOutput{}, newUnauthorizedError("account is deactivated")
	}
	if !utils.CheckPassword(in.Password, user.PasswordHash) {
		return LoginOutput{}, newUnauthorizedError("invalid email or password")
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return LoginOutput{}, newInternalError("failed to generate token", err)
	}

	return LoginOutput{
		Token: token,
		User:  AuthUser{ID: user.ID, Email: user.Email, Role: user.Role},
	}, nil
}

func (s *authService) GetProfile(ctx context.Context, userID uint) (ProfileOutput, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileOutput{}, newNotFoundError("user not found")
		}
		return ProfileOutput{}, newInternalError("failed to query user", err)
	}

	return ProfileOutput{
		ID:              user.ID,
		Email:           user.Email,
		Role:            user.Role,
		IsEmailVerified: user.IsEmailVerified,
		CreatedAt:       user.CreatedAt,
	}, nil
}
