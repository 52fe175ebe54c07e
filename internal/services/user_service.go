package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"trendz_shop/internal/apperrors"
	"trendz_shop/internal/models"
	"trendz_shop/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const MinPasswordLength = 6

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     models.UserRole
}

type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id uint) error
	CheckPassword(user *models.User, password string) bool
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{userRepo: userRepo, log: log.Named("users")}
}

func (s *userService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.Validation("invalid email address %q", input.Email)
	}
	if len(input.Password) < MinPasswordLength {
		return nil, apperrors.Validation("password must be at least %d characters", MinPasswordLength)
	}
	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, apperrors.Validation("invalid role %q", role)
	}

	taken, err := s.userRepo.EmailTaken(ctx, email)
	if err != nil {
		return nil, apperrors.Persistence("Failed to check email", err)
	}
	if taken {
		return nil, apperrors.Validation("email %s is already registered", email)
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.New(apperrors.KindInternal, "Failed to hash password", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         string(role),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.Persistence("Failed to create user", err)
	}

	s.log.Info("user created", zap.Uint("user_id", user.ID), zap.String("role", user.Role))
	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User", id)
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("User %s not found", email)
	}
	if err != nil {
		return nil, apperrors.Persistence("Failed to load user", err)
	}
	return user, nil
}

func (s *userService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, apperrors.Persistence("Failed to list users", err)
	}
	return users, nil
}

// DeleteUser soft-deletes the user. Their orders keep the user id.
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "User", id)
	}
	s.log.Info("user deleted", zap.Uint("user_id", id))
	return nil
}

func (s *userService) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
