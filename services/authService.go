package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"civicsync-triage/models"
)

var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// AuthService manages accounts: citizen sign-up, login and admin creation.
type AuthService struct {
	users  UserRepository
	now    func() time.Time
	logger *slog.Logger
}

func NewAuthService(users UserRepository, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, now: time.Now, logger: resolveLogger(logger)}
}

// Register creates a citizen account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.create(ctx, in, models.RoleCitizen)
}

// CreateAdmin creates an administrator account.
func (s *AuthService) CreateAdmin(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.create(ctx, in, models.RoleAdmin)
}

func (s *AuthService) create(ctx context.Context, in RegisterInput, role models.Role) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	now := s.now()
	user := &models.User{
		Name:      strings.TrimSpace(in.Name),
		Email:     email,
		Phone:     in.Phone,
		Password:  in.Password,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.HashPassword(); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	// A concurrent sign-up can pass the lookup above and lose on the index.
	if err := s.users.Insert(ctx, user); errors.Is(err, models.ErrDuplicateUser) {
		return nil, ErrEmailTaken
	} else if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// Login checks a password against the stored hash.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !user.ComparePassword(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// SeedAdmin makes sure an administrator with email exists. It does nothing
// when email or password is blank, or when the account is already there.
func (s *AuthService) SeedAdmin(ctx context.Context, name, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil
	}
	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}

	_, err := s.create(ctx, RegisterInput{Name: name, Email: email, Password: password}, models.RoleAdmin)
	if errors.Is(err, ErrEmailTaken) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	s.logger.InfoContext(ctx, "seeded admin user", "email", strings.ToLower(strings.TrimSpace(email)))
	return nil
}
