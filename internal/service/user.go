package service

import (
	"errors"
	"fmt"
	"time"

	"backend/internal/models"
	"backend/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ( // Define custom errors
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type UserService interface {
	Register(username, email, password, firstname, lastname string) (*models.User, error)
	Login(username, password string, now time.Time) (string, time.Time, error)
	ResolveByUsername(username string) (*models.User, error)
	ByID(id int64) (*models.User, error)
	Update(userID int64, firstname, lastname, bio string) (*models.User, error)
}

type userService struct {
	repo   repository.UserRepository
	tokens *TokenService
	logger *zap.Logger
}

func NewUserService(repo repository.UserRepository, tokens *TokenService, logger *zap.Logger) UserService {
	return &userService{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

func (s *userService) Register(username, email, password, firstname, lastname string) (*models.User, error) {
	existing, err := s.repo.FindByUsername(username)
	if err != nil {
		s.logger.Error("Failed to check existing user", zap.Error(err))
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		Firstname:    firstname,
		Lastname:     lastname,
		PasswordHash: string(hash),
	}

	s.logger.Info("Saving user", zap.String("email", email))
	if err := s.repo.CreateUser(user); err != nil {
		s.logger.Error("Error during registration", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and issues a session token together with
// its expiration time.
func (s *userService) Login(username, password string, now time.Time) (string, time.Time, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		s.logger.Error("Failed to get user by username", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("failed to retrieve user: %w", err)
	}
	if user == nil {
		return "", time.Time{}, ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	tokenString, err := s.tokens.Issue(user, now)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User logged in successfully.", zap.String("username", user.Username))
	return tokenString, now.Add(s.tokens.TTL()), nil
}

// ResolveByUsername maps an authenticated principal name to its identity.
func (s *userService) ResolveByUsername(username string) (*models.User, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	return user, nil
}

func (s *userService) ByID(id int64) (*models.User, error) {
	user, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: id %d", ErrUserNotFound, id)
	}
	return user, nil
}

func (s *userService) Update(userID int64, firstname, lastname, bio string) (*models.User, error) {
	user, err := s.ByID(userID)
	if err != nil {
		return nil, err
	}

	user.Firstname = firstname
	user.Lastname = lastname
	user.Bio = bio

	if err := s.repo.Update(user); err != nil {
		s.logger.Error("Failed to update user", zap.Error(err))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}
