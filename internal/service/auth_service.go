package service

import (
	"toystore-pos/internal/model"
	"toystore-pos/internal/repository"
	"toystore-pos/pkg/jwt"

	"github.com/google/uuid"
)

type AuthService interface {
	Login(email, password string) (string, *model.User, error)
	GetUser(id uuid.UUID) (*model.User, error)
	ChangePassword(userID uuid.UUID, currentPassword, newPassword string) error
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

// Login verifies credentials and issues a signed token for the operator.
func (s *authService) Login(email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, ErrInvalidCredentials
	}
	if !user.CheckPassword(password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) GetUser(id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *authService) ChangePassword(userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return ErrUserNotFound
	}
	if !user.CheckPassword(currentPassword) {
		return ErrInvalidCredentials
	}
	if len(newPassword) < 8 {
		return &ValidationError{Field: "new_password", Rule: "min=8"}
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(userID, user.Password)
}
