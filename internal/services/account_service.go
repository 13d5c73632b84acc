package services

import (
	"context"
	"fmt"
	"strings"

	"trznica/internal/common"
	"trznica/internal/models"
	"trznica/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// AccountService handles registration, login and password changes.
type AccountService interface {
	Register(ctx context.Context, email, password, name, role string) (*models.User, error)
	// Login verifies credentials and returns the account. The error is
	// the same for unknown email and wrong password.
	Login(ctx context.Context, email, password string) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	// UpdateProfile changes name and email. A new email must not belong
	// to another account.
	UpdateProfile(ctx context.Context, userID uuid.UUID, name, email string) (*models.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
}

type accountService struct {
	userRepo repositories.UserRepository
}

func NewAccountService(userRepo repositories.UserRepository) AccountService {
	return &accountService{userRepo: userRepo}
}

func (s *accountService) Register(ctx context.Context, email, password, name, role string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("Neveljaven email: %w", common.ErrValidation)
	}
	if name == "" {
		return nil, fmt.Errorf("Ime je obvezno: %w", common.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("Geslo mora imeti vsaj %d znakov: %w", minPasswordLength, common.ErrValidation)
	}
	// Admin accounts are provisioned out of band.
	if role != models.RoleConsumer && role != models.RoleFarmer {
		return nil, fmt.Errorf("Neveljavna vloga: %w", common.ErrValidation)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("Ta email je ze v uporabi: %w", common.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *accountService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("Napacen email ali geslo: %w", common.ErrValidation)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("Napacen email ali geslo: %w", common.ErrValidation)
	}
	return user, nil
}

func (s *accountService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("Uporabnik ni najden: %w", common.ErrNotFound)
	}
	return user, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, userID uuid.UUID, name, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("Neveljaven email: %w", common.ErrValidation)
	}
	if name == "" {
		return nil, fmt.Errorf("Ime je obvezno: %w", common.ErrValidation)
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if email != user.Email {
		existing, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != userID {
			return nil, fmt.Errorf("Ta email je ze v uporabi: %w", common.ErrValidation)
		}
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, name, email); err != nil {
		return nil, err
	}
	user.Name = name
	user.Email = email
	return user, nil
}

func (s *accountService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return fmt.Errorf("Napacno trenutno geslo: %w", common.ErrValidation)
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("Geslo mora imeti vsaj %d znakov: %w", minPasswordLength, common.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, userID, string(hash))
}
