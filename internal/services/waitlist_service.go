package services

import (
	"context"
	"fmt"
	"strings"

	"trznica/internal/common"
	"trznica/internal/models"
	"trznica/internal/repositories"

	"github.com/google/uuid"
)

type WaitlistService interface {
	// Join records the signup. Returns false when the email was already
	// on the list.
	Join(ctx context.Context, email string) (bool, error)
}

type waitlistService struct {
	waitlistRepo repositories.WaitlistRepository
}

func NewWaitlistService(waitlistRepo repositories.WaitlistRepository) WaitlistService {
	return &waitlistService{waitlistRepo: waitlistRepo}
}

func (s *waitlistService) Join(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return false, fmt.Errorf("Neveljaven email: %w", common.ErrValidation)
	}

	exists, err := s.waitlistRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	entry := &models.WaitlistEntry{ID: uuid.New(), Email: email}
	if err := s.waitlistRepo.Create(ctx, entry); err != nil {
		return false, err
	}
	return true, nil
}
