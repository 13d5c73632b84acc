package repositories

import (
	"context"

	"trznica/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type WaitlistRepository interface {
	Create(ctx context.Context, entry *models.WaitlistEntry) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type waitlistRepo struct {
	db *pgxpool.Pool
}

func NewWaitlistRepository(db *pgxpool.Pool) WaitlistRepository {
	return &waitlistRepo{db: db}
}

func (r *waitlistRepo) Create(ctx context.Context, entry *models.WaitlistEntry) error {
	query := `
		INSERT INTO waitlist (id, email, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (email) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, entry.ID, entry.Email)
	return err
}

func (r *waitlistRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM waitlist WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}
