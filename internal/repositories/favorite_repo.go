package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FavoriteRepository interface {
	ListProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	Create(ctx context.Context, userID, productID uuid.UUID) error
	Delete(ctx context.Context, userID, productID uuid.UUID) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type favoriteRepo struct {
	db *pgxpool.Pool
}

func NewFavoriteRepository(db *pgxpool.Pool) FavoriteRepository {
	return &favoriteRepo{db: db}
}

func (r *favoriteRepo) ListProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT product_id FROM favorites WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *favoriteRepo) Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND product_id = $2)`, userID, productID).Scan(&exists)
	return exists, err
}

func (r *favoriteRepo) Create(ctx context.Context, userID, productID uuid.UUID) error {
	query := `
		INSERT INTO favorites (id, user_id, product_id, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, product_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, uuid.New(), userID, productID)
	return err
}

func (r *favoriteRepo) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND product_id = $2`, userID, productID)
	return err
}

func (r *favoriteRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM favorites WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}
