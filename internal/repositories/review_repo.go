package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewRepository interface {
	// FarmRating returns the average rating and review count of a farm;
	// (0, 0) when the farm has no reviews.
	FarmRating(ctx context.Context, farmID uuid.UUID) (float64, int, error)
}

type reviewRepo struct {
	db *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) ReviewRepository {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) FarmRating(ctx context.Context, farmID uuid.UUID) (float64, int, error) {
	var avg float64
	var count int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE farm_id = $1`, farmID).Scan(&avg, &count)
	return avg, count, err
}
