package repositories

import (
	"context"
	"errors"

	"trznica/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FarmRepository interface {
	Create(ctx context.Context, farm *models.Farm) error
	Update(ctx context.Context, farm *models.Farm) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Farm, error)
	// GetByUserID returns (nil, nil) when the user has no farm yet.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Farm, error)
	ListWithRating(ctx context.Context, limit, offset int) ([]*models.FarmWithRating, error)
	Count(ctx context.Context) (int, error)
}

type farmRepo struct {
	db *pgxpool.Pool
}

func NewFarmRepository(db *pgxpool.Pool) FarmRepository {
	return &farmRepo{db: db}
}

const farmColumns = `id, user_id, name, description, address, city, postal_code, phone, website, verified, latitude, longitude, created_at, updated_at`

func scanFarm(row pgx.Row) (*models.Farm, error) {
	farm := &models.Farm{}
	err := row.Scan(&farm.ID, &farm.UserID, &farm.Name, &farm.Description, &farm.Address, &farm.City, &farm.PostalCode, &farm.Phone, &farm.Website, &farm.Verified, &farm.Latitude, &farm.Longitude, &farm.CreatedAt, &farm.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return farm, nil
}

func (r *farmRepo) Create(ctx context.Context, farm *models.Farm) error {
	query := `
		INSERT INTO farms (id, user_id, name, description, address, city, postal_code, phone, website, verified, latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, farm.ID, farm.UserID, farm.Name, farm.Description, farm.Address, farm.City, farm.PostalCode, farm.Phone, farm.Website, farm.Verified, farm.Latitude, farm.Longitude)
	return err
}

func (r *farmRepo) Update(ctx context.Context, farm *models.Farm) error {
	query := `
		UPDATE farms
		SET name = $1, description = $2, address = $3, city = $4, postal_code = $5, phone = $6, website = $7, latitude = $8, longitude = $9, updated_at = NOW()
		WHERE id = $10
	`
	_, err := r.db.Exec(ctx, query, farm.Name, farm.Description, farm.Address, farm.City, farm.PostalCode, farm.Phone, farm.Website, farm.Latitude, farm.Longitude, farm.ID)
	return err
}

func (r *farmRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	query := `SELECT ` + farmColumns + ` FROM farms WHERE id = $1`
	return scanFarm(r.db.QueryRow(ctx, query, id))
}

func (r *farmRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Farm, error) {
	query := `SELECT ` + farmColumns + ` FROM farms WHERE user_id = $1`
	return scanFarm(r.db.QueryRow(ctx, query, userID))
}

func (r *farmRepo) ListWithRating(ctx context.Context, limit, offset int) ([]*models.FarmWithRating, error) {
	query := `
		SELECT f.id, f.user_id, f.name, f.description, f.address, f.city, f.postal_code, f.phone, f.website, f.verified, f.latitude, f.longitude, f.created_at, f.updated_at,
			COALESCE(AVG(r.rating), 0), COUNT(r.id)
		FROM farms f
		LEFT JOIN reviews r ON r.farm_id = f.id
		GROUP BY f.id
		ORDER BY f.verified DESC, f.name ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var farms []*models.FarmWithRating
	for rows.Next() {
		farm := &models.FarmWithRating{}
		if err := rows.Scan(&farm.ID, &farm.UserID, &farm.Name, &farm.Description, &farm.Address, &farm.City, &farm.PostalCode, &farm.Phone, &farm.Website, &farm.Verified, &farm.Latitude, &farm.Longitude, &farm.CreatedAt, &farm.UpdatedAt, &farm.Rating, &farm.TotalReviews); err != nil {
			return nil, err
		}
		farms = append(farms, farm)
	}
	return farms, rows.Err()
}

func (r *farmRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM farms`).Scan(&count)
	return count, err
}
