package repositories

import (
	"context"

	"trznica/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]*models.Category, error)
	ListWithCounts(ctx context.Context) ([]*models.CategoryWithCount, error)
}

type categoryRepo struct {
	db *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) List(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, slug, icon FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		cat := &models.Category{}
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.Icon); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (r *categoryRepo) ListWithCounts(ctx context.Context) ([]*models.CategoryWithCount, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.icon, COUNT(p.id)
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id AND p.available = true
		GROUP BY c.id
		ORDER BY c.name ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.CategoryWithCount
	for rows.Next() {
		cat := &models.CategoryWithCount{}
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.Icon, &cat.ProductCount); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}
