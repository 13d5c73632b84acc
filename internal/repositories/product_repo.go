package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trznica/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// GetDetail returns the product joined with farm and category, or
	// (nil, nil) when it does not exist.
	GetDetail(ctx context.Context, id uuid.UUID) (*models.CatalogProduct, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByFarm(ctx context.Context, farmID uuid.UUID) ([]*models.Product, error)
	// ListAvailableByFarm is the public slice of a farm's offer, used on
	// the farm detail page.
	ListAvailableByFarm(ctx context.Context, farmID uuid.UUID) ([]*models.Product, error)
	Catalog(ctx context.Context, filter models.CatalogFilter) ([]*models.CatalogProduct, int, error)
	// ListAvailableByIDs loads the checkout view of the given products.
	// Products that are missing or not listed as available are simply
	// absent from the result; the checkout service treats absence as
	// unavailability.
	ListAvailableByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.CheckoutProduct, error)
	UpdateImage(ctx context.Context, id uuid.UUID, objectName string) error
	ListLowStock(ctx context.Context, threshold int) ([]*models.LowStockProduct, error)
	CountByFarm(ctx context.Context, farmID uuid.UUID) (int, error)
	CountAvailable(ctx context.Context) (int, error)
}

type productRepo struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, farm_id, category_id, name, description, price, unit, stock, available, image, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(&p.ID, &p.FarmID, &p.CategoryID, &p.Name, &p.Description, &p.Price, &p.Unit, &p.Stock, &p.Available, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, farm_id, category_id, name, description, price, unit, stock, available, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.FarmID, product.CategoryID, product.Name, product.Description, product.Price, product.Unit, product.Stock, product.Available, product.Image)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

func (r *productRepo) GetDetail(ctx context.Context, id uuid.UUID) (*models.CatalogProduct, error) {
	query := `
		SELECT p.id, p.farm_id, p.category_id, p.name, p.description, p.price, p.unit, p.stock, p.available, p.image, p.created_at, p.updated_at,
			f.name, f.city, f.verified, c.name, c.slug, c.icon
		FROM products p
		JOIN farms f ON f.id = p.farm_id
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`
	cp := &models.CatalogProduct{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&cp.ID, &cp.FarmID, &cp.CategoryID, &cp.Name, &cp.Description, &cp.Price, &cp.Unit, &cp.Stock, &cp.Available, &cp.Image, &cp.CreatedAt, &cp.UpdatedAt,
		&cp.FarmName, &cp.FarmCity, &cp.FarmVerified, &cp.CategoryName, &cp.CategorySlug, &cp.CategoryIcon)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cp, nil
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET category_id = $1, name = $2, description = $3, price = $4, unit = $5, stock = $6, available = $7, updated_at = NOW()
		WHERE id = $8
	`
	_, err := r.db.Exec(ctx, query, product.CategoryID, product.Name, product.Description, product.Price, product.Unit, product.Stock, product.Available, product.ID)
	return err
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

func (r *productRepo) ListByFarm(ctx context.Context, farmID uuid.UUID) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE farm_id = $1 ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query, farmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p := &models.Product{}
		if err := rows.Scan(&p.ID, &p.FarmID, &p.CategoryID, &p.Name, &p.Description, &p.Price, &p.Unit, &p.Stock, &p.Available, &p.Image, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productRepo) ListAvailableByFarm(ctx context.Context, farmID uuid.UUID) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE farm_id = $1 AND available = true ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query, farmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p := &models.Product{}
		if err := rows.Scan(&p.ID, &p.FarmID, &p.CategoryID, &p.Name, &p.Description, &p.Price, &p.Unit, &p.Stock, &p.Available, &p.Image, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Catalog lists available products with optional category and search
// filters, returning the page and the total match count.
func (r *productRepo) Catalog(ctx context.Context, filter models.CatalogFilter) ([]*models.CatalogProduct, int, error) {
	conditions := []string{"p.available = true"}
	args := []any{}
	argPos := 1

	if filter.CategorySlug != "" {
		conditions = append(conditions, fmt.Sprintf("c.slug = $%d", argPos))
		args = append(args, filter.CategorySlug)
		argPos++
	}
	if filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filter.Query+"%")
		argPos++
	}
	where := strings.Join(conditions, " AND ")

	countQuery := `
		SELECT COUNT(*)
		FROM products p
		JOIN farms f ON f.id = p.farm_id
		JOIN categories c ON c.id = p.category_id
		WHERE ` + where
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(`
		SELECT p.id, p.farm_id, p.category_id, p.name, p.description, p.price, p.unit, p.stock, p.available, p.image, p.created_at, p.updated_at,
			f.name, f.city, f.verified, c.name, c.slug, c.icon
		FROM products p
		JOIN farms f ON f.id = p.farm_id
		JOIN categories c ON c.id = p.category_id
		WHERE %s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []*models.CatalogProduct
	for rows.Next() {
		cp := &models.CatalogProduct{}
		if err := rows.Scan(
			&cp.ID, &cp.FarmID, &cp.CategoryID, &cp.Name, &cp.Description, &cp.Price, &cp.Unit, &cp.Stock, &cp.Available, &cp.Image, &cp.CreatedAt, &cp.UpdatedAt,
			&cp.FarmName, &cp.FarmCity, &cp.FarmVerified, &cp.CategoryName, &cp.CategorySlug, &cp.CategoryIcon); err != nil {
			return nil, 0, err
		}
		products = append(products, cp)
	}
	return products, total, rows.Err()
}

func (r *productRepo) ListAvailableByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.CheckoutProduct, error) {
	query := `
		SELECT p.id, p.name, p.unit, p.price, p.stock, f.name
		FROM products p
		JOIN farms f ON f.id = p.farm_id
		WHERE p.id = ANY($1) AND p.available = true
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.CheckoutProduct
	for rows.Next() {
		p := &models.CheckoutProduct{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Unit, &p.Price, &p.Stock, &p.FarmName); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productRepo) UpdateImage(ctx context.Context, id uuid.UUID, objectName string) error {
	_, err := r.db.Exec(ctx, `UPDATE products SET image = $1, updated_at = NOW() WHERE id = $2`, objectName, id)
	return err
}

func (r *productRepo) ListLowStock(ctx context.Context, threshold int) ([]*models.LowStockProduct, error) {
	query := `
		SELECT p.id, p.name, p.stock, f.name
		FROM products p
		JOIN farms f ON f.id = p.farm_id
		WHERE p.available = true AND p.stock <= $1
		ORDER BY p.stock ASC
	`
	rows, err := r.db.Query(ctx, query, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.LowStockProduct
	for rows.Next() {
		p := &models.LowStockProduct{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Stock, &p.FarmName); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productRepo) CountByFarm(ctx context.Context, farmID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE farm_id = $1`, farmID).Scan(&count)
	return count, err
}

func (r *productRepo) CountAvailable(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE available = true`).Scan(&count)
	return count, err
}
