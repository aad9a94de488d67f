package catalog

import (
	"context"
	"database/sql"

	"github.com/aloepure/storefront/internal/domain"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(ctx context.Context, category string) ([]domain.Product, error) {
	query := `
		SELECT id, title, price, image, category, rating
		FROM products
		ORDER BY title
	`
	args := []any{}
	if category != "" {
		query = `
			SELECT id, title, price, image, category, rating
			FROM products
			WHERE category = $1
			ORDER BY title
		`
		args = append(args, category)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.Image, &p.Category, &p.Rating); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p := &domain.Product{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, price, image, category, rating
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Title, &p.Price, &p.Image, &p.Category, &p.Rating)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return p, nil
}
