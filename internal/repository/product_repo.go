package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"catalog_admin/internal/domain"

	"github.com/sirupsen/logrus"
)

const productColumns = `id, name, description, price, image, category_id`

var productSortColumns = map[domain.SortField]string{
	domain.SortByID:    "id",
	domain.SortByName:  "name",
	domain.SortByPrice: "price",
}

var productUpdateColumns = map[string]string{
	"name":        "name",
	"description": "description",
	"price":       "price",
	"image":       "image",
	"categoryId":  "category_id",
}

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{
		db:  db,
		log: logger,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Image,
		&product.CategoryID,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *postgresProductRepository) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
        INSERT INTO products (name, description, price, image, category_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		product.Name, product.Description, product.Price, product.Image, product.CategoryID,
	).Scan(&product.ID)
	if err != nil {
		if translated := translatePqError(err); translated != nil {
			r.log.Warnf("Constraint violation creating product '%s': %v", product.Name, err)
			return nil, translated
		}
		r.log.Errorf("Failed to create product '%s': %v", product.Name, err)
		return nil, fmt.Errorf("could not create product: %w", err)
	}
	r.log.Infof("Product created successfully with ID: %d, Name: %s", product.ID, product.Name)
	return product, nil
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id int) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Product with ID %d not found", id)
			return nil, fmt.Errorf("product with id %d: %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Failed to get product by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get product by id: %w", err)
	}

	r.log.Debugf("Product retrieved successfully with ID: %d", id)
	return product, nil
}

func (r *postgresProductRepository) ReplaceProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
        UPDATE products
        SET name = $1, description = $2, price = $3, image = $4, category_id = $5
        WHERE id = $6
        RETURNING ` + productColumns

	updated, err := scanProduct(r.db.QueryRowContext(ctx, query,
		product.Name, product.Description, product.Price, product.Image, product.CategoryID, product.ID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Product with ID %d not found for replace", product.ID)
			return nil, fmt.Errorf("product with id %d: %w", product.ID, domain.ErrNotFound)
		}
		if translated := translatePqError(err); translated != nil {
			r.log.Warnf("Constraint violation replacing product ID %d: %v", product.ID, err)
			return nil, translated
		}
		r.log.Errorf("Failed to replace product ID %d: %v", product.ID, err)
		return nil, fmt.Errorf("could not update product: %w", err)
	}

	r.log.Infof("Product replaced successfully with ID: %d", updated.ID)
	return updated, nil
}

func (r *postgresProductRepository) UpdateProduct(ctx context.Context, id int, updates map[string]interface{}) (*domain.Product, error) {
	if len(updates) == 0 {
		r.log.Infof("Repository: No fields provided for product update ID %d. Returning current product.", id)
		return r.GetProductByID(ctx, id)
	}

	args := []interface{}{}
	setClauses := []string{}
	argCounter := 1

	for key, value := range updates {
		column, ok := productUpdateColumns[key]
		if !ok {
			r.log.Warnf("Repository: Skipping unknown field '%s' provided for product update ID %d", key, id)
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argCounter))
		args = append(args, value)
		argCounter++
	}

	if len(setClauses) == 0 {
		r.log.Warnf("Repository: No valid known fields provided for product update ID %d. Returning current product.", id)
		return r.GetProductByID(ctx, id)
	}

	query := "UPDATE products SET " + strings.Join(setClauses, ", ") +
		fmt.Sprintf(" WHERE id = $%d RETURNING ", argCounter) + productColumns
	args = append(args, id)

	r.log.Debugf("Repository: Executing partial update query for ID %d: %s with args: %v", id, query, args)

	updated, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Product with ID %d not found for update", id)
			return nil, fmt.Errorf("product with id %d: %w", id, domain.ErrNotFound)
		}
		if translated := translatePqError(err); translated != nil {
			r.log.Warnf("Repository: Constraint violation for product update ID %d: %v", id, err)
			return nil, translated
		}
		r.log.Errorf("Repository: Failed to execute partial update for product ID %d: %v", id, err)
		return nil, fmt.Errorf("could not partially update product: %w", err)
	}

	r.log.Infof("Repository: Partial update successful for product ID %d", id)
	return updated, nil
}

func (r *postgresProductRepository) DeleteProduct(ctx context.Context, id int) error {
	query := `DELETE FROM products WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.log.Errorf("Failed to delete product ID %d: %v", id, err)
		return fmt.Errorf("could not delete product: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Failed to get rows affected after deleting product ID %d: %v", id, err)
		return fmt.Errorf("could not confirm product deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Attempted to delete non-existent product ID %d", id)
		return fmt.Errorf("product with id %d: %w", id, domain.ErrNotFound)
	}
	r.log.Infof("Product deleted successfully with ID: %d", id)
	return nil
}

// buildProductFilter returns the WHERE clause (possibly empty) and its positional args.
func buildProductFilter(q domain.ProductQuery) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}

	if q.Search != "" {
		args = append(args, "%"+escapeLike(q.Search)+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	if q.CategoryID > 0 {
		args = append(args, q.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id = $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func buildProductOrder(q domain.ProductQuery) string {
	column, ok := productSortColumns[q.Sort]
	if !ok {
		return " ORDER BY id ASC"
	}
	direction := "ASC"
	if q.Order == domain.OrderDesc {
		direction = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id ASC", column, direction)
}

func (r *postgresProductRepository) ListProducts(ctx context.Context, q domain.ProductQuery) ([]domain.Product, int, error) {
	where, args := buildProductFilter(q)

	var total int
	countQuery := `SELECT COUNT(*) FROM products` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		r.log.Errorf("Failed to count products for query %+v: %v", q, err)
		return nil, 0, fmt.Errorf("could not count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products` + where + buildProductOrder(q)
	if q.Paged() {
		args = append(args, q.Limit, q.Offset())
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Failed to list products for query %+v: %v", q, err)
		return nil, 0, fmt.Errorf("could not list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			r.log.Errorf("Failed to scan product row: %v", err)
			return nil, 0, fmt.Errorf("error scanning product data: %w", err)
		}
		products = append(products, *product)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during products list iteration: %v", err)
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	r.log.Debugf("Retrieved %d of %d products (page: %d, limit: %d)", len(products), total, q.Page, q.Limit)
	return products, total, nil
}
