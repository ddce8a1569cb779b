package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"catalog_admin/internal/domain"

	"github.com/sirupsen/logrus"
)

type ProductUseCase interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProductByID(ctx context.Context, id int) (*domain.Product, error)
	ReplaceProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int, updates map[string]interface{}) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int) error
	ListProducts(ctx context.Context, query domain.ProductQuery) ([]domain.Product, int, error)
}

type productUseCase struct {
	productRepo  domain.ProductRepository
	categoryRepo domain.CategoryRepository
	log          *logrus.Logger
}

func NewProductUseCase(pRepo domain.ProductRepository, cRepo domain.CategoryRepository, logger *logrus.Logger) ProductUseCase {
	return &productUseCase{
		productRepo:  pRepo,
		categoryRepo: cRepo,
		log:          logger,
	}
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{domain.ErrInvalidInput}, args...)...)
}

func (uc *productUseCase) validateProduct(ctx context.Context, product *domain.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		uc.log.Warn("Use Case: Product rejected, empty name")
		return invalid("product name cannot be empty")
	}
	if product.Price < 0 {
		uc.log.Warnf("Use Case: Product '%s' rejected, negative price: %f", product.Name, product.Price)
		return invalid("product price cannot be negative")
	}
	return uc.ensureCategory(ctx, product.CategoryID)
}

func (uc *productUseCase) ensureCategory(ctx context.Context, categoryID int) error {
	if categoryID <= 0 {
		uc.log.Warnf("Use Case: Product rejected, invalid category ID: %d", categoryID)
		return invalid("category is required")
	}
	if _, err := uc.categoryRepo.GetCategoryByID(ctx, categoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Warnf("Use Case: Category ID %d does not exist", categoryID)
			return invalid("category with id %d does not exist", categoryID)
		}
		return err
	}
	return nil
}

func (uc *productUseCase) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := uc.validateProduct(ctx, product); err != nil {
		return nil, err
	}

	uc.log.Infof("Use Case: Attempting to create product '%s'", product.Name)
	createdProduct, err := uc.productRepo.CreateProduct(ctx, product)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create product '%s': %v", product.Name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product '%s' created successfully with ID %d", createdProduct.Name, createdProduct.ID)
	return createdProduct, nil
}

func (uc *productUseCase) GetProductByID(ctx context.Context, id int) (*domain.Product, error) {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted to get product with invalid ID: %d", id)
		return nil, invalid("invalid product ID")
	}

	product, err := uc.productRepo.GetProductByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get product ID %d: %v", id, err)
		return nil, err
	}
	return product, nil
}

func (uc *productUseCase) ReplaceProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product.ID <= 0 {
		uc.log.Warnf("Use Case: Attempted replace with invalid product ID: %d", product.ID)
		return nil, invalid("invalid product ID for update")
	}
	if err := uc.validateProduct(ctx, product); err != nil {
		return nil, err
	}

	uc.log.Infof("Use Case: Attempting to replace product ID %d", product.ID)
	replaced, err := uc.productRepo.ReplaceProduct(ctx, product)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to replace product ID %d: %v", product.ID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product replaced successfully for ID %d", replaced.ID)
	return replaced, nil
}

// ToInt accepts JSON numbers and numeric strings.
func ToInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	}
	return 0, false
}

// ToFloat is ToInt for prices.
func ToFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, id int, updates map[string]interface{}) (*domain.Product, error) {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted update with invalid product ID: %d", id)
		return nil, invalid("invalid product ID for update")
	}

	if _, err := uc.productRepo.GetProductByID(ctx, id); err != nil {
		uc.log.Warnf("Use Case: Product ID %d not found for update: %v", id, err)
		return nil, err
	}

	validUpdates := make(map[string]interface{})
	for key, value := range updates {
		switch key {
		case "name":
			name, ok := value.(string)
			if !ok || strings.TrimSpace(name) == "" {
				uc.log.Warnf("Use Case: Invalid or empty 'name' provided for update ID %d", id)
				return nil, invalid("product name cannot be empty if provided for update")
			}
			validUpdates[key] = strings.TrimSpace(name)
		case "description", "image":
			text, ok := value.(string)
			if !ok {
				uc.log.Warnf("Use Case: Invalid '%s' provided for update ID %d", key, id)
				return nil, invalid("%s must be a string", key)
			}
			validUpdates[key] = text
		case "price":
			price, ok := ToFloat(value)
			if !ok || price < 0 {
				uc.log.Warnf("Use Case: Invalid or negative 'price' provided for update ID %d", id)
				return nil, invalid("product price cannot be negative if provided for update")
			}
			validUpdates[key] = price
		case "categoryId":
			catID, ok := ToInt(value)
			if !ok {
				uc.log.Warnf("Use Case: Invalid type for 'categoryId' provided for update ID %d", id)
				return nil, invalid("invalid type for categoryId")
			}
			if err := uc.ensureCategory(ctx, catID); err != nil {
				return nil, err
			}
			validUpdates[key] = catID
		case "id":
			// Clients echo the id back on PATCH; it is never writable.
		default:
			uc.log.Warnf("Use Case: Attempted to update unknown or unsupported field '%s' for product ID %d", key, id)
		}
	}

	if len(validUpdates) == 0 {
		uc.log.Infof("Use Case: No valid fields remaining after validation for update ID %d", id)
		return uc.productRepo.GetProductByID(ctx, id)
	}

	uc.log.Infof("Use Case: Attempting partial update for product ID %d with valid fields: %v", id, validUpdates)
	updatedProduct, err := uc.productRepo.UpdateProduct(ctx, id, validUpdates)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed partial update for product ID %d: %v", id, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product updated successfully for ID %d", updatedProduct.ID)
	return updatedProduct, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id int) error {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted delete with invalid product ID: %d", id)
		return invalid("invalid product ID for delete")
	}
	uc.log.Infof("Use Case: Attempting to delete product ID %d", id)
	if err := uc.productRepo.DeleteProduct(ctx, id); err != nil {
		uc.log.Warnf("Use Case: Repository failed to delete product ID %d: %v", id, err)
		return err
	}
	uc.log.Infof("Use Case: Product deleted successfully for ID %d", id)
	return nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, query domain.ProductQuery) ([]domain.Product, int, error) {
	if query.Page < 0 {
		uc.log.Warnf("Use Case: Invalid page parameter: %d", query.Page)
		return nil, 0, invalid("page must not be negative")
	}
	if query.Sort != "" && !domain.ValidSortField(query.Sort) {
		uc.log.Warnf("Use Case: Unsupported sort field: %s", query.Sort)
		return nil, 0, invalid("unsupported sort field %q", query.Sort)
	}
	switch query.Order {
	case "":
		query.Order = domain.OrderAsc
	case domain.OrderAsc, domain.OrderDesc:
	default:
		uc.log.Warnf("Use Case: Unsupported sort order: %s", query.Order)
		return nil, 0, invalid("unsupported sort order %q", query.Order)
	}
	if query.Page == 0 && query.Limit > 0 {
		query.Page = 1
	}
	if query.Paged() {
		if query.Limit <= 0 {
			query.Limit = domain.DefaultPageLimit
		}
		if query.Limit > domain.MaxPageLimit {
			query.Limit = domain.MaxPageLimit
		}
	}

	products, total, err := uc.productRepo.ListProducts(ctx, query)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list products: %v", err)
		return nil, 0, fmt.Errorf("could not retrieve products: %w", err)
	}
	uc.log.Debugf("Use Case: Retrieved %d of %d products", len(products), total)
	return products, total, nil
}
