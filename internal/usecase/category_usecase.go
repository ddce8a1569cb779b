package usecase

import (
	"context"
	"fmt"
	"strings"

	"catalog_admin/internal/domain"

	"github.com/sirupsen/logrus"
)

type CategoryUseCase interface {
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetCategoryByID(ctx context.Context, id int) (*domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

type categoryUseCase struct {
	categoryRepo domain.CategoryRepository
	log          *logrus.Logger
}

func NewCategoryUseCase(repo domain.CategoryRepository, logger *logrus.Logger) CategoryUseCase {
	return &categoryUseCase{
		categoryRepo: repo,
		log:          logger,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		uc.log.Warn("Use Case: Attempted to create category with empty name")
		return nil, fmt.Errorf("%w: category name cannot be empty", domain.ErrInvalidInput)
	}

	uc.log.Infof("Use Case: Attempting to create category with name '%s'", category.Name)
	createdCategory, err := uc.categoryRepo.CreateCategory(ctx, category)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create category '%s': %v", category.Name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Category '%s' created successfully with ID %d", createdCategory.Name, createdCategory.ID)
	return createdCategory, nil
}

func (uc *categoryUseCase) GetCategoryByID(ctx context.Context, id int) (*domain.Category, error) {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted to get category with invalid ID: %d", id)
		return nil, fmt.Errorf("%w: invalid category ID", domain.ErrInvalidInput)
	}

	category, err := uc.categoryRepo.GetCategoryByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get category ID %d: %v", id, err)
		return nil, err
	}
	return category, nil
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category.ID <= 0 {
		uc.log.Warnf("Use Case: Attempted update with invalid ID: %d", category.ID)
		return nil, fmt.Errorf("%w: invalid category ID for update", domain.ErrInvalidInput)
	}
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		uc.log.Warnf("Use Case: Attempted update for ID %d with empty name", category.ID)
		return nil, fmt.Errorf("%w: category name cannot be empty", domain.ErrInvalidInput)
	}

	uc.log.Infof("Use Case: Attempting to update category ID %d", category.ID)
	updatedCategory, err := uc.categoryRepo.UpdateCategory(ctx, category)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update category ID %d: %v", category.ID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Category updated successfully for ID %d", updatedCategory.ID)
	return updatedCategory, nil
}

// DeleteCategory does not check for referencing products.
func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id int) error {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted delete with invalid ID: %d", id)
		return fmt.Errorf("%w: invalid category ID for delete", domain.ErrInvalidInput)
	}

	uc.log.Infof("Use Case: Attempting to delete category ID %d", id)
	if err := uc.categoryRepo.DeleteCategory(ctx, id); err != nil {
		uc.log.Warnf("Use Case: Repository failed to delete category ID %d: %v", id, err)
		return err
	}

	uc.log.Infof("Use Case: Category deleted successfully for ID %d", id)
	return nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := uc.categoryRepo.ListCategories(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list categories: %v", err)
		return nil, fmt.Errorf("could not retrieve categories: %w", err)
	}

	uc.log.Debugf("Use Case: Retrieved %d categories", len(categories))
	return categories, nil
}
