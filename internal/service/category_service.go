package service

import (
	"context"
	"errors"

	"granabox/internal/dto"
	"granabox/internal/models"
	"granabox/internal/repository"
	"granabox/internal/validation"
	"granabox/pkg/postgres"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CategoryService struct {
	categoryRepo *repository.CategoryRepository
	txRepo       *repository.TransactionRepository
	db           postgres.Transactor
	logger       *zap.Logger
}

func NewCategoryService(
	categoryRepo *repository.CategoryRepository,
	txRepo *repository.TransactionRepository,
	db postgres.Transactor,
	logger *zap.Logger,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		txRepo:       txRepo,
		db:           db,
		logger:       logger,
	}
}

// Create validates and stores a new category. A duplicate name is reported
// as a validation error on the name field.
func (s *CategoryService) Create(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	in := *req
	in.Name = sanitizeOptional(in.Name)
	category, err := validation.NewCategory(in)
	if err != nil {
		return nil, err
	}

	err = s.db.InTx(ctx, func(tx pgx.Tx) error {
		repo := s.categoryRepo.WithTx(tx)

		taken, err := repo.NameTaken(ctx, category.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return duplicateName(category.Name)
		}

		if err := repo.Create(ctx, &category); err != nil {
			if errors.Is(err, repository.ErrUniqueViolation) {
				return duplicateName(category.Name)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, storageError(s.logger, "create category", err)
	}

	s.logger.Info("Category created", zap.Int64("category_id", category.ID), zap.String("name", category.Name))
	return toCategoryResponse(&category), nil
}

// List returns every category ordered by id.
func (s *CategoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, storageError(s.logger, "list categories", err)
	}

	responses := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, *toCategoryResponse(c))
	}
	return responses, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, categoryNotFound(id)
		}
		return nil, storageError(s.logger, "get category", err)
	}
	return toCategoryResponse(category), nil
}

// Update applies a partial update. An empty payload changes nothing and
// returns the stored category.
func (s *CategoryService) Update(ctx context.Context, id int64, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	in := *req
	in.Name = sanitizeOptional(in.Name)
	changes, err := validation.CategoryChanges(in)
	if err != nil {
		return nil, err
	}
	if changes.Empty() {
		return s.Get(ctx, id)
	}

	var category *models.Category
	err = s.db.InTx(ctx, func(tx pgx.Tx) error {
		repo := s.categoryRepo.WithTx(tx)

		current, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return categoryNotFound(id)
			}
			return err
		}
		category = current

		if changes.Name != nil && *changes.Name != category.Name {
			taken, err := repo.NameTaken(ctx, *changes.Name, id)
			if err != nil {
				return err
			}
			if taken {
				return duplicateName(*changes.Name)
			}
		}

		category.Apply(changes)
		if err := repo.Update(ctx, category); err != nil {
			if errors.Is(err, repository.ErrUniqueViolation) {
				return duplicateName(category.Name)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, storageError(s.logger, "update category", err)
	}

	s.logger.Info("Category updated", zap.Int64("category_id", id))
	return toCategoryResponse(category), nil
}

// Delete removes a category. Categories still referenced by transactions
// are never removed.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	err := s.db.InTx(ctx, func(tx pgx.Tx) error {
		repo := s.categoryRepo.WithTx(tx)

		if _, err := repo.GetByIDForUpdate(ctx, id); err != nil {
			if isNotFound(err) {
				return categoryNotFound(id)
			}
			return err
		}

		n, err := s.txRepo.WithTx(tx).CountByCategory(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return categoryInUse(id)
		}

		if err := repo.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrForeignKeyViolation) {
				return categoryInUse(id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return storageError(s.logger, "delete category", err)
	}

	s.logger.Info("Category deleted", zap.Int64("category_id", id))
	return nil
}
