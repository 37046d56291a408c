package service

import (
	"context"
	"errors"
	"time"

	"granabox/internal/apperr"
	"granabox/internal/dto"
	"granabox/internal/models"
	"granabox/internal/repository"
	"granabox/internal/validation"
	"granabox/pkg/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// RecurrenceService manages monthly series: transactions that share a
// recurrence id and are dated one month apart.
type RecurrenceService struct {
	txRepo       *repository.TransactionRepository
	categoryRepo *repository.CategoryRepository
	db           postgres.Transactor
	logger       *zap.Logger
	now          func() time.Time
}

func NewRecurrenceService(
	txRepo *repository.TransactionRepository,
	categoryRepo *repository.CategoryRepository,
	db postgres.Transactor,
	logger *zap.Logger,
) *RecurrenceService {
	return &RecurrenceService{
		txRepo:       txRepo,
		categoryRepo: categoryRepo,
		db:           db,
		logger:       logger,
		now:          time.Now,
	}
}

func notRecurring() *apperr.ValidationError {
	return apperr.NewValidationError("id", "transaction is not part of a recurring series")
}

// Create stores a whole series at once. The k-th item is dated k months
// after the first one, clamped to the end of shorter months.
func (s *RecurrenceService) Create(ctx context.Context, req *dto.CreateRecurringRequest) ([]dto.TransactionResponse, error) {
	in := *req
	in.Description = sanitizeOptional(in.Description)
	template, months, err := validation.NewSeries(in)
	if err != nil {
		return nil, err
	}

	recurrenceID := uuid.New()
	items := make([]*models.Transaction, months)
	for k := range items {
		item := template
		item.Date = models.AddMonths(template.Date, k)
		item.RecurrenceID = &recurrenceID
		items[k] = &item
	}

	err = s.db.InTx(ctx, func(tx pgx.Tx) error {
		category, err := lockCategory(ctx, s.categoryRepo.WithTx(tx), template.CategoryID)
		if err != nil {
			return err
		}
		for _, item := range items {
			item.CategoryName = category.Name
		}

		if err := s.txRepo.WithTx(tx).CreateBatch(ctx, items); err != nil {
			if errors.Is(err, repository.ErrForeignKeyViolation) {
				return missingCategory(template.CategoryID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, storageError(s.logger, "create series", err)
	}

	s.logger.Info("Recurring series created",
		zap.String("recurrence_id", recurrenceID.String()),
		zap.Int("months", months),
	)
	return toTransactionResponses(items, today(ctx, s.now)), nil
}

// List returns every item of a series ordered by date.
func (s *RecurrenceService) List(ctx context.Context, rawID string) ([]dto.TransactionResponse, error) {
	recurrenceID, err := validation.RecurrenceID(rawID)
	if err != nil {
		return nil, err
	}

	items, err := s.txRepo.ListByRecurrence(ctx, recurrenceID)
	if err != nil {
		return nil, storageError(s.logger, "list series", err)
	}
	if len(items) == 0 {
		return nil, apperr.NotFound("recurrence", recurrenceID)
	}
	return toTransactionResponses(items, today(ctx, s.now)), nil
}

// UpdateFrom applies changes to the given transaction and every later item of
// its series. A new date moves the given item there and shifts the later
// items month by month from it.
func (s *RecurrenceService) UpdateFrom(ctx context.Context, id int64, req *dto.UpdateTransactionRequest) ([]dto.TransactionResponse, error) {
	in := *req
	in.Description = sanitizeOptional(in.Description)
	changes, err := validation.SeriesChanges(in)
	if err != nil {
		return nil, err
	}

	var items []*models.Transaction
	err = s.db.InTx(ctx, func(tx pgx.Tx) error {
		repo := s.txRepo.WithTx(tx)

		from, err := s.seriesStart(ctx, repo, id)
		if err != nil {
			return err
		}

		items, err = repo.ListSeriesFrom(ctx, from)
		if err != nil {
			return err
		}
		if changes.Empty() {
			return nil
		}

		var categoryName string
		if changes.CategoryID != nil {
			category, err := lockCategory(ctx, s.categoryRepo.WithTx(tx), *changes.CategoryID)
			if err != nil {
				return err
			}
			categoryName = category.Name
		}

		for k, item := range items {
			item.Apply(models.TransactionChanges{
				Description: changes.Description,
				Amount:      changes.Amount,
				CategoryID:  changes.CategoryID,
			})
			if changes.CategoryID != nil {
				item.CategoryName = categoryName
			}
			if changes.Date != nil {
				item.Date = models.AddMonths(*changes.Date, k)
			}
			if err := repo.Update(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storageError(s.logger, "update series", err)
	}

	s.logger.Info("Recurring series updated", zap.Int64("transaction_id", id), zap.Int("items", len(items)))
	return toTransactionResponses(items, today(ctx, s.now)), nil
}

// DeleteFrom removes the given transaction and every later item of its
// series, returning how many were deleted.
func (s *RecurrenceService) DeleteFrom(ctx context.Context, id int64) (*dto.DeletedResponse, error) {
	var deleted int64
	err := s.db.InTx(ctx, func(tx pgx.Tx) error {
		repo := s.txRepo.WithTx(tx)

		from, err := s.seriesStart(ctx, repo, id)
		if err != nil {
			return err
		}

		deleted, err = repo.DeleteSeriesFrom(ctx, from)
		return err
	})
	if err != nil {
		return nil, storageError(s.logger, "delete series", err)
	}

	s.logger.Info("Recurring series truncated", zap.Int64("transaction_id", id), zap.Int64("deleted", deleted))
	return &dto.DeletedResponse{Deleted: deleted}, nil
}

func (s *RecurrenceService) seriesStart(ctx context.Context, repo *repository.TransactionRepository, id int64) (*models.Transaction, error) {
	from, err := repo.GetByIDForUpdate(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, transactionNotFound(id)
		}
		return nil, err
	}
	if from.RecurrenceID == nil {
		return nil, notRecurring()
	}
	return from, nil
}
