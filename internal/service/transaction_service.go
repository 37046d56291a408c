package service

import (
	"context"
	"errors"
	"time"

	"granabox/internal/dto"
	"granabox/internal/models"
	"granabox/internal/repository"
	"granabox/internal/validation"
	"granabox/pkg/postgres"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TransactionService struct {
	txRepo       *repository.TransactionRepository
	categoryRepo *repository.CategoryRepository
	db           postgres.Transactor
	logger       *zap.Logger
	now          func() time.Time
}

func NewTransactionService(
	txRepo *repository.TransactionRepository,
	categoryRepo *repository.CategoryRepository,
	db postgres.Transactor,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		txRepo:       txRepo,
		categoryRepo: categoryRepo,
		db:           db,
		logger:       logger,
		now:          time.Now,
	}
}

// lockCategory makes sure the category exists and keeps it from being
// deleted until tx ends.
func lockCategory(ctx context.Context, repo *repository.CategoryRepository, id int64) (*models.Category, error) {
	category, err := repo.GetByIDForShare(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, missingCategory(id)
		}
		return nil, err
	}
	return category, nil
}

// Create validates and stores a transaction. The referenced category must
// exist at write time.
func (s *TransactionService) Create(ctx context.Context, req *dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	in := *req
	in.Description = sanitizeOptional(in.Description)
	transaction, err := validation.NewTransaction(in)
	if err != nil {
		return nil, err
	}
	if transaction.Paid {
		transaction.SetPaid(true, s.now())
	}

	err = s.db.InTx(ctx, func(tx pgx.Tx) error {
		category, err := lockCategory(ctx, s.categoryRepo.WithTx(tx), transaction.CategoryID)
		if err != nil {
			return err
		}
		transaction.CategoryName = category.Name

		if err := s.txRepo.WithTx(tx).Create(ctx, &transaction); err != nil {
			if errors.Is(err, repository.ErrForeignKeyViolation) {
				return missingCategory(transaction.CategoryID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, storageError(s.logger, "create transaction", err)
	}

	s.logger.Info("Transaction created",
		zap.Int64("transaction_id", transaction.ID),
		zap.Int64("category_id", transaction.CategoryID),
	)
	return toTransactionResponse(&transaction, today(ctx, s.now)), nil
}

// List returns the transactions matching query ordered by id.
func (s *TransactionService) List(ctx context.Context, query *dto.TransactionQuery) ([]dto.TransactionResponse, error) {
	filter, err := validation.TransactionFilter(*query)
	if err != nil {
		return nil, err
	}

	transactions, err := s.txRepo.List(ctx, filter)
	if err != nil {
		return nil, storageError(s.logger, "list transactions", err)
	}
	return toTransactionResponses(transactions, today(ctx, s.now)), nil
}

func (s *TransactionService) Get(ctx context.Context, id int64) (*dto.TransactionResponse, error) {
	transaction, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, transactionNotFound(id)
		}
		return nil, storageError(s.logger, "get transaction", err)
	}
	return toTransactionResponse(transaction, today(ctx, s.now)), nil
}

// Update applies a partial update. An empty payload changes nothing and
// returns the stored transaction.
func (s *TransactionService) Update(ctx context.Context, id int64, req *dto.UpdateTransactionRequest) (*dto.TransactionResponse, error) {
	in := *req
	in.Description = sanitizeOptional(in.Description)
	changes, err := validation.TransactionChanges(in)
	if err != nil {
		return nil, err
	}
	if changes.Empty() {
		return s.Get(ctx, id)
	}

	var transaction *models.Transaction
	err = s.db.InTx(ctx, func(tx pgx.Tx) error {
		repo := s.txRepo.WithTx(tx)

		current, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return transactionNotFound(id)
			}
			return err
		}
		transaction = current

		if changes.CategoryID != nil && *changes.CategoryID != transaction.CategoryID {
			category, err := lockCategory(ctx, s.categoryRepo.WithTx(tx), *changes.CategoryID)
			if err != nil {
				return err
			}
			transaction.CategoryName = category.Name
		}

		transaction.Apply(changes)
		if err := repo.Update(ctx, transaction); err != nil {
			if errors.Is(err, repository.ErrForeignKeyViolation) {
				return missingCategory(transaction.CategoryID)
			}
			if isNotFound(err) {
				return transactionNotFound(id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, storageError(s.logger, "update transaction", err)
	}

	s.logger.Info("Transaction updated", zap.Int64("transaction_id", id))
	return toTransactionResponse(transaction, today(ctx, s.now)), nil
}

// SetStatus marks an expense as paid or unpaid. Setting the current state
// again changes nothing.
func (s *TransactionService) SetStatus(ctx context.Context, id int64, req *dto.UpdateStatusRequest) (*dto.TransactionResponse, error) {
	paid, err := validation.PaymentStatus(*req)
	if err != nil {
		return nil, err
	}

	var transaction *models.Transaction
	err = s.db.InTx(ctx, func(tx pgx.Tx) error {
		repo := s.txRepo.WithTx(tx)

		current, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return transactionNotFound(id)
			}
			return err
		}
		transaction = current

		if transaction.Kind() == models.KindIncome {
			return incomeHasNoStatus()
		}
		if transaction.Paid == paid {
			return nil
		}
		return repo.SetPaid(ctx, transaction, paid)
	})
	if err != nil {
		return nil, storageError(s.logger, "set transaction status", err)
	}

	s.logger.Info("Transaction status set", zap.Int64("transaction_id", id), zap.Bool("paid", paid))
	return toTransactionResponse(transaction, today(ctx, s.now)), nil
}

func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	err := s.db.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.txRepo.WithTx(tx).Delete(ctx, id); err != nil {
			if isNotFound(err) {
				return transactionNotFound(id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return storageError(s.logger, "delete transaction", err)
	}

	s.logger.Info("Transaction deleted", zap.Int64("transaction_id", id))
	return nil
}

// Years returns the first and last year that have transactions. Without any
// transactions both are the current year.
func (s *TransactionService) Years(ctx context.Context) (*dto.YearRangeResponse, error) {
	years, ok, err := s.txRepo.YearRange(ctx)
	if err != nil {
		return nil, storageError(s.logger, "transaction years", err)
	}
	if !ok {
		current := s.now().Year()
		years = models.YearRange{MinYear: current, MaxYear: current}
	}
	return &dto.YearRangeResponse{MinYear: years.MinYear, MaxYear: years.MaxYear}, nil
}

// Overview sums the income and expenses of one month. Only paid expenses
// count against the balance; unpaid ones are reported as pending.
func (s *TransactionService) Overview(ctx context.Context, query *dto.OverviewQuery) (*dto.OverviewResponse, error) {
	year, month, err := validation.OverviewPeriod(*query)
	if err != nil {
		return nil, err
	}

	from, to := models.MonthBounds(year, month)
	overview, err := s.txRepo.Totals(ctx, from, to)
	if err != nil {
		return nil, storageError(s.logger, "monthly overview", err)
	}
	overview.Year, overview.Month = year, month

	return &dto.OverviewResponse{
		Year:     overview.Year,
		Month:    overview.Month,
		Income:   overview.Income.InexactFloat64(),
		Expenses: overview.Expenses.InexactFloat64(),
		Pending:  overview.Pending.InexactFloat64(),
		Balance:  overview.Balance().InexactFloat64(),
	}, nil
}
