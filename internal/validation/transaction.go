package validation

import (
	"time"

	"granabox/internal/apperr"
	"granabox/internal/dto"
	"granabox/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultSeriesMonths = 12

var amountLimit = decimal.New(1, 12)

const onlyExpenses = "only applies to expenses"

// NewTransaction validates a create payload. The amount is signed:
// positive for income, negative for expense.
func NewTransaction(req dto.CreateTransactionRequest) (models.Transaction, error) {
	req.Description = trimmed(req.Description)

	verr := &apperr.ValidationError{}
	check(req, verr)
	checkAmount(verr, req.Amount)
	date := parseDate(verr, "date", req.Date)
	paid := req.Paid != nil && *req.Paid
	if paid && req.Amount != nil && req.Amount.IsPositive() && !verr.Has("amount") {
		verr.Add("paid", onlyExpenses)
	}
	if err := verr.OrNil(); err != nil {
		return models.Transaction{}, err
	}

	return models.Transaction{
		Description: *req.Description,
		Amount:      *req.Amount,
		Date:        *date,
		CategoryID:  *req.CategoryID,
		Paid:        paid,
	}, nil
}

// TransactionChanges validates a partial update payload. It is used both for
// single transactions and for the tail of a recurring series.
func TransactionChanges(req dto.UpdateTransactionRequest) (models.TransactionChanges, error) {
	req.Description = trimmed(req.Description)

	verr := &apperr.ValidationError{}
	check(req, verr)
	if req.Description != nil && *req.Description == "" && !verr.Has("description") {
		verr.Add("description", "must not be empty")
	}
	checkAmount(verr, req.Amount)
	date := parseDate(verr, "date", req.Date)
	if err := verr.OrNil(); err != nil {
		return models.TransactionChanges{}, err
	}

	return models.TransactionChanges{
		Description: req.Description,
		Amount:      req.Amount,
		Date:        date,
		CategoryID:  req.CategoryID,
	}, nil
}

// NewSeries validates a recurring-series payload and returns the template of
// the first transaction and the number of monthly occurrences.
func NewSeries(req dto.CreateRecurringRequest) (models.Transaction, int, error) {
	tx, err := NewTransaction(dto.CreateTransactionRequest{
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.Date,
		CategoryID:  req.CategoryID,
	})

	verr := &apperr.ValidationError{}
	if err != nil {
		verr = err.(*apperr.ValidationError)
	}
	check(struct {
		Months *int `json:"months" validate:"omitempty,min=1,max=120"`
	}{req.Months}, verr)
	if err := verr.OrNil(); err != nil {
		return models.Transaction{}, 0, err
	}

	months := DefaultSeriesMonths
	if req.Months != nil {
		months = *req.Months
	}
	return tx, months, nil
}

// TransactionFilter validates listing query parameters. A year (and optional
// month) is turned into a date range intersected with from/to.
func TransactionFilter(q dto.TransactionQuery) (models.TransactionFilter, error) {
	verr := &apperr.ValidationError{}
	check(q, verr)
	if q.Month != 0 && q.Year == 0 && !verr.Has("year") {
		verr.Add("year", "is required when month is set")
	}

	var from, to *time.Time
	if q.From != "" {
		from = parseDate(verr, "from", &q.From)
	}
	if q.To != "" {
		to = parseDate(verr, "to", &q.To)
	}
	if q.Status != "" && q.Kind == string(models.KindIncome) && !verr.Has("status") {
		verr.Add("status", onlyExpenses)
	}
	if from != nil && to != nil && to.Before(*from) {
		verr.Add("to", "must not be before from")
	}
	if err := verr.OrNil(); err != nil {
		return models.TransactionFilter{}, err
	}

	if q.Year != 0 {
		start, end := time.Date(q.Year, time.January, 1, 0, 0, 0, 0, time.UTC), time.Date(q.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
		if q.Month != 0 {
			start, end = models.MonthBounds(q.Year, q.Month)
		}
		if from == nil || from.Before(start) {
			from = &start
		}
		if to == nil || to.After(end) {
			to = &end
		}
	}

	f := models.TransactionFilter{
		From:   from,
		To:     to,
		Kind:   models.TransactionKind(q.Kind),
		Status: models.PaymentStatus(q.Status),
		Limit:  uint64(q.Limit),
		Offset: uint64(q.Offset),
	}
	if q.CategoryID != 0 {
		id := q.CategoryID
		f.CategoryID = &id
	}
	if q.RecurrenceID != "" {
		id := uuid.MustParse(q.RecurrenceID)
		f.RecurrenceID = &id
	}
	return f, nil
}

// OverviewPeriod validates the year/month pair of the overview endpoint.
func OverviewPeriod(q dto.OverviewQuery) (int, int, error) {
	verr := &apperr.ValidationError{}
	check(q, verr)
	if err := verr.OrNil(); err != nil {
		return 0, 0, err
	}
	return q.Year, q.Month, nil
}

// PaymentStatus validates a status change and returns the requested state.
func PaymentStatus(req dto.UpdateStatusRequest) (bool, error) {
	verr := &apperr.ValidationError{}
	check(req, verr)
	if err := verr.OrNil(); err != nil {
		return false, err
	}
	return *req.Paid, nil
}

// RecurrenceID validates a series identifier taken from the path.
func RecurrenceID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.NewValidationError("recurrence_id", "must be a valid UUID")
	}
	return id, nil
}

func checkAmount(verr *apperr.ValidationError, amount *decimal.Decimal) {
	if amount == nil {
		return
	}
	switch {
	case amount.IsZero():
		verr.Add("amount", "must not be zero: use a positive value for income and a negative value for expense")
	case !amount.Equal(amount.Round(2)):
		verr.Add("amount", "must have at most 2 decimal places")
	case amount.Abs().GreaterThanOrEqual(amountLimit):
		verr.Add("amount", "must be less than 1000000000000 in absolute value")
	}
}

// parseDate parses a YYYY-MM-DD value unless the field already failed the
// tag rules.
func parseDate(verr *apperr.ValidationError, field string, raw *string) *time.Time {
	if raw == nil || verr.Has(field) {
		return nil
	}
	d, err := time.Parse(models.DateLayout, *raw)
	if err != nil {
		verr.Add(field, "must be a date in YYYY-MM-DD format")
		return nil
	}
	return &d
}

// SeriesChanges validates the changes applied to the tail of a recurring
// series. The rules are those of a single transaction update.
func SeriesChanges(req dto.UpdateTransactionRequest) (models.TransactionChanges, error) {
	return TransactionChanges(req)
}
