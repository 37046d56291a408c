package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"granabox/internal/apperr"
	"granabox/internal/dto"
	"granabox/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCategoryService struct {
	create func(*dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	list   func() ([]dto.CategoryResponse, error)
	get    func(int64) (*dto.CategoryResponse, error)
	update func(int64, *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	delete func(int64) error
}

func (f *fakeCategoryService) Create(_ context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	return f.create(req)
}

func (f *fakeCategoryService) List(context.Context) ([]dto.CategoryResponse, error) {
	return f.list()
}

func (f *fakeCategoryService) Get(_ context.Context, id int64) (*dto.CategoryResponse, error) {
	return f.get(id)
}

func (f *fakeCategoryService) Update(_ context.Context, id int64, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	return f.update(id, req)
}

func (f *fakeCategoryService) Delete(_ context.Context, id int64) error {
	return f.delete(id)
}

type fakeTransactionService struct {
	TransactionService
	list      func(*dto.TransactionQuery) ([]dto.TransactionResponse, error)
	create    func(*dto.CreateTransactionRequest) (*dto.TransactionResponse, error)
	get       func(context.Context, int64) (*dto.TransactionResponse, error)
	overview  func(*dto.OverviewQuery) (*dto.OverviewResponse, error)
	setStatus func(int64, *dto.UpdateStatusRequest) (*dto.TransactionResponse, error)
}

func (f *fakeTransactionService) Get(ctx context.Context, id int64) (*dto.TransactionResponse, error) {
	return f.get(ctx, id)
}

func (f *fakeTransactionService) SetStatus(_ context.Context, id int64, req *dto.UpdateStatusRequest) (*dto.TransactionResponse, error) {
	return f.setStatus(id, req)
}

func (f *fakeTransactionService) List(_ context.Context, q *dto.TransactionQuery) ([]dto.TransactionResponse, error) {
	return f.list(q)
}

func (f *fakeTransactionService) Create(_ context.Context, req *dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	return f.create(req)
}

func (f *fakeTransactionService) Overview(_ context.Context, q *dto.OverviewQuery) (*dto.OverviewResponse, error) {
	return f.overview(q)
}

type fakeRecurrenceService struct {
	RecurrenceService
	deleteFrom func(int64) (*dto.DeletedResponse, error)
}

func (f *fakeRecurrenceService) DeleteFrom(_ context.Context, id int64) (*dto.DeletedResponse, error) {
	return f.deleteFrom(id)
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func newTestApp(cs CategoryService, ts TransactionService, rs RecurrenceService) *fiber.App {
	logger := zap.NewNop()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger)})

	ch := NewCategoryHandler(cs, logger)
	app.Post("/categories", ch.Create)
	app.Get("/categories", ch.List)
	app.Get("/categories/:id", ch.Get)
	app.Patch("/categories/:id", ch.Update)
	app.Delete("/categories/:id", ch.Delete)

	th := NewTransactionHandler(ts, logger)
	app.Get("/transactions", th.List)
	app.Post("/transactions", th.Create)
	app.Get("/transactions/overview", th.Overview)
	app.Get("/transactions/:id", th.Get)
	app.Patch("/transactions/:id/status", th.Status)

	rh := NewRecurrenceHandler(rs, logger)
	app.Delete("/transactions/:id/series", rh.DeleteFrom)
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, map[string]any) {
	t.Helper()
	return doWithHeaders(t, app, method, target, body, nil)
}

func doWithHeaders(t *testing.T, app *fiber.App, method, target, body string, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var payload map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload))
	}
	return resp, payload
}

func TestCategoryHandler_Create(t *testing.T) {
	var got *dto.CreateCategoryRequest
	svc := &fakeCategoryService{create: func(req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
		got = req
		return &dto.CategoryResponse{ID: 1, Name: *req.Name}, nil
	}}
	app := newTestApp(svc, nil, nil)

	resp, payload := do(t, app, fiber.MethodPost, "/categories", `{"name":"Groceries"}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Groceries", *got.Name)
	assert.Equal(t, map[string]any{"id": 1.0, "name": "Groceries", "is_default": false}, payload["data"])
}

func TestCategoryHandler_CreateValidationError(t *testing.T) {
	svc := &fakeCategoryService{create: func(*dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
		verr := apperr.NewValidationError("name", "is required")
		return nil, verr
	}}
	app := newTestApp(svc, nil, nil)

	resp, payload := do(t, app, fiber.MethodPost, "/categories", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := payload["error"].(map[string]any)
	assert.Equal(t, "validation_error", body["type"])
	assert.Equal(t, []any{map[string]any{"field": "name", "message": "is required"}}, body["fields"])
}

// fieldMessages flattens the fields of a validation error envelope.
func fieldMessages(t *testing.T, payload map[string]any) map[string]string {
	t.Helper()
	body := payload["error"].(map[string]any)
	require.Equal(t, "validation_error", body["type"])
	out := map[string]string{}
	for _, f := range body["fields"].([]any) {
		field := f.(map[string]any)
		out[field["field"].(string)] = field["message"].(string)
	}
	return out
}

func TestCategoryHandler_MalformedBody(t *testing.T) {
	app := newTestApp(&fakeCategoryService{}, nil, nil)

	resp, payload := do(t, app, fiber.MethodPost, "/categories", `{"name":`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	fields := payload["error"].(map[string]any)["fields"].([]any)
	assert.Equal(t, "body", fields[0].(map[string]any)["field"])
	assert.Equal(t, "is required", fieldMessages(t, payload)["name"])

	resp, payload = do(t, app, fiber.MethodPost, "/categories", `{"name":42}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, map[string]string{"name": "must be a string"}, fieldMessages(t, payload))

	resp, payload = do(t, app, fiber.MethodPost, "/categories", `{"name":"Rent","is_default":"yes"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, map[string]string{"is_default": "must be a boolean"}, fieldMessages(t, payload))
}

func TestCategoryHandler_List(t *testing.T) {
	svc := &fakeCategoryService{list: func() ([]dto.CategoryResponse, error) {
		return nil, nil
	}}
	app := newTestApp(svc, nil, nil)

	resp, payload := do(t, app, fiber.MethodGet, "/categories", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{}, payload["data"])
	assert.Equal(t, 0.0, payload["count"])
}

func TestCategoryHandler_InvalidID(t *testing.T) {
	app := newTestApp(&fakeCategoryService{}, nil, nil)

	for _, id := range []string{"abc", "0", "-3"} {
		resp, payload := do(t, app, fiber.MethodGet, "/categories/"+id, "")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, id)
		fields := payload["error"].(map[string]any)["fields"].([]any)
		assert.Equal(t, "id", fields[0].(map[string]any)["field"])
	}
}

func TestCategoryHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"not found", apperr.NotFound("category", int64(7)), fiber.StatusNotFound, "not_found"},
		{"integrity", &apperr.IntegrityError{Relation: "transactions.category_id -> categories.id", Message: "in use"}, fiber.StatusConflict, "integrity_error"},
		{"storage", apperr.Storage("delete category", errors.New("conn refused")), fiber.StatusInternalServerError, "storage_error"},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeCategoryService{delete: func(int64) error { return tt.err }}
			app := newTestApp(svc, nil, nil)

			resp, payload := do(t, app, fiber.MethodDelete, "/categories/7", "")
			assert.Equal(t, tt.status, resp.StatusCode)
			body := payload["error"].(map[string]any)
			assert.Equal(t, tt.kind, body["type"])
			assert.NotContains(t, body["message"], "conn refused")
		})
	}
}

func TestCategoryHandler_IntegrityNamesRelation(t *testing.T) {
	svc := &fakeCategoryService{delete: func(int64) error {
		return &apperr.IntegrityError{Relation: "transactions.category_id -> categories.id", Message: "category 1 is still referenced by transactions"}
	}}
	app := newTestApp(svc, nil, nil)

	_, payload := do(t, app, fiber.MethodDelete, "/categories/1", "")
	body := payload["error"].(map[string]any)
	assert.Equal(t, "transactions.category_id -> categories.id", body["relation"])
}

func TestCategoryHandler_DeleteAndEmptyPatch(t *testing.T) {
	var updated *dto.UpdateCategoryRequest
	svc := &fakeCategoryService{
		delete: func(int64) error { return nil },
		update: func(id int64, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
			updated = req
			return &dto.CategoryResponse{ID: id, Name: "Groceries"}, nil
		},
	}
	app := newTestApp(svc, nil, nil)

	resp, payload := do(t, app, fiber.MethodDelete, "/categories/1", "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Nil(t, payload)

	resp, _ = do(t, app, fiber.MethodPatch, "/categories/1", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Nil(t, updated.Name)
	assert.Nil(t, updated.IsDefault)
}

func TestTransactionHandler_ListBindsQuery(t *testing.T) {
	var got *dto.TransactionQuery
	svc := &fakeTransactionService{list: func(q *dto.TransactionQuery) ([]dto.TransactionResponse, error) {
		got = q
		return []dto.TransactionResponse{{ID: 3, Amount: -5.5, Kind: "expense"}}, nil
	}}
	app := newTestApp(nil, svc, nil)

	resp, payload := do(t, app, fiber.MethodGet, "/transactions?year=2024&month=1&kind=expense&category_id=2&limit=10", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, dto.TransactionQuery{Year: 2024, Month: 1, Kind: "expense", CategoryID: 2, Limit: 10}, *got)
	assert.Equal(t, 1.0, payload["count"])
}

func TestTransactionHandler_BadQuery(t *testing.T) {
	app := newTestApp(nil, &fakeTransactionService{}, nil)

	resp, payload := do(t, app, fiber.MethodGet, "/transactions?limit=lots", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation_error", payload["error"].(map[string]any)["type"])
}

func TestTransactionHandler_CreateDecodesDecimal(t *testing.T) {
	var got *dto.CreateTransactionRequest
	svc := &fakeTransactionService{create: func(req *dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
		got = req
		return &dto.TransactionResponse{ID: 1}, nil
	}}
	app := newTestApp(nil, svc, nil)

	resp, _ := do(t, app, fiber.MethodPost, "/transactions",
		`{"description":"Milk","amount":-5.50,"date":"2024-01-10","category_id":1}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NotNil(t, got.Amount)
	assert.Equal(t, "-5.5", got.Amount.String())
	assert.Equal(t, int64(1), *got.CategoryID)
}

func TestTransactionHandler_CreateReportsTypeErrorsWithMissingFields(t *testing.T) {
	called := false
	svc := &fakeTransactionService{create: func(*dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
		called = true
		return &dto.TransactionResponse{}, nil
	}}
	app := newTestApp(nil, svc, nil)

	resp, payload := do(t, app, fiber.MethodPost, "/transactions", `{"description": 5}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.False(t, called)
	assert.Equal(t, map[string]string{
		"description": "must be a string",
		"amount":      "is required",
		"date":        "is required",
		"category_id": "is required",
	}, fieldMessages(t, payload))
}

func TestTransactionHandler_CreateRejectsNonNumericAmount(t *testing.T) {
	app := newTestApp(nil, &fakeTransactionService{}, nil)

	resp, payload := do(t, app, fiber.MethodPost, "/transactions",
		`{"description":"Milk","amount":true,"date":"2024-01-10","category_id":1}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, map[string]string{"amount": "must be a number"}, fieldMessages(t, payload))

	resp, payload = do(t, app, fiber.MethodPost, "/transactions",
		`{"description":"Milk","amount":"abc","date":"2024-01-10","category_id":"one"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, map[string]string{
		"amount":      "must be a number",
		"category_id": "must be an integer",
	}, fieldMessages(t, payload))
}

func TestTransactionHandler_CreateMalformedJSONListsRequiredFields(t *testing.T) {
	app := newTestApp(nil, &fakeTransactionService{}, nil)

	resp, payload := do(t, app, fiber.MethodPost, "/transactions", `[1, 2]`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	fields := fieldMessages(t, payload)
	assert.Contains(t, fields["body"], "malformed JSON")
	for _, name := range []string{"description", "amount", "date", "category_id"} {
		assert.Equal(t, "is required", fields[name], name)
	}
}

func TestTransactionHandler_TimeZoneHeader(t *testing.T) {
	var zone string
	svc := &fakeTransactionService{get: func(ctx context.Context, id int64) (*dto.TransactionResponse, error) {
		zone = service.LocationFrom(ctx).String()
		return &dto.TransactionResponse{ID: id, DueStatus: "due_today"}, nil
	}}
	app := newTestApp(nil, svc, nil)

	resp, _ := do(t, app, fiber.MethodGet, "/transactions/1", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "UTC", zone)

	resp, payload := doWithHeaders(t, app, fiber.MethodGet, "/transactions/1", "", map[string]string{HeaderTimeZone: "America/Sao_Paulo"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "America/Sao_Paulo", zone)
	assert.Equal(t, "due_today", payload["data"].(map[string]any)["due_status"])

	for _, bad := range []string{"Nowhere/City", "Local"} {
		zone = ""
		resp, payload = doWithHeaders(t, app, fiber.MethodGet, "/transactions/1", "", map[string]string{HeaderTimeZone: bad})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, bad)
		assert.Contains(t, fieldMessages(t, payload), HeaderTimeZone)
		assert.Empty(t, zone)
	}
}

func TestTransactionHandler_Status(t *testing.T) {
	var got *dto.UpdateStatusRequest
	svc := &fakeTransactionService{setStatus: func(id int64, req *dto.UpdateStatusRequest) (*dto.TransactionResponse, error) {
		got = req
		return &dto.TransactionResponse{ID: id, Paid: *req.Paid, DueStatus: "paid", PaidAt: "2024-03-10T12:00:00Z"}, nil
	}}
	app := newTestApp(nil, svc, nil)

	resp, payload := do(t, app, fiber.MethodPatch, "/transactions/7/status", `{"paid":true}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, got.Paid)
	assert.True(t, *got.Paid)
	data := payload["data"].(map[string]any)
	assert.Equal(t, true, data["paid"])
	assert.Equal(t, "paid", data["due_status"])

	got = nil
	resp, payload = do(t, app, fiber.MethodPatch, "/transactions/7/status", `{"paid":"yes"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, map[string]string{"paid": "must be a boolean"}, fieldMessages(t, payload))
	assert.Nil(t, got)
}

func TestTransactionHandler_StatusOnIncome(t *testing.T) {
	svc := &fakeTransactionService{setStatus: func(int64, *dto.UpdateStatusRequest) (*dto.TransactionResponse, error) {
		return nil, apperr.NewValidationError("paid", "only expenses have a payment status")
	}}
	app := newTestApp(nil, svc, nil)

	resp, payload := do(t, app, fiber.MethodPatch, "/transactions/2/status", `{"paid":true}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, map[string]string{"paid": "only expenses have a payment status"}, fieldMessages(t, payload))
}

func TestTransactionHandler_Overview(t *testing.T) {
	svc := &fakeTransactionService{overview: func(q *dto.OverviewQuery) (*dto.OverviewResponse, error) {
		return &dto.OverviewResponse{Year: q.Year, Month: q.Month, Income: 10, Expenses: 4, Pending: 2, Balance: 6}, nil
	}}
	app := newTestApp(nil, svc, nil)

	resp, payload := do(t, app, fiber.MethodGet, "/transactions/overview?year=2024&month=2", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := payload["data"].(map[string]any)
	assert.Equal(t, 2.0, data["month"])
	assert.Equal(t, 6.0, data["balance"])
	assert.Equal(t, 2.0, data["pending_expenses"])
}

func TestRecurrenceHandler_DeleteFrom(t *testing.T) {
	svc := &fakeRecurrenceService{deleteFrom: func(id int64) (*dto.DeletedResponse, error) {
		assert.Equal(t, int64(5), id)
		return &dto.DeletedResponse{Deleted: 3}, nil
	}}
	app := newTestApp(nil, nil, svc)

	resp, payload := do(t, app, fiber.MethodDelete, "/transactions/5/series", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"deleted": 3.0}, payload["data"])
}

func TestHealthHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Get("/up", NewHealthHandler(fakePinger{}, zap.NewNop()).Check)
	app.Get("/down", NewHealthHandler(fakePinger{err: errors.New("no route to host")}, zap.NewNop()).Check)

	resp, _ := do(t, app, fiber.MethodGet, "/up", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, payload := do(t, app, fiber.MethodGet, "/down", "")
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "http_error", payload["error"].(map[string]any)["type"])
}

func TestDecodeFields(t *testing.T) {
	var req dto.CreateTransactionRequest
	verr := decodeFields(json.Unmarshal, []byte(`{"Description":"Milk","amount":"-5.50","category_id":2.5}`), &req)
	require.NotNil(t, verr)
	assert.Equal(t, []apperr.FieldError{{Field: "category_id", Message: "must be an integer"}}, verr.Fields)
	require.NotNil(t, req.Description)
	assert.Equal(t, "Milk", *req.Description)
	assert.Equal(t, "-5.5", req.Amount.String())
	assert.Nil(t, req.CategoryID)

	assert.Nil(t, decodeFields(json.Unmarshal, []byte("  \n"), &req))
	assert.Nil(t, decodeFields(json.Unmarshal, []byte(`{"unknown":1}`), &req))
}
