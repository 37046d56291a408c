package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"granabox/internal/apperr"
	"granabox/internal/dto"
	"granabox/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrorHandler renders every error returned by a handler as an error
// envelope with the matching status code.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := errorResponse(err)
		if status >= fiber.StatusInternalServerError {
			logger.Error("Request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("request_id", middleware.GetRequestID(c)),
				zap.Error(err),
			)
		}
		return c.Status(status).JSON(dto.ErrorResponse{Error: body})
	}
}

func errorResponse(err error) (int, dto.ErrorBody) {
	var (
		validationErr *apperr.ValidationError
		notFoundErr   *apperr.NotFoundError
		integrityErr  *apperr.IntegrityError
		storageErr    *apperr.StorageError
		fiberErr      *fiber.Error
	)

	switch {
	case errors.As(err, &validationErr):
		fields := make([]dto.FieldError, len(validationErr.Fields))
		for i, f := range validationErr.Fields {
			fields[i] = dto.FieldError{Field: f.Field, Message: f.Message}
		}
		return fiber.StatusBadRequest, dto.ErrorBody{
			Type:    "validation_error",
			Message: validationErr.Error(),
			Fields:  fields,
		}
	case errors.As(err, &notFoundErr):
		return fiber.StatusNotFound, dto.ErrorBody{Type: "not_found", Message: notFoundErr.Error()}
	case errors.As(err, &integrityErr):
		return fiber.StatusConflict, dto.ErrorBody{
			Type:     "integrity_error",
			Message:  integrityErr.Message,
			Relation: integrityErr.Relation,
		}
	case errors.As(err, &storageErr):
		return fiber.StatusInternalServerError, dto.ErrorBody{Type: "storage_error", Message: "storage failure"}
	case errors.As(err, &fiberErr):
		return fiberErr.Code, dto.ErrorBody{Type: "http_error", Message: fiberErr.Message}
	default:
		return fiber.StatusInternalServerError, dto.ErrorBody{Type: "internal_error", Message: "internal server error"}
	}
}

// bindBody decodes a JSON body into out field by field. An empty body
// decodes as {}. When some fields cannot be decoded, validate runs on the
// fields that could, and both sets of errors are reported together.
func bindBody(c *fiber.Ctx, out any, validate func() error) error {
	verr := decodeFields(c.App().Config().JSONDecoder, c.Body(), out)
	if verr == nil {
		return nil
	}

	var more *apperr.ValidationError
	if err := validate(); errors.As(err, &more) {
		for _, f := range more.Fields {
			if !verr.Has(f.Field) {
				verr.Add(f.Field, f.Message)
			}
		}
	}
	return verr
}

// decodeFields unmarshals each known member of a JSON object into the
// matching field of out, a pointer to a struct. Members that fail to decode
// are reported by their JSON names and leave the field untouched.
func decodeFields(decode utils.JSONUnmarshal, body []byte, out any) *apperr.ValidationError {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	verr := &apperr.ValidationError{}
	var members map[string]json.RawMessage
	if err := decode(body, &members); err != nil {
		verr.Add("body", "malformed JSON: "+err.Error())
		return verr
	}

	v := reflect.ValueOf(out).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		raw, ok := member(members, name)
		if !ok {
			continue
		}
		value := reflect.New(field.Type)
		if err := decode(raw, value.Interface()); err != nil {
			verr.Add(name, "must be "+jsonType(field.Type))
			continue
		}
		v.Field(i).Set(value.Elem())
	}

	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}

// member looks a key up the way encoding/json matches struct fields,
// preferring an exact match over a case-insensitive one.
func member(members map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	if raw, ok := members[name]; ok {
		return raw, true
	}
	for key, raw := range members {
		if strings.EqualFold(key, name) {
			return raw, true
		}
	}
	return nil, false
}

func parseQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return apperr.NewValidationError("query", err.Error())
	}
	return nil
}

// parseID reads the :id path parameter, which must be a positive integer.
func parseID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, apperr.NewValidationError("id", "must be a positive integer")
	}
	return int64(id), nil
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

func jsonType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == decimalType {
		return "a number"
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	default:
		return "of type " + t.String()
	}
}
