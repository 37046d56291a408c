package handlers

import (
	"context"
	"strings"
	"time"
	// zone names resolve without the host's zoneinfo
	_ "time/tzdata"

	"granabox/internal/apperr"
	"granabox/internal/service"

	"github.com/gofiber/fiber/v2"
)

// HeaderTimeZone carries the caller's IANA time zone. Due statuses are
// computed against the caller's calendar date.
const HeaderTimeZone = "TimeZone"

// requestContext returns the request context with the caller's time zone
// attached. A missing header means UTC.
func requestContext(c *fiber.Ctx) (context.Context, error) {
	name := strings.TrimSpace(c.Get(HeaderTimeZone))
	if name == "" {
		return service.WithLocation(c.Context(), time.UTC), nil
	}

	// "Local" would leak the server's zone
	loc, err := time.LoadLocation(name)
	if err != nil || name == "Local" {
		return nil, apperr.NewValidationError(HeaderTimeZone, "must be an IANA time zone name such as America/Sao_Paulo")
	}
	return service.WithLocation(c.Context(), loc), nil
}
