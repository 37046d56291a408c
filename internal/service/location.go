package service

import (
	"context"
	"time"

	"granabox/internal/models"
)

type locationKey struct{}

// WithLocation returns a copy of ctx carrying the caller's time zone. Due
// statuses are computed against the calendar date in that zone.
func WithLocation(ctx context.Context, loc *time.Location) context.Context {
	return context.WithValue(ctx, locationKey{}, loc)
}

// LocationFrom returns the time zone attached by WithLocation, or UTC.
func LocationFrom(ctx context.Context) *time.Location {
	if loc, ok := ctx.Value(locationKey{}).(*time.Location); ok && loc != nil {
		return loc
	}
	return time.UTC
}

func today(ctx context.Context, now func() time.Time) time.Time {
	return models.Today(now(), LocationFrom(ctx))
}
