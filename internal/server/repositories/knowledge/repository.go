package knowledge

import "context"

type Repository interface {
	// InsertIfAbsent adds a knowledge point with mastery 0, leaving any
	// existing row for the same (user, point) pair untouched.
	InsertIfAbsent(ctx context.Context, userID int64, point string) error

	// Upsert adds a knowledge point or, if it already exists, updates its
	// mastery level in place.
	Upsert(ctx context.Context, userID int64, point string, mastery float64) error

	// ListByUser returns the user's knowledge points, most recently learned
	// first.
	ListByUser(ctx context.Context, userID int64) ([]string, error)

	// Remove deletes a single knowledge point.
	Remove(ctx context.Context, userID int64, point string) error

	// Clear deletes all knowledge points of a user.
	Clear(ctx context.Context, userID int64) error
}
