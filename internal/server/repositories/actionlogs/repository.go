package actionlogs

import "context"

type Repository interface {
	// Append writes one audit row. A non-positive userID is stored as NULL,
	// matching rows whose user was removed.
	Append(ctx context.Context, userID int64, actionType, ipAddress, details string) error
}
