package models

import (
	"database/sql"
	"time"
)

// User roles.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User statuses. Users are never hard-deleted; disabling flips the flag.
const (
	StatusDisabled = 0
	StatusActive   = 1
)

// User is a row in the users table. Username is unique and immutable after
// creation; Email is unique when present; PasswordHash never holds plaintext.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Email        sql.NullString
	Phone        sql.NullString
	Grade        sql.NullString
	Major        sql.NullString
	LearningGoal sql.NullString
	Role         string
	Status       int
	CreatedAt    time.Time
	LastLogin    sql.NullTime
}

// NormalizeRole maps arbitrary wire input onto a known role.
func NormalizeRole(role string) string {
	if role == RoleAdmin {
		return RoleAdmin
	}
	return RoleStudent
}
