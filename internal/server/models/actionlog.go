package models

import (
	"database/sql"
	"time"
)

// Action types recorded in the user_logs table.
const (
	ActionLogin         = "login"
	ActionRegister      = "register"
	ActionSaveKnowledge = "save_knowledge"
)

// ActionLog is an append-only audit row. UserID is nullable so log history
// survives user removal.
type ActionLog struct {
	ID         int64
	UserID     sql.NullInt64
	ActionType string
	IPAddress  string
	ActionTime time.Time
	Details    string
}
