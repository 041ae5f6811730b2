package models

import "time"

// KnowledgePoint is a row in the user_knowledge table. The pair
// (UserID, KnowledgePoint) is unique: re-adding an existing point updates
// MasteryLevel in place instead of duplicating the row.
type KnowledgePoint struct {
	ID             int64
	UserID         int64
	KnowledgePoint string
	MasteryLevel   float64
	LearnedAt      time.Time
}
