package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/smartlearn/internal/dbx"
	"github.com/dmitrijs2005/smartlearn/internal/server/models"
	"github.com/dmitrijs2005/smartlearn/internal/server/repositories/repomanager"
)

// KnowledgeService manages per-user learning goals and knowledge points.
type KnowledgeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewKnowledgeService(db *sql.DB, m repomanager.RepositoryManager) *KnowledgeService {
	return &KnowledgeService{db: db, repomanager: m}
}

// Profile is a user's knowledge snapshot: the learning goal (empty when never
// set) and knowledge points ordered most recently learned first.
type Profile struct {
	LearningGoal    string
	KnowledgePoints []string
}

// Save merges the given knowledge points into the user's profile and, when
// goal is non-empty, updates the learning goal. Points already present keep
// their rows and mastery levels; blank entries are skipped. The whole update
// runs in one transaction, so a concurrent Get sees either none or all of it.
func (s *KnowledgeService) Save(ctx context.Context, username, goal string, points []string, ip string) error {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if goal != "" {
			if err := s.repomanager.Users(tx).UpdateLearningGoal(ctx, user.ID, goal); err != nil {
				return err
			}
		}
		repo := s.repomanager.Knowledge(tx)
		saved := 0
		for _, point := range points {
			point = strings.TrimSpace(point)
			if point == "" {
				continue
			}
			if err := repo.InsertIfAbsent(ctx, user.ID, point); err != nil {
				return err
			}
			saved++
		}
		details := fmt.Sprintf("saved %d knowledge point(s)", saved)
		return s.repomanager.ActionLogs(tx).Append(ctx, user.ID, models.ActionSaveKnowledge, ip, details)
	})
	if err != nil {
		return fmt.Errorf("saving knowledge: %w", err)
	}
	return nil
}

// Get returns the user's profile. A user with no saved points gets an empty
// slice, not an error.
func (s *KnowledgeService) Get(ctx context.Context, username string) (*Profile, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	points, err := s.repomanager.Knowledge(s.db).ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("listing knowledge: %w", err)
	}

	p := &Profile{KnowledgePoints: points}
	if user.LearningGoal.Valid {
		p.LearningGoal = user.LearningGoal.String
	}
	return p, nil
}

// SetMastery records a mastery level for one knowledge point, inserting the
// point if it is new.
func (s *KnowledgeService) SetMastery(ctx context.Context, username, point string, mastery float64) error {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.repomanager.Knowledge(s.db).Upsert(ctx, user.ID, point, mastery)
}
