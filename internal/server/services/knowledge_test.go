package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/smartlearn/internal/common"
	"github.com/dmitrijs2005/smartlearn/internal/server/repositories/repomanager"
)

func newKnowledgeService(t *testing.T) (*KnowledgeService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewKnowledgeService(db, &repomanager.SQLiteRepositoryManager{}), mock
}

func expectUserRow(mock sqlmock.Sqlmock, username string, id int64, goal any) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(userColumns()).
		AddRow(id, username, "hash", nil, nil, nil, nil, goal, "student", 1, created, nil)
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username`).
		WithArgs(username).
		WillReturnRows(rows)
}

func TestKnowledgeService_Save(t *testing.T) {
	t.Run("goal and points", func(t *testing.T) {
		svc, mock := newKnowledgeService(t)

		expectUserRow(mock, "student1", 7, nil)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE users SET learning_goal`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO user_knowledge`).
			WithArgs(int64(7), "C++").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`INSERT INTO user_knowledge`).
			WithArgs(int64(7), "SQL").
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectExec(`INSERT INTO user_logs`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := svc.Save(context.Background(), "student1", "backend developer",
			[]string{"C++", " SQL ", ""}, "127.0.0.1")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty goal skips goal update", func(t *testing.T) {
		svc, mock := newKnowledgeService(t)

		expectUserRow(mock, "student1", 7, nil)
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO user_knowledge`).
			WithArgs(int64(7), "Go").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`INSERT INTO user_logs`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := svc.Save(context.Background(), "student1", "", []string{"Go"}, "127.0.0.1")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, mock := newKnowledgeService(t)

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE username`).
			WithArgs("nobody99").
			WillReturnRows(sqlmock.NewRows(userColumns()))

		err := svc.Save(context.Background(), "nobody99", "goal", []string{"Go"}, "127.0.0.1")
		assert.ErrorIs(t, err, common.ErrorNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure rolls back", func(t *testing.T) {
		svc, mock := newKnowledgeService(t)

		expectUserRow(mock, "student1", 7, nil)
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO user_knowledge`).
			WithArgs(int64(7), "Go").
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := svc.Save(context.Background(), "student1", "", []string{"Go"}, "127.0.0.1")
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestKnowledgeService_SetMastery(t *testing.T) {
	svc, mock := newKnowledgeService(t)

	expectUserRow(mock, "student1", 7, nil)
	mock.ExpectExec(`INSERT INTO user_knowledge (.+) DO UPDATE SET mastery_level`).
		WithArgs(int64(7), "Go", 0.8).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, svc.SetMastery(context.Background(), "student1", "Go", 0.8))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKnowledgeService_Get(t *testing.T) {
	t.Run("points and goal", func(t *testing.T) {
		svc, mock := newKnowledgeService(t)

		expectUserRow(mock, "student1", 7, "backend developer")
		mock.ExpectQuery(`SELECT knowledge_point FROM user_knowledge`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"knowledge_point"}).
				AddRow("Go").AddRow("SQL").AddRow("C++"))

		p, err := svc.Get(context.Background(), "student1")
		require.NoError(t, err)
		assert.Equal(t, "backend developer", p.LearningGoal)
		assert.Equal(t, []string{"Go", "SQL", "C++"}, p.KnowledgePoints)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty profile", func(t *testing.T) {
		svc, mock := newKnowledgeService(t)

		expectUserRow(mock, "student1", 7, nil)
		mock.ExpectQuery(`SELECT knowledge_point FROM user_knowledge`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"knowledge_point"}))

		p, err := svc.Get(context.Background(), "student1")
		require.NoError(t, err)
		assert.Empty(t, p.LearningGoal)
		assert.Empty(t, p.KnowledgePoints)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, mock := newKnowledgeService(t)

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE username`).
			WithArgs("nobody99").
			WillReturnRows(sqlmock.NewRows(userColumns()))

		p, err := svc.Get(context.Background(), "nobody99")
		assert.ErrorIs(t, err, common.ErrorNotFound)
		assert.Nil(t, p)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
