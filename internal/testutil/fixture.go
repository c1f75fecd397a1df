package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/pkg/dateutil"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

var (
	Admin = &entity.User{
		Base: entity.Base{ID: "admin"},
		Name: "admin",
		Role: entity.RoleSuperAdmin,
	}

	User1 = &entity.User{
		Base: entity.Base{ID: "user1"},
		Name: "user1",
		Role: entity.RoleMember,
	}

	User2 = &entity.User{
		Base: entity.Base{ID: "user2"},
		Name: "user2",
		Role: entity.RoleMember,
	}

	Task1 = &entity.Task{
		Base:       entity.Base{ID: "task1"},
		Title:      "Read one chapter",
		Status:     entity.TaskActive,
		CoinReward: 10,
	}

	Task2 = &entity.Task{
		Base:         entity.Base{ID: "task2"},
		Title:        "Fifteen minutes of quiet time",
		Status:       entity.TaskActive,
		CoinReward:   15,
		FocusSeconds: 900,
	}

	Challenge1 = &entity.WeeklyChallenge{
		Base:       entity.Base{ID: "challenge1"},
		Title:      "Week of gratitude",
		StartDate:  dateutil.BeginningOfDay(time.Now()).AddDate(0, 0, -1),
		DueDate:    dateutil.BeginningOfDay(time.Now()).AddDate(0, 0, 6),
		CoinReward: 100,
	}

	Quiz1 = &entity.Quiz{
		Base:          entity.Base{ID: "quiz1"},
		ChallengeID:   sql.NullString{Valid: true, String: "challenge1"},
		Title:         "Gratitude quiz",
		PassThreshold: 2,
		CoinReward:    20,
	}

	Quiz1Questions = []*entity.QuizQuestion{
		{
			Base:               entity.Base{ID: "quiz1-q0"},
			QuizID:             "quiz1",
			Index:              0,
			Question:           "Who wrote most of the Psalms?",
			Options:            entity.Array[string]{"Moses", "David", "Paul"},
			CorrectOptionIndex: 1,
		},
		{
			Base:               entity.Base{ID: "quiz1-q1"},
			QuizID:             "quiz1",
			Index:              1,
			Question:           "How many books are in the New Testament?",
			Options:            entity.Array[string]{"27", "39", "66"},
			CorrectOptionIndex: 0,
		},
		{
			Base:               entity.Base{ID: "quiz1-q2"},
			QuizID:             "quiz1",
			Index:              2,
			Question:           "Where was Jesus born?",
			Options:            entity.Array[string]{"Nazareth", "Jerusalem", "Bethlehem"},
			CorrectOptionIndex: 2,
		},
	}
)

// CreateFixtureDb seeds the database with a small community: an admin, two
// members, two daily tasks, and a running challenge with a three-question
// quiz.
func CreateFixtureDb(ctx context.Context, t *testing.T) {
	db := xcontext.DB(ctx)

	for _, user := range []*entity.User{Admin, User1, User2} {
		require.NoError(t, db.Create(user).Error)
	}

	for _, task := range []*entity.Task{Task1, Task2} {
		require.NoError(t, db.Create(task).Error)
	}

	require.NoError(t, db.Create(Challenge1).Error)
	require.NoError(t, db.Create(Quiz1).Error)
	require.NoError(t, db.Create(Quiz1Questions).Error)
}
