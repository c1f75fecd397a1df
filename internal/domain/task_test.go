package domain

import (
	"database/sql"
	"testing"
	"time"

	"github.com/koinonia-app/backend/internal/domain/reward"
	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/internal/model"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/internal/testutil"
	"github.com/koinonia-app/backend/internal/verses"
	"github.com/koinonia-app/backend/pkg/dateutil"
	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestTaskDomain(t *testing.T) *taskDomain {
	catalog, err := verses.NewCatalog()
	require.NoError(t, err)

	notificationRepo := repository.NewNotificationRepository()
	bonusDomain := NewBonusDomain(
		repository.NewUserVerseRewardRepository(), notificationRepo, catalog)

	return NewTaskDomain(
		repository.NewTaskRepository(),
		repository.NewTaskAssignmentRepository(),
		reward.NewEngine(repository.NewCoinTransactionRepository(), notificationRepo),
		bonusDomain,
		repository.NewUserRepository(),
	)
}

func Test_taskDomain_Create(t *testing.T) {
	domain := newTestTaskDomain(t)

	t.Run("happy case", func(t *testing.T) {
		ctx := testutil.MockContextWithUserID(t, testutil.Admin.ID)
		testutil.CreateFixtureDb(ctx, t)

		resp, err := domain.Create(ctx, &model.CreateTaskRequest{
			Title:      "Morning prayer",
			CoinReward: 10,
		})
		require.NoError(t, err)
		require.NotEmpty(t, resp.ID)
	})

	t.Run("permission denied for member", func(t *testing.T) {
		ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
		testutil.CreateFixtureDb(ctx, t)

		_, err := domain.Create(ctx, &model.CreateTaskRequest{Title: "Morning prayer"})
		require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)
	})

	t.Run("empty title", func(t *testing.T) {
		ctx := testutil.MockContextWithUserID(t, testutil.Admin.ID)
		testutil.CreateFixtureDb(ctx, t)

		_, err := domain.Create(ctx, &model.CreateTaskRequest{CoinReward: 10})
		require.Equal(t, errorx.New(errorx.BadRequest, "Not allow an empty title"), err)
	})
}

func Test_taskDomain_GetMyAssignments_materializesToday(t *testing.T) {
	domain := newTestTaskDomain(t)

	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	testutil.CreateFixtureDb(ctx, t)

	resp, err := domain.GetMyAssignments(ctx, &model.GetMyAssignmentsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Assignments, 2)

	for _, assignment := range resp.Assignments {
		require.Equal(t, string(entity.AssignmentAssigned), assignment.Status)
		require.Equal(t, dateutil.Day(time.Now()), assignment.Day)
	}

	// A second read does not duplicate the checklist.
	resp, err = domain.GetMyAssignments(ctx, &model.GetMyAssignmentsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Assignments, 2)

	// A past day is never materialized.
	resp, err = domain.GetMyAssignments(ctx, &model.GetMyAssignmentsRequest{Day: "2020-01-01"})
	require.NoError(t, err)
	require.Empty(t, resp.Assignments)
}

func Test_taskDomain_Toggle_completeAndUndo(t *testing.T) {
	domain := newTestTaskDomain(t)

	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	testutil.CreateFixtureDb(ctx, t)

	resp, err := domain.GetMyAssignments(ctx, &model.GetMyAssignmentsRequest{})
	require.NoError(t, err)

	var assignmentID string
	for _, a := range resp.Assignments {
		if a.Task.ID == testutil.Task1.ID {
			assignmentID = a.ID
		}
	}
	require.NotEmpty(t, assignmentID)

	toggleResp, err := domain.Toggle(ctx, &model.ToggleAssignmentRequest{ID: assignmentID})
	require.NoError(t, err)
	require.Equal(t, string(entity.AssignmentDone), toggleResp.Status)
	require.EqualValues(t, testutil.Task1.CoinReward, toggleResp.CoinsIssued)

	// Unchecking reverts the status but the issued reward stays.
	toggleResp, err = domain.Toggle(ctx, &model.ToggleAssignmentRequest{ID: assignmentID})
	require.NoError(t, err)
	require.Equal(t, string(entity.AssignmentAssigned), toggleResp.Status)

	coinTxRepo := repository.NewCoinTransactionRepository()
	txs, err := coinTxRepo.GetListByUserID(ctx, testutil.User1.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	// Completing again issues nothing new for the same assignment.
	toggleResp, err = domain.Toggle(ctx, &model.ToggleAssignmentRequest{ID: assignmentID})
	require.NoError(t, err)
	require.Equal(t, string(entity.AssignmentDone), toggleResp.Status)
	require.EqualValues(t, 0, toggleResp.CoinsIssued)

	txs, err = coinTxRepo.GetListByUserID(ctx, testutil.User1.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
}

func Test_taskDomain_Toggle_focusGate(t *testing.T) {
	domain := newTestTaskDomain(t)

	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	testutil.CreateFixtureDb(ctx, t)

	resp, err := domain.GetMyAssignments(ctx, &model.GetMyAssignmentsRequest{})
	require.NoError(t, err)

	var assignmentID string
	for _, a := range resp.Assignments {
		if a.Task.ID == testutil.Task2.ID {
			assignmentID = a.ID
		}
	}
	require.NotEmpty(t, assignmentID)

	// Completing without a running timer is refused.
	_, err = domain.Toggle(ctx, &model.ToggleAssignmentRequest{ID: assignmentID})
	require.Equal(t, errorx.New(errorx.Unavailable, "Start the focus timer first"), err)

	_, err = domain.StartFocus(ctx, &model.StartFocusRequest{ID: assignmentID})
	require.NoError(t, err)

	// The timer just started, the focus window has not elapsed yet.
	_, err = domain.Toggle(ctx, &model.ToggleAssignmentRequest{ID: assignmentID})
	require.Error(t, err)

	// Backdate the timer beyond the required window.
	assignmentRepo := repository.NewTaskAssignmentRepository()
	longAgo := time.Now().Add(-time.Duration(testutil.Task2.FocusSeconds+1) * time.Second)
	require.NoError(t, assignmentRepo.SetFocusStart(
		ctx, assignmentID, sql.NullTime{Valid: true, Time: longAgo}))

	toggleResp, err := domain.Toggle(ctx, &model.ToggleAssignmentRequest{ID: assignmentID})
	require.NoError(t, err)
	require.Equal(t, string(entity.AssignmentDone), toggleResp.Status)
}

func Test_taskDomain_Toggle_lastTaskGrantsBonus(t *testing.T) {
	domain := newTestTaskDomain(t)

	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	testutil.CreateFixtureDb(ctx, t)

	// Archive the focus-gated task so one completion finishes the day.
	taskRepo := repository.NewTaskRepository()
	require.NoError(t, taskRepo.UpdateByID(ctx, testutil.Task2.ID,
		&entity.Task{Status: entity.TaskArchived}))

	resp, err := domain.GetMyAssignments(ctx, &model.GetMyAssignmentsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Assignments, 1)

	toggleResp, err := domain.Toggle(ctx, &model.ToggleAssignmentRequest{ID: resp.Assignments[0].ID})
	require.NoError(t, err)
	require.NotNil(t, toggleResp.BonusVerse)

	verseRepo := repository.NewUserVerseRewardRepository()
	granted, err := verseRepo.GetGrantedIDs(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	require.Equal(t, toggleResp.BonusVerse.ID, granted[0])
}

func Test_taskDomain_Toggle_ownership(t *testing.T) {
	domain := newTestTaskDomain(t)

	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	testutil.CreateFixtureDb(ctx, t)

	resp, err := domain.GetMyAssignments(ctx, &model.GetMyAssignmentsRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Assignments)

	// Another member cannot toggle someone else's assignment. The request
	// user id travels in the context, so derive a second identity on top of
	// the same database.
	otherCtx := xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	_, err = domain.Toggle(otherCtx, &model.ToggleAssignmentRequest{ID: resp.Assignments[0].ID})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)
}
