package domain

import (
	"testing"
	"time"

	"github.com/koinonia-app/backend/internal/model"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/internal/testutil"
	"github.com/koinonia-app/backend/pkg/dateutil"
	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestChallengeDomain() *challengeDomain {
	return NewChallengeDomain(
		repository.NewChallengeRepository(),
		repository.NewChallengeParticipantRepository(),
		repository.NewQuizRepository(),
		repository.NewUserRepository(),
	)
}

func Test_challengeDomain_Create(t *testing.T) {
	domain := newTestChallengeDomain()

	today := dateutil.Day(time.Now())
	nextWeek := dateutil.Day(time.Now().AddDate(0, 0, 7))

	t.Run("happy case", func(t *testing.T) {
		ctx := testutil.MockContextWithUserID(t, testutil.Admin.ID)
		testutil.CreateFixtureDb(ctx, t)

		resp, err := domain.Create(ctx, &model.CreateChallengeRequest{
			Title:      "Scripture memory week",
			StartDate:  today,
			DueDate:    nextWeek,
			CoinReward: 100,
		})
		require.NoError(t, err)
		require.NotEmpty(t, resp.ID)
	})

	t.Run("due date before start date", func(t *testing.T) {
		ctx := testutil.MockContextWithUserID(t, testutil.Admin.ID)
		testutil.CreateFixtureDb(ctx, t)

		_, err := domain.Create(ctx, &model.CreateChallengeRequest{
			Title:     "Scripture memory week",
			StartDate: nextWeek,
			DueDate:   today,
		})
		require.Equal(t, errorx.New(errorx.BadRequest, "Due date must be after start date"), err)
	})

	t.Run("permission denied for member", func(t *testing.T) {
		ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
		testutil.CreateFixtureDb(ctx, t)

		_, err := domain.Create(ctx, &model.CreateChallengeRequest{
			Title:     "Scripture memory week",
			StartDate: today,
			DueDate:   nextWeek,
		})
		require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)
	})
}

func Test_challengeDomain_GetCurrent(t *testing.T) {
	domain := newTestChallengeDomain()

	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	testutil.CreateFixtureDb(ctx, t)

	// Before joining, the response has no personal progress.
	resp, err := domain.GetCurrent(ctx, &model.GetCurrentChallengeRequest{})
	require.NoError(t, err)
	require.Equal(t, testutil.Challenge1.ID, resp.Challenge.ID)
	require.Nil(t, resp.Me)
	require.NotNil(t, resp.Quiz)
	require.Equal(t, testutil.Quiz1.ID, resp.Quiz.ID)
	require.Empty(t, resp.Quiz.Questions)

	_, err = domain.Join(ctx, &model.JoinChallengeRequest{ChallengeID: testutil.Challenge1.ID})
	require.NoError(t, err)

	resp, err = domain.GetCurrent(ctx, &model.GetCurrentChallengeRequest{})
	require.NoError(t, err)
	require.NotNil(t, resp.Me)
	require.Equal(t, 0, resp.Me.Progress)
}

func Test_challengeDomain_Join(t *testing.T) {
	domain := newTestChallengeDomain()

	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	testutil.CreateFixtureDb(ctx, t)

	_, err := domain.Join(ctx, &model.JoinChallengeRequest{ChallengeID: testutil.Challenge1.ID})
	require.NoError(t, err)

	_, err = domain.Join(ctx, &model.JoinChallengeRequest{ChallengeID: testutil.Challenge1.ID})
	require.Equal(t, errorx.New(errorx.AlreadyExists, "You already joined this challenge"), err)

	_, err = domain.Join(ctx, &model.JoinChallengeRequest{ChallengeID: "missing"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found challenge"), err)
}

func Test_challengeDomain_GetParticipants_hidesLonelyStandings(t *testing.T) {
	domain := newTestChallengeDomain()

	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	testutil.CreateFixtureDb(ctx, t)

	_, err := domain.Join(ctx, &model.JoinChallengeRequest{ChallengeID: testutil.Challenge1.ID})
	require.NoError(t, err)

	// A single participant gets no standings list.
	resp, err := domain.GetParticipants(ctx, &model.GetChallengeParticipantsRequest{
		ChallengeID: testutil.Challenge1.ID,
	})
	require.NoError(t, err)
	require.Empty(t, resp.Participants)

	otherCtx := xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	_, err = domain.Join(otherCtx, &model.JoinChallengeRequest{ChallengeID: testutil.Challenge1.ID})
	require.NoError(t, err)

	resp, err = domain.GetParticipants(ctx, &model.GetChallengeParticipantsRequest{
		ChallengeID: testutil.Challenge1.ID,
	})
	require.NoError(t, err)
	require.Len(t, resp.Participants, 2)
}
