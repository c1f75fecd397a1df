package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/koinonia-app/backend/internal/domain/reward"
	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/internal/model"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/internal/testutil"
	"github.com/koinonia-app/backend/pkg/dateutil"
	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestQuizDomain(t *testing.T) *quizDomain {
	return NewQuizDomain(
		repository.NewQuizRepository(),
		repository.NewQuizAttemptRepository(),
		repository.NewChallengeRepository(),
		repository.NewChallengeParticipantRepository(),
		reward.NewEngine(
			repository.NewCoinTransactionRepository(), repository.NewNotificationRepository()),
		repository.NewUserRepository(),
	)
}

func Test_quizDomain_Get(t *testing.T) {
	domain := newTestQuizDomain(t)

	t.Run("requires participation for a challenge quiz", func(t *testing.T) {
		ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
		testutil.CreateFixtureDb(ctx, t)

		_, err := domain.Get(ctx, &model.GetQuizRequest{ID: testutil.Quiz1.ID})
		require.Equal(t, errorx.New(errorx.Unavailable, "Join the challenge first"), err)
	})

	t.Run("hides answers from members, shows them to admins", func(t *testing.T) {
		ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
		testutil.CreateFixtureDb(ctx, t)

		participantRepo := repository.NewChallengeParticipantRepository()
		require.NoError(t, participantRepo.Create(ctx, &entity.ChallengeParticipant{
			ChallengeID: testutil.Challenge1.ID,
			UserID:      testutil.User1.ID,
		}))
		require.NoError(t, participantRepo.Create(ctx, &entity.ChallengeParticipant{
			ChallengeID: testutil.Challenge1.ID,
			UserID:      testutil.Admin.ID,
		}))

		resp, err := domain.Get(ctx, &model.GetQuizRequest{ID: testutil.Quiz1.ID})
		require.NoError(t, err)
		require.Len(t, resp.Quiz.Questions, 3)
		for _, q := range resp.Quiz.Questions {
			require.Nil(t, q.CorrectOptionIndex)
		}

		adminCtx := xcontext.WithRequestUserID(ctx, testutil.Admin.ID)
		resp, err = domain.Get(adminCtx, &model.GetQuizRequest{ID: testutil.Quiz1.ID})
		require.NoError(t, err)
		for i, q := range resp.Quiz.Questions {
			require.NotNil(t, q.CorrectOptionIndex)
			require.Equal(t, testutil.Quiz1Questions[i].CorrectOptionIndex, *q.CorrectOptionIndex)
		}
	})
}

func Test_quizDomain_Submit(t *testing.T) {
	domain := newTestQuizDomain(t)

	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	testutil.CreateFixtureDb(ctx, t)

	participantRepo := repository.NewChallengeParticipantRepository()
	require.NoError(t, participantRepo.Create(ctx, &entity.ChallengeParticipant{
		ChallengeID: testutil.Challenge1.ID,
		UserID:      testutil.User1.ID,
	}))

	// An assignment is still open, so the day is not finished.
	require.NoError(t, repository.NewTaskAssignmentRepository().Create(ctx, &entity.TaskAssignment{
		Base:   entity.Base{ID: uuid.NewString()},
		TaskID: testutil.Task1.ID,
		UserID: testutil.User1.ID,
		Day:    dateutil.Day(time.Now()),
		Status: entity.AssignmentAssigned,
	}))

	// Two of three answers are correct against [1, 0, 2].
	resp, err := domain.Submit(ctx, &model.SubmitQuizRequest{
		ID:      testutil.Quiz1.ID,
		Answers: []int{1, 0, 1},
	})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Score)
	require.Equal(t, 3, resp.Total)
	require.True(t, resp.Passed)

	// Quiz reward plus challenge completion reward.
	expected := int64(testutil.Quiz1.CoinReward) + int64(testutil.Challenge1.CoinReward)
	require.Equal(t, expected, resp.CoinsIssued)

	// Bonus verses only come from finishing every task of the day, so a quiz
	// pass grants none.
	granted, err := repository.NewUserVerseRewardRepository().GetListByUserID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Empty(t, granted)

	participant, err := participantRepo.Get(ctx, testutil.Challenge1.ID, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, 100, participant.Progress)
	require.Equal(t, 1, participant.Streak)

	// A passed attempt is terminal.
	_, err = domain.Submit(ctx, &model.SubmitQuizRequest{
		ID:      testutil.Quiz1.ID,
		Answers: []int{1, 0, 2},
	})
	require.Equal(t, errorx.New(errorx.Unavailable, "You already passed this quiz"), err)
}

func Test_quizDomain_Submit_failedRetake(t *testing.T) {
	domain := newTestQuizDomain(t)

	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	testutil.CreateFixtureDb(ctx, t)

	participantRepo := repository.NewChallengeParticipantRepository()
	require.NoError(t, participantRepo.Create(ctx, &entity.ChallengeParticipant{
		ChallengeID: testutil.Challenge1.ID,
		UserID:      testutil.User1.ID,
	}))

	resp, err := domain.Submit(ctx, &model.SubmitQuizRequest{
		ID:      testutil.Quiz1.ID,
		Answers: []int{0, 1, 0},
	})
	require.NoError(t, err)
	require.Equal(t, 0, resp.Score)
	require.False(t, resp.Passed)
	require.EqualValues(t, 0, resp.CoinsIssued)

	// No coins move on a failed attempt.
	coinTxRepo := repository.NewCoinTransactionRepository()
	txs, err := coinTxRepo.GetListByUserID(ctx, testutil.User1.ID, 0, 10)
	require.NoError(t, err)
	require.Empty(t, txs)

	// The retake overwrites the stored attempt instead of stacking a new one.
	resp, err = domain.Submit(ctx, &model.SubmitQuizRequest{
		ID:      testutil.Quiz1.ID,
		Answers: []int{1, 0, 2},
	})
	require.NoError(t, err)
	require.Equal(t, 3, resp.Score)
	require.True(t, resp.Passed)

	attemptRepo := repository.NewQuizAttemptRepository()
	attempts, err := attemptRepo.GetListByUserID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	require.Equal(t, 3, attempts[0].Score)
}

// quizRejectingLedger wraps the real ledger and refuses quiz-source inserts
// so a reward failure can be driven from a test.
type quizRejectingLedger struct {
	repository.CoinTransactionRepository
}

func (r quizRejectingLedger) CreateIfNotExist(
	ctx context.Context, tx *entity.CoinTransaction,
) (bool, error) {
	if tx.SourceType == entity.SourceQuiz {
		return false, errors.New("ledger unavailable")
	}

	return r.CoinTransactionRepository.CreateIfNotExist(ctx, tx)
}

func Test_quizDomain_Submit_quizRewardFailureKeepsChallengeReward(t *testing.T) {
	coinTxRepo := repository.NewCoinTransactionRepository()
	domain := NewQuizDomain(
		repository.NewQuizRepository(),
		repository.NewQuizAttemptRepository(),
		repository.NewChallengeRepository(),
		repository.NewChallengeParticipantRepository(),
		reward.NewEngine(quizRejectingLedger{coinTxRepo}, repository.NewNotificationRepository()),
		repository.NewUserRepository(),
	)

	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	testutil.CreateFixtureDb(ctx, t)

	participantRepo := repository.NewChallengeParticipantRepository()
	require.NoError(t, participantRepo.Create(ctx, &entity.ChallengeParticipant{
		ChallengeID: testutil.Challenge1.ID,
		UserID:      testutil.User1.ID,
	}))

	_, err := domain.Submit(ctx, &model.SubmitQuizRequest{
		ID:      testutil.Quiz1.ID,
		Answers: []int{1, 0, 2},
	})
	require.Equal(t, errorx.Unknown, err)

	// The challenge completion reward still lands under its own ledger key
	// even though the quiz reward insert failed.
	txs, err := coinTxRepo.GetListByUserID(ctx, testutil.User1.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, entity.SourceChallenge, txs[0].SourceType)
	require.Equal(t, int64(testutil.Challenge1.CoinReward), txs[0].CoinAmount)

	// The pass and its challenge progress are committed before any issue, so
	// a ledger outage never rolls them back.
	attempt, err := repository.NewQuizAttemptRepository().Get(ctx, testutil.Quiz1.ID, testutil.User1.ID)
	require.NoError(t, err)
	require.True(t, attempt.Passed)

	participant, err := participantRepo.Get(ctx, testutil.Challenge1.ID, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, 100, participant.Progress)
}

func Test_quizDomain_Submit_answerCount(t *testing.T) {
	domain := newTestQuizDomain(t)

	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	testutil.CreateFixtureDb(ctx, t)

	participantRepo := repository.NewChallengeParticipantRepository()
	require.NoError(t, participantRepo.Create(ctx, &entity.ChallengeParticipant{
		ChallengeID: testutil.Challenge1.ID,
		UserID:      testutil.User1.ID,
	}))

	_, err := domain.Submit(ctx, &model.SubmitQuizRequest{
		ID:      testutil.Quiz1.ID,
		Answers: []int{1, 0},
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Expected 3 answers, got 2"), err)
}

func Test_quizDomain_Create(t *testing.T) {
	domain := newTestQuizDomain(t)

	correct := func(i int) *int { return &i }

	t.Run("happy case standalone quiz", func(t *testing.T) {
		ctx := testutil.MockContextWithUserID(t, testutil.Admin.ID)
		testutil.CreateFixtureDb(ctx, t)

		resp, err := domain.Create(ctx, &model.CreateQuizRequest{
			Title:         "Memory check",
			PassThreshold: 1,
			CoinReward:    5,
			Questions: []model.QuizQuestion{
				{
					Question:           "Finish the verse: The Lord is my ...",
					Options:            []string{"rock", "shepherd"},
					CorrectOptionIndex: correct(1),
				},
			},
		})
		require.NoError(t, err)
		require.NotEmpty(t, resp.ID)
	})

	t.Run("threshold above question count", func(t *testing.T) {
		ctx := testutil.MockContextWithUserID(t, testutil.Admin.ID)
		testutil.CreateFixtureDb(ctx, t)

		_, err := domain.Create(ctx, &model.CreateQuizRequest{
			Title:         "Memory check",
			PassThreshold: 2,
			Questions: []model.QuizQuestion{
				{
					Question:           "Finish the verse: The Lord is my ...",
					Options:            []string{"rock", "shepherd"},
					CorrectOptionIndex: correct(1),
				},
			},
		})
		require.Equal(t, errorx.New(errorx.BadRequest,
			"Pass threshold must be between 1 and the number of questions"), err)
	})

	t.Run("permission denied for member", func(t *testing.T) {
		ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
		testutil.CreateFixtureDb(ctx, t)

		_, err := domain.Create(ctx, &model.CreateQuizRequest{Title: "Memory check"})
		require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)
	})
}
