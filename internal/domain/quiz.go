package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/koinonia-app/backend/internal/common"
	"github.com/koinonia-app/backend/internal/domain/reward"
	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/internal/model"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type QuizDomain interface {
	Create(context.Context, *model.CreateQuizRequest) (*model.CreateQuizResponse, error)
	Get(context.Context, *model.GetQuizRequest) (*model.GetQuizResponse, error)
	Submit(context.Context, *model.SubmitQuizRequest) (*model.SubmitQuizResponse, error)
}

type quizDomain struct {
	quizRepo        repository.QuizRepository
	attemptRepo     repository.QuizAttemptRepository
	challengeRepo   repository.ChallengeRepository
	participantRepo repository.ChallengeParticipantRepository
	rewardEngine    *reward.Engine
	roleVerifier    *common.GlobalRoleVerifier
}

func NewQuizDomain(
	quizRepo repository.QuizRepository,
	attemptRepo repository.QuizAttemptRepository,
	challengeRepo repository.ChallengeRepository,
	participantRepo repository.ChallengeParticipantRepository,
	rewardEngine *reward.Engine,
	userRepo repository.UserRepository,
) *quizDomain {
	return &quizDomain{
		quizRepo:        quizRepo,
		attemptRepo:     attemptRepo,
		challengeRepo:   challengeRepo,
		participantRepo: participantRepo,
		rewardEngine:    rewardEngine,
		roleVerifier:    common.NewGlobalRoleVerifier(userRepo),
	}
}

func (d *quizDomain) Create(
	ctx context.Context, req *model.CreateQuizRequest,
) (*model.CreateQuizResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when creating quiz: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty title")
	}

	cfg := xcontext.Configs(ctx).Engagement
	if len(req.Questions) == 0 || len(req.Questions) > cfg.QuizMaxQuestions {
		return nil, errorx.New(errorx.BadRequest,
			"Require between 1 and %d questions", cfg.QuizMaxQuestions)
	}

	if req.PassThreshold < 1 || req.PassThreshold > len(req.Questions) {
		return nil, errorx.New(errorx.BadRequest,
			"Pass threshold must be between 1 and the number of questions")
	}

	for i, q := range req.Questions {
		if q.Question == "" {
			return nil, errorx.New(errorx.BadRequest, "Not allow an empty question")
		}

		if len(q.Options) < 2 || len(q.Options) > cfg.QuizMaxOptions {
			return nil, errorx.New(errorx.BadRequest,
				"Question %d must have between 2 and %d options", i, cfg.QuizMaxOptions)
		}

		if q.CorrectOptionIndex == nil ||
			*q.CorrectOptionIndex < 0 || *q.CorrectOptionIndex >= len(q.Options) {
			return nil, errorx.New(errorx.BadRequest,
				"Question %d has no valid correct option", i)
		}
	}

	challengeID := sql.NullString{}
	if req.ChallengeID != "" {
		if _, err := d.challengeRepo.GetByID(ctx, req.ChallengeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found challenge")
			}

			xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
			return nil, errorx.Unknown
		}

		challengeID = sql.NullString{Valid: true, String: req.ChallengeID}
	}

	quiz := &entity.Quiz{
		Base:          entity.Base{ID: uuid.NewString()},
		ChallengeID:   challengeID,
		Title:         req.Title,
		PassThreshold: req.PassThreshold,
		CoinReward:    uint64(req.CoinReward),
	}

	questions := make([]*entity.QuizQuestion, 0, len(req.Questions))
	for i, q := range req.Questions {
		questions = append(questions, &entity.QuizQuestion{
			Base:               entity.Base{ID: uuid.NewString()},
			QuizID:             quiz.ID,
			Index:              i,
			Question:           q.Question,
			Options:            q.Options,
			CorrectOptionIndex: *q.CorrectOptionIndex,
		})
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.quizRepo.Create(ctx, quiz); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create quiz: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.quizRepo.CreateQuestions(ctx, questions); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create quiz questions: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.CreateQuizResponse{ID: quiz.ID}, nil
}

func (d *quizDomain) Get(
	ctx context.Context, req *model.GetQuizRequest,
) (*model.GetQuizResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	quiz, err := d.quizRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quiz")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quiz: %v", err)
		return nil, errorx.Unknown
	}

	if quiz.ChallengeID.Valid {
		if err := d.requireParticipant(ctx, quiz.ChallengeID.String, userID); err != nil {
			return nil, err
		}
	}

	questions, err := d.quizRepo.GetQuestions(ctx, quiz.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quiz questions: %v", err)
		return nil, errorx.Unknown
	}

	includeAnswers := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...) == nil
	resp := &model.GetQuizResponse{
		Quiz: model.ConvertQuiz(quiz, questions, includeAnswers),
	}

	attempt, err := d.attemptRepo.Get(ctx, quiz.ID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get quiz attempt: %v", err)
		return nil, errorx.Unknown
	}

	if attempt != nil {
		resp.Attempt = &model.QuizAttempt{
			QuizID: attempt.QuizID,
			Score:  attempt.Score,
			Passed: attempt.Passed,
		}
	}

	return resp, nil
}

func (d *quizDomain) requireParticipant(ctx context.Context, challengeID, userID string) error {
	_, err := d.participantRepo.Get(ctx, challengeID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.Unavailable, "Join the challenge first")
		}

		xcontext.Logger(ctx).Errorf("Cannot get participant: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *quizDomain) Submit(
	ctx context.Context, req *model.SubmitQuizRequest,
) (*model.SubmitQuizResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	quiz, err := d.quizRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quiz")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quiz: %v", err)
		return nil, errorx.Unknown
	}

	var challenge *entity.WeeklyChallenge
	if quiz.ChallengeID.Valid {
		if err := d.requireParticipant(ctx, quiz.ChallengeID.String, userID); err != nil {
			return nil, err
		}

		challenge, err = d.challengeRepo.GetByID(ctx, quiz.ChallengeID.String)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
			return nil, errorx.Unknown
		}

		if time.Now().After(challenge.DueDate) {
			return nil, errorx.New(errorx.Unavailable, "This challenge is over")
		}
	}

	prev, err := d.attemptRepo.Get(ctx, quiz.ID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get previous attempt: %v", err)
		return nil, errorx.Unknown
	}

	// A passed attempt is terminal. Retakes only exist to improve a failed
	// score.
	if prev != nil && prev.Passed {
		return nil, errorx.New(errorx.Unavailable, "You already passed this quiz")
	}

	questions, err := d.quizRepo.GetQuestions(ctx, quiz.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quiz questions: %v", err)
		return nil, errorx.Unknown
	}

	if len(req.Answers) != len(questions) {
		return nil, errorx.New(errorx.BadRequest,
			"Expected %d answers, got %d", len(questions), len(req.Answers))
	}

	score := 0
	for i, q := range questions {
		if req.Answers[i] == q.CorrectOptionIndex {
			score++
		}
	}

	passed := score >= quiz.PassThreshold

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.attemptRepo.Upsert(ctx, &entity.QuizAttempt{
		QuizID: quiz.ID,
		UserID: userID,
		Score:  score,
		Passed: passed,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save quiz attempt: %v", err)
		return nil, errorx.Unknown
	}

	if passed && challenge != nil {
		cfg := xcontext.Configs(ctx).Engagement
		err := d.participantRepo.SetProgress(ctx, challenge.ID, userID, cfg.QuizPassProgress)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update participant progress: %v", err)
			return nil, errorx.Unknown
		}

		if err := d.participantRepo.IncreaseStreak(ctx, challenge.ID, userID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot increase streak: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	resp := &model.SubmitQuizResponse{
		Score:  score,
		Total:  len(questions),
		Passed: passed,
	}

	if passed {
		issued, err := d.issueRewards(ctx, quiz, challenge, userID)
		if err != nil {
			return nil, err
		}

		resp.CoinsIssued = issued
	}

	return resp, nil
}

// issueRewards runs after the attempt is committed. The quiz reward and the
// challenge completion reward each land under their own ledger key, and a
// failure of one never blocks the other. A failed issue surfaces as an error
// but is safe to retrigger because the ledger key dedupes.
func (d *quizDomain) issueRewards(
	ctx context.Context, quiz *entity.Quiz, challenge *entity.WeeklyChallenge, userID string,
) (int64, error) {
	var failed bool

	// The submit response already shows the coins, a feed entry on top of
	// that would be a duplicate toast.
	issued, err := d.rewardEngine.Issue(ctx, reward.IssueInput{
		UserID:               userID,
		SourceType:           entity.SourceQuiz,
		SourceID:             quiz.ID,
		Amount:               int64(quiz.CoinReward),
		Reason:               fmt.Sprintf("Passed quiz %s", quiz.Title),
		Criticality:          reward.Critical,
		SuppressNotification: true,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot issue quiz reward: %v", err)
		failed = true
	}

	if challenge != nil {
		challengeIssued, err := d.rewardEngine.Issue(ctx, reward.IssueInput{
			UserID:      userID,
			SourceType:  entity.SourceChallenge,
			SourceID:    challenge.ID,
			Amount:      int64(challenge.CoinReward),
			Reason:      fmt.Sprintf("Completed challenge %s", challenge.Title),
			Criticality: reward.Critical,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot issue challenge reward: %v", err)
			failed = true
		}

		issued += challengeIssued
	}

	if failed {
		return issued, errorx.Unknown
	}

	return issued, nil
}
