package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/koinonia-app/backend/internal/common"
	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/internal/model"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/pkg/dateutil"
	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ChallengeDomain interface {
	Create(context.Context, *model.CreateChallengeRequest) (*model.CreateChallengeResponse, error)
	GetCurrent(context.Context, *model.GetCurrentChallengeRequest) (*model.GetCurrentChallengeResponse, error)
	Join(context.Context, *model.JoinChallengeRequest) (*model.JoinChallengeResponse, error)
	GetParticipants(context.Context, *model.GetChallengeParticipantsRequest) (*model.GetChallengeParticipantsResponse, error)
}

type challengeDomain struct {
	challengeRepo   repository.ChallengeRepository
	participantRepo repository.ChallengeParticipantRepository
	quizRepo        repository.QuizRepository
	roleVerifier    *common.GlobalRoleVerifier
}

func NewChallengeDomain(
	challengeRepo repository.ChallengeRepository,
	participantRepo repository.ChallengeParticipantRepository,
	quizRepo repository.QuizRepository,
	userRepo repository.UserRepository,
) *challengeDomain {
	return &challengeDomain{
		challengeRepo:   challengeRepo,
		participantRepo: participantRepo,
		quizRepo:        quizRepo,
		roleVerifier:    common.NewGlobalRoleVerifier(userRepo),
	}
}

func (d *challengeDomain) Create(
	ctx context.Context, req *model.CreateChallengeRequest,
) (*model.CreateChallengeResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when creating challenge: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty title")
	}

	startDate, err := time.ParseInLocation(dateutil.DayLayout, req.StartDate, time.UTC)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid start date %s", req.StartDate)
	}

	dueDate, err := time.ParseInLocation(dateutil.DayLayout, req.DueDate, time.UTC)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid due date %s", req.DueDate)
	}

	if !dueDate.After(startDate) {
		return nil, errorx.New(errorx.BadRequest, "Due date must be after start date")
	}

	if req.CoinReward < 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow a negative reward")
	}

	challenge := &entity.WeeklyChallenge{
		Base:       entity.Base{ID: uuid.NewString()},
		Title:      req.Title,
		Details:    []byte(req.Details),
		StartDate:  startDate,
		DueDate:    dueDate,
		CoinReward: uint64(req.CoinReward),
	}

	if err := d.challengeRepo.Create(ctx, challenge); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create challenge: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateChallengeResponse{ID: challenge.ID}, nil
}

func (d *challengeDomain) GetCurrent(
	ctx context.Context, req *model.GetCurrentChallengeRequest,
) (*model.GetCurrentChallengeResponse, error) {
	now := time.Now()
	challenge, err := d.challengeRepo.GetCurrent(ctx, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "No challenge is running now")
		}

		xcontext.Logger(ctx).Errorf("Cannot get current challenge: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetCurrentChallengeResponse{
		Challenge: model.ConvertChallenge(challenge, now),
	}

	userID := xcontext.RequestUserID(ctx)
	if userID != "" {
		participant, err := d.participantRepo.Get(ctx, challenge.ID, userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get participant: %v", err)
			return nil, errorx.Unknown
		}

		if participant != nil {
			me := model.ConvertChallengeParticipant(participant)
			resp.Me = &me
		}
	}

	quiz, err := d.quizRepo.GetByChallengeID(ctx, challenge.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get challenge quiz: %v", err)
		return nil, errorx.Unknown
	}

	if quiz != nil {
		// Questions are not loaded here, the client fetches the full quiz
		// when the member starts it.
		clientQuiz := model.ConvertQuiz(quiz, nil, false)
		resp.Quiz = &clientQuiz
	}

	return resp, nil
}

func (d *challengeDomain) Join(
	ctx context.Context, req *model.JoinChallengeRequest,
) (*model.JoinChallengeResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	challenge, err := d.challengeRepo.GetByID(ctx, req.ChallengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found challenge")
		}

		xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
		return nil, errorx.Unknown
	}

	now := time.Now()
	if now.Before(challenge.StartDate) || now.After(challenge.DueDate) {
		return nil, errorx.New(errorx.Unavailable, "This challenge is not running")
	}

	_, err = d.participantRepo.Get(ctx, challenge.ID, userID)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "You already joined this challenge")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get participant: %v", err)
		return nil, errorx.Unknown
	}

	err = d.participantRepo.Create(ctx, &entity.ChallengeParticipant{
		ChallengeID: challenge.ID,
		UserID:      userID,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create participant: %v", err)
		return nil, errorx.Unknown
	}

	return &model.JoinChallengeResponse{}, nil
}

func (d *challengeDomain) GetParticipants(
	ctx context.Context, req *model.GetChallengeParticipantsRequest,
) (*model.GetChallengeParticipantsResponse, error) {
	participants, err := d.participantRepo.GetListByChallengeID(ctx, req.ChallengeID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get participants: %v", err)
		return nil, errorx.Unknown
	}

	// A standings list with a single name in it is noise, the client shows
	// the progress card instead.
	if len(participants) <= 1 {
		return &model.GetChallengeParticipantsResponse{}, nil
	}

	clientParticipants := []model.ChallengeParticipant{}
	for _, p := range participants {
		clientParticipants = append(clientParticipants, model.ConvertChallengeParticipant(&p))
	}

	return &model.GetChallengeParticipantsResponse{Participants: clientParticipants}, nil
}
