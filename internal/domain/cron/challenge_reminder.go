package cron

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/pkg/dateutil"
	"github.com/koinonia-app/backend/pkg/xcontext"
)

// ChallengeReminderCronJob nudges participants who have not finished the
// running challenge when its last day starts.
type ChallengeReminderCronJob struct {
	challengeRepo    repository.ChallengeRepository
	participantRepo  repository.ChallengeParticipantRepository
	notificationRepo repository.NotificationRepository
}

func NewChallengeReminderCronJob(
	challengeRepo repository.ChallengeRepository,
	participantRepo repository.ChallengeParticipantRepository,
	notificationRepo repository.NotificationRepository,
) *ChallengeReminderCronJob {
	return &ChallengeReminderCronJob{
		challengeRepo:    challengeRepo,
		participantRepo:  participantRepo,
		notificationRepo: notificationRepo,
	}
}

func (job *ChallengeReminderCronJob) Do(ctx context.Context) {
	now := time.Now()
	challenge, err := job.challengeRepo.GetCurrent(ctx, now)
	if err != nil {
		xcontext.Logger(ctx).Debugf("No running challenge to remind about: %v", err)
		return
	}

	if dateutil.DaysUntil(now, challenge.DueDate) != 1 {
		return
	}

	participants, err := job.participantRepo.GetListByChallengeID(ctx, challenge.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get participants: %v", err)
		return
	}

	passProgress := xcontext.Configs(ctx).Engagement.QuizPassProgress
	for _, p := range participants {
		if p.Progress >= passProgress {
			continue
		}

		err := job.notificationRepo.Create(ctx, &entity.Notification{
			Base:    entity.Base{ID: uuid.NewString()},
			UserID:  p.UserID,
			Type:    entity.NotificationChallenge,
			Message: "The weekly challenge ends tomorrow",
			Payload: entity.Map{"challenge_id": challenge.ID},
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create reminder for %s: %v", p.UserID, err)
		}
	}
}

func (job *ChallengeReminderCronJob) RunNow() bool {
	return false
}

func (job *ChallengeReminderCronJob) Next() time.Time {
	return dateutil.NextDay(time.Now())
}
