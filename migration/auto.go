package migration

import (
	"context"

	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/pkg/xcontext"
)

func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.User{},
		&entity.OAuth2{},
		&entity.RefreshToken{},
		&entity.Task{},
		&entity.TaskAssignment{},
		&entity.WeeklyChallenge{},
		&entity.ChallengeParticipant{},
		&entity.Quiz{},
		&entity.QuizQuestion{},
		&entity.QuizAttempt{},
		&entity.CoinTransaction{},
		&entity.UserVerseReward{},
		&entity.PrayerRequest{},
		&entity.Event{},
		&entity.EventRSVP{},
		&entity.Post{},
		&entity.PostLike{},
		&entity.ChatChannel{},
		&entity.ChatMessage{},
		&entity.Notification{},
	)
}
