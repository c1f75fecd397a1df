package model

import (
	"database/sql"
	"time"

	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/pkg/dateutil"
)

const DefaultTimeLayout string = time.RFC3339Nano

func formatNullTime(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}

	return t.Time.Format(DefaultTimeLayout)
}

func ConvertUser(user *entity.User, includeSensitive bool) User {
	if user == nil {
		return User{}
	}

	clientUser := User{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}

	if includeSensitive {
		clientUser.Role = string(user.Role)
		clientUser.Coins = user.Coins
		clientUser.IsNewUser = user.IsNewUser
	}

	return clientUser
}

func ConvertTask(task *entity.Task) Task {
	if task == nil {
		return Task{}
	}

	return Task{
		ID:           task.ID,
		Title:        task.Title,
		Details:      string(task.Details),
		Status:       string(task.Status),
		CoinReward:   int64(task.CoinReward),
		FocusSeconds: task.FocusSeconds,
	}
}

func ConvertTaskAssignment(assignment *entity.TaskAssignment) TaskAssignment {
	if assignment == nil {
		return TaskAssignment{}
	}

	return TaskAssignment{
		ID:           assignment.ID,
		Task:         ConvertTask(&assignment.Task),
		Day:          assignment.Day,
		Status:       string(assignment.Status),
		CompletedAt:  formatNullTime(assignment.CompletedAt),
		FocusStartAt: formatNullTime(assignment.FocusStartAt),
	}
}

func ConvertChallenge(challenge *entity.WeeklyChallenge, now time.Time) WeeklyChallenge {
	if challenge == nil {
		return WeeklyChallenge{}
	}

	return WeeklyChallenge{
		ID:            challenge.ID,
		Title:         challenge.Title,
		Details:       string(challenge.Details),
		StartDate:     challenge.StartDate.Format(dateutil.DayLayout),
		DueDate:       challenge.DueDate.Format(dateutil.DayLayout),
		CoinReward:    int64(challenge.CoinReward),
		DaysRemaining: dateutil.DaysUntil(now, challenge.DueDate),
	}
}

func ConvertChallengeParticipant(participant *entity.ChallengeParticipant) ChallengeParticipant {
	if participant == nil {
		return ChallengeParticipant{}
	}

	return ChallengeParticipant{
		User:     ConvertUser(&participant.User, false),
		Progress: participant.Progress,
		Streak:   participant.Streak,
	}
}

// ConvertQuiz includes correct option indexes only when includeAnswers is
// set. Member-facing responses must never carry them.
func ConvertQuiz(quiz *entity.Quiz, questions []entity.QuizQuestion, includeAnswers bool) Quiz {
	if quiz == nil {
		return Quiz{}
	}

	clientQuiz := Quiz{
		ID:            quiz.ID,
		ChallengeID:   quiz.ChallengeID.String,
		Title:         quiz.Title,
		PassThreshold: quiz.PassThreshold,
		CoinReward:    int64(quiz.CoinReward),
	}

	for _, q := range questions {
		clientQuestion := QuizQuestion{
			Index:    q.Index,
			Question: q.Question,
			Options:  q.Options,
		}

		if includeAnswers {
			correct := q.CorrectOptionIndex
			clientQuestion.CorrectOptionIndex = &correct
		}

		clientQuiz.Questions = append(clientQuiz.Questions, clientQuestion)
	}

	return clientQuiz
}

func ConvertCoinTransaction(tx *entity.CoinTransaction) CoinTransaction {
	if tx == nil {
		return CoinTransaction{}
	}

	return CoinTransaction{
		ID:         tx.ID,
		UserID:     tx.UserID,
		SourceType: string(tx.SourceType),
		SourceID:   tx.SourceID,
		CoinAmount: tx.CoinAmount,
		Status:     string(tx.Status),
		Reason:     tx.Reason,
		CreatedAt:  tx.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertPrayerRequest(request *entity.PrayerRequest) PrayerRequest {
	if request == nil {
		return PrayerRequest{}
	}

	clientRequest := PrayerRequest{
		ID:        request.ID,
		Content:   request.Content,
		PrayCount: request.PrayCount,
		CreatedAt: request.CreatedAt.Format(DefaultTimeLayout),
	}

	if !request.IsAnonymous {
		user := ConvertUser(&request.User, false)
		clientRequest.User = &user
	}

	return clientRequest
}

func ConvertEvent(event *entity.Event, goingCount int64, myRSVP string) Event {
	if event == nil {
		return Event{}
	}

	return Event{
		ID:         event.ID,
		Title:      event.Title,
		Details:    string(event.Details),
		Location:   event.Location,
		StartTime:  event.StartTime.Format(DefaultTimeLayout),
		EndTime:    event.EndTime.Format(DefaultTimeLayout),
		GoingCount: goingCount,
		MyRSVP:     myRSVP,
	}
}

func ConvertPost(post *entity.Post, liked bool) Post {
	if post == nil {
		return Post{}
	}

	return Post{
		ID:        post.ID,
		Author:    ConvertUser(&post.Author, false),
		Title:     post.Title,
		Body:      string(post.Body),
		Likes:     post.Likes,
		Liked:     liked,
		CreatedAt: post.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertChatMessage(message *entity.ChatMessage) ChatMessage {
	if message == nil {
		return ChatMessage{}
	}

	return ChatMessage{
		ID:        message.ID,
		ChannelID: message.ChannelID,
		Author:    ConvertUser(&message.Author, false),
		Content:   message.Content,
		CreatedAt: message.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertNotification(notification *entity.Notification) Notification {
	if notification == nil {
		return Notification{}
	}

	return Notification{
		ID:        notification.ID,
		Type:      string(notification.Type),
		Message:   notification.Message,
		Payload:   notification.Payload,
		IsRead:    notification.IsRead,
		CreatedAt: notification.CreatedAt.Format(DefaultTimeLayout),
	}
}
