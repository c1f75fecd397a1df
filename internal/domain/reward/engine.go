// Package reward issues coins into the transaction ledger. Every coin a
// member earns flows through Engine.Issue, no other code writes the ledger.
package reward

import (
	"context"

	"github.com/google/uuid"
	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/pkg/xcontext"
)

// Criticality tells Issue what a failure means to the caller. A Critical
// issue failing must fail the surrounding operation, a BestEffort one is
// logged and swallowed so it never rolls back work the member already did.
type Criticality int

const (
	Critical Criticality = iota
	BestEffort
)

type IssueInput struct {
	UserID     string
	SourceType entity.CoinSourceType
	SourceID   string
	Amount     int64
	Reason     string

	Criticality Criticality

	// SuppressNotification skips the feed entry. Quiz rewards use it because
	// the submit response already reports the coins.
	SuppressNotification bool
}

type Engine struct {
	coinTxRepo       repository.CoinTransactionRepository
	notificationRepo repository.NotificationRepository
}

func NewEngine(
	coinTxRepo repository.CoinTransactionRepository,
	notificationRepo repository.NotificationRepository,
) *Engine {
	return &Engine{
		coinTxRepo:       coinTxRepo,
		notificationRepo: notificationRepo,
	}
}

// Issue records a pending coin transaction for the given source. The ledger
// carries a unique key over (user, source type, source id), so reissuing for
// the same source is a no-op and the member is paid at most once. The
// returned amount is zero when nothing new was recorded.
func (e *Engine) Issue(ctx context.Context, input IssueInput) (int64, error) {
	if input.UserID == "" || input.SourceID == "" {
		xcontext.Logger(ctx).Warnf(
			"Ignored reward with incomplete source: user=%s, source=%s", input.UserID, input.SourceID)
		return 0, nil
	}

	if input.Amount <= 0 {
		xcontext.Logger(ctx).Warnf(
			"Ignored reward of %d coins for source %s", input.Amount, input.SourceID)
		return 0, nil
	}

	inserted, err := e.coinTxRepo.CreateIfNotExist(ctx, &entity.CoinTransaction{
		Base:       entity.Base{ID: uuid.NewString()},
		UserID:     input.UserID,
		SourceType: input.SourceType,
		SourceID:   input.SourceID,
		CoinAmount: input.Amount,
		Status:     entity.TransactionPending,
		Reason:     input.Reason,
	})
	if err != nil {
		if input.Criticality == BestEffort {
			xcontext.Logger(ctx).Errorf("Cannot issue best-effort reward: %v", err)
			return 0, nil
		}

		return 0, err
	}

	if !inserted {
		return 0, nil
	}

	if !input.SuppressNotification {
		err := e.notificationRepo.Create(ctx, &entity.Notification{
			Base:    entity.Base{ID: uuid.NewString()},
			UserID:  input.UserID,
			Type:    entity.NotificationReward,
			Message: input.Reason,
			Payload: entity.Map{
				"coin_amount": input.Amount,
				"source_type": string(input.SourceType),
				"source_id":   input.SourceID,
			},
		})
		if err != nil {
			// The coins are already in the ledger, so a failed feed entry is
			// not worth failing the issue for.
			xcontext.Logger(ctx).Errorf("Cannot create reward notification: %v", err)
		}
	}

	return input.Amount, nil
}
