package domain

import (
	"context"

	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/internal/model"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/internal/verses"
	"github.com/koinonia-app/backend/pkg/crypto"
	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"github.com/google/uuid"
)

type BonusDomain interface {
	GetMyVerses(context.Context, *model.GetMyVersesRequest) (*model.GetMyVersesResponse, error)

	// MaybeGrantBonus picks a verse the user does not own yet and grants it.
	// It is best-effort end to end: any failure is logged and reported as no
	// grant, never as an error, because it runs piggybacked on operations
	// the member already completed.
	MaybeGrantBonus(ctx context.Context, userID string) *model.Verse
}

type bonusDomain struct {
	verseRepo        repository.UserVerseRewardRepository
	notificationRepo repository.NotificationRepository
	catalog          *verses.Catalog
}

func NewBonusDomain(
	verseRepo repository.UserVerseRewardRepository,
	notificationRepo repository.NotificationRepository,
	catalog *verses.Catalog,
) *bonusDomain {
	return &bonusDomain{
		verseRepo:        verseRepo,
		notificationRepo: notificationRepo,
		catalog:          catalog,
	}
}

func (d *bonusDomain) GetMyVerses(
	ctx context.Context, req *model.GetMyVersesRequest,
) (*model.GetMyVersesResponse, error) {
	grants, err := d.verseRepo.GetListByUserID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get verse grants: %v", err)
		return nil, errorx.Unknown
	}

	clientVerses := []model.Verse{}
	for _, grant := range grants {
		verse, ok := d.catalog.Get(grant.VerseID)
		if !ok {
			// A grant referencing an unknown id means the catalog shrank,
			// which the catalog contract forbids. Skip rather than fail.
			xcontext.Logger(ctx).Warnf("Granted verse %s is not in catalog", grant.VerseID)
			continue
		}

		clientVerses = append(clientVerses, model.Verse{
			ID:        verse.ID,
			Reference: verse.Reference,
			Text:      verse.Text,
		})
	}

	return &model.GetMyVersesResponse{Verses: clientVerses}, nil
}

func (d *bonusDomain) MaybeGrantBonus(ctx context.Context, userID string) *model.Verse {
	owned, err := d.verseRepo.GetGrantedIDs(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load owned verses: %v", err)
		return nil
	}

	candidates := d.catalog.NotOwned(owned)
	if len(candidates) == 0 {
		// The member collected the whole catalog.
		return nil
	}

	verse := candidates[crypto.RandIntn(len(candidates))]
	err = d.verseRepo.Create(ctx, &entity.UserVerseReward{
		UserID:  userID,
		VerseID: verse.ID,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot grant verse: %v", err)
		return nil
	}

	err = d.notificationRepo.Create(ctx, &entity.Notification{
		Base:    entity.Base{ID: uuid.NewString()},
		UserID:  userID,
		Type:    entity.NotificationBonus,
		Message: "You unlocked a new memory verse",
		Payload: entity.Map{"verse_id": verse.ID, "reference": verse.Reference},
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create bonus notification: %v", err)
	}

	return &model.Verse{ID: verse.ID, Reference: verse.Reference, Text: verse.Text}
}
