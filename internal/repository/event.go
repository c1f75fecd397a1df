package repository

import (
	"context"
	"time"

	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	GetUpcoming(ctx context.Context, now time.Time, offset, limit int) ([]entity.Event, error)
	UpdateByID(ctx context.Context, id string, event *entity.Event) error
	DeleteByID(ctx context.Context, id string) error

	UpsertRSVP(ctx context.Context, rsvp *entity.EventRSVP) error
	GetRSVP(ctx context.Context, eventID, userID string) (*entity.EventRSVP, error)
	GetRSVPList(ctx context.Context, eventID string) ([]entity.EventRSVP, error)
	CountGoing(ctx context.Context, eventID string) (int64, error)
}

type eventRepository struct{}

func NewEventRepository() *eventRepository {
	return &eventRepository{}
}

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	return xcontext.DB(ctx).Create(event).Error
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	var result entity.Event
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *eventRepository) GetUpcoming(
	ctx context.Context, now time.Time, offset, limit int,
) ([]entity.Event, error) {
	var result []entity.Event
	err := xcontext.DB(ctx).
		Where("end_time >= ?", now).
		Order("start_time ASC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *eventRepository) UpdateByID(ctx context.Context, id string, event *entity.Event) error {
	return xcontext.DB(ctx).
		Model(&entity.Event{}).
		Where("id=?", id).
		Updates(event).Error
}

func (r *eventRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.Event{}, "id=?", id).Error
}

// UpsertRSVP lets a member change their answer any number of times. The last
// status wins.
func (r *eventRepository) UpsertRSVP(ctx context.Context, rsvp *entity.EventRSVP) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).
		Create(rsvp).Error
}

func (r *eventRepository) GetRSVP(ctx context.Context, eventID, userID string) (*entity.EventRSVP, error) {
	var result entity.EventRSVP
	err := xcontext.DB(ctx).
		Where("event_id=? AND user_id=?", eventID, userID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *eventRepository) GetRSVPList(ctx context.Context, eventID string) ([]entity.EventRSVP, error) {
	var result []entity.EventRSVP
	err := xcontext.DB(ctx).
		Preload("User").
		Where("event_id=?", eventID).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *eventRepository) CountGoing(ctx context.Context, eventID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.EventRSVP{}).
		Where("event_id=? AND status=?", eventID, entity.RSVPGoing).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
