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
	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type EventDomain interface {
	Create(context.Context, *model.CreateEventRequest) (*model.CreateEventResponse, error)
	GetList(context.Context, *model.GetEventsRequest) (*model.GetEventsResponse, error)
	RSVP(context.Context, *model.RSVPEventRequest) (*model.RSVPEventResponse, error)
	GetRSVPs(context.Context, *model.GetEventRSVPsRequest) (*model.GetEventRSVPsResponse, error)
}

type eventDomain struct {
	eventRepo        repository.EventRepository
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	roleVerifier     *common.GlobalRoleVerifier
}

func NewEventDomain(
	eventRepo repository.EventRepository,
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
) *eventDomain {
	return &eventDomain{
		eventRepo:        eventRepo,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		roleVerifier:     common.NewGlobalRoleVerifier(userRepo),
	}
}

func (d *eventDomain) Create(
	ctx context.Context, req *model.CreateEventRequest,
) (*model.CreateEventResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when creating event: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty title")
	}

	startTime, err := time.Parse(model.DefaultTimeLayout, req.StartTime)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid start time %s", req.StartTime)
	}

	endTime, err := time.Parse(model.DefaultTimeLayout, req.EndTime)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid end time %s", req.EndTime)
	}

	if !endTime.After(startTime) {
		return nil, errorx.New(errorx.BadRequest, "End time must be after start time")
	}

	event := &entity.Event{
		Base:      entity.Base{ID: uuid.NewString()},
		Title:     req.Title,
		Details:   []byte(req.Details),
		Location:  req.Location,
		StartTime: startTime,
		EndTime:   endTime,
		CreatedBy: xcontext.RequestUserID(ctx),
	}

	if err := d.eventRepo.Create(ctx, event); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create event: %v", err)
		return nil, errorx.Unknown
	}

	d.announce(ctx, event)
	return &model.CreateEventResponse{ID: event.ID}, nil
}

// announce drops a feed entry for every member. Announcement failures never
// fail the creation.
func (d *eventDomain) announce(ctx context.Context, event *entity.Event) {
	userIDs, err := d.userRepo.GetAllIDs(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list users for announcement: %v", err)
		return
	}

	for _, userID := range userIDs {
		err := d.notificationRepo.Create(ctx, &entity.Notification{
			Base:    entity.Base{ID: uuid.NewString()},
			UserID:  userID,
			Type:    entity.NotificationEvent,
			Message: event.Title,
			Payload: entity.Map{"event_id": event.ID},
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot announce event to %s: %v", userID, err)
		}
	}
}

func (d *eventDomain) GetList(
	ctx context.Context, req *model.GetEventsRequest,
) (*model.GetEventsResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 || req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Invalid limit %d", req.Limit)
	}

	events, err := d.eventRepo.GetUpcoming(ctx, time.Now(), req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get events: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	clientEvents := []model.Event{}
	for _, event := range events {
		goingCount, err := d.eventRepo.CountGoing(ctx, event.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count going members: %v", err)
			return nil, errorx.Unknown
		}

		myRSVP := ""
		if userID != "" {
			rsvp, err := d.eventRepo.GetRSVP(ctx, event.ID, userID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				xcontext.Logger(ctx).Errorf("Cannot get rsvp: %v", err)
				return nil, errorx.Unknown
			}

			if rsvp != nil {
				myRSVP = string(rsvp.Status)
			}
		}

		clientEvents = append(clientEvents, model.ConvertEvent(&event, goingCount, myRSVP))
	}

	return &model.GetEventsResponse{Events: clientEvents}, nil
}

func (d *eventDomain) RSVP(
	ctx context.Context, req *model.RSVPEventRequest,
) (*model.RSVPEventResponse, error) {
	status := entity.RSVPStatus(req.Status)
	if status != entity.RSVPGoing && status != entity.RSVPMaybe && status != entity.RSVPDeclined {
		return nil, errorx.New(errorx.BadRequest, "Invalid rsvp status %s", req.Status)
	}

	event, err := d.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found event")
		}

		xcontext.Logger(ctx).Errorf("Cannot get event: %v", err)
		return nil, errorx.Unknown
	}

	if time.Now().After(event.EndTime) {
		return nil, errorx.New(errorx.Unavailable, "This event is over")
	}

	err = d.eventRepo.UpsertRSVP(ctx, &entity.EventRSVP{
		EventID: req.EventID,
		UserID:  xcontext.RequestUserID(ctx),
		Status:  status,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save rsvp: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RSVPEventResponse{}, nil
}

func (d *eventDomain) GetRSVPs(
	ctx context.Context, req *model.GetEventRSVPsRequest,
) (*model.GetEventRSVPsResponse, error) {
	rsvps, err := d.eventRepo.GetRSVPList(ctx, req.EventID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get rsvps: %v", err)
		return nil, errorx.Unknown
	}

	clientRSVPs := []model.EventRSVP{}
	for _, rsvp := range rsvps {
		clientRSVPs = append(clientRSVPs, model.EventRSVP{
			User:   model.ConvertUser(&rsvp.User, false),
			Status: string(rsvp.Status),
		})
	}

	return &model.GetEventRSVPsResponse{RSVPs: clientRSVPs}, nil
}
