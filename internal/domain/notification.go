package domain

import (
	"context"

	"github.com/koinonia-app/backend/internal/model"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/koinonia-app/backend/pkg/xcontext"
)

type NotificationDomain interface {
	GetList(context.Context, *model.GetNotificationsRequest) (*model.GetNotificationsResponse, error)
	MarkRead(context.Context, *model.MarkNotificationsReadRequest) (*model.MarkNotificationsReadResponse, error)
}

type notificationDomain struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationDomain(
	notificationRepo repository.NotificationRepository,
) *notificationDomain {
	return &notificationDomain{notificationRepo: notificationRepo}
}

func (d *notificationDomain) GetList(
	ctx context.Context, req *model.GetNotificationsRequest,
) (*model.GetNotificationsResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 || req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Invalid limit %d", req.Limit)
	}

	userID := xcontext.RequestUserID(ctx)
	notifications, err := d.notificationRepo.GetListByUserID(ctx, userID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get notifications: %v", err)
		return nil, errorx.Unknown
	}

	unread, err := d.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count unread notifications: %v", err)
		return nil, errorx.Unknown
	}

	clientNotifications := []model.Notification{}
	for _, n := range notifications {
		clientNotifications = append(clientNotifications, model.ConvertNotification(&n))
	}

	return &model.GetNotificationsResponse{
		Notifications: clientNotifications,
		UnreadCount:   unread,
	}, nil
}

func (d *notificationDomain) MarkRead(
	ctx context.Context, req *model.MarkNotificationsReadRequest,
) (*model.MarkNotificationsReadResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	if req.All {
		if err := d.notificationRepo.MarkAllRead(ctx, userID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot mark notifications read: %v", err)
			return nil, errorx.Unknown
		}

		return &model.MarkNotificationsReadResponse{}, nil
	}

	if len(req.IDs) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty id list")
	}

	if err := d.notificationRepo.MarkRead(ctx, userID, req.IDs); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mark notifications read: %v", err)
		return nil, errorx.Unknown
	}

	return &model.MarkNotificationsReadResponse{}, nil
}
