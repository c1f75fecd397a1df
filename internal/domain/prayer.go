package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/koinonia-app/backend/internal/common"
	"github.com/koinonia-app/backend/internal/domain/realtime"
	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/internal/model"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/koinonia-app/backend/pkg/ws"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// PrayerWallChannel is the websocket channel carrying prayer wall updates.
const PrayerWallChannel = "prayer-wall"

type PrayerDomain interface {
	Create(context.Context, *model.CreatePrayerRequestRequest) (*model.CreatePrayerRequestResponse, error)
	GetList(context.Context, *model.GetPrayerRequestsRequest) (*model.GetPrayerRequestsResponse, error)
	Pray(context.Context, *model.PrayRequest) (*model.PrayResponse, error)
	Delete(context.Context, *model.DeletePrayerRequestRequest) (*model.DeletePrayerRequestResponse, error)
	ServeWall(context.Context, *model.ServePrayerWallRequest) error
}

type prayerDomain struct {
	prayerRepo   repository.PrayerRequestRepository
	hub          *ws.Hub
	roleVerifier *common.GlobalRoleVerifier
}

func NewPrayerDomain(
	prayerRepo repository.PrayerRequestRepository,
	hub *ws.Hub,
	userRepo repository.UserRepository,
) *prayerDomain {
	return &prayerDomain{
		prayerRepo:   prayerRepo,
		hub:          hub,
		roleVerifier: common.NewGlobalRoleVerifier(userRepo),
	}
}

func (d *prayerDomain) Create(
	ctx context.Context, req *model.CreatePrayerRequestRequest,
) (*model.CreatePrayerRequestResponse, error) {
	if req.Content == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty request")
	}

	request := &entity.PrayerRequest{
		Base:        entity.Base{ID: uuid.NewString()},
		UserID:      xcontext.RequestUserID(ctx),
		Content:     req.Content,
		IsAnonymous: req.IsAnonymous,
	}

	if err := d.prayerRepo.Create(ctx, request); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create prayer request: %v", err)
		return nil, errorx.Unknown
	}

	d.broadcast(ctx, realtime.OpNewPrayer, map[string]any{"id": request.ID})
	return &model.CreatePrayerRequestResponse{ID: request.ID}, nil
}

func (d *prayerDomain) GetList(
	ctx context.Context, req *model.GetPrayerRequestsRequest,
) (*model.GetPrayerRequestsResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 || req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Invalid limit %d", req.Limit)
	}

	requests, err := d.prayerRepo.GetList(ctx, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get prayer requests: %v", err)
		return nil, errorx.Unknown
	}

	clientRequests := []model.PrayerRequest{}
	for _, r := range requests {
		clientRequests = append(clientRequests, model.ConvertPrayerRequest(&r))
	}

	return &model.GetPrayerRequestsResponse{Requests: clientRequests}, nil
}

func (d *prayerDomain) Pray(
	ctx context.Context, req *model.PrayRequest,
) (*model.PrayResponse, error) {
	if err := d.prayerRepo.IncreasePrayCount(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found prayer request")
		}

		xcontext.Logger(ctx).Errorf("Cannot increase pray count: %v", err)
		return nil, errorx.Unknown
	}

	request, err := d.prayerRepo.GetByID(ctx, req.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get prayer request: %v", err)
		return nil, errorx.Unknown
	}

	d.broadcast(ctx, realtime.OpPrayCount, map[string]any{
		"id":         request.ID,
		"pray_count": request.PrayCount,
	})

	return &model.PrayResponse{}, nil
}

func (d *prayerDomain) Delete(
	ctx context.Context, req *model.DeletePrayerRequestRequest,
) (*model.DeletePrayerRequestResponse, error) {
	request, err := d.prayerRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found prayer request")
		}

		xcontext.Logger(ctx).Errorf("Cannot get prayer request: %v", err)
		return nil, errorx.Unknown
	}

	// Owners remove their own requests, admins moderate everyone's.
	if request.UserID != xcontext.RequestUserID(ctx) {
		if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}
	}

	if err := d.prayerRepo.DeleteByID(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete prayer request: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeletePrayerRequestResponse{}, nil
}

func (d *prayerDomain) ServeWall(ctx context.Context, req *model.ServePrayerWallRequest) error {
	if err := ws.ServeClient(ctx, d.hub, PrayerWallChannel); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot serve websocket client: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *prayerDomain) broadcast(ctx context.Context, op string, payload map[string]any) {
	event := realtime.Event{Op: op, Data: payload}
	b, err := event.Bytes()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot encode realtime event: %v", err)
		return
	}

	d.hub.BroadcastToChannel(PrayerWallChannel, b)
}
