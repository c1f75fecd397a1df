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

type ChatDomain interface {
	CreateChannel(context.Context, *model.CreateChannelRequest) (*model.CreateChannelResponse, error)
	GetChannels(context.Context, *model.GetChannelsRequest) (*model.GetChannelsResponse, error)
	SendMessage(context.Context, *model.SendMessageRequest) (*model.SendMessageResponse, error)
	GetMessages(context.Context, *model.GetMessagesRequest) (*model.GetMessagesResponse, error)
	ServeChannel(context.Context, *model.ServeChannelRequest) error
}

type chatDomain struct {
	chatRepo     repository.ChatMessageRepository
	userRepo     repository.UserRepository
	hub          *ws.Hub
	roleVerifier *common.GlobalRoleVerifier
}

func NewChatDomain(
	chatRepo repository.ChatMessageRepository,
	userRepo repository.UserRepository,
	hub *ws.Hub,
) *chatDomain {
	return &chatDomain{
		chatRepo:     chatRepo,
		userRepo:     userRepo,
		hub:          hub,
		roleVerifier: common.NewGlobalRoleVerifier(userRepo),
	}
}

func (d *chatDomain) CreateChannel(
	ctx context.Context, req *model.CreateChannelRequest,
) (*model.CreateChannelResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when creating channel: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty name")
	}

	channel := &entity.ChatChannel{
		Base:        entity.Base{ID: uuid.NewString()},
		Name:        req.Name,
		Description: req.Description,
	}

	if err := d.chatRepo.CreateChannel(ctx, channel); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create channel: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateChannelResponse{ID: channel.ID}, nil
}

func (d *chatDomain) GetChannels(
	ctx context.Context, req *model.GetChannelsRequest,
) (*model.GetChannelsResponse, error) {
	channels, err := d.chatRepo.GetChannels(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get channels: %v", err)
		return nil, errorx.Unknown
	}

	clientChannels := []model.ChatChannel{}
	for _, c := range channels {
		clientChannels = append(clientChannels, model.ChatChannel{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
		})
	}

	return &model.GetChannelsResponse{Channels: clientChannels}, nil
}

func (d *chatDomain) SendMessage(
	ctx context.Context, req *model.SendMessageRequest,
) (*model.SendMessageResponse, error) {
	if req.Content == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty message")
	}

	if _, err := d.chatRepo.GetChannelByID(ctx, req.ChannelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found channel")
		}

		xcontext.Logger(ctx).Errorf("Cannot get channel: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	message := &entity.ChatMessage{
		ID:        xcontext.SnowFlake(ctx).Generate().Int64(),
		ChannelID: req.ChannelID,
		AuthorID:  userID,
		Content:   req.Content,
	}

	if err := d.chatRepo.CreateMessage(ctx, message); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create message: %v", err)
		return nil, errorx.Unknown
	}

	author, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get author: %v", err)
		return nil, errorx.Unknown
	}

	message.Author = *author
	d.broadcast(ctx, message)

	return &model.SendMessageResponse{ID: message.ID}, nil
}

// broadcast fans the persisted message out to everyone watching the channel.
// Senders receive their own message too and reconcile it by snowflake id.
func (d *chatDomain) broadcast(ctx context.Context, message *entity.ChatMessage) {
	event, err := realtime.NewEvent(realtime.OpChatMessage, model.ConvertChatMessage(message))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot build chat event: %v", err)
		return
	}

	b, err := event.Bytes()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot encode chat event: %v", err)
		return
	}

	d.hub.BroadcastToChannel(message.ChannelID, b)
}

func (d *chatDomain) GetMessages(
	ctx context.Context, req *model.GetMessagesRequest,
) (*model.GetMessagesResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 || req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Invalid limit %d", req.Limit)
	}

	messages, err := d.chatRepo.GetMessages(ctx, req.ChannelID, req.Before, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get messages: %v", err)
		return nil, errorx.Unknown
	}

	clientMessages := []model.ChatMessage{}
	for _, m := range messages {
		clientMessages = append(clientMessages, model.ConvertChatMessage(&m))
	}

	return &model.GetMessagesResponse{Messages: clientMessages}, nil
}

func (d *chatDomain) ServeChannel(ctx context.Context, req *model.ServeChannelRequest) error {
	if _, err := d.chatRepo.GetChannelByID(ctx, req.ChannelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Not found channel")
		}

		xcontext.Logger(ctx).Errorf("Cannot get channel: %v", err)
		return errorx.Unknown
	}

	if err := ws.ServeClient(ctx, d.hub, req.ChannelID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot serve websocket client: %v", err)
		return errorx.Unknown
	}

	return nil
}
