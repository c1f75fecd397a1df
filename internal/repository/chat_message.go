package repository

import (
	"context"

	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/pkg/xcontext"
)

type ChatMessageRepository interface {
	CreateChannel(ctx context.Context, channel *entity.ChatChannel) error
	GetChannelByID(ctx context.Context, id string) (*entity.ChatChannel, error)
	GetChannels(ctx context.Context) ([]entity.ChatChannel, error)

	CreateMessage(ctx context.Context, message *entity.ChatMessage) error
	// GetMessages pages backwards through history. A zero before cursor means
	// start from the newest message.
	GetMessages(ctx context.Context, channelID string, before int64, limit int) ([]entity.ChatMessage, error)
}

type chatMessageRepository struct{}

func NewChatMessageRepository() *chatMessageRepository {
	return &chatMessageRepository{}
}

func (r *chatMessageRepository) CreateChannel(ctx context.Context, channel *entity.ChatChannel) error {
	return xcontext.DB(ctx).Create(channel).Error
}

func (r *chatMessageRepository) GetChannelByID(ctx context.Context, id string) (*entity.ChatChannel, error) {
	var result entity.ChatChannel
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *chatMessageRepository) GetChannels(ctx context.Context) ([]entity.ChatChannel, error) {
	var result []entity.ChatChannel
	if err := xcontext.DB(ctx).Order("created_at ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *chatMessageRepository) CreateMessage(ctx context.Context, message *entity.ChatMessage) error {
	return xcontext.DB(ctx).Create(message).Error
}

func (r *chatMessageRepository) GetMessages(
	ctx context.Context, channelID string, before int64, limit int,
) ([]entity.ChatMessage, error) {
	tx := xcontext.DB(ctx).
		Preload("Author").
		Where("channel_id=?", channelID)
	if before > 0 {
		tx = tx.Where("id < ?", before)
	}

	var result []entity.ChatMessage
	err := tx.Order("id DESC").Limit(limit).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
