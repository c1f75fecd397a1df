package repository

import (
	"context"

	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	GetList(ctx context.Context, offset, limit int) ([]entity.Post, error)
	UpdateByID(ctx context.Context, id string, post *entity.Post) error
	DeleteByID(ctx context.Context, id string) error

	Like(ctx context.Context, postID, userID string) error
	Unlike(ctx context.Context, postID, userID string) error
	GetLike(ctx context.Context, postID, userID string) (*entity.PostLike, error)
}

type postRepository struct{}

func NewPostRepository() *postRepository {
	return &postRepository{}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	return xcontext.DB(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	var result entity.Post
	err := xcontext.DB(ctx).
		Preload("Author").
		Take(&result, "id=?", id).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *postRepository) GetList(ctx context.Context, offset, limit int) ([]entity.Post, error) {
	var result []entity.Post
	err := xcontext.DB(ctx).
		Preload("Author").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *postRepository) UpdateByID(ctx context.Context, id string, post *entity.Post) error {
	return xcontext.DB(ctx).
		Model(&entity.Post{}).
		Where("id=?", id).
		Updates(post).Error
}

func (r *postRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.Post{}, "id=?", id).Error
}

// Like records the (post, user) pair and bumps the counter only when the pair
// was actually new. A second like from the same user is a no-op.
func (r *postRepository) Like(ctx context.Context, postID, userID string) error {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&entity.PostLike{PostID: postID, UserID: userID})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return nil
	}

	return xcontext.DB(ctx).
		Model(&entity.Post{}).
		Where("id=?", postID).
		Update("likes", gorm.Expr("likes+1")).Error
}

func (r *postRepository) Unlike(ctx context.Context, postID, userID string) error {
	tx := xcontext.DB(ctx).
		Where("post_id=? AND user_id=?", postID, userID).
		Delete(&entity.PostLike{})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return nil
	}

	return xcontext.DB(ctx).
		Model(&entity.Post{}).
		Where("id=? AND likes > 0", postID).
		Update("likes", gorm.Expr("likes-1")).Error
}

func (r *postRepository) GetLike(ctx context.Context, postID, userID string) (*entity.PostLike, error) {
	var result entity.PostLike
	err := xcontext.DB(ctx).
		Where("post_id=? AND user_id=?", postID, userID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}
