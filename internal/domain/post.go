package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/koinonia-app/backend/internal/common"
	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/internal/model"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PostDomain interface {
	Create(context.Context, *model.CreatePostRequest) (*model.CreatePostResponse, error)
	GetList(context.Context, *model.GetPostsRequest) (*model.GetPostsResponse, error)
	Get(context.Context, *model.GetPostRequest) (*model.GetPostResponse, error)
	Like(context.Context, *model.LikePostRequest) (*model.LikePostResponse, error)
	Unlike(context.Context, *model.UnlikePostRequest) (*model.UnlikePostResponse, error)
	Delete(context.Context, *model.DeletePostRequest) (*model.DeletePostResponse, error)
}

type postDomain struct {
	postRepo     repository.PostRepository
	roleVerifier *common.GlobalRoleVerifier
}

func NewPostDomain(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
) *postDomain {
	return &postDomain{
		postRepo:     postRepo,
		roleVerifier: common.NewGlobalRoleVerifier(userRepo),
	}
}

func (d *postDomain) Create(
	ctx context.Context, req *model.CreatePostRequest,
) (*model.CreatePostResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when creating post: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty title")
	}

	post := &entity.Post{
		Base:     entity.Base{ID: uuid.NewString()},
		AuthorID: xcontext.RequestUserID(ctx),
		Title:    req.Title,
		Body:     []byte(req.Body),
	}

	if err := d.postRepo.Create(ctx, post); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create post: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreatePostResponse{ID: post.ID}, nil
}

func (d *postDomain) GetList(
	ctx context.Context, req *model.GetPostsRequest,
) (*model.GetPostsResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 || req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Invalid limit %d", req.Limit)
	}

	posts, err := d.postRepo.GetList(ctx, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get posts: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	clientPosts := []model.Post{}
	for _, post := range posts {
		liked, err := d.hasLiked(ctx, post.ID, userID)
		if err != nil {
			return nil, err
		}

		clientPost := model.ConvertPost(&post, liked)
		// Listings carry the title only, the body comes with the detail
		// fetch.
		clientPost.Body = ""
		clientPosts = append(clientPosts, clientPost)
	}

	return &model.GetPostsResponse{Posts: clientPosts}, nil
}

func (d *postDomain) Get(
	ctx context.Context, req *model.GetPostRequest,
) (*model.GetPostResponse, error) {
	post, err := d.postRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		xcontext.Logger(ctx).Errorf("Cannot get post: %v", err)
		return nil, errorx.Unknown
	}

	liked, err := d.hasLiked(ctx, post.ID, xcontext.RequestUserID(ctx))
	if err != nil {
		return nil, err
	}

	resp := model.GetPostResponse(model.ConvertPost(post, liked))
	return &resp, nil
}

func (d *postDomain) hasLiked(ctx context.Context, postID, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	_, err := d.postRepo.GetLike(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get like: %v", err)
		return false, errorx.Unknown
	}

	return true, nil
}

func (d *postDomain) Like(
	ctx context.Context, req *model.LikePostRequest,
) (*model.LikePostResponse, error) {
	if _, err := d.postRepo.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		xcontext.Logger(ctx).Errorf("Cannot get post: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.postRepo.Like(ctx, req.ID, xcontext.RequestUserID(ctx)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot like post: %v", err)
		return nil, errorx.Unknown
	}

	return &model.LikePostResponse{}, nil
}

func (d *postDomain) Unlike(
	ctx context.Context, req *model.UnlikePostRequest,
) (*model.UnlikePostResponse, error) {
	if err := d.postRepo.Unlike(ctx, req.ID, xcontext.RequestUserID(ctx)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unlike post: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UnlikePostResponse{}, nil
}

func (d *postDomain) Delete(
	ctx context.Context, req *model.DeletePostRequest,
) (*model.DeletePostResponse, error) {
	post, err := d.postRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		xcontext.Logger(ctx).Errorf("Cannot get post: %v", err)
		return nil, errorx.Unknown
	}

	if post.AuthorID != xcontext.RequestUserID(ctx) {
		if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}
	}

	if err := d.postRepo.DeleteByID(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete post: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeletePostResponse{}, nil
}
