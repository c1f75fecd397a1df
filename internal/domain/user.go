package domain

import (
	"context"
	"errors"

	"github.com/koinonia-app/backend/internal/common"
	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/internal/model"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/koinonia-app/backend/pkg/storage"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserDomain interface {
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
	GetUser(context.Context, *model.GetUserRequest) (*model.GetUserResponse, error)
	Update(context.Context, *model.UpdateUserRequest) (*model.UpdateUserResponse, error)
	UploadAvatar(context.Context, *model.UploadAvatarRequest) (*model.UploadAvatarResponse, error)
}

type userDomain struct {
	userRepo repository.UserRepository
	storage  storage.Storage
}

func NewUserDomain(
	userRepo repository.UserRepository,
	storage storage.Storage,
) *userDomain {
	return &userDomain{userRepo: userRepo, storage: storage}
}

func (d *userDomain) GetMe(
	ctx context.Context, req *model.GetMeRequest,
) (*model.GetMeResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetMeResponse(model.ConvertUser(user, true))

	// The onboarding flag is one-shot, reading it consumes it.
	if user.IsNewUser {
		err := d.userRepo.ClearNewUserFlag(ctx, user.ID)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot clear new user flag: %v", err)
		}
	}

	return &resp, nil
}

func (d *userDomain) GetUser(
	ctx context.Context, req *model.GetUserRequest,
) (*model.GetUserResponse, error) {
	user, err := d.userRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetUserResponse(model.ConvertUser(user, false))
	return &resp, nil
}

func (d *userDomain) Update(
	ctx context.Context, req *model.UpdateUserRequest,
) (*model.UpdateUserResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty name")
	}

	userID := xcontext.RequestUserID(ctx)
	existing, err := d.userRepo.GetByName(ctx, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check name: %v", err)
		return nil, errorx.Unknown
	}

	if existing != nil && existing.ID != userID {
		return nil, errorx.New(errorx.AlreadyExists, "This name is already taken")
	}

	err = d.userRepo.UpdateByID(ctx, userID, &entity.User{Name: req.Name})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateUserResponse{}, nil
}

func (d *userDomain) UploadAvatar(
	ctx context.Context, req *model.UploadAvatarRequest,
) (*model.UploadAvatarResponse, error) {
	uploads, err := common.ProcessImage(ctx, d.storage, "image")
	if err != nil {
		return nil, err
	}

	if len(uploads) == 0 {
		xcontext.Logger(ctx).Errorf("Avatar upload returned no objects")
		return nil, errorx.Unknown
	}

	avatarURL := uploads[0].Url
	err = d.userRepo.UpdateByID(ctx, xcontext.RequestUserID(ctx), &entity.User{AvatarURL: avatarURL})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update avatar: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UploadAvatarResponse{AvatarURL: avatarURL}, nil
}
