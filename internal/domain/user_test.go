package domain

import (
	"testing"

	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/internal/model"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/internal/testutil"
	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/stretchr/testify/require"
)

func newTestUserDomain() *userDomain {
	return NewUserDomain(repository.NewUserRepository(), nil)
}

func Test_userDomain_GetMe_consumesNewUserFlag(t *testing.T) {
	domain := newTestUserDomain()
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	testutil.CreateFixtureDb(ctx, t)

	err := domain.userRepo.UpdateByID(ctx, testutil.User1.ID, &entity.User{IsNewUser: true})
	require.NoError(t, err)

	resp, err := domain.GetMe(ctx, &model.GetMeRequest{})
	require.NoError(t, err)
	require.True(t, resp.IsNewUser)
	require.Equal(t, testutil.User1.Name, resp.Name)

	// The flag is one-shot, the second read comes back clean.
	resp, err = domain.GetMe(ctx, &model.GetMeRequest{})
	require.NoError(t, err)
	require.False(t, resp.IsNewUser)
}

func Test_userDomain_GetUser_hidesSensitiveFields(t *testing.T) {
	domain := newTestUserDomain()
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	testutil.CreateFixtureDb(ctx, t)

	resp, err := domain.GetUser(ctx, &model.GetUserRequest{ID: testutil.User2.ID})
	require.NoError(t, err)
	require.Equal(t, testutil.User2.Name, resp.Name)
	require.Empty(t, resp.Role)
	require.Zero(t, resp.Coins)

	_, err = domain.GetUser(ctx, &model.GetUserRequest{ID: "missing"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found user"), err)
}

func Test_userDomain_Update(t *testing.T) {
	domain := newTestUserDomain()
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	testutil.CreateFixtureDb(ctx, t)

	_, err := domain.Update(ctx, &model.UpdateUserRequest{Name: "brand-new-name"})
	require.NoError(t, err)

	me, err := domain.GetMe(ctx, &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, "brand-new-name", me.Name)

	// Renaming to my own current name is a harmless no-op.
	_, err = domain.Update(ctx, &model.UpdateUserRequest{Name: "brand-new-name"})
	require.NoError(t, err)

	_, err = domain.Update(ctx, &model.UpdateUserRequest{Name: testutil.User2.Name})
	require.Equal(t, errorx.New(errorx.AlreadyExists, "This name is already taken"), err)

	_, err = domain.Update(ctx, &model.UpdateUserRequest{})
	require.Equal(t, errorx.New(errorx.BadRequest, "Not allow an empty name"), err)
}
