package domain

import (
	"testing"

	"github.com/koinonia-app/backend/internal/model"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/internal/testutil"
	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestPostDomain() *postDomain {
	return NewPostDomain(repository.NewPostRepository(), repository.NewUserRepository())
}

func Test_postDomain_Create(t *testing.T) {
	domain := newTestPostDomain()

	t.Run("happy case", func(t *testing.T) {
		ctx := testutil.MockContextWithUserID(t, testutil.Admin.ID)
		testutil.CreateFixtureDb(ctx, t)

		resp, err := domain.Create(ctx, &model.CreatePostRequest{
			Title: "Retreat recap",
			Body:  "What a weekend.",
		})
		require.NoError(t, err)
		require.NotEmpty(t, resp.ID)

		post, err := domain.Get(ctx, &model.GetPostRequest{ID: resp.ID})
		require.NoError(t, err)
		require.Equal(t, "Retreat recap", post.Title)
		require.Equal(t, "What a weekend.", post.Body)
		require.Equal(t, testutil.Admin.ID, post.Author.ID)
	})

	t.Run("permission denied for member", func(t *testing.T) {
		ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
		testutil.CreateFixtureDb(ctx, t)

		_, err := domain.Create(ctx, &model.CreatePostRequest{Title: "Retreat recap"})
		require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)
	})

	t.Run("empty title", func(t *testing.T) {
		ctx := testutil.MockContextWithUserID(t, testutil.Admin.ID)
		testutil.CreateFixtureDb(ctx, t)

		_, err := domain.Create(ctx, &model.CreatePostRequest{Body: "no title"})
		require.Equal(t, errorx.New(errorx.BadRequest, "Not allow an empty title"), err)
	})
}

func Test_postDomain_GetList_hidesBody(t *testing.T) {
	domain := newTestPostDomain()
	ctx := testutil.MockContextWithUserID(t, testutil.Admin.ID)
	testutil.CreateFixtureDb(ctx, t)

	_, err := domain.Create(ctx, &model.CreatePostRequest{
		Title: "Announcements",
		Body:  "A very long newsletter body",
	})
	require.NoError(t, err)

	resp, err := domain.GetList(ctx, &model.GetPostsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 1)
	require.Equal(t, "Announcements", resp.Posts[0].Title)
	require.Empty(t, resp.Posts[0].Body)

	_, err = domain.GetList(ctx, &model.GetPostsRequest{Limit: 1000})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid limit 1000"), err)
}

func Test_postDomain_LikeUnlike(t *testing.T) {
	domain := newTestPostDomain()
	ctx := testutil.MockContextWithUserID(t, testutil.Admin.ID)
	testutil.CreateFixtureDb(ctx, t)

	created, err := domain.Create(ctx, &model.CreatePostRequest{Title: "Worship night"})
	require.NoError(t, err)

	user1Ctx := xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	user2Ctx := xcontext.WithRequestUserID(ctx, testutil.User2.ID)

	_, err = domain.Like(user1Ctx, &model.LikePostRequest{ID: created.ID})
	require.NoError(t, err)
	_, err = domain.Like(user2Ctx, &model.LikePostRequest{ID: created.ID})
	require.NoError(t, err)

	// Liking twice does not inflate the counter.
	_, err = domain.Like(user1Ctx, &model.LikePostRequest{ID: created.ID})
	require.NoError(t, err)

	post, err := domain.Get(user1Ctx, &model.GetPostRequest{ID: created.ID})
	require.NoError(t, err)
	require.Equal(t, uint64(2), post.Likes)
	require.True(t, post.Liked)

	_, err = domain.Unlike(user1Ctx, &model.UnlikePostRequest{ID: created.ID})
	require.NoError(t, err)

	// Unliking without a like on record leaves the counter alone.
	_, err = domain.Unlike(user1Ctx, &model.UnlikePostRequest{ID: created.ID})
	require.NoError(t, err)

	post, err = domain.Get(user1Ctx, &model.GetPostRequest{ID: created.ID})
	require.NoError(t, err)
	require.Equal(t, uint64(1), post.Likes)
	require.False(t, post.Liked)

	_, err = domain.Like(user1Ctx, &model.LikePostRequest{ID: "missing"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found post"), err)
}

func Test_postDomain_Delete(t *testing.T) {
	domain := newTestPostDomain()
	ctx := testutil.MockContextWithUserID(t, testutil.Admin.ID)
	testutil.CreateFixtureDb(ctx, t)

	created, err := domain.Create(ctx, &model.CreatePostRequest{Title: "Old news"})
	require.NoError(t, err)

	_, err = domain.Delete(
		xcontext.WithRequestUserID(ctx, testutil.User1.ID),
		&model.DeletePostRequest{ID: created.ID})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)

	_, err = domain.Delete(ctx, &model.DeletePostRequest{ID: created.ID})
	require.NoError(t, err)

	_, err = domain.Get(ctx, &model.GetPostRequest{ID: created.ID})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found post"), err)
}
