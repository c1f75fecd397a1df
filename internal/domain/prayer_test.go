package domain

import (
	"testing"

	"github.com/koinonia-app/backend/internal/model"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/internal/testutil"
	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/koinonia-app/backend/pkg/ws"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestPrayerDomain() *prayerDomain {
	hub := ws.NewHub()
	go hub.Run()

	return NewPrayerDomain(
		repository.NewPrayerRequestRepository(),
		hub,
		repository.NewUserRepository(),
	)
}

func Test_prayerDomain_CreateAndGetList(t *testing.T) {
	domain := newTestPrayerDomain()
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	testutil.CreateFixtureDb(ctx, t)

	_, err := domain.Create(ctx, &model.CreatePrayerRequestRequest{})
	require.Equal(t, errorx.New(errorx.BadRequest, "Not allow an empty request"), err)

	named, err := domain.Create(ctx, &model.CreatePrayerRequestRequest{
		Content: "Pray for my exams this week",
	})
	require.NoError(t, err)

	anonymous, err := domain.Create(ctx, &model.CreatePrayerRequestRequest{
		Content:     "A private burden",
		IsAnonymous: true,
	})
	require.NoError(t, err)

	resp, err := domain.GetList(ctx, &model.GetPrayerRequestsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Requests, 2)

	for _, r := range resp.Requests {
		switch r.ID {
		case named.ID:
			require.NotNil(t, r.User)
			require.Equal(t, testutil.User1.ID, r.User.ID)
		case anonymous.ID:
			// Anonymous requests must not reveal their author.
			require.Nil(t, r.User)
		default:
			t.Fatalf("unexpected request %s", r.ID)
		}
	}
}

func Test_prayerDomain_Pray(t *testing.T) {
	domain := newTestPrayerDomain()
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	testutil.CreateFixtureDb(ctx, t)

	created, err := domain.Create(ctx, &model.CreatePrayerRequestRequest{Content: "Guidance"})
	require.NoError(t, err)

	_, err = domain.Pray(ctx, &model.PrayRequest{ID: created.ID})
	require.NoError(t, err)
	_, err = domain.Pray(ctx, &model.PrayRequest{ID: created.ID})
	require.NoError(t, err)

	request, err := domain.prayerRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(2), request.PrayCount)

	_, err = domain.Pray(ctx, &model.PrayRequest{ID: "missing"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found prayer request"), err)
}

func Test_prayerDomain_Delete(t *testing.T) {
	domain := newTestPrayerDomain()
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	testutil.CreateFixtureDb(ctx, t)

	created, err := domain.Create(ctx, &model.CreatePrayerRequestRequest{Content: "Healing"})
	require.NoError(t, err)

	// Another member cannot remove someone else's request.
	_, err = domain.Delete(
		xcontext.WithRequestUserID(ctx, testutil.User2.ID),
		&model.DeletePrayerRequestRequest{ID: created.ID})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)

	// An admin can moderate it away.
	_, err = domain.Delete(
		xcontext.WithRequestUserID(ctx, testutil.Admin.ID),
		&model.DeletePrayerRequestRequest{ID: created.ID})
	require.NoError(t, err)

	_, err = domain.Delete(ctx, &model.DeletePrayerRequestRequest{ID: created.ID})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found prayer request"), err)
}
