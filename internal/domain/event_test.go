package domain

import (
	"context"
	"testing"
	"time"

	"github.com/koinonia-app/backend/internal/entity"
	"github.com/koinonia-app/backend/internal/model"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/internal/testutil"
	"github.com/koinonia-app/backend/pkg/errorx"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestEventDomain() *eventDomain {
	return NewEventDomain(
		repository.NewEventRepository(),
		repository.NewNotificationRepository(),
		repository.NewUserRepository(),
	)
}

func createTestEvent(ctx context.Context, t *testing.T, domain *eventDomain) string {
	start := time.Now().Add(24 * time.Hour)
	resp, err := domain.Create(ctx, &model.CreateEventRequest{
		Title:     "Friday fellowship dinner",
		Location:  "Main hall",
		StartTime: start.Format(model.DefaultTimeLayout),
		EndTime:   start.Add(2 * time.Hour).Format(model.DefaultTimeLayout),
	})
	require.NoError(t, err)
	return resp.ID
}

func Test_eventDomain_Create(t *testing.T) {
	domain := newTestEventDomain()

	t.Run("happy case announces to everyone", func(t *testing.T) {
		ctx := testutil.MockContextWithUserID(t, testutil.Admin.ID)
		testutil.CreateFixtureDb(ctx, t)

		eventID := createTestEvent(ctx, t, domain)
		require.NotEmpty(t, eventID)

		// Every member gets a feed entry about the new event.
		for _, userID := range []string{testutil.Admin.ID, testutil.User1.ID, testutil.User2.ID} {
			notifications, err := domain.notificationRepo.GetListByUserID(ctx, userID, 0, 10)
			require.NoError(t, err)
			require.Len(t, notifications, 1)
			require.Equal(t, entity.NotificationEvent, notifications[0].Type)
			require.Equal(t, eventID, notifications[0].Payload["event_id"])
		}
	})

	t.Run("permission denied for member", func(t *testing.T) {
		ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
		testutil.CreateFixtureDb(ctx, t)

		_, err := domain.Create(ctx, &model.CreateEventRequest{Title: "Dinner"})
		require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)
	})

	t.Run("end before start", func(t *testing.T) {
		ctx := testutil.MockContextWithUserID(t, testutil.Admin.ID)
		testutil.CreateFixtureDb(ctx, t)

		start := time.Now().Add(24 * time.Hour)
		_, err := domain.Create(ctx, &model.CreateEventRequest{
			Title:     "Dinner",
			StartTime: start.Format(model.DefaultTimeLayout),
			EndTime:   start.Add(-time.Hour).Format(model.DefaultTimeLayout),
		})
		require.Equal(t, errorx.New(errorx.BadRequest, "End time must be after start time"), err)
	})
}

func Test_eventDomain_RSVP(t *testing.T) {
	domain := newTestEventDomain()
	ctx := testutil.MockContextWithUserID(t, testutil.Admin.ID)
	testutil.CreateFixtureDb(ctx, t)

	eventID := createTestEvent(ctx, t, domain)

	user1Ctx := xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	_, err := domain.RSVP(user1Ctx, &model.RSVPEventRequest{
		EventID: eventID,
		Status:  string(entity.RSVPGoing),
	})
	require.NoError(t, err)

	_, err = domain.RSVP(xcontext.WithRequestUserID(ctx, testutil.User2.ID),
		&model.RSVPEventRequest{EventID: eventID, Status: string(entity.RSVPMaybe)})
	require.NoError(t, err)

	resp, err := domain.GetList(user1Ctx, &model.GetEventsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Events, 1)
	require.Equal(t, int64(1), resp.Events[0].GoingCount)
	require.Equal(t, string(entity.RSVPGoing), resp.Events[0].MyRSVP)

	// Changing the answer replaces the previous one instead of stacking.
	_, err = domain.RSVP(user1Ctx, &model.RSVPEventRequest{
		EventID: eventID,
		Status:  string(entity.RSVPDeclined),
	})
	require.NoError(t, err)

	resp, err = domain.GetList(user1Ctx, &model.GetEventsRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(0), resp.Events[0].GoingCount)
	require.Equal(t, string(entity.RSVPDeclined), resp.Events[0].MyRSVP)

	rsvps, err := domain.GetRSVPs(ctx, &model.GetEventRSVPsRequest{EventID: eventID})
	require.NoError(t, err)
	require.Len(t, rsvps.RSVPs, 2)

	_, err = domain.RSVP(user1Ctx, &model.RSVPEventRequest{EventID: eventID, Status: "perhaps"})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid rsvp status perhaps"), err)

	_, err = domain.RSVP(user1Ctx, &model.RSVPEventRequest{
		EventID: "missing",
		Status:  string(entity.RSVPGoing),
	})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found event"), err)
}

func Test_eventDomain_RSVP_eventOver(t *testing.T) {
	domain := newTestEventDomain()
	ctx := testutil.MockContextWithUserID(t, testutil.User1.ID)
	testutil.CreateFixtureDb(ctx, t)

	past := &entity.Event{
		Base:      entity.Base{ID: "past-event"},
		Title:     "Last month's picnic",
		StartTime: time.Now().Add(-48 * time.Hour),
		EndTime:   time.Now().Add(-46 * time.Hour),
	}
	require.NoError(t, domain.eventRepo.Create(ctx, past))

	_, err := domain.RSVP(ctx, &model.RSVPEventRequest{
		EventID: past.ID,
		Status:  string(entity.RSVPGoing),
	})
	require.Equal(t, errorx.New(errorx.Unavailable, "This event is over"), err)
}
