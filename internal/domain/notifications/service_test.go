package notifications_test

import (
	"context"
	"testing"
	"time"

	mem "carecircle/internal/adapters/storage/memory"
	"carecircle/internal/domain/activity"
	"carecircle/internal/domain/circle"
	"carecircle/internal/domain/notifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticAudience []circle.Member

func (a staticAudience) Audience(context.Context, string) ([]circle.Member, error) {
	return a, nil
}

func newService() *notifications.Service {
	return notifications.NewService(mem.NewNotificationsRepo(), staticAudience{
		{UserID: "owner-1"},
		{UserID: "sarah", DisplayName: "Sarah Johnson"},
		{UserID: "michael", DisplayName: "Michael Chen"},
	})
}

func TestOnActivity_NotifiesEveryoneButActor(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	err := svc.OnActivity(ctx, activity.Entry{
		UserID:      "michael",
		ActorName:   "Michael Chen",
		RecipientID: "rec-1",
		Type:        activity.TypeUpdate,
		Description: "Posted an update",
		OccurredAt:  time.Now(),
	})
	require.NoError(t, err)

	mine, err := svc.List(ctx, "michael", false)
	require.NoError(t, err)
	assert.Empty(t, mine)

	for _, uid := range []string{"owner-1", "sarah"} {
		items, err := svc.List(ctx, uid, false)
		require.NoError(t, err)
		require.Len(t, items, 1, uid)
		assert.Equal(t, "New Update Posted", items[0].Title)
		assert.Equal(t, "Michael Chen: Posted an update", items[0].Message)
		assert.False(t, items[0].IsRead())
	}
}

func TestMarkRead_AndCounts(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.NotifyCircle(ctx, notifications.NotifyInput{
			RecipientID: "rec-1",
			Type:        notifications.TypeMedication,
			Title:       "Medication Reminder",
			Message:     "Time to take Lisinopril (10mg)",
		})
		require.NoError(t, err)
	}

	n, err := svc.UnreadCount(ctx, "sarah")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	items, err := svc.List(ctx, "sarah", true)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// otro usuario no puede marcar la de sarah
	_, err = svc.MarkRead(ctx, items[0].ID, "michael")
	assert.ErrorIs(t, err, notifications.ErrForbidden)

	read, err := svc.MarkRead(ctx, items[0].ID, "sarah")
	require.NoError(t, err)
	assert.True(t, read.IsRead())

	n, _ = svc.UnreadCount(ctx, "sarah")
	assert.Equal(t, 2, n)

	marked, err := svc.MarkAllRead(ctx, "sarah")
	require.NoError(t, err)
	assert.Equal(t, 2, marked)

	n, _ = svc.UnreadCount(ctx, "sarah")
	assert.Equal(t, 0, n)

	// los de michael siguen sin leer
	n, _ = svc.UnreadCount(ctx, "michael")
	assert.Equal(t, 3, n)

	_, err = svc.MarkRead(ctx, "missing", "sarah")
	assert.ErrorIs(t, err, notifications.ErrNotFound)
}
