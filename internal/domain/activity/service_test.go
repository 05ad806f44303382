package activity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	"carecircle/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type testRepo struct {
	items []Entry
}

func (r *testRepo) Create(_ context.Context, e Entry) error {
	r.items = append(r.items, e)
	return nil
}

func (r *testRepo) ListByUser(_ context.Context, userID string, limit int) ([]Entry, error) {
	out := []Entry{}
	for _, e := range r.items {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type recordingSub struct {
	got []Entry
	err error
}

func (s *recordingSub) OnActivity(_ context.Context, e Entry) error {
	s.got = append(s.got, e)
	return s.err
}

func TestService_Publish_StoresAndFansOut(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo, nil)
	now := time.Date(2025, 5, 21, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	ok := &recordingSub{}
	failing := &recordingSub{err: errors.New("boom")}
	svc.Subscribe(failing)
	svc.Subscribe(ok)
	svc.Subscribe(nil)

	e, err := svc.Publish(context.Background(), PublishInput{
		UserID:      "sarah",
		RecipientID: "rec-1",
		Type:        TypeMedication,
		Description: "Marked Lisinopril as taken",
	})
	require.NoError(t, err)
	assert.Equal(t, now, e.OccurredAt)
	assert.Equal(t, "sarah", e.ActorName)

	// un subscriber que falla no impide al siguiente
	require.Len(t, ok.got, 1)
	require.Len(t, failing.got, 1)
	assert.Len(t, repo.items, 1)
}

func TestService_Publish_Invalid(t *testing.T) {
	svc := NewService(&testRepo{}, nil)

	_, err := svc.Publish(context.Background(), PublishInput{UserID: "sarah", Type: TypeTask})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Publish(context.Background(), PublishInput{Type: TypeTask, Description: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ListByUser_NewestFirst(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo, nil)
	base := time.Date(2025, 5, 21, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()

	for i, d := range []string{"first", "second", "third"} {
		at := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return at }
		_, err := svc.Publish(ctx, PublishInput{UserID: "sarah", Type: TypeUpdate, Description: d})
		require.NoError(t, err)
	}

	got, err := svc.ListByUser(ctx, "sarah", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "third", got[0].Description)
	assert.Equal(t, "second", got[1].Description)

	_, err = svc.ListByUser(ctx, " ", 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

type failingRepo struct{ testRepo }

func (failingRepo) Create(context.Context, Entry) error {
	return errors.New("postgres: create activity: connection reset")
}

func TestRecord_LogsPublishFailureAtWarn(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.New(logger.Options{Level: logger.Debug, Format: logger.FormatJSON, Output: zapcore.AddSync(&buf)})
	ctx := logger.WithContext(context.Background(), lg)

	svc := NewService(&failingRepo{}, nil)
	Record(ctx, svc, PublishInput{UserID: "sarah", RecipientID: "rec-1", Type: TypeTask, Description: "Completed a task"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "activity publish failed", line["msg"])
	assert.Equal(t, "postgres: create activity: connection reset", line["error"])
	assert.Equal(t, "rec-1", line["recipient_id"])

	// sin error no hay línea
	buf.Reset()
	Record(ctx, NewService(&testRepo{}, nil), PublishInput{UserID: "sarah", Type: TypeTask, Description: "Added a task"})
	assert.Zero(t, buf.Len())
}
