package profiles

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct{ byUser map[string]Profile }

func (r *testRepo) GetByUserID(_ context.Context, id string) (Profile, error) {
	p, ok := r.byUser[id]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) Save(_ context.Context, p Profile) error {
	r.byUser[p.UserID] = p
	return nil
}

func TestUpsert_KeepsJoinedAt(t *testing.T) {
	svc := NewService(&testRepo{byUser: map[string]Profile{}})
	ctx := context.Background()

	t0 := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }

	in := UpsertInput{
		FirstName:     "John",
		LastName:      "Doe",
		Email:         "john.doe@example.com",
		Phone:         "(555) 123-4567",
		Relationship:  "Son",
		Notifications: NotificationPrefs{Email: true, Push: true},
	}
	p, err := svc.Upsert(ctx, "u-1", in)
	require.NoError(t, err)
	assert.Equal(t, RoleCaregiver, p.Role)
	assert.Equal(t, "John Doe", p.FullName())
	assert.Equal(t, t0, p.JoinedAt)

	t1 := t0.Add(72 * time.Hour)
	svc.now = func() time.Time { return t1 }
	in.Phone = "(555) 000-0000"
	in.Notifications.SMS = true
	p, err = svc.Upsert(ctx, "u-1", in)
	require.NoError(t, err)
	assert.Equal(t, t0, p.JoinedAt)
	assert.Equal(t, t1, p.UpdatedAt)
	assert.True(t, p.Notifications.SMS)

	got, err := svc.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "(555) 000-0000", got.Phone)
}

func TestUpsert_Validation(t *testing.T) {
	svc := NewService(&testRepo{byUser: map[string]Profile{}})
	ctx := context.Background()

	tests := []struct {
		name string
		in   UpsertInput
	}{
		{"missing first name", UpsertInput{Email: "a@b.co"}},
		{"bad email", UpsertInput{FirstName: "A", Email: "not-an-email"}},
		{"display name email", UpsertInput{FirstName: "A", Email: "John <john@example.com>"}},
		{"bad role", UpsertInput{FirstName: "A", Email: "a@b.co", Role: "admin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upsert(ctx, "u-1", tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := svc.Get(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
