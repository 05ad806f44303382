package circle

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Membership
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Membership{}}
}

func (r *testRepo) Create(ctx context.Context, m Membership) error {
	if m.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[m.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Update(ctx context.Context, m Membership) error {
	if _, ok := r.byID[m.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Membership, error) {
	m, ok := r.byID[id]
	if !ok {
		return Membership{}, errRepoNotFound
	}
	return m, nil
}

func (r *testRepo) ListByRecipient(ctx context.Context, recipientID string) ([]Membership, error) {
	out := make([]Membership, 0)
	for _, m := range r.byID {
		if m.RecipientID == recipientID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *testRepo) ListByMember(ctx context.Context, memberUserID string) ([]Membership, error) {
	out := make([]Membership, 0)
	for _, m := range r.byID {
		if m.MemberUserID == memberUserID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *testRepo) GetActive(ctx context.Context, recipientID, memberUserID string) (Membership, error) {
	var winner Membership
	has := false
	for _, m := range r.byID {
		if m.RecipientID != recipientID || m.MemberUserID != memberUserID || m.Status != StatusActive {
			continue
		}
		if !has || m.UpdatedAt.After(winner.UpdatedAt) {
			winner = m
			has = true
		}
	}
	if !has {
		return Membership{}, errRepoNotFound
	}
	return winner, nil
}

type fakeOwners map[string]string

func (f fakeOwners) OwnerOf(ctx context.Context, recipientID string) (string, error) {
	o, ok := f[recipientID]
	if !ok {
		return "", errors.New("no recipient")
	}
	return o, nil
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, fakeOwners{"rec-1": "owner-1"})
	return svc, repo
}

// -------------------------
// Tests
// -------------------------

func TestService_Invite_DefaultScopes_WhenEmpty(t *testing.T) {
	svc, _ := newTestService()

	now := time.Date(2025, 5, 21, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	m, err := svc.Invite(context.Background(), InviteInput{
		RecipientID:  "rec-1",
		OwnerUserID:  "owner-1",
		MemberUserID: "sarah",
	})
	if err != nil {
		t.Fatalf("Invite returned error: %v", err)
	}
	if m.Status != StatusInvited {
		t.Fatalf("expected status invited, got %s", m.Status)
	}
	if m.CreatedAt != now || m.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}
	if m.DisplayName != "sarah" {
		t.Fatalf("expected display name to default to member id, got %q", m.DisplayName)
	}
	if !HasScope(m, ScopeRecipientRead) || !HasScope(m, ScopeUpdatesRead) {
		t.Fatalf("expected default scopes recipient:read + updates:read, got %#v", m.Scopes)
	}
}

func TestService_Invite_StrictScopes_RejectsUnknown(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Invite(context.Background(), InviteInput{
		RecipientID:  "rec-1",
		OwnerUserID:  "owner-1",
		MemberUserID: "sarah",
		Scopes:       []Scope{ScopeTasksRead, Scope("bad:scope")},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Invite_RejectsSelf(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Invite(context.Background(), InviteInput{
		RecipientID:  "rec-1",
		OwnerUserID:  "owner-1",
		MemberUserID: "owner-1",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Invite_Dedup_UpdatesSameMembership(t *testing.T) {
	svc, _ := newTestService()

	now1 := time.Date(2025, 5, 21, 10, 0, 0, 0, time.UTC)
	now2 := now1.Add(5 * time.Minute)

	svc.now = func() time.Time { return now1 }
	m1, err := svc.Invite(context.Background(), InviteInput{
		RecipientID:  "rec-1",
		OwnerUserID:  "owner-1",
		MemberUserID: "sarah",
		Scopes:       []Scope{ScopeTasksRead},
	})
	if err != nil {
		t.Fatalf("Invite #1 error: %v", err)
	}

	svc.now = func() time.Time { return now2 }
	m2, err := svc.Invite(context.Background(), InviteInput{
		RecipientID:  "rec-1",
		OwnerUserID:  "owner-1",
		MemberUserID: "sarah",
		Relationship: "Daughter",
		Scopes:       []Scope{ScopeTasksRead, ScopeTasksManage},
	})
	if err != nil {
		t.Fatalf("Invite #2 error: %v", err)
	}

	if m2.ID != m1.ID {
		t.Fatalf("expected same membership ID (dedup), got %s vs %s", m1.ID, m2.ID)
	}
	if m2.UpdatedAt != now2 {
		t.Fatalf("expected UpdatedAt to change on reinvite")
	}
	if m2.Relationship != "Daughter" {
		t.Fatalf("expected relationship updated, got %q", m2.Relationship)
	}
	if !HasScope(m2, ScopeTasksManage) || !HasScope(m2, ScopeTasksRead) {
		t.Fatalf("expected scopes updated, got %#v", m2.Scopes)
	}
}

func TestService_Invite_AfterRevoke_CreatesFreshInvitation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	m1, err := svc.Invite(ctx, InviteInput{RecipientID: "rec-1", OwnerUserID: "owner-1", MemberUserID: "sarah"})
	if err != nil {
		t.Fatalf("Invite error: %v", err)
	}
	if _, err := svc.Revoke(ctx, m1.ID, "owner-1"); err != nil {
		t.Fatalf("Revoke error: %v", err)
	}

	m2, err := svc.Invite(ctx, InviteInput{RecipientID: "rec-1", OwnerUserID: "owner-1", MemberUserID: "sarah"})
	if err != nil {
		t.Fatalf("Invite #2 error: %v", err)
	}
	if m2.ID == m1.ID || m2.Status != StatusInvited {
		t.Fatalf("expected a new invited membership, got %#v", m2)
	}
}

func TestService_Accept_SetsActive_AndIdempotent(t *testing.T) {
	svc, _ := newTestService()

	now1 := time.Date(2025, 5, 21, 10, 0, 0, 0, time.UTC)
	now2 := now1.Add(2 * time.Minute)

	svc.now = func() time.Time { return now1 }
	m, err := svc.Invite(context.Background(), InviteInput{
		RecipientID:  "rec-1",
		OwnerUserID:  "owner-1",
		MemberUserID: "sarah",
	})
	if err != nil {
		t.Fatalf("Invite error: %v", err)
	}

	svc.now = func() time.Time { return now2 }
	accepted, err := svc.Accept(context.Background(), m.ID, "sarah")
	if err != nil {
		t.Fatalf("Accept error: %v", err)
	}
	if accepted.Status != StatusActive {
		t.Fatalf("expected active, got %s", accepted.Status)
	}

	// idempotente
	accepted2, err := svc.Accept(context.Background(), m.ID, "sarah")
	if err != nil {
		t.Fatalf("Accept #2 error: %v", err)
	}
	if accepted2.Status != StatusActive {
		t.Fatalf("expected active after idempotent accept, got %s", accepted2.Status)
	}
}

func TestService_Accept_WrongMember_Forbidden(t *testing.T) {
	svc, _ := newTestService()

	m, _ := svc.Invite(context.Background(), InviteInput{RecipientID: "rec-1", OwnerUserID: "owner-1", MemberUserID: "sarah"})
	_, err := svc.Accept(context.Background(), m.ID, "michael")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestService_Accept_Revoked_BadState(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	m, _ := svc.Invite(ctx, InviteInput{RecipientID: "rec-1", OwnerUserID: "owner-1", MemberUserID: "sarah"})
	if _, err := svc.Revoke(ctx, m.ID, "owner-1"); err != nil {
		t.Fatalf("Revoke error: %v", err)
	}
	if _, err := svc.Accept(ctx, m.ID, "sarah"); !errors.Is(err, ErrBadState) {
		t.Fatalf("expected ErrBadState, got %v", err)
	}
}

func TestService_Accept_LeavesOnlyOneActive_ForRecipientAndMember(t *testing.T) {
	// Con data sucia (varios invites para el mismo par) al aceptar debe quedar 1 activo.
	svc, repo := newTestService()

	now := time.Date(2025, 5, 21, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	m1 := Membership{
		ID:           "m1",
		RecipientID:  "rec-1",
		OwnerUserID:  "owner-1",
		MemberUserID: "sarah",
		Scopes:       []Scope{ScopeUpdatesRead},
		Status:       StatusActive,
		CreatedAt:    now.Add(-10 * time.Minute),
		UpdatedAt:    now.Add(-10 * time.Minute),
	}
	m2 := Membership{
		ID:           "m2",
		RecipientID:  "rec-1",
		OwnerUserID:  "owner-1",
		MemberUserID: "sarah",
		Scopes:       []Scope{ScopeUpdatesRead},
		Status:       StatusInvited,
		CreatedAt:    now.Add(-5 * time.Minute),
		UpdatedAt:    now.Add(-5 * time.Minute),
	}
	_ = repo.Create(context.Background(), m1)
	_ = repo.Create(context.Background(), m2)

	if _, err := svc.Accept(context.Background(), "m2", "sarah"); err != nil {
		t.Fatalf("Accept error: %v", err)
	}

	activeCount := 0
	for _, m := range repo.byID {
		if m.RecipientID == "rec-1" && m.MemberUserID == "sarah" && m.Status == StatusActive {
			activeCount++
		}
	}
	if activeCount != 1 {
		t.Fatalf("expected exactly 1 active membership, got %d", activeCount)
	}
	if repo.byID["m1"].RevokedAt == nil {
		t.Fatalf("expected m1 to be revoked")
	}
}

func TestService_Revoke_OwnerOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	m, _ := svc.Invite(ctx, InviteInput{RecipientID: "rec-1", OwnerUserID: "owner-1", MemberUserID: "sarah"})

	if _, err := svc.Revoke(ctx, m.ID, "sarah"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	r1, err := svc.Revoke(ctx, m.ID, "owner-1")
	if err != nil || r1.Status != StatusRevoked {
		t.Fatalf("expected revoked, got %v %v", r1.Status, err)
	}
	// idempotente
	if _, err := svc.Revoke(ctx, m.ID, "owner-1"); err != nil {
		t.Fatalf("Revoke #2 error: %v", err)
	}
}

func TestService_Authorize(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	m, _ := svc.Invite(ctx, InviteInput{
		RecipientID:  "rec-1",
		OwnerUserID:  "owner-1",
		MemberUserID: "sarah",
		Relationship: "Daughter",
		Scopes:       []Scope{ScopeTasksRead},
	})

	// invitado (no activo) no tiene acceso
	if _, err := svc.Authorize(ctx, "rec-1", "sarah", ScopeTasksRead); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden before accept, got %v", err)
	}

	if _, err := svc.Accept(ctx, m.ID, "sarah"); err != nil {
		t.Fatalf("Accept error: %v", err)
	}

	tests := []struct {
		name    string
		recip   string
		user    string
		scope   Scope
		wantErr error
		owner   bool
	}{
		{name: "owner bypass", recip: "rec-1", user: "owner-1", scope: ScopeDocumentsUpload, owner: true},
		{name: "member with scope", recip: "rec-1", user: "sarah", scope: ScopeTasksRead},
		{name: "member without scope", recip: "rec-1", user: "sarah", scope: ScopeTasksManage, wantErr: ErrForbidden},
		{name: "stranger", recip: "rec-1", user: "mallory", scope: ScopeTasksRead, wantErr: ErrForbidden},
		{name: "unknown recipient", recip: "rec-x", user: "owner-1", scope: ScopeTasksRead, wantErr: ErrRecipientNotFound},
		{name: "anonymous", recip: "rec-1", user: "", scope: ScopeTasksRead, wantErr: ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			access, err := svc.Authorize(ctx, tt.recip, tt.user, tt.scope)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if access.IsOwner != tt.owner {
				t.Fatalf("expected IsOwner=%v", tt.owner)
			}
		})
	}

	access, _ := svc.Authorize(ctx, "rec-1", "sarah", ScopeTasksRead)
	if access.Relationship() != "Daughter" {
		t.Fatalf("expected relationship Daughter, got %q", access.Relationship())
	}
}

func TestService_Audience_OwnerPlusActiveMembers(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, _ := svc.Invite(ctx, InviteInput{RecipientID: "rec-1", OwnerUserID: "owner-1", MemberUserID: "sarah"})
	_, _ = svc.Invite(ctx, InviteInput{RecipientID: "rec-1", OwnerUserID: "owner-1", MemberUserID: "michael"})
	if _, err := svc.Accept(ctx, a.ID, "sarah"); err != nil {
		t.Fatalf("Accept error: %v", err)
	}

	members, err := svc.Audience(ctx, "rec-1")
	if err != nil {
		t.Fatalf("Audience error: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected owner + 1 active member, got %#v", members)
	}
	if members[0].UserID != "owner-1" || members[1].UserID != "sarah" {
		t.Fatalf("unexpected audience %#v", members)
	}
}
