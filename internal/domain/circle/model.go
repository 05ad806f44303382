package circle

import "time"

type Scope string

const (
	ScopeRecipientRead        Scope = "recipient:read"
	ScopeRecipientEditProfile Scope = "recipient:edit_profile"
	ScopeUpdatesRead          Scope = "updates:read"
	ScopeUpdatesPost          Scope = "updates:post"
	ScopeMedicationsRead      Scope = "medications:read"
	ScopeMedicationsManage    Scope = "medications:manage"
	ScopeMedicationsLog       Scope = "medications:log"
	ScopeTasksRead            Scope = "tasks:read"
	ScopeTasksManage          Scope = "tasks:manage"
	ScopeVisitsRead           Scope = "visits:read"
	ScopeVisitsManage         Scope = "visits:manage"
	ScopeDocumentsRead        Scope = "documents:read"
	ScopeDocumentsUpload      Scope = "documents:upload"
)

var allScopes = map[Scope]struct{}{
	ScopeRecipientRead:        {},
	ScopeRecipientEditProfile: {},
	ScopeUpdatesRead:          {},
	ScopeUpdatesPost:          {},
	ScopeMedicationsRead:      {},
	ScopeMedicationsManage:    {},
	ScopeMedicationsLog:       {},
	ScopeTasksRead:            {},
	ScopeTasksManage:          {},
	ScopeVisitsRead:           {},
	ScopeVisitsManage:         {},
	ScopeDocumentsRead:        {},
	ScopeDocumentsUpload:      {},
}

type Status string

const (
	StatusInvited Status = "invited"
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
)

// Membership da acceso a un miembro del care circle sobre un recipient.
type Membership struct {
	ID string

	RecipientID string

	OwnerUserID  string // quien invita (dueño del recipient)
	MemberUserID string

	DisplayName  string
	Relationship string // "Daughter", "Nurse", ...

	Scopes []Scope
	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// Access es el resultado de autorizar a un usuario sobre un recipient.
type Access struct {
	UserID     string
	IsOwner    bool
	Membership Membership // vacío si IsOwner
}

// Can: el dueño puede todo; un miembro, lo que digan sus scopes.
func (a Access) Can(scope Scope) bool {
	if a.IsOwner {
		return true
	}
	return HasScope(a.Membership, scope)
}

// Relationship para mostrar en autorías.
func (a Access) Relationship() string {
	if a.IsOwner {
		return "Owner"
	}
	return a.Membership.Relationship
}
