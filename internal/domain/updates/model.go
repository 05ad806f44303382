package updates

import "time"

// Author es quien escribe un update o comentario, tal como se muestra.
type Author struct {
	UserID       string
	Name         string
	Relationship string
}

// Update es una publicación del circle sobre el estado del recipient.
type Update struct {
	ID          string
	RecipientID string

	Author  Author
	Content string

	// LikedBy guarda userIDs; un like por usuario.
	LikedBy  []string
	Comments []Comment

	CreatedAt time.Time
}

type Comment struct {
	ID        string
	Author    Author
	Content   string
	CreatedAt time.Time
}

func (u Update) Likes() int { return len(u.LikedBy) }

func (u Update) LikedByUser(userID string) bool {
	for _, id := range u.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}
