package auth

// Claims representa la información extraída del token.
type Claims struct {
	UserID   string
	Email    string
	Name     string
	TenantID string
}

// DisplayName devuelve el nombre a mostrar en autorías (updates, tareas, etc).
func (c Claims) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Email != "" {
		return c.Email
	}
	return c.UserID
}
