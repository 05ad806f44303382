package recipients

import (
	"context"
	"time"
)

// OwnerOf expone el ownerUserID de un recipient.
// Se usa para evitar ciclos de imports entre módulos (recipients <-> circle).
func (s *Service) OwnerOf(ctx context.Context, recipientID string) (string, error) {
	r, err := s.GetByID(ctx, recipientID)
	if err != nil {
		return "", err
	}
	return r.OwnerUserID, nil
}

// LocationOf devuelve la zona horaria del recipient (horarios de medicación, visitas).
func (s *Service) LocationOf(ctx context.Context, recipientID string) (*time.Location, error) {
	r, err := s.GetByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	return r.Location(), nil
}
