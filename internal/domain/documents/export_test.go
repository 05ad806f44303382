package documents

import "time"

// SetClock permite a los tests externos fijar el reloj.
func SetClock(s *Service, now func() time.Time) { s.now = now }
