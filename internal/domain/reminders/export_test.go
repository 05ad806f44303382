package reminders

import "time"

func SetClock(s *Sweeper, now func() time.Time) { s.now = now }
