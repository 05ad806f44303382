package visits

import "time"

type Visit struct {
	ID          string
	RecipientID string

	VisitorName string
	Date        time.Time // fecha calendario, 00:00 UTC
	StartTime   string    // "HH:MM"
	EndTime     string    // "HH:MM"
	Notes       string

	CreatedBy     string
	CreatedByName string
	CreatedAt     time.Time
}

// DateString devuelve la fecha en formato YYYY-MM-DD.
func (v Visit) DateString() string { return v.Date.Format("2006-01-02") }

// StartsAt es el instante de inicio en la zona del recipient.
func (v Visit) StartsAt(loc *time.Location) time.Time {
	return at(v.Date, v.StartTime, loc)
}

func (v Visit) EndsAt(loc *time.Location) time.Time {
	return at(v.Date, v.EndTime, loc)
}

func at(date time.Time, hhmm string, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		t = time.Time{}
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc)
}
