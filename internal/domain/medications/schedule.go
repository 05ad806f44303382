package medications

import (
	"sort"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// MaxScheduleWindow acota cuántas tomas se expanden por pedido.
const MaxScheduleWindow = 31 * 24 * time.Hour

// ruleSet arma las reglas de recurrencia de una medicación en la zona loc.
// daily/twice-daily: una regla DAILY por horario; weekly: WEEKLY desde el
// día de inicio; custom: el RRULE tal cual, anclado al día de inicio.
func ruleSet(m Medication, loc *time.Location) (*rrule.Set, error) {
	set := &rrule.Set{}
	y, mo, d := m.StartDate.Date()

	switch m.Frequency {
	case FrequencyDaily, FrequencyTwiceDaily, FrequencyWeekly:
		freq := rrule.DAILY
		if m.Frequency == FrequencyWeekly {
			freq = rrule.WEEKLY
		}
		for _, hhmm := range m.Times {
			t, err := time.Parse("15:04", hhmm)
			if err != nil {
				return nil, ErrInvalidInput
			}
			opt := rrule.ROption{
				Freq:    freq,
				Dtstart: time.Date(y, mo, d, t.Hour(), t.Minute(), 0, 0, loc),
			}
			if until, ok := lastInstant(m.EndDate, loc); ok {
				opt.Until = until
			}
			r, err := rrule.NewRRule(opt)
			if err != nil {
				return nil, err
			}
			set.RRule(r)
		}

	case FrequencyCustom:
		r, err := parseRRule(m.RRule)
		if err != nil {
			return nil, err
		}
		r.DTStart(time.Date(y, mo, d, 0, 0, 0, 0, loc))
		set.RRule(r)
	}

	return set, nil
}

func parseRRule(s string) (*rrule.RRule, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "RRULE:"), "rrule:")
	if s == "" {
		return nil, ErrInvalidInput
	}
	r, err := rrule.StrToRRule(s)
	if err != nil {
		return nil, ErrInvalidInput
	}
	return r, nil
}

// lastInstant: último segundo del EndDate en loc.
func lastInstant(end *time.Time, loc *time.Location) (time.Time, bool) {
	if end == nil {
		return time.Time{}, false
	}
	y, mo, d := end.Date()
	return time.Date(y, mo, d, 23, 59, 59, 0, loc), true
}

// DosesBetween expande las tomas de una medicación en [from, to].
func DosesBetween(m Medication, from, to time.Time, loc *time.Location) ([]Dose, error) {
	if !m.Scheduled() {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}

	set, err := ruleSet(m, loc)
	if err != nil {
		return nil, err
	}

	until, bounded := lastInstant(m.EndDate, loc)

	out := make([]Dose, 0)
	for _, at := range set.Between(from, to, true) {
		if bounded && at.After(until) {
			continue
		}
		out = append(out, Dose{
			MedicationID: m.ID,
			Name:         m.Name,
			Dosage:       m.Dosage,
			Instructions: m.Instructions,
			DueAt:        at,
		})
	}
	return out, nil
}

func sortDoses(ds []Dose) {
	sort.SliceStable(ds, func(i, j int) bool {
		if ds[i].DueAt.Equal(ds[j].DueAt) {
			return ds[i].Name < ds[j].Name
		}
		return ds[i].DueAt.Before(ds[j].DueAt)
	})
}

// normalizeSchedule valida horarios según la frecuencia y los deja ordenados.
func normalizeSchedule(freq Frequency, times []string, rule string) ([]string, string, error) {
	switch freq {
	case FrequencyAsNeeded:
		return []string{}, "", nil
	case FrequencyCustom:
		if _, err := parseRRule(rule); err != nil {
			return nil, "", err
		}
		return []string{}, strings.TrimSpace(rule), nil
	case FrequencyDaily, FrequencyTwiceDaily, FrequencyWeekly:
	default:
		return nil, "", ErrInvalidInput
	}

	seen := map[string]struct{}{}
	out := make([]string, 0, len(times))
	for _, raw := range times {
		t, err := time.Parse("15:04", strings.TrimSpace(raw))
		if err != nil {
			return nil, "", ErrInvalidInput
		}
		v := t.Format("15:04")
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)

	if len(out) == 0 {
		return nil, "", ErrInvalidInput
	}
	if freq == FrequencyTwiceDaily && len(out) != 2 {
		return nil, "", ErrInvalidInput
	}
	return out, "", nil
}
