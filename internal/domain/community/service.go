package community

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"strings"
	"time"

	"carecircle/internal/ports/cache"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

const (
	DefaultProvince = "gauteng"
	DefaultRadiusKm = 10
	MinRadiusKm     = 5
	MaxRadiusKm     = 50
	RadiusStepKm    = 5

	shareBaseURL = "https://wa.me/?text="
)

type Kind string

const (
	KindFacility Kind = "facility"
	KindEvent    Kind = "event"
	KindGroup    Kind = "group"
)

type Service struct {
	dir   Directory
	cache cache.Cache // nil = sin cache
	ttl   time.Duration
}

func NewService(dir Directory, c cache.Cache, ttl time.Duration) *Service {
	if dir == nil {
		dir = StaticDirectory()
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Service{dir: dir, cache: c, ttl: ttl}
}

func normalizeProvince(p string) (string, error) {
	p = strings.ToLower(strings.TrimSpace(p))
	if p == "" {
		return DefaultProvince, nil
	}
	if !ValidProvince(p) {
		return "", ErrInvalidInput
	}
	return p, nil
}

// Facilities dentro del radio (km), más cercanas primero.
// radius 0 => DefaultRadiusKm; si no, 5..50 en pasos de 5.
func (s *Service) Facilities(ctx context.Context, province string, radiusKm int) ([]Facility, error) {
	province, err := normalizeProvince(province)
	if err != nil {
		return nil, err
	}
	if radiusKm == 0 {
		radiusKm = DefaultRadiusKm
	}
	if radiusKm < MinRadiusKm || radiusKm > MaxRadiusKm || radiusKm%RadiusStepKm != 0 {
		return nil, ErrInvalidInput
	}

	all, err := cache.GetOrSet(ctx, s.cache, "community:facilities:"+province, s.ttl, func() ([]Facility, error) {
		return s.dir.Facilities(ctx, province)
	})
	if err != nil {
		return nil, err
	}

	out := make([]Facility, 0, len(all))
	for _, f := range all {
		if f.DistanceKm <= float64(radiusKm) {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out, nil
}

// Events por fecha.
func (s *Service) Events(ctx context.Context, province string) ([]Event, error) {
	province, err := normalizeProvince(province)
	if err != nil {
		return nil, err
	}
	out, err := cache.GetOrSet(ctx, s.cache, "community:events:"+province, s.ttl, func() ([]Event, error) {
		return s.dir.Events(ctx, province)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *Service) SupportGroups(ctx context.Context) ([]SupportGroup, error) {
	return cache.GetOrSet(ctx, s.cache, "community:groups", s.ttl, func() ([]SupportGroup, error) {
		return s.dir.SupportGroups(ctx)
	})
}

// ShareLink arma el link de WhatsApp con el texto del ítem.
// Busca en todas las provincias.
func (s *Service) ShareLink(ctx context.Context, kind Kind, id string) (string, error) {
	text, err := s.shareText(ctx, kind, strings.TrimSpace(id))
	if err != nil {
		return "", err
	}
	// como encodeURIComponent: espacios como %20, no '+'
	return shareBaseURL + strings.ReplaceAll(url.QueryEscape(text), "+", "%20"), nil
}

func (s *Service) shareText(ctx context.Context, kind Kind, id string) (string, error) {
	switch kind {
	case KindFacility:
		for _, p := range Provinces {
			items, err := s.Facilities(ctx, p.Slug, MaxRadiusKm)
			if err != nil {
				return "", err
			}
			for _, f := range items {
				if f.ID == id {
					return "Check out this healthcare facility: " + f.Name + " - " + f.Address + ". Phone: " + f.Phone, nil
				}
			}
		}
	case KindEvent:
		for _, p := range Provinces {
			items, err := s.Events(ctx, p.Slug)
			if err != nil {
				return "", err
			}
			for _, e := range items {
				if e.ID == id {
					return "Community Health Event: " + e.Title + " on " + e.Date + " at " + e.Time + ", " + e.Location, nil
				}
			}
		}
	case KindGroup:
		items, err := s.SupportGroups(ctx)
		if err != nil {
			return "", err
		}
		for _, g := range items {
			if g.ID == id {
				return "Support Group: " + g.Name + " meets " + g.MeetingDay + " at " + g.Time + ", " + g.Location +
					". Contact: " + g.ContactPerson + " (" + g.Phone + ")", nil
			}
		}
	default:
		return "", ErrInvalidInput
	}
	return "", ErrNotFound
}

// RadiusOptions: 5, 10, ..., 50.
func RadiusOptions() []int {
	out := make([]int, 0, MaxRadiusKm/RadiusStepKm)
	for r := MinRadiusKm; r <= MaxRadiusKm; r += RadiusStepKm {
		out = append(out, r)
	}
	return out
}
