package reminders

import (
	"context"
	"errors"
	"strconv"
	"time"

	"carecircle/internal/domain/medications"
	"carecircle/internal/domain/notifications"
	"carecircle/internal/domain/recipients"
	"carecircle/internal/domain/visits"
	"carecircle/internal/platform/logger"
)

type RecipientLister interface {
	ListAll(ctx context.Context) ([]recipients.Recipient, error)
}

type DoseScheduler interface {
	Schedule(ctx context.Context, recipientID string, from, to time.Time, loc *time.Location) ([]medications.Dose, error)
}

type VisitLister interface {
	ListBetween(ctx context.Context, recipientID string, from, to time.Time) ([]visits.Visit, error)
}

type Notifier interface {
	NotifyCircle(ctx context.Context, in notifications.NotifyInput) (int, error)
}

type Deps struct {
	Recipients  RecipientLister
	Medications DoseScheduler
	Visits      VisitLister
	Notifier    Notifier
	Deduper     Deduper
}

type Config struct {
	Interval  time.Duration
	Lookahead time.Duration
}

// Result cuenta los recordatorios enviados en un barrido.
type Result struct {
	Doses  int
	Visits int
}

type Sweeper struct {
	cfg  Config
	deps Deps
	log  logger.Logger
	now  func() time.Time
}

func NewSweeper(cfg Config, deps Deps, lg logger.Logger) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.Lookahead <= 0 {
		cfg.Lookahead = time.Hour
	}
	if lg == nil {
		lg = logger.Nop()
	}
	return &Sweeper{cfg: cfg, deps: deps, log: lg, now: time.Now}
}

// Run barre una vez al arrancar y después en cada tick, hasta que ctx se cancele.
func (s *Sweeper) Run(ctx context.Context) {
	s.log.Info("reminders started", map[string]any{
		"interval":  s.cfg.Interval.String(),
		"lookahead": s.cfg.Lookahead.String(),
	})

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			s.log.Info("reminders stopped", nil)
			return
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	res, err := s.SweepOnce(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.Error("reminders sweep failed", map[string]any{"error": err})
		}
		return
	}
	if res.Doses > 0 || res.Visits > 0 {
		s.log.Info("reminders sent", map[string]any{"doses": res.Doses, "visits": res.Visits})
	}
}

// SweepOnce recorre todos los recipients. Un recipient con error se loguea
// y no frena a los demás.
func (s *Sweeper) SweepOnce(ctx context.Context) (Result, error) {
	var res Result
	recs, err := s.deps.Recipients.ListAll(ctx)
	if err != nil {
		return res, err
	}

	now := s.now()
	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		loc := rec.Location()

		n, err := s.doses(ctx, rec.ID, now, loc)
		res.Doses += n
		if err != nil {
			s.log.Warn("dose reminders failed", map[string]any{"recipient_id": rec.ID, "error": err})
		}

		n, err = s.visits(ctx, rec.ID, now, loc)
		res.Visits += n
		if err != nil {
			s.log.Warn("visit reminders failed", map[string]any{"recipient_id": rec.ID, "error": err})
		}
	}
	return res, nil
}

func (s *Sweeper) doses(ctx context.Context, recipientID string, now time.Time, loc *time.Location) (int, error) {
	due, err := s.deps.Medications.Schedule(ctx, recipientID, now, now.Add(s.cfg.Lookahead), loc)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, d := range due {
		key := "dose:" + d.MedicationID + ":" + strconv.FormatInt(d.DueAt.Unix(), 10)

		msg := "Time to take " + d.Name
		if d.Dosage != "" {
			msg += " (" + d.Dosage + ")"
		}
		msg += " at " + d.DueAt.In(loc).Format("15:04")

		ok, err := s.deliver(ctx, key, s.cfg.Lookahead+24*time.Hour, notifications.NotifyInput{
			RecipientID: recipientID,
			Type:        notifications.TypeMedication,
			Title:       "Medication Reminder",
			Message:     msg,
		})
		if err != nil {
			return sent, err
		}
		if ok {
			sent++
		}
	}
	return sent, nil
}

// visits avisa las visitas de mañana (fecha calendario en la zona del recipient).
func (s *Sweeper) visits(ctx context.Context, recipientID string, now time.Time, loc *time.Location) (int, error) {
	y, m, d := now.In(loc).AddDate(0, 0, 1).Date()
	tomorrow := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	items, err := s.deps.Visits.ListBetween(ctx, recipientID, tomorrow, tomorrow)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, v := range items {
		ok, err := s.deliver(ctx, "visit:"+v.ID, 48*time.Hour, notifications.NotifyInput{
			RecipientID: recipientID,
			Type:        notifications.TypeVisit,
			Title:       "Upcoming Visit",
			Message:     v.VisitorName + " is visiting tomorrow at " + v.StartTime,
		})
		if err != nil {
			return sent, err
		}
		if ok {
			sent++
		}
	}
	return sent, nil
}

// deliver reclama key y notifica al circle. Si la notificación falla la key
// se libera, así el próximo barrido vuelve a intentar.
func (s *Sweeper) deliver(ctx context.Context, key string, ttl time.Duration, in notifications.NotifyInput) (bool, error) {
	first, err := s.deps.Deduper.Claim(ctx, key, ttl)
	if err != nil || !first {
		return false, err
	}

	if _, err := s.deps.Notifier.NotifyCircle(ctx, in); err != nil {
		if rerr := s.deps.Deduper.Release(context.WithoutCancel(ctx), key); rerr != nil {
			s.log.Warn("reminder release failed", map[string]any{"key": key, "error": rerr})
		}
		return false, err
	}
	return true, nil
}
