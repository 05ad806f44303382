package router

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	_ "carecircle/docs"
	"carecircle/internal/adapters/blobstore"
	"carecircle/internal/adapters/cachestore"
	mem "carecircle/internal/adapters/storage/memory"
	pg "carecircle/internal/adapters/storage/postgres"
	"carecircle/internal/domain/activity"
	"carecircle/internal/domain/circle"
	"carecircle/internal/domain/community"
	"carecircle/internal/domain/dashboard"
	"carecircle/internal/domain/documents"
	"carecircle/internal/domain/help"
	"carecircle/internal/domain/medications"
	"carecircle/internal/domain/notifications"
	"carecircle/internal/domain/profiles"
	"carecircle/internal/domain/recipients"
	"carecircle/internal/domain/reminders"
	"carecircle/internal/domain/seed"
	"carecircle/internal/domain/tasks"
	"carecircle/internal/domain/updates"
	"carecircle/internal/domain/visits"
	"carecircle/internal/middleware"
	"carecircle/internal/platform/logger"
	"carecircle/internal/ports/auth"
	"carecircle/internal/ports/blob"
	"carecircle/internal/ports/cache"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	Logger       logger.Logger

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcionales: nil => in-memory.
	Cache cache.Cache
	Blobs blob.Store

	MaxUploadBytes    int64
	CommunityCacheTTL time.Duration
	Reminders         reminders.Config
}

// App es lo que arma Build: el handler HTTP, el sweeper de recordatorios
// (main decide si lo arranca) y los services para el seed.
type App struct {
	Handler   http.Handler
	Reminders *reminders.Sweeper
	Seed      seed.Services
}

type repos struct {
	recipients    recipients.Repository
	memberships   circle.Repository
	updates       updates.Repository
	medications   medications.Repository
	tasks         tasks.Repository
	visits        visits.Repository
	documents     documents.Repository
	notifications notifications.Repository
	activity      activity.Repository
	profiles      profiles.Repository
}

func memoryRepos() repos {
	return repos{
		recipients:    mem.NewRecipientsRepo(),
		memberships:   mem.NewMembershipsRepo(),
		updates:       mem.NewUpdatesRepo(),
		medications:   mem.NewMedicationsRepo(),
		tasks:         mem.NewTasksRepo(),
		visits:        mem.NewVisitsRepo(),
		documents:     mem.NewDocumentsRepo(),
		notifications: mem.NewNotificationsRepo(),
		activity:      mem.NewActivityRepo(),
		profiles:      mem.NewProfilesRepo(),
	}
}

func postgresRepos(db *sql.DB) repos {
	return repos{
		recipients:    pg.NewRecipientsRepo(db),
		memberships:   pg.NewMembershipsRepo(db),
		updates:       pg.NewUpdatesRepo(db),
		medications:   pg.NewMedicationsRepo(db),
		tasks:         pg.NewTasksRepo(db),
		visits:        pg.NewVisitsRepo(db),
		documents:     pg.NewDocumentsRepo(db),
		notifications: pg.NewNotificationsRepo(db),
		activity:      pg.NewActivityRepo(db),
		profiles:      pg.NewProfilesRepo(db),
	}
}

func Build(opts Options) *App {
	lg := opts.Logger
	if lg == nil {
		lg = logger.Nop()
	}

	rp := memoryRepos()
	if opts.DB != nil {
		rp = postgresRepos(opts.DB)
	}

	c := opts.Cache
	if c == nil {
		c = cachestore.NewMemory()
	}
	blobs := opts.Blobs
	if blobs == nil {
		blobs = blobstore.NewMemory()
	}

	// Services por módulo
	recipientsSvc := recipients.NewService(rp.recipients)
	circleSvc := circle.NewService(rp.memberships, recipientsSvc)
	activitySvc := activity.NewService(rp.activity, lg)
	notificationsSvc := notifications.NewService(rp.notifications, circleSvc)
	activitySvc.Subscribe(notificationsSvc)

	updatesSvc := updates.NewService(rp.updates, activitySvc)
	medicationsSvc := medications.NewService(rp.medications, activitySvc)
	tasksSvc := tasks.NewService(rp.tasks, activitySvc)
	visitsSvc := visits.NewService(rp.visits, activitySvc)
	documentsSvc := documents.NewService(rp.documents, blobs, activitySvc, opts.MaxUploadBytes)
	profilesSvc := profiles.NewService(rp.profiles)
	communitySvc := community.NewService(community.StaticDirectory(), c, opts.CommunityCacheTTL)

	dashboardSvc := dashboard.NewService(dashboard.Deps{
		Updates:       updatesSvc,
		Tasks:         tasksSvc,
		Medications:   medicationsSvc,
		Visits:        visitsSvc,
		Notifications: notificationsSvc,
		Locations:     recipientsSvc,
	})

	sweeper := reminders.NewSweeper(opts.Reminders, reminders.Deps{
		Recipients:  recipientsSvc,
		Medications: medicationsSvc,
		Visits:      visitsSvc,
		Notifier:    notificationsSvc,
		Deduper:     reminders.NewCacheDeduper(c),
	}, lg.With(map[string]any{"component": "reminders"}))

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))
	r.Use(middleware.RequestLog(lg))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Rutas por módulo
	recipients.RegisterRoutes(r, recipientsSvc, circleSvc)
	circle.RegisterRoutes(r, circleSvc)
	updates.RegisterRoutes(r, updatesSvc, circleSvc)
	medications.RegisterRoutes(r, medicationsSvc, circleSvc, recipientsSvc)
	tasks.RegisterRoutes(r, tasksSvc, circleSvc)
	visits.RegisterRoutes(r, visitsSvc, circleSvc, recipientsSvc)
	documents.RegisterRoutes(r, documentsSvc, circleSvc)
	dashboard.RegisterRoutes(r, dashboardSvc, circleSvc)
	notifications.RegisterRoutes(r, notificationsSvc)
	profiles.RegisterRoutes(r, profilesSvc, activitySvc)
	community.RegisterRoutes(r, communitySvc)
	help.RegisterRoutes(r)

	return &App{
		Handler:   r,
		Reminders: sweeper,
		Seed: seed.Services{
			Recipients:  recipientsSvc,
			Circle:      circleSvc,
			Updates:     updatesSvc,
			Medications: medicationsSvc,
			Tasks:       tasksSvc,
			Visits:      visitsSvc,
			Documents:   documentsSvc,
			Profiles:    profilesSvc,
		},
	}
}

// NewRouter es Build sin sweeper ni seed (tests y usos simples).
func NewRouter(opts Options) http.Handler {
	return Build(opts).Handler
}

// LoadDemo siembra el circle de demo para ownerID.
func (a *App) LoadDemo(ctx context.Context, ownerID string, lg logger.Logger) (string, error) {
	return seed.Load(ctx, a.Seed, ownerID, time.Now(), lg)
}
