package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"dashboard/internal/api"
	"dashboard/internal/booking"
	"dashboard/internal/brand"
	"dashboard/internal/derived"
	"dashboard/internal/executor"
	"dashboard/internal/lifecycle"
	"dashboard/internal/notify"
	"dashboard/internal/order"
	"dashboard/internal/product"
	"dashboard/internal/readmodel"
	"dashboard/internal/systemservice"
	"dashboard/internal/webhook"
	"dashboard/internal/workflow"
	"dashboard/pkg/backend"
	"dashboard/pkg/config"
)

type Dependencies struct {
	Cfg      config.Config
	Logger   zerolog.Logger
	Backend  backend.Client
	Cache    readmodel.Store
	Journal  Journal
	Notifier notify.Notifier
}

// Journal is satisfied by *journal.Repository.
type Journal interface {
	executor.Journal
	lifecycle.JournalReader
}

// Catalog lists every entity domain the dashboard manages.
func Catalog() workflow.Catalog {
	return workflow.NewCatalog(
		order.Workflow(),
		product.Workflow(),
		booking.Workflow(),
		systemservice.Workflow(),
		brand.Workflow(),
	)
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(api.RequestLogger(deps.Logger))
	r.Use(api.CORSMiddleware(api.CORSOptions{
		AllowedOrigins: deps.Cfg.DashboardAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		MaxAgeSeconds:  600,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	catalog := Catalog()
	reads := readmodel.Loader{Store: deps.Cache, Source: deps.Backend, TTL: deps.Cfg.Redis.ReadModelTTL}
	exec := executor.New(executor.Deps{
		Catalog:  catalog,
		Reader:   reads,
		Updater:  deps.Backend,
		Cache:    deps.Cache,
		Notifier: deps.Notifier,
		Journal:  deps.Journal,
	})

	lifecycleHandlers := lifecycle.Handlers{
		Catalog:  catalog,
		Reads:    reads,
		Executor: exec,
		Journals: deps.Journal,
	}
	derivedHandlers := derived.Handlers{Backend: deps.Backend}
	webhookHandler := webhook.Handler{
		Secret:  deps.Cfg.WebhookSecret,
		Catalog: catalog,
		Cache:   deps.Cache,
	}

	r.Route("/v1", func(r chi.Router) {
		// Server-to-server; authenticated by signature, not session.
		r.Post("/webhooks/status-changed", webhookHandler.ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(api.SessionAuth(deps.Cfg))

			derived.Mount(r, derivedHandlers)
			lifecycle.Mount(r, lifecycleHandlers)
		})
	})

	return r
}
