package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type handlers struct {
	// Objects
	runners       RunnerSource
	rollbacker    Rollbacker
	ledgerStore   LedgerStore
	settingsStore SettingsStore
	tokenStore    TokenStore
	codec         SecretCodec
	logger        Logger
	// Mockable functions
	timeNow func() time.Time
}

func NewHandler(rootURL string, runners RunnerSource, rollbacker Rollbacker,
	ledgerStore LedgerStore, settingsStore SettingsStore,
	tokenStore TokenStore, codec SecretCodec,
	registry *prometheus.Registry, logger Logger) http.Handler {
	handlers := &handlers{
		runners:       runners,
		rollbacker:    rollbacker,
		ledgerStore:   ledgerStore,
		settingsStore: settingsStore,
		tokenStore:    tokenStore,
		codec:         codec,
		logger:        logger,
		timeNow:       time.Now,
	}

	router := chi.NewRouter()
	router.Use(middleware.CleanPath, middleware.Recoverer)

	router.Route(rootURL+"/api/v1", func(router chi.Router) {
		router.Post("/dns/update", handlers.manualUpdate)
		router.Post("/dns/rollback", handlers.rollback)
		router.Post("/dns/reconcile", handlers.forceReconcile)
		router.Get("/dns/ip", handlers.ipState)

		router.Get("/updates", handlers.listUpdates)
		router.Delete("/updates", handlers.deleteUpdates)
		router.Get("/updates/latest", handlers.latestPerZone)
		router.Get("/updates/rollbackable", handlers.rollbackCandidates)

		router.Get("/settings", handlers.getSettings)
		router.Put("/settings", handlers.putSettings)
		router.Put("/tokens", handlers.putToken)
	})

	router.Method(http.MethodGet, rootURL+"/metrics",
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return router
}
