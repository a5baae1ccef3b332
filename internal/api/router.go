package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lachdunc/health-coach/docs"
	"github.com/lachdunc/health-coach/internal/api/handler"
	"github.com/lachdunc/health-coach/internal/api/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	syncHandler     *handler.SyncHandler
	contextHandler  *handler.ContextHandler
	coachHandler    *handler.CoachHandler
	diaryHandler    *handler.DiaryHandler
	messagesHandler *handler.MessagesHandler
	authHandler     *handler.AuthHandler
	webhookHandler  *handler.WebhookHandler
}

func NewRouter(
	syncHandler *handler.SyncHandler,
	contextHandler *handler.ContextHandler,
	coachHandler *handler.CoachHandler,
	diaryHandler *handler.DiaryHandler,
	messagesHandler *handler.MessagesHandler,
	authHandler *handler.AuthHandler,
	webhookHandler *handler.WebhookHandler,
) *Router {
	return &Router{
		syncHandler:     syncHandler,
		contextHandler:  contextHandler,
		coachHandler:    coachHandler,
		diaryHandler:    diaryHandler,
		messagesHandler: messagesHandler,
		authHandler:     authHandler,
		webhookHandler:  webhookHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Tracing)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// OAuth connect flow (browser-facing, outside /v1)
	r.Route("/auth/strava", func(r chi.Router) {
		r.Get("/start", rt.authHandler.StravaStart)
		r.Get("/callback", rt.authHandler.StravaCallback)
	})

	// Chat webhook
	r.Post("/webhook/telegram", rt.webhookHandler.Telegram)

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		r.Route("/sync", func(r chi.Router) {
			r.Post("/garmin", rt.syncHandler.SyncGarmin)
			r.Post("/strava", rt.syncHandler.SyncStrava)
		})

		r.Get("/context", rt.contextHandler.GetContext)
		r.Get("/hourly/{day}", rt.contextHandler.GetHourly)
		r.Get("/summary/{day}", rt.contextHandler.GetSummary)

		r.Post("/coach/recommendation", rt.coachHandler.Recommend)

		r.Post("/diary", rt.diaryHandler.Create)
		r.Get("/diary", rt.diaryHandler.List)
		r.Get("/messages", rt.messagesHandler.List)
	})

	return r
}
