// Health Coach API
//
// Personal health coaching service: it pulls wearable sleep and
// heart-rate data, syncs training activities, aggregates per-hour
// heart-rate buckets, and turns the lot into LLM-backed daily
// recommendations delivered over chat.
//
//	@title			Health Coach API
//	@version		1.0
//	@description	Wearable and training data ingestion, hourly heart-rate aggregation, and LLM coaching over Telegram.
//
//	@BasePath	/v1
//
//	@tag.name			sync
//	@tag.description	On-demand data synchronization endpoints
//
//	@tag.name			context
//	@tag.description	Health context and hourly aggregates
//
//	@tag.name			coach
//	@tag.description	LLM coaching endpoints
//
//	@tag.name			diary
//	@tag.description	Migraine diary endpoints
//
//	@tag.name			messages
//	@tag.description	Chat message log
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/lachdunc/health-coach/internal/api"
	"github.com/lachdunc/health-coach/internal/api/handler"
	"github.com/lachdunc/health-coach/internal/config"
	"github.com/lachdunc/health-coach/internal/domain"
	"github.com/lachdunc/health-coach/internal/garmin"
	"github.com/lachdunc/health-coach/internal/llm"
	"github.com/lachdunc/health-coach/internal/repository"
	"github.com/lachdunc/health-coach/internal/scheduler"
	"github.com/lachdunc/health-coach/internal/seed"
	"github.com/lachdunc/health-coach/internal/service"
	"github.com/lachdunc/health-coach/internal/strava"
	"github.com/lachdunc/health-coach/internal/telegram"
	"github.com/lachdunc/health-coach/internal/telemetry"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg := config.Load()
	loc := cfg.Location()

	// Initialize tracing (no-op when Langfuse is not configured)
	shutdownTracer, err := telemetry.InitTracer(ctx, cfg, "health-coach-api")
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Tracer shutdown failed: %v", err)
		}
	}()

	// Connect to database
	db, err := config.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database schema
	if err := db.AutoMigrate(
		&domain.MetricsCache{},
		&domain.HeartRateHourly{},
		&domain.DailyHealthSummary{},
		&domain.TelegramMessage{},
		&domain.MigraineDiary{},
		&domain.WorkoutFeedback{},
		&domain.OAuthToken{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	if cfg.Seed {
		log.Println("Seeding database with sample data (SEED=true)...")
		if err := seed.Run(db, loc); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	// Initialize repositories
	metricsRepo := repository.NewMetricsCacheRepository(db)
	hourlyRepo := repository.NewHourlyRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	diaryRepo := repository.NewDiaryRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	// Initialize provider clients (each one degrades to a disabled
	// integration when unconfigured)
	garminClient := garmin.NewClient(garmin.Config{
		Email:    cfg.GarminEmail,
		Password: cfg.GarminPassword,
	})
	stravaClient := strava.NewClient(strava.Config{
		ClientID:     cfg.StravaClientID,
		ClientSecret: cfg.StravaClientSecret,
		Scopes:       cfg.StravaScopes,
		RedirectBase: cfg.StravaRedirectBase,
	})
	tgClient := telegram.NewClient(telegram.Config{
		BotToken: cfg.TelegramBotToken,
		ChatID:   cfg.TelegramChatID,
	})
	openaiClient := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAICoachModel)
	if openaiClient == nil {
		log.Println("Warning: OpenAI API key not configured, coach endpoint will be unavailable")
	}

	// Initialize services
	ingestService := service.NewIngestService(garminClient, metricsRepo, hourlyRepo, loc, nil)
	rollupService := service.NewRollupService(metricsRepo, hourlyRepo, summaryRepo)
	contextService := service.NewContextService(summaryRepo, hourlyRepo, loc, nil)
	activityService := service.NewActivityService(stravaClient, tokenRepo, metricsRepo, nil)
	coachService := service.NewCoachService(contextService, openaiClient, cfg.ContextLookbackDays)
	diaryService := service.NewDiaryService(diaryRepo, loc, nil)

	// Scheduler first: the conversation service schedules follow-ups
	// through it.
	sched := scheduler.New(ingestService, rollupService, loc)
	conversationService := service.NewConversationService(tgClient, messageRepo, diaryRepo, sched, loc, nil)

	if err := sched.Start(conversationService); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Initialize handlers
	syncHandler := handler.NewSyncHandler(ingestService, rollupService, activityService, loc)
	contextHandler := handler.NewContextHandler(contextService)
	coachHandler := handler.NewCoachHandler(coachService)
	diaryHandler := handler.NewDiaryHandler(diaryService)
	messagesHandler := handler.NewMessagesHandler(conversationService)
	authHandler := handler.NewAuthHandler(activityService)
	webhookHandler := handler.NewWebhookHandler(conversationService)

	// Setup router
	router := api.NewRouter(
		syncHandler,
		contextHandler,
		coachHandler,
		diaryHandler,
		messagesHandler,
		authHandler,
		webhookHandler,
	)
	routerHandler := router.Setup()

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Starting server on %s", addr)
	if err := http.ListenAndServe(addr, routerHandler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
