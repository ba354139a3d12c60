package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/consultorio/turnos-bot/internal/api"
	"github.com/consultorio/turnos-bot/internal/appointment"
	"github.com/consultorio/turnos-bot/internal/bot"
	"github.com/consultorio/turnos-bot/internal/calendar"
	"github.com/consultorio/turnos-bot/internal/config"
	"github.com/consultorio/turnos-bot/internal/db"
	redisclient "github.com/consultorio/turnos-bot/internal/redis"
	"github.com/consultorio/turnos-bot/internal/whatsapp"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const version = "0.1.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("bot-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s store=%s", cfg.Env, cfg.HTTPPort, cfg.StoreBackend)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Appointment store
	var (
		repo   appointment.Repository
		pgPool *pgxpool.Pool
	)
	switch cfg.StoreBackend {
	case config.StorePostgres:
		pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
		pgPool, err = db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
		cancelPg()
		if err != nil {
			log.Fatalf("postgres connection error: %v", err)
		}
		defer pgPool.Close()
		repo = appointment.NewPgRepository(pgPool)
		log.Println("connected to Postgres")
	case config.StoreSheets:
		sheetsSvc, err := sheets.NewService(rootCtx,
			option.WithCredentialsJSON([]byte(cfg.GoogleCredentialsJSON)),
			option.WithScopes(sheets.SpreadsheetsScope),
		)
		if err != nil {
			log.Fatalf("sheets client error: %v", err)
		}
		repo = appointment.NewSheetsRepository(sheetsSvc, cfg.SheetID, cfg.SheetName)
		log.Printf("using Google Sheets store sheet_id=%s", cfg.SheetID)
	case config.StoreMemory:
		repo = appointment.NewMemoryRepository()
		log.Println("using in-memory store, data will not survive restarts")
	default:
		log.Fatalf("unknown store backend %q", cfg.StoreBackend)
	}

	// Slot locking; Redis when configured, in-process otherwise
	var (
		rdb    *redis.Client
		locker redisclient.Locker
	)
	if cfg.RedisAddr != "" {
		rdb, err = redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("redis connection error: %v", err)
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Printf("error closing redis: %v", err)
			}
		}()
		locker = redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)
		log.Println("connected to Redis")
	} else {
		locker = redisclient.NewLocalLocker()
		log.Println("redis not configured, using in-process slot locking")
	}

	// Calendar sync is best effort and entirely optional
	var cal calendar.Client
	if cfg.GoogleCredentialsJSON != "" && cfg.CalendarID != "" {
		calSvc, err := gcal.NewService(rootCtx,
			option.WithCredentialsJSON([]byte(cfg.GoogleCredentialsJSON)),
			option.WithScopes(gcal.CalendarScope),
		)
		if err != nil {
			log.Fatalf("calendar client error: %v", err)
		}
		cal = calendar.NewGoogleClient(calSvc, cfg.CalendarID, cfg.TimeZone)
		log.Printf("calendar sync enabled calendar_id=%s tz=%s", cfg.CalendarID, cfg.TimeZone)
	} else {
		log.Println("calendar sync disabled")
	}

	svc := appointment.NewService(repo, cal, locker)
	b := bot.New(svc)

	var sender api.ReplySender
	if cfg.WhatsAppToken != "" && cfg.PhoneID != "" {
		sender = whatsapp.NewClient(cfg.WhatsAppToken, cfg.PhoneID)
	} else {
		log.Println("whatsapp credentials missing, replies will be dropped")
	}

	webhook := api.NewWebhookHandler(cfg.VerifyToken, b, sender, cfg.AllowedTo)
	router := api.NewRouter(api.RouterConfig{
		Webhook: webhook,
		PgPool:  pgPool,
		Redis:   rdb,
		Env:     cfg.Env,
		Version: version,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-rootCtx.Done()
	log.Println("shutting down bot-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
	log.Println("bot-server stopped")
}
