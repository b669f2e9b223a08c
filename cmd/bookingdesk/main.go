package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookingdesk/internal/api"
	"bookingdesk/internal/config"
	"bookingdesk/internal/database"
	"bookingdesk/internal/events"
	"bookingdesk/internal/metrics"
	"bookingdesk/internal/notify"
	"bookingdesk/internal/repository"
	"bookingdesk/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("BOOKINGDESK_CONFIG"))
	if err != nil {
		fallback := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
		fallback.Fatal().Err(err).Msg("failed to load config")
	}

	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, db, err := openStore(ctx, cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("open store error")
	}
	defer store.Close()

	if db != nil {
		backups := database.NewBackupService(db, cfg.Backup, &logger)
		go backups.Start(ctx)
	}

	bus := events.NewEventBus(&logger)
	notifiers, closers := buildNotifiers(cfg, &logger)
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()
	for _, n := range notifiers {
		d := notify.NewDispatcher(n, 0, &logger)
		d.Attach(bus)
		go d.Run(ctx)
	}

	bookings := service.NewBookingService(store, bus, &logger)

	var limiter *api.RateLimiter
	if cfg.Server.RateLimitRPS > 0 {
		limiter = api.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
		go limiter.RunCleanup(ctx)
	}

	router := api.NewRouter(api.Dependencies{
		Bookings:    bookings,
		APIKeys:     cfg.Server.APIKeys,
		RateLimiter: limiter,
		Logger:      &logger,
	})

	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, store, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	logger.Info().Str("address", cfg.Server.Address).Str("driver", cfg.Storage.Driver).Msg("booking desk started")
	serve(ctx, &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}, "api", &logger)
	logger.Info().Msg("booking desk stopped")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Logging.Console {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(level).With().Timestamp().Logger()
}

// openStore returns the configured store and, for sqlite, the database handle used by backups.
func openStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (repository.Store, *database.DB, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		db, err := database.NewDB(cfg.Storage.SQLite.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSQLiteStore(db), db, nil

	case config.DriverRedis:
		rc := cfg.Storage.Redis
		client := redis.NewClient(&redis.Options{Addr: rc.Address, Password: rc.Password, DB: rc.DB})
		ctxPing, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(ctxPing).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return repository.NewRedisStore(client, rc.Prefix), nil, nil

	default:
		logger.Warn().Msg("using in-memory store, bookings are lost on restart")
		return repository.NewMemoryStore(), nil, nil
	}
}

func buildNotifiers(cfg *config.Config, logger *zerolog.Logger) ([]notify.Notifier, []io.Closer) {
	var closers []io.Closer
	notifiers := []notify.Notifier{notify.NewLogNotifier(logger)}

	tg := cfg.Notifications.Telegram
	if tg.Enabled() {
		bot, err := tgbotapi.NewBotAPI(tg.BotToken)
		if err != nil {
			logger.Error().Err(err).Msg("telegram notifications disabled")
		} else {
			notifiers = append(notifiers, notify.NewTelegramNotifier(bot, tg.ChatIDs, tg.MessagesPerSecond))
		}
	}

	if brokers := cfg.Notifications.Kafka.BrokerList(); len(brokers) > 0 {
		writer := notify.NewKafkaWriter(brokers, cfg.Notifications.Kafka.Topic)
		notifiers = append(notifiers, notify.NewKafkaNotifier(writer))
		closers = append(closers, writer)
	}

	return notifiers, closers
}

// serve runs srv until ctx is cancelled, then shuts it down.
func serve(ctx context.Context, srv *http.Server, name string, logger *zerolog.Logger) {
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Str("server", name).Msg("server error")
	}
}

func startHealthServer(ctx context.Context, port int, store repository.Store, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctxPing, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := store.Ping(ctxPing); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	serve(ctx, &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}, "health", logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	serve(ctx, &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}, "metrics", logger)
}
