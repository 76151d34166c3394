package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/event-attendance-api/internal/attendance"
	"github.com/gdg-garage/event-attendance-api/internal/auth"
	"github.com/gdg-garage/event-attendance-api/internal/config"
	"github.com/gdg-garage/event-attendance-api/internal/database"
	"github.com/gdg-garage/event-attendance-api/internal/dispatch"
	"github.com/gdg-garage/event-attendance-api/internal/handlers"
	"github.com/gdg-garage/event-attendance-api/internal/logger"
	"github.com/gdg-garage/event-attendance-api/internal/notifier"
	"github.com/go-chi/chi/v5"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	l, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer l.Sync()

	// Connect to Database; Connect also migrates the schema.
	db, err := database.Connect(cfg)
	if err != nil {
		l.Fatal("failed to connect database", zap.Error(err))
	}

	clk := clock.New()

	// Certificate delivery
	outbox := dispatch.NewOutbox(db, newNotifier(cfg, l), clk,
		dispatch.WithBatchSize(cfg.DispatchBatchSize),
		dispatch.WithMaxAttempts(cfg.DispatchMaxAttempts),
		dispatch.WithTimeout(cfg.DispatchTimeout),
		dispatch.WithLogger(l.Named("dispatch")),
	)
	worker, err := dispatch.NewWorker(outbox, cfg.DispatchSchedule, l.Named("worker"))
	if err != nil {
		l.Fatal("invalid dispatch schedule", zap.String("schedule", cfg.DispatchSchedule), zap.Error(err))
	}
	worker.Start()

	service := attendance.NewService(db, clk, outbox,
		attendance.WithTolerance(cfg.CheckTolerance),
		attendance.WithThreshold(cfg.CertificateThreshold),
		attendance.WithLogger(l.Named("attendance")),
	)

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, db)

	r := chi.NewRouter()
	handlers.RegisterRoutes(r, cfg, l, handlers.Handlers{
		Auth:      authHandler,
		Checks:    handlers.NewCheckHandler(service, authHandler),
		Attendees: handlers.NewAttendeeHandler(db, authHandler),
		Events:    handlers.NewEventHandler(db, service, authHandler),
		APIKeys:   handlers.NewAPIKeyHandler(db, authHandler),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		l.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("failed to start server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	l.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("server shutdown failed", zap.Error(err))
	}
	select {
	case <-worker.Stop().Done():
	case <-shutdownCtx.Done():
		l.Warn("dispatch worker did not stop in time")
	}
}

// newNotifier sends mail over SMTP when configured and mirrors decisions to Discord when a bot is set up.
func newNotifier(cfg *config.Config, l *zap.Logger) notifier.Notifier {
	var primary notifier.Notifier = notifier.LogNotifier{Log: l.Named("mail")}
	if cfg.SMTPHost != "" {
		primary = notifier.NewSMTPMailer(notifier.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	} else {
		l.Warn("SMTP_HOST not set, certificate mail is only logged")
	}

	fanout := &notifier.Fanout{Primary: primary, Log: l.Named("notifier")}
	if cfg.DiscordBotToken != "" && cfg.DiscordNotificationsChannelID != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			l.Warn("discord notifier not initialized", zap.Error(err))
		} else {
			fanout.Observers = append(fanout.Observers, notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID))
		}
	}
	return fanout
}
