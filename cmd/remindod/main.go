package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"remindo/internal/clock"
	"remindo/internal/config"
	"remindo/internal/engine"
	"remindo/internal/notify"
	"remindo/internal/scheduler"
	"remindo/internal/store/sqlite"
	"remindo/internal/webhook"
)

const cleanupInterval = 1 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := sqlite.Migrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	log.Println("database migrations completed")

	reminderStore := sqlite.New(db)

	var emailSender notify.EmailSender
	if cfg.SendGridAPIKey != "" {
		emailSender = notify.NewSendGridSender(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName)
	} else {
		log.Println("SENDGRID_API_KEY not set, email dispatch disabled")
	}
	dispatcher := notify.New(emailSender)

	eng := engine.New(reminderStore, clock.Real{}, dispatcher, cfg.TickInterval, cfg.StaleThreshold)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("shutting down...")
		cancel()
	}()

	if cfg.UsePolling {
		runPolling(ctx, eng)
	} else {
		runEventMode(ctx, eng, cfg)
	}
}

func runPolling(ctx context.Context, eng *engine.Engine) {
	sched := scheduler.New(eng, eng.TickInterval)
	cleanup := scheduler.NewCleanupRunner(eng, cleanupInterval)

	log.Println("starting in polling mode")
	go cleanup.Run(ctx)
	sched.Run(ctx)
}

func runEventMode(ctx context.Context, eng *engine.Engine, cfg *config.Config) {
	verifier := webhook.NewVerifier(cfg.SigningKeyCurrent, cfg.SigningKeyNext)
	router := webhook.NewRouter(eng, verifier)

	srv := &http.Server{
		Addr:    addrFromBase(cfg.WebhookBase),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("webhook server shutdown error: %v", err)
		}
	}()

	log.Printf("starting in event mode, listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("webhook server error: %v", err)
	}
}

// addrFromBase extracts the host:port portion of a webhook base URL like
// "http://0.0.0.0:8080" into a net/http listen address.
func addrFromBase(base string) string {
	const httpPrefix = "http://"
	const httpsPrefix = "https://"
	switch {
	case len(base) > len(httpPrefix) && base[:len(httpPrefix)] == httpPrefix:
		return base[len(httpPrefix):]
	case len(base) > len(httpsPrefix) && base[:len(httpsPrefix)] == httpsPrefix:
		return base[len(httpsPrefix):]
	default:
		return base
	}
}
