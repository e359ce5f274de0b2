package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"

	"github.com/edupay/payflow-backend/internal/config"
	transportHttp "github.com/edupay/payflow-backend/internal/transport/http"
	"github.com/edupay/payflow-backend/internal/upstream"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	cfg := config.LoadConfig()
	if !cfg.Configured() {
		// Handlers answer 500 until the upstream settings appear; the
		// process still starts so health checks and preflights work.
		log.Println("[CONFIG] SUPABASE_URL/SUPABASE_ANON_KEY not set; API handlers will report a configuration error")
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
		}); err != nil {
			log.Printf("[SENTRY] Init failed, error reporting disabled: %v", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	client := upstream.NewClient(cfg.UpstreamURL, cfg.UpstreamAnonKey, cfg.UpstreamTimeout)
	router := transportHttp.NewRouter(cfg, client)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
