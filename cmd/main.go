// carejobs-reconciler-service
//
// Job reconciliation engine: ingests scraper batches over HTTP and merges
// them into the persistent job catalog —
//   - deduplication by employer job ID (preferred) or source URL
//   - expiry tracking with a configurable freshness window
//   - content-quality-gated description merging with forced re-classification
//   - active-set safety guard against broken scrapers
//   - cron-driven expiration sweep
//
// Deactivations are announced on Redis pub/sub for search-index removal.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"carejobs/reconciler-service/internal/config"
	"carejobs/reconciler-service/internal/db"
	"carejobs/reconciler-service/internal/reconcile"
	"carejobs/reconciler-service/internal/scheduler"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	if err := godotenv.Load(); err != nil {
		log.Println("[reconciler] No .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[reconciler] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[reconciler] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("[reconciler] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[reconciler] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[reconciler] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[reconciler] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[reconciler] Redis connected ✓")

	// ── Engine ───────────────────────────────────────────────────────────────
	settings := reconcile.DefaultSettings()
	settings.FreshnessWindowDays = cfg.FreshnessWindowDays
	settings.GuardActiveFloor = cfg.GuardActiveFloor
	settings.GuardMinFound = cfg.GuardMinFound
	settings.GuardMinRatio = cfg.GuardMinRatio
	settings.MinCompleteLength = cfg.MinCompleteLength

	svc := reconcile.NewService(
		reconcile.NewPostgresStore(pool),
		reconcile.NewRedisNotifier(rdb),
		settings,
	)

	// ── Sweep scheduler ──────────────────────────────────────────────────────
	sched := scheduler.New(svc, cfg.SweepIntervalHours)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[reconciler] Scheduler: %v", err)
	}
	defer sched.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	h := reconcile.NewHandler(svc)
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // batches block until fully reconciled
	}

	go func() {
		log.Printf("[reconciler] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[reconciler] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[reconciler] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[reconciler] Shutdown error: %v", err)
	}
	log.Println("[reconciler] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "reconciler-service",
		"version": version,
	})
}
