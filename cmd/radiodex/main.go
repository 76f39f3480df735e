package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dialwave/radiodex/internal/browser"
	"github.com/dialwave/radiodex/internal/cache"
	"github.com/dialwave/radiodex/internal/config"
	"github.com/dialwave/radiodex/internal/models"
	"github.com/dialwave/radiodex/internal/server"
	"github.com/dialwave/radiodex/internal/service"
	"github.com/dialwave/radiodex/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Optional config file path (YAML); else use env DATABASE_URL")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Run migrations. The migrations directory ships next to the binary in
	// container images, so fall back to the executable's directory when it
	// is not in the working directory.
	absMigrations, err := filepath.Abs("migrations")
	if err != nil {
		absMigrations = "migrations"
	}
	if _, err := os.Stat(absMigrations); err != nil {
		if exe, e := os.Executable(); e == nil {
			absMigrations = filepath.Join(filepath.Dir(exe), "migrations")
		}
	}
	if err := store.RunMigrations(cfg.DatabaseURL, "file://"+absMigrations); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "db: %v\n", err)
		os.Exit(1)
	}
	defer pg.Close()

	stations := browser.NewClient(browser.Options{
		Mirrors:      cfg.Mirrors,
		UserAgent:    cfg.UserAgent,
		FetchTimeout: cfg.FetchTimeout,
		ProbeTimeout: cfg.ProbeTimeout,
	})

	// Connect to Redis if REDIS_URL is configured.
	var rds *cache.Redis
	var appStore store.Store = pg
	if cfg.RedisURL != "" {
		rds, err = cache.New(cfg.RedisURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "redis: %v\n", err)
			os.Exit(1)
		}
		defer rds.Close()

		if err := rds.Ping(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "redis ping: %v\n", err)
			os.Exit(1)
		}

		appStore = store.NewCachedStore(pg, rds)
		fmt.Fprintln(os.Stderr, "redis connected (caching enabled)")
	} else {
		fmt.Fprintln(os.Stderr, "redis disabled (REDIS_URL not set)")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start the background cache warmer and pre-warm the station lists.
	if rds != nil {
		go runWarmWorker(ctx, rds, stations)
		enqueueWarmJobs(ctx, rds)
	}

	srv := server.New(appStore, stations, cfg, rds)
	if err := srv.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

// enqueueWarmJobs queues a warm job per genre plus one for the aggregate.
func enqueueWarmJobs(ctx context.Context, rds *cache.Redis) {
	for _, genre := range models.Genres {
		if err := cache.Enqueue(ctx, rds, cache.DefaultQueue, cache.WarmJob{Genre: genre}); err != nil {
			log.Printf("warm enqueue %s: %v", genre, err)
			return
		}
	}
	if err := cache.Enqueue(ctx, rds, cache.DefaultQueue, cache.WarmJob{Aggregate: true}); err != nil {
		log.Printf("warm enqueue aggregate: %v", err)
	}
}

// runWarmWorker continuously dequeues warm jobs from Redis and refreshes the
// corresponding station caches. It stops when ctx is cancelled (graceful shutdown).
func runWarmWorker(ctx context.Context, rds *cache.Redis, stations *browser.Client) {
	log.Println("cache warm worker started")
	for {
		select {
		case <-ctx.Done():
			log.Println("cache warm worker stopping")
			return
		default:
		}

		job, err := cache.Dequeue(ctx, rds, cache.DefaultQueue, 5*time.Second)
		if err != nil {
			log.Printf("warm worker: dequeue error: %v", err)
			time.Sleep(2 * time.Second)
			continue
		}
		if job == nil {
			continue // timeout, loop back to check ctx
		}

		if err := service.WarmCache(ctx, rds, stations, *job); err != nil {
			log.Printf("warm worker: genre=%q aggregate=%v: %v", job.Genre, job.Aggregate, err)
		}
	}
}
