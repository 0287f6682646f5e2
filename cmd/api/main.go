package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/pechorka/bible-companion/internal/bible"
	"github.com/pechorka/bible-companion/internal/handler"
	"github.com/pechorka/bible-companion/internal/handler/mw/auth"
	"github.com/pechorka/bible-companion/internal/service"
	"github.com/pechorka/bible-companion/internal/storage"
	"github.com/pechorka/bible-companion/pkg/debounce"
	"github.com/pechorka/bible-companion/pkg/i18n"
	"github.com/pechorka/bible-companion/pkg/watcher"
)

type config struct {
	ListenAddr     string
	DbPath         string
	I18nPath       string
	BibleAPIURL    string
	Debug          bool
	RecomputeAfter time.Duration
	ShowDelay      time.Duration
	AdvanceDelay   time.Duration
}

func readCfg() config {
	_ = godotenv.Load()
	return config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		DbPath:         getEnv("DB_PATH", "./db.db"),
		I18nPath:       getEnv("I18N_PATH", "./i18n.json"),
		BibleAPIURL:    getEnv("BIBLE_API_URL", ""),
		Debug:          getEnvBool("DEBUG", false),
		RecomputeAfter: getEnvDuration("RECOMPUTE_AFTER", 500*time.Millisecond),
		ShowDelay:      getEnvDuration("NOTIFICATION_SHOW_DELAY", 500*time.Millisecond),
		AdvanceDelay:   getEnvDuration("NOTIFICATION_ADVANCE_DELAY", 300*time.Millisecond),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run() error {
	cfg := readCfg()

	var store *storage.Storage
	var err error
	if cfg.Debug {
		store, err = storage.NewTempStorage()
	} else {
		store, err = storage.NewStorage(cfg.DbPath)
	}
	if err != nil {
		return err
	}
	defer store.Close()

	msgs := i18n.New()
	i18nWatcher, err := watcher.LoadAndWatch(cfg.I18nPath, msgs)
	if err != nil {
		return err
	}
	defer i18nWatcher.Close()

	notifier := service.NewNotifications(cfg.ShowDelay, cfg.AdvanceDelay)
	svc := service.NewService(store, notifier)

	recompute := debounce.New(debounce.Config{QuietFor: cfg.RecomputeAfter})
	recompute.Run(func(userID int64) {
		if err := svc.RecomputeAchievements(userID); err != nil {
			fmt.Printf("recompute achievements for %d: %v\n", userID, err)
		}
	})
	defer recompute.Stop()
	svc.SetScheduler(recompute)

	h := handler.NewHandlers(svc, bible.NewClient(cfg.BibleAPIURL), msgs)

	mx := chi.NewRouter()
	mx.Use(middleware.Recoverer)
	mx.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	h.RegisterPublic(mx)
	mx.Group(func(r chi.Router) {
		r.Use(auth.NewAuthMW(svc).Auth)
		h.Register(r)
	})

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mx,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	terminate := make(chan os.Signal, 1)
	signal.Notify(terminate, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-terminate:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
