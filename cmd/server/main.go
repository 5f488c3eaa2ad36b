package main

import (
	"context"
	"net/http"

	webAdapter "orderdesk/internal/adapters/web"
	"orderdesk/internal/app"
	"orderdesk/internal/config"
	"orderdesk/internal/core"
	"orderdesk/internal/db"
	"orderdesk/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := config.NewLogger()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	st := store.New(pool)
	detector := core.NewDuplicateDetector(cfg.DefaultPhoneRegion, cfg.DuplicateIncludeTrashed)
	svc := app.NewAppService(st, detector)

	handler := webAdapter.NewHandler(svc, cfg.AllowedOrigins, log)

	log.WithField("port", cfg.ServerPort).Info("server starting")
	if err := http.ListenAndServe(":"+cfg.ServerPort, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
