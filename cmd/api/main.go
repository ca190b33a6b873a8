package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/tmwale/pos-backend/internal/config"
	"github.com/tmwale/pos-backend/internal/db"
	"github.com/tmwale/pos-backend/internal/logger"
	"github.com/tmwale/pos-backend/internal/modules/catalog"
	"github.com/tmwale/pos-backend/internal/modules/inventory"
	"github.com/tmwale/pos-backend/internal/modules/pos"
	"github.com/tmwale/pos-backend/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	zlog, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		zlog.Fatal("connect to database", zap.Error(err))
	}
	defer conn.Close()
	if err := db.Migrate(ctx, conn); err != nil {
		zlog.Fatal("apply schema", zap.Error(err))
	}
	zlog.Info("connected to database")

	files, err := storage.NewLocalStore(cfg.Uploads.Dir)
	if err != nil {
		zlog.Fatal("prepare upload dir", zap.Error(err))
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)

	// ── Catalog: categories ─────────────────────────────────
	catalogRepo := catalog.NewPostgresRepository(conn)
	catalogService := catalog.NewService(catalogRepo, zlog)
	catalog.NewHandler(catalogService).RegisterRoutes(router)

	// ── Inventory: products & stock ─────────────────────────
	productRepo := inventory.NewPostgresRepository(conn)
	inventoryService := inventory.NewService(productRepo, files, zlog)
	inventory.NewHandler(inventoryService).RegisterRoutes(router)

	// ── POS: checkout, sales ledger, refunds ────────────────
	posRepo := pos.NewPostgresRepository(conn)
	posService := pos.NewService(posRepo, zlog)
	pos.NewHandler(posService).RegisterRoutes(router)

	// Uploaded product images are served straight from disk.
	router.Handle("/uploads/*",
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Uploads.Dir))))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// ── Start Server ────────────────────────────────────────
	addr := ":" + cfg.Server.Port
	zlog.Info("POS API server starting", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, router); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}
