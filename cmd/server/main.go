package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"studentlife-dashboard/internal/cohort"
	"studentlife-dashboard/internal/config"
	"studentlife-dashboard/internal/dashboard"
	"studentlife-dashboard/internal/ingest"
	"studentlife-dashboard/internal/platform/logger"
	"studentlife-dashboard/internal/report"
)

func main() {
	cfg := config.FromEnv()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		os.Stderr.WriteString("logger init failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	// 1. Policy
	policy, err := cohort.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		log.Fatal("policy load failed", "path", cfg.PolicyFile, "error", err)
	}

	// 2. Sources
	sources := map[string]ingest.Source{
		"files": ingest.NewDirSource(cfg.DataDir),
	}
	if cfg.DatabaseURL != "" {
		db := connectDB(cfg.DatabaseURL, log)
		if db != nil {
			defer db.Close()
			runMigrations(cfg.MigrationsPath, cfg.DatabaseURL, log)
		}
		// With a nil db every postgres reload falls back to the sample batch.
		sources["postgres"] = ingest.NewPostgresSource(db)
	}

	// 3. Services
	loader := ingest.NewLoader(policy,
		ingest.WithKeySuffix(cfg.KeySuffix),
		ingest.WithPhase(cfg.SurveyPhase),
		ingest.WithLogger(log.With("component", "loader")),
	)
	reportSvc := report.NewService(cfg.ReportFonts, log.With("component", "report"))
	dashboardSvc := dashboard.NewService(policy, loader, sources, reportSvc, log.With("component", "dashboard"))
	dashboardHandler := dashboard.NewHandler(dashboardSvc)

	// 4. Router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS for frontend
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding")
			if r.Method == "OPTIONS" {
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Route("/api", func(r chi.Router) {
		dashboard.RegisterRoutes(r, dashboardHandler)
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("server starting", "addr", srv.Addr, "sources", dashboardSvc.Sources())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server failed", "error", err)
	}
	log.Info("server stopped")
}

// connectDB retries the initial ping and returns nil when the database stays
// unreachable.
func connectDB(dsn string, log *logger.Logger) *sql.DB {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Warn("could not open database", "error", err)
		return nil
	}
	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			log.Info("connected to database")
			return db
		}
		log.Info("waiting for database", "attempt", i+1, "of", 10)
		time.Sleep(time.Second)
	}
	log.Warn("could not connect to database, postgres source disabled", "error", err)
	db.Close()
	return nil
}

func runMigrations(path, dsn string, log *logger.Logger) {
	m, err := migrate.New(path, dsn)
	if err != nil {
		log.Warn("migration init failed", "error", err)
		return
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Warn("migration up failed", "error", err)
		return
	}
	log.Info("migrations applied")
}
