package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	api "github.com/gradekit/gradescale/internal/api/http"
	"github.com/gradekit/gradescale/internal/audit"
	auth "github.com/gradekit/gradescale/internal/auth/middleware"
	"github.com/gradekit/gradescale/internal/config"
	"github.com/gradekit/gradescale/internal/db"
	"github.com/gradekit/gradescale/internal/gradescale"
	"github.com/gradekit/gradescale/internal/rbac"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		logger.Error("db open failed", "err", err)
		os.Exit(1)
	}

	var store gradescale.Store = gradescale.NewSQLStore(dbh, cfg.DBDriver, logger)
	store = gradescale.NewCachingStore(store, cfg.CacheTTL)
	events := audit.NewEventRepo(dbh)

	// --- Auth (local HS256 JWT) ---
	authSvc := auth.NewAuthService(cfg.AuthSecret, cfg.AdminUser, cfg.AdminPassHash,
		cfg.Mode == config.ModeOffline)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc))

	// Protected API (JWT → sub/role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Scale administration (registrar/admin)
		pr.With(rbac.Require("scale:create")).
			Post("/scales", api.CreateScaleHandler(store))
		pr.With(rbac.Require("scale:view")).
			Get("/scales", api.ListScalesHandler(store))
		pr.With(rbac.Require("scale:view")).
			Get("/scales/default", api.GetDefaultScaleHandler(store))
		pr.With(rbac.Require("scale:view")).
			Get("/scales/presets", api.ListPresetsHandler())
		pr.With(rbac.Require("scale:create")).
			Post("/scales/from-preset", api.CreateScaleFromPresetHandler(store))
		pr.With(rbac.Require("scale:view")).
			Get("/scales/{scaleID}", api.GetScaleHandler(store))
		pr.With(rbac.Require("scale:delete")).
			Delete("/scales/{scaleID}", api.DeleteScaleHandler(store, events))

		pr.With(rbac.Require("scale:edit")).
			Put("/scales/{scaleID}/ranges", api.ReplaceRangesHandler(store, events))
		pr.With(rbac.Require("scale:edit")).
			Post("/scales/{scaleID}/ranges", api.PutRangeHandler(store))
		pr.With(rbac.Require("scale:edit")).
			Delete("/scales/{scaleID}/ranges/{rangeID}", api.DeleteRangeHandler(store))

		pr.With(rbac.RequireAny("scale:validate", "scale:edit")).
			Post("/scales/validate-ranges", api.ValidateRangesHandler())
		pr.With(rbac.Require("scale:set-default")).
			Post("/scales/{scaleID}/default", api.SetDefaultScaleHandler(store, events))
		pr.With(rbac.Require("audit:view")).
			Get("/scales/{scaleID}/events", api.ListScaleEventsHandler(events))

		// Conversion & GPA
		pr.With(rbac.Require("grade:convert")).
			Post("/convert", api.ConvertScoreHandler(store))
		pr.With(rbac.Require("grade:convert")).
			Post("/convert/label", api.GradeLabelHandler(store))
		pr.With(rbac.Require("grade:convert")).
			Post("/convert/cross", api.CrossConvertHandler(store))
		pr.With(rbac.Require("gpa:calculate")).
			Post("/gpa", api.CalculateGPAHandler(store))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	logger.Info("listening", "addr", cfg.HTTPAddr, "mode", string(cfg.Mode), "db", cfg.DBDriver)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}
