package http

import (
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/phototrack/attendance-backend-go/internal/config"
	"github.com/phototrack/attendance-backend-go/internal/handler/http/middleware"
	"github.com/phototrack/attendance-backend-go/internal/pkg/jwt"
	"github.com/phototrack/attendance-backend-go/internal/pkg/metrics"
)

// statsCacheTTL bounds how stale the aggregation endpoint may get.
const statsCacheTTL = 30 * time.Second

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	uploadHandler UploadHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORS.AllowedOrigin},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Get("/verify", authHandler.Verify)
			r.Post("/logout", authHandler.Logout)
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Post("/", attendanceHandler.Record)
			r.Get("/history", attendanceHandler.History)
			r.Get("/sessions", attendanceHandler.Sessions)
			r.Post("/verify", attendanceHandler.Verify)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
				r.Use(middleware.AuthRequired(jwtService))
				r.Use(middleware.AdminOnly)
				r.With(middleware.Cache(statsCacheTTL)).Get("/stats", attendanceHandler.Stats)
			})
		})

		r.Get("/uploads/{filename}", uploadHandler.Get)
	})

	return r
}
