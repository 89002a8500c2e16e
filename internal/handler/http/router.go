package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/sekolahku/attendance-backend-go/internal/config"
	"github.com/sekolahku/attendance-backend-go/internal/handler/http/middleware"
	"github.com/sekolahku/attendance-backend-go/internal/pkg/jwt"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "sekolahku-attendance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendances", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/{id}/check-out", attendanceHandler.CheckOut)
				r.Get("/{id}", attendanceHandler.Get)
				r.Get("/", attendanceHandler.List)

				// Teacher or admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireStaff)
					r.Post("/", attendanceHandler.Record)
					r.Post("/bulk", attendanceHandler.RecordBulk)
					r.Patch("/{id}", attendanceHandler.Correct)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Delete("/{id}", attendanceHandler.Delete)
				})
			})

			r.Route("/leave-requests", func(r chi.Router) {
				r.Post("/", leaveHandler.Submit)
				r.Get("/{id}", leaveHandler.Get)
				r.Get("/", leaveHandler.List)

				// Teacher or admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireStaff)
					r.Post("/{id}/decision", leaveHandler.Decide)
				})
			})

			// Teacher or admin only
			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequireStaff)
				r.Get("/classes/{id}", reportHandler.ClassReport)
				r.Get("/students/{id}", reportHandler.StudentReport)
			})
		})
	})
	return r
}
