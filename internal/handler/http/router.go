package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// RouterOptions carries the app identity attached to request logs and the
// browser origins allowed by CORS.
type RouterOptions struct {
	AppName        string
	Version        string
	Env            string
	LogLevel       slog.Level
	AllowedOrigins []string
}

func NewRouter(opts RouterOptions, timeclockHandler TimeclockHandler, employeeHandler EmployeeHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       opts.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", opts.AppName),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/timeclock", func(r chi.Router) {
			r.Post("/upload", timeclockHandler.Upload)
			r.Get("/records", timeclockHandler.ListRecords)
			r.Get("/summary", timeclockHandler.Summary)
			r.Get("/export", timeclockHandler.Export)
			r.Get("/source", timeclockHandler.SourceFile)
			r.Get("/events", timeclockHandler.Events)

			r.Route("/filter", func(r chi.Router) {
				r.Post("/", timeclockHandler.Filter)
				r.Delete("/", timeclockHandler.ResetFilter)
			})
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/roster", employeeHandler.Roster)
			r.Post("/roster/refresh", employeeHandler.RefreshRoster)
		})
	})
	return r
}
