package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/saulo-duarte/visionboard-lambda/internal/auth"
	"github.com/saulo-duarte/visionboard-lambda/internal/completion"
	"github.com/saulo-duarte/visionboard-lambda/internal/config"
	"github.com/saulo-duarte/visionboard-lambda/internal/interview"
	"github.com/saulo-duarte/visionboard-lambda/internal/metrics"
	"github.com/saulo-duarte/visionboard-lambda/internal/reminder"
	"github.com/saulo-duarte/visionboard-lambda/internal/settings"
	"github.com/saulo-duarte/visionboard-lambda/internal/upload"
	"github.com/saulo-duarte/visionboard-lambda/internal/vision"
	"github.com/saulo-duarte/visionboard-lambda/internal/voice"
)

type RouterConfig struct {
	AllowedOrigins []string
	SwaggerEnabled bool
	Metrics        *metrics.Collector

	AuthHandler       *auth.Handler
	InterviewHandler  *interview.Handler
	VisionHandler     *vision.Handler
	CompletionHandler *completion.Handler
	SettingsHandler   *settings.Handler
	ReminderHandler   *reminder.Handler
	UploadHandler     *upload.Handler
	VoiceHandler      *voice.Handler
}

func New(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		config.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.SwaggerEnabled {
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Mount("/auth", auth.Routes(cfg.AuthHandler))

	r.Group(func(r chi.Router) {
		r.Use(auth.OptionalAuth)

		r.Mount("/interviews", interview.Routes(cfg.InterviewHandler))
		r.Mount("/visions", vision.Routes(cfg.VisionHandler))
		r.Mount("/completions", completion.Routes(cfg.CompletionHandler))
		r.Mount("/tasks", completion.TaskRoutes(cfg.CompletionHandler))
		r.Mount("/settings", settings.Routes(cfg.SettingsHandler))
		r.Mount("/reminders", reminder.Routes(cfg.ReminderHandler))
		r.Mount("/uploads", upload.Routes(cfg.UploadHandler))
		r.Mount("/voice", voice.Routes(cfg.VoiceHandler))
	})

	return r
}
