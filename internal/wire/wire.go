package wire

import (
	"context"
	"net/http"
	"time"

	"perfume-collection/internal/adaptor"
	"perfume-collection/internal/data/repository"
	"perfume-collection/internal/usecase"
	"perfume-collection/pkg/database"
	"perfume-collection/pkg/metrics"
	"perfume-collection/pkg/middleware"
	"perfume-collection/pkg/ratelimit"
	"perfume-collection/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router  *chi.Mux
	Limiter *ratelimit.KeyedRateLimiter
}

// Dependencies are the long-lived resources built in main.
type Dependencies struct {
	DB      database.PgxIface
	Repo    *repository.Repository
	Sink    usecase.NotificationSink
	Metrics *metrics.Metrics
	Config  *utils.Config
	Logger  *zap.Logger
}

// guards are the per-route middlewares shared by the feature wirings.
type guards struct {
	requireAuth func(http.Handler) http.Handler
	rateLimit   func(http.Handler) http.Handler
}

// Wiring menginisialisasi semua dependencies
func Wiring(deps Dependencies) *App {
	service := usecase.NewService(deps.Repo, deps.Sink, deps.Config, deps.Metrics, deps.Logger)
	handler := adaptor.NewHandler(service, deps.Logger)

	limiter := ratelimit.New(deps.Config.RateLimit.RPS, deps.Config.RateLimit.Burst)

	router := setupRouter(handler, service, deps, limiter)

	return &App{
		Router:  router,
		Limiter: limiter,
	}
}

// setupRouter konfigurasi Chi router
func setupRouter(handler *adaptor.Handler, service *usecase.Service, deps Dependencies, limiter *ratelimit.KeyedRateLimiter) *chi.Mux {
	r := chi.NewRouter()
	logger := deps.Logger

	// Apply global middleware
	r.Use(middleware.Logger(logger, deps.Metrics))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.Authenticate(middleware.NewTokenVerifier(deps.Config.JWT), logger))
	r.Use(middleware.ProvisionProfile(service.Profile, logger))

	g := guards{
		requireAuth: middleware.RequireAuth,
		rateLimit:   middleware.RateLimit(limiter, deps.Config.RateLimit.TrustedProxies, logger),
	}

	// Apply routes
	wireUser(r, handler.User, g)
	wirePerfume(r, handler.Perfume, g)
	wireComment(r, handler.Comment, g)
	wireNotification(r, handler.Notification, g)

	// Health check endpoint
	r.Get("/health", healthHandler(deps.DB, logger))
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	return r
}

func healthHandler(db database.PgxIface, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.Error("Health check failed", zap.Error(err))
			utils.ResponseJSON(w, http.StatusServiceUnavailable, false, "database unavailable", nil, nil)
			return
		}

		utils.ResponseSuccess(w, "OK", nil)
	}
}
