package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/C241-PS090/backend-api/config"
	"github.com/C241-PS090/backend-api/internal/db"
	"github.com/C241-PS090/backend-api/internal/handlers"
	"github.com/C241-PS090/backend-api/internal/services"
	"github.com/C241-PS090/backend-api/internal/storage"
	"github.com/C241-PS090/backend-api/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
}

// New constructs a Server wired to the configured database and object
// storage backends.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	jwtSecret := strings.TrimSpace(cfg.JWTSecret)
	if jwtSecret == "" {
		return nil, errors.New("ACCESS_TOKEN_SECRET is required")
	}

	log := NewLogger(cfg)

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	assetStorage, err := newStorage(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	if err := assetStorage.EnsureBucket(ctx); err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	predictionRepo := store.NewPredictionRepository(dbConn)

	userService := services.NewUserService(userRepo)
	predictionService := services.NewPredictionService(predictionRepo, log)
	pictureService := services.NewProfilePictureService(assetStorage, log)

	authHandler := handlers.NewAuthHandler(userService, jwtSecret)
	userHandler := handlers.NewUserHandler(userService, pictureService)
	predictionHandler := handlers.NewPredictionHandler(predictionService)
	requireAuth := handlers.RequireAuth(jwtSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)

	router.Get("/healthz", handlers.Healthz)
	router.Post("/register", authHandler.Register)
	router.Post("/login", authHandler.Login)
	router.Delete("/logout", authHandler.Logout)
	router.Route("/users", func(r chi.Router) {
		r.With(requireAuth).Get("/", userHandler.ListUsers)
		r.Route("/{userID}", func(r chi.Router) {
			r.With(requireAuth).Get("/", userHandler.GetUser)
			r.With(requireAuth).Put("/", userHandler.UpdateProfile)
			// Predictions are readable without auth.
			r.Get("/predictions", predictionHandler.ListByUser)
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}

// NewLogger builds the application logger from config.
func NewLogger(cfg config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func newStorage(ctx context.Context, cfg config.Config) (*storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendGCS:
		backend, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		return storage.NewStorage(backend), nil
	case config.StorageBackendMinio:
		backend, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		return storage.NewStorage(backend), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
