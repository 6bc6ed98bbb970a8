package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"primePlacesAPI/handlers"
	"primePlacesAPI/internal/kvstore"
	"primePlacesAPI/middleware"
	"primePlacesAPI/services"
)

var (
	dbPool            *pgxpool.Pool
	placeService      *services.PlaceService
	imageService      *services.ImageService
	enrichmentService *services.EnrichmentService
	favoritesService  *services.FavoritesService
)

func init() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: "2006-01-02 15:04:05",
	})))

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		slog.Error("DATABASE_URL environment variable is not set")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		slog.Error("Failed to parse database URL", "err", err)
		os.Exit(1)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		slog.Error("Failed to create connection pool", "err", err)
		os.Exit(1)
	}

	if err := dbPool.Ping(ctx); err != nil {
		slog.Error("Failed to ping database", "err", err)
		os.Exit(1)
	}
	slog.Info("Connected to Postgres")

	unsplashKey := os.Getenv("UNSPLASH_ACCESS_KEY")
	if unsplashKey == "" {
		slog.Warn("UNSPLASH_ACCESS_KEY is not set, places will render without images")
	}

	favoritesFile := os.Getenv("FAVORITES_FILE")
	if favoritesFile == "" {
		favoritesFile = "./favorites.json"
	}

	placeService = services.NewPlaceService(dbPool)
	imageService = services.NewImageService(unsplashKey)
	enrichmentService = services.NewEnrichmentService(imageService)
	favoritesService = services.NewFavoritesService(kvstore.NewFileStore(favoritesFile))

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		slog.Info("Closing database connection pool...")
		dbPool.Close()
	}()

	placeHandler := handlers.NewPlaceHandler(placeService, enrichmentService, imageService, favoritesService)
	favoritesHandler := handlers.NewFavoritesHandler(favoritesService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "prime-places-api"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/places", placeHandler.GetPlaces).Methods("GET")
	api.HandleFunc("/places/{slug}", placeHandler.GetPlaceBySlug).Methods("GET")
	api.HandleFunc("/filters", placeHandler.GetFilterConfig).Methods("GET")

	// /favorites/count before /favorites/{placeId}, mux matches in order.
	api.HandleFunc("/favorites", favoritesHandler.GetFavorites).Methods("GET")
	api.HandleFunc("/favorites/count", favoritesHandler.GetFavoritesCount).Methods("GET")
	api.HandleFunc("/favorites/{placeId}", favoritesHandler.GetFavoriteStatus).Methods("GET")
	api.HandleFunc("/favorites/{placeId}/toggle", favoritesHandler.ToggleFavorite).Methods("POST")

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:    port,
		Handler: corsHandler(r),
		// The listing endpoint awaits the whole image fan-out before it can
		// write, so the write timeout is sized for that batch.
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Error starting server", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	slog.Info("Got signal", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "err", err)
	}

	slog.Info("Server shutdown complete")
}
