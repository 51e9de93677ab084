package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/messhub/messhub-api/internal/config"
	"github.com/messhub/messhub-api/internal/domain/auth"
	"github.com/messhub/messhub-api/internal/domain/hotel"
	"github.com/messhub/messhub-api/internal/domain/notification"
	"github.com/messhub/messhub-api/internal/domain/order"
	"github.com/messhub/messhub-api/internal/domain/student"
	"github.com/messhub/messhub-api/internal/domain/upload"
	"github.com/messhub/messhub-api/internal/domain/user"
	"github.com/messhub/messhub-api/internal/domain/wallet"
	"github.com/messhub/messhub-api/internal/middleware"
	"github.com/messhub/messhub-api/internal/pkg/database"
	"github.com/messhub/messhub-api/internal/pkg/jwt"
	"github.com/messhub/messhub-api/internal/pkg/logger"
	pkgresponse "github.com/messhub/messhub-api/internal/pkg/response"
	"github.com/messhub/messhub-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("Failed to init logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting MessHub API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	var store storage.Storage
	if cfg.S3Bucket != "" {
		store, err = storage.NewS3Storage(storage.Config{
			S3Endpoint:  cfg.S3Endpoint,
			S3Region:    cfg.S3Region,
			S3AccessKey: cfg.S3AccessKey,
			S3SecretKey: cfg.S3SecretKey,
			S3Bucket:    cfg.S3Bucket,
			PublicURL:   cfg.S3PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create S3 storage")
		}
	} else {
		store, err = storage.NewLocalStorage("./data/uploads", "/files")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create local storage")
		}
		log.Warn().Msg("S3 not configured, using local storage")
	}

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	studentRepo := student.NewRepository(db)
	hotelRepo := hotel.NewRepository(db)
	walletRepo := wallet.NewRepository(db)
	orderRepo := order.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	uploadRepo := upload.NewRepository(db)

	// ---------- WebSocket hub ----------
	notificationHub := notification.NewHub(redisClient)
	go notificationHub.Run()
	defer notificationHub.Stop()

	// ---------- Services ----------
	notificationService := notification.NewService(notificationRepo, notificationHub)
	authService := auth.NewService(userRepo, jwtService)
	hotelService := hotel.NewService(hotelRepo)
	studentService := student.NewService(studentRepo, hotelService, notificationService)
	walletService := wallet.NewService(walletRepo, wallet.Config{
		TopupMinAmount: cfg.TopupMinAmount,
		TopupMaxAmount: cfg.TopupMaxAmount,
		AllocRetries:   cfg.SettlementRetries,
		RecentEntries:  cfg.RecentEntriesLimit,
	})
	orderService := order.NewService(orderRepo, walletRepo, hotelRepo, studentRepo, notificationService, order.Config{
		MaxItems:     cfg.MaxOrderItems,
		AllocRetries: cfg.SettlementRetries,
	})
	uploadService := upload.NewService(uploadRepo, store, redisClient, studentService, hotelService)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	studentHandler := student.NewHandler(studentService)
	hotelHandler := hotel.NewHandler(hotelService)
	walletHandler := wallet.NewHandler(walletService, studentService)
	orderHandler := order.NewHandler(orderService)
	notificationHandler := notification.NewHandler(notificationService, notificationHub, cfg.AllowedOrigins)
	uploadHandler := upload.NewHandler(uploadService)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint accepts the token as a query param because browsers
	// cannot set headers on WebSocket connects.
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(notificationHandler.WebSocket)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))
		r.Use(middleware.Timeout(30 * time.Second))

		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/students", studentHandler.Routes(authMiddleware))
		r.Mount("/hotels", hotelHandler.Routes(authMiddleware))
		r.Mount("/wallet", walletHandler.Routes(authMiddleware))
		r.Mount("/orders", orderHandler.Routes(authMiddleware))
		r.Mount("/notifications", notificationHandler.Routes(authMiddleware))
		r.Mount("/uploads", uploadHandler.Routes(authMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	pruneCtx, stopPrune := context.WithCancel(context.Background())
	defer stopPrune()
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-pruneCtx.Done():
				return
			case <-ticker.C:
				notificationService.Cleanup(pruneCtx, 30)
			}
		}
	}()

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
