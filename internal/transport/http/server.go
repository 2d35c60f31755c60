package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pulsefeed/internal/config"
	"pulsefeed/internal/database"
	"pulsefeed/internal/handler"
	"pulsefeed/internal/queue"
	redisclient "pulsefeed/internal/redis"
	"pulsefeed/internal/repository"
	"pulsefeed/internal/service"
	"pulsefeed/internal/worker"
)

// Run wires the whole application together and blocks until shutdown.
func Run() error {
	ctx := context.Background()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// 3. Object storage for post images
	storage, err := service.NewR2Storage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to set up object storage: %w", err)
	}
	mediaService := service.NewMediaService(storage, cfg.R2PublicURL)

	// 4. Optional Redis for the async media cleanup workers
	var publisher queue.Publisher
	var manager *worker.Manager
	if cfg.RedisURL != "" {
		rdb, err := redisclient.NewClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		defer rdb.Close()

		if err := rdb.Ping(ctx); err != nil {
			return fmt.Errorf("failed to reach redis: %w", err)
		}

		publisher = queue.NewPublisher(rdb.Client)
		consumer := queue.NewConsumer(rdb.Client)
		manager = worker.NewManager(consumer, worker.NewHandler(mediaService), worker.DefaultManagerConfig())
		if err := manager.Start(ctx); err != nil {
			return fmt.Errorf("failed to start cleanup workers: %w", err)
		}
		defer manager.Stop()
	} else {
		log.Println("REDIS_URL not set, media cleanup runs inline")
	}

	// 5. Repositories and services
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(cfg.JWTSecret, cfg.TokenMaxAge)
	postService := service.NewPostService(postRepo, mediaService, publisher)

	// 6. HTTP layer
	router := NewRouter(RouterConfig{
		AuthHandler: handler.NewAuthHandler(userService, authService),
		PostHandler: handler.NewPostHandler(postService, mediaService),
		AuthService: authService,
		UserService: userService,
		FrontendURL: cfg.FrontendURL,
	})

	server := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Printf("Received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
