package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpay/deskpet/internal/api"
	"github.com/rpay/deskpet/internal/audio"
	"github.com/rpay/deskpet/internal/auth"
	"github.com/rpay/deskpet/internal/commands"
	"github.com/rpay/deskpet/internal/config"
	"github.com/rpay/deskpet/internal/database"
	"github.com/rpay/deskpet/internal/imageload"
	"github.com/rpay/deskpet/internal/metrics"
	"github.com/rpay/deskpet/internal/middleware"
	"github.com/rpay/deskpet/internal/tts"
	"github.com/rpay/deskpet/internal/upstream/openaicompat"
	"github.com/rpay/deskpet/pkg/keygen"
)

func main() {
	logger := log.New(os.Stdout, "[deskpet] ", log.LstdFlags|log.Lshortfile)

	logger.Println("Starting DeskPet backend...")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Printf("Configuration loaded successfully")
	logger.Printf("Listen: %s:%s", cfg.Host, cfg.Port)

	// Open the command log (truncate on each run) for failed invocations
	commandFile, err := os.Create(cfg.CommandLogPath)
	if err != nil {
		logger.Fatalf("Failed to create %s: %v", cfg.CommandLogPath, err)
	}
	defer commandFile.Close()
	commandLogger := log.New(commandFile, "", log.LstdFlags)

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	logger.Println("Database initialized successfully")

	if cfg.JWTSecret == "" {
		cfg.JWTSecret, err = keygen.GenerateSecret()
		if err != nil {
			logger.Fatalf("Failed to generate JWT secret: %v", err)
		}
		logger.Println("WARNING: JWT_SECRET not set, using a random secret; tokens will not survive a restart")
	}

	// The shell reads the invoke token from this file on startup
	if cfg.InvokeToken == "" {
		cfg.InvokeToken, err = keygen.GenerateSecret()
		if err != nil {
			logger.Fatalf("Failed to generate invoke token: %v", err)
		}
	}
	if err := os.WriteFile(cfg.InvokeTokenPath, []byte(cfg.InvokeToken), 0o600); err != nil {
		logger.Fatalf("Failed to write invoke token to %s: %v", cfg.InvokeTokenPath, err)
	}
	defer os.Remove(cfg.InvokeTokenPath)
	logger.Printf("Invoke token written to %s", cfg.InvokeTokenPath)

	// Initialize components
	gateway := openaicompat.NewClient(openaicompat.WithUpstream(openaicompat.Upstream{
		BaseURL:    cfg.UpstreamURL,
		APIKey:     cfg.UpstreamAPIKey,
		ChatModel:  cfg.ChatModel,
		ImageModel: cfg.ImageModel,
	}))
	player := audio.NewPlayer()
	speech := tts.NewClient(cfg.TTSURL, cfg.TTSCharacter)

	registry, err := commands.NewDefault(gateway, imageload.ReadImageBase64, player, speech)
	if err != nil {
		logger.Fatalf("Failed to register commands: %v", err)
	}

	tokens := auth.NewTokens(cfg.JWTSecret)
	accounts := auth.NewService(db, tokens)

	var authMiddleware *middleware.AuthMiddleware
	if cfg.AuthRequired {
		authMiddleware = middleware.NewAuthMiddleware(tokens)
	}
	loggingMiddleware := middleware.NewLoggingMiddleware(logger)

	handler := api.NewHandler(registry, gateway, accounts, metrics.New(), logger, commandLogger, cfg.Limits)

	router, err := api.NewRouter(handler, api.RouterOptions{
		Logging:        loggingMiddleware,
		Auth:           authMiddleware,
		InvokeToken:    cfg.InvokeToken,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("Failed to build router: %v", err)
	}

	srv := newServer(cfg.Host, cfg.Port, router)

	go func() {
		logger.Printf("Server listening on http://%s", srv.Addr)
		logger.Println("Routes:")
		for _, route := range api.Routes {
			logger.Println("  " + route)
		}
		logger.Println("")
		logger.Printf("Commands: %v", registry.Names())
		logger.Printf("Upstream: %s (chat=%s, image=%s)", cfg.UpstreamURL, cfg.ChatModel, cfg.ImageModel)
		logger.Printf("Allowed origins: %v", cfg.AllowedOrigins)
		if cfg.AuthRequired {
			logger.Println("  Pet endpoints and /invoke require a Bearer token")
		}
		logger.Println("Press Ctrl+C to stop...")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("Server forced to shutdown: %v", err)
	}
	logger.Println("Server stopped gracefully")
}
