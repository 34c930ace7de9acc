package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wishlist_webhook/internal/config"
	"wishlist_webhook/internal/handler"
	"wishlist_webhook/internal/repository"
	"wishlist_webhook/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-pkgz/lgr"
)

func main() {
	// Load .env file
	config.LoadEnvFile()

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		lgr.Fatalf("failed to load config: %v", err)
	}
	if cfg.Debug {
		lgr.Setup(lgr.Debug, lgr.CallerFunc)
	}
	gin.SetMode(cfg.GinMode)

	// --- Storage ---
	fileStore := repository.NewFileStore(repository.FilePaths{
		Messages: cfg.MessagesFile,
		Users:    cfg.UsersFile,
		Menu:     cfg.MenuFile,
	}, nil)

	opts := repository.SelectorOptions{
		ManagedURL:   cfg.ManagedURL,
		ManagedKey:   cfg.ManagedKey,
		ProbeTimeout: cfg.ProbeTimeout,
		Connect: func(ctx context.Context) (repository.DB, error) {
			return config.ConnectManaged(ctx, cfg.ManagedURL, cfg.ManagedKey)
		},
		Fallback: fileStore,
	}
	if cfg.AutoMigrate {
		opts.Migrate = func(ctx context.Context, db repository.DB) error {
			return config.EnsureSchema(ctx, db)
		}
	}

	sel := repository.SelectBackend(context.Background(), opts)
	defer sel.Close()
	lgr.Printf("[INFO] storage backend: %s", sel.Backend.DisplayName())
	if cfg.VerifyToken == config.DefaultVerifyToken {
		lgr.Printf("[WARN] WHATSAPP_VERIFY_TOKEN not set, using the default token")
	}

	// --- Services ---
	webhookService := service.NewWebhookService(sel.Store, cfg.VerifyToken)
	userService := service.NewUserService(sel.Store)
	menuService := service.NewMenuService(sel.Store)

	// --- Router ---
	router := handler.NewRouter(handler.Handlers{
		Webhook: handler.NewWebhookHandler(webhookService),
		User:    handler.NewUserHandler(userService),
		Menu:    handler.NewMenuHandler(menuService),
		Health:  handler.NewHealthHandler(sel, cfg.ManagedURL, cfg.ManagedKey),
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		lgr.Printf("[INFO] server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lgr.Fatalf("listen: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	lgr.Printf("[INFO] shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lgr.Printf("[ERROR] server forced to shutdown: %v", err)
	}

	lgr.Printf("[INFO] server exiting")
}
