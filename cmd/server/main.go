package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/marco0antonio0/back-makeapi/internal/config"
	"github.com/marco0antonio0/back-makeapi/internal/firebase"
	"github.com/marco0antonio0/back-makeapi/internal/handlers"
	"github.com/marco0antonio0/back-makeapi/internal/logger"
	"github.com/marco0antonio0/back-makeapi/internal/services"
	"github.com/marco0antonio0/back-makeapi/internal/storage"
	"github.com/marco0antonio0/back-makeapi/internal/store"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	fsClient, err := firebase.Client(ctx, firebase.Config{
		ProjectID:       cfg.Firebase.ProjectID,
		CredentialsFile: cfg.Firebase.CredentialsFile,
	})
	if err != nil {
		logger.Error("failed to connect to firestore", "error", err)
		os.Exit(1)
	}
	defer fsClient.Close()

	storageClient, err := storage.NewClient(storage.Config{
		Endpoint:        cfg.Storage.Endpoint,
		AccessKeyID:     cfg.Storage.AccessKey,
		SecretAccessKey: cfg.Storage.SecretKey,
		Bucket:          cfg.Storage.Bucket,
		UseSSL:          cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Error("failed to create storage client", "error", err)
		os.Exit(1)
	}
	if !storageClient.Enabled() {
		logger.Warn("object storage not configured, uploads disabled")
	}

	if cfg.JWT.Secret == "" {
		logger.Error("MAKEAPI_JWT_SECRET is required")
		os.Exit(1)
	}

	db := store.New(fsClient)
	endpointService := services.NewEndpointService(store.NewEndpointRepo(db))
	itemService := services.NewItemService(store.NewItemRepo(db))
	authService := services.NewAuthService(store.NewUserRepo(db), cfg.JWT.Secret)

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(handlers.Deps{
		Endpoints:  endpointService,
		Items:      itemService,
		Auth:       authService,
		Storage:    storageClient,
		CORSOrigin: cfg.CORSOrigin,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	logger.Info("server stopped")
}
