package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dtroode/clusterdash-server/internal/admin"
	"github.com/dtroode/clusterdash-server/internal/api/http/authctx"
	"github.com/dtroode/clusterdash-server/internal/api/http/handler"
	"github.com/dtroode/clusterdash-server/internal/api/http/middleware"
	"github.com/dtroode/clusterdash-server/internal/api/http/router"
	"github.com/dtroode/clusterdash-server/internal/config"
	"github.com/dtroode/clusterdash-server/internal/logger"
	"github.com/dtroode/clusterdash-server/internal/model"
	"github.com/dtroode/clusterdash-server/internal/repository/postgres"
	"github.com/dtroode/clusterdash-server/internal/server"
	"github.com/dtroode/clusterdash-server/internal/service"
	storage "github.com/dtroode/clusterdash-server/internal/storage/minio"
	"github.com/dtroode/clusterdash-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	// Optional local overrides; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	credentialTokenRepo := postgres.NewCredentialTokenRepository(db)

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	ctxMgr := authctx.NewManager()

	sessionManager := service.NewSessionManager(sessionRepo, refreshTokenRepo, tokenManager, cfg.Auth.SessionTTL, logger)
	credentialService := service.NewCredential(userRepo, credentialTokenRepo, cfg.Auth.ResetTokenTTL, logger)

	adminClient := admin.NewClient(cfg.Admin.Endpoint, cfg.Admin.Token, cfg.Admin.Timeout)

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Region: cfg.Storage.Region,
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	browseClient := storage.NewClient(minioClient)

	authHandler := handler.NewAuth(sessionManager, credentialService, ctxMgr, cfg.HTTP.SecureCookies, logger)
	accountHandler := handler.NewAccount(credentialService, ctxMgr)
	clusterHandler := handler.NewCluster(adminClient, logger)
	browseHandler := handler.NewBrowse(browseClient, logger)
	authenticate := middleware.NewAuthenticate(tokenManager, ctxMgr, sessionManager, logger)

	r := router.New(authHandler, accountHandler, clusterHandler, browseHandler, authenticate, logger)
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
