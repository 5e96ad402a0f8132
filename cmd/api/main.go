package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/skillchain/skillchain-api/internal/config"
	"github.com/skillchain/skillchain-api/internal/database"
	"github.com/skillchain/skillchain-api/internal/handler"
	"github.com/skillchain/skillchain-api/internal/middleware"
	"github.com/skillchain/skillchain-api/internal/models"
	"github.com/skillchain/skillchain-api/internal/repository"
	"github.com/skillchain/skillchain-api/internal/router"
	"github.com/skillchain/skillchain-api/internal/service"
	"github.com/skillchain/skillchain-api/pkg/github"
	"github.com/skillchain/skillchain-api/pkg/ipfs"
	"github.com/skillchain/skillchain-api/pkg/ledger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Skill{},
		&models.Submission{},
		&models.Credential{},
		&models.UnlockLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, candidate search caching disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NatsURL != "" {
		natsConn, err = nats.Connect(cfg.NatsURL, nats.Name(cfg.AppName))
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, issuance events disabled")
			natsConn = nil
		} else {
			defer natsConn.Drain()
		}
	}

	githubClient := github.New(github.Config{
		BaseURL: cfg.GitHubAPIBase,
		Token:   cfg.GitHubToken,
		Timeout: cfg.GitHubTimeout,
	}, logger)

	pinner := ipfs.New(ipfs.Config{
		APIURL:     cfg.IPFSAPIURL,
		Token:      cfg.IPFSToken,
		GatewayURL: cfg.IPFSGatewayURL,
	}, logger)

	minter := ledger.New(ledger.Config{
		SignerURL:       cfg.LedgerSignerURL,
		ContractAddress: cfg.LedgerContractAddress,
		IssuerKey:       cfg.LedgerIssuerKey,
	}, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	credentialRepo := repository.NewCredentialRepository(db)
	unlockRepo := repository.NewUnlockRepository(db)

	events := service.NewCredentialEvents(natsConn, "", logger)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.EmployerInitialCredits, validate, logger)
	skillService := service.NewSkillService(skillRepo, validate, logger)
	signalService := service.NewSignalService(githubClient, logger)
	submissionService := service.NewSubmissionService(submissionRepo, skillRepo, signalService, validate, logger)
	adminService := service.NewAdminService(submissionRepo, credentialRepo, userRepo, skillRepo, pinner, minter, events, cfg.IssuerName, cfg.ApprovalMinScore, logger)
	employerService := service.NewEmployerService(credentialRepo, submissionRepo, userRepo, skillRepo, unlockRepo, redisClient, cfg.SearchCacheTTL, validate, logger)
	verifyService := service.NewVerifyService(credentialRepo, pinner, logger)
	credentialService := service.NewCredentialService(credentialRepo, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, logger),
		SkillHandler:      handler.NewSkillHandler(skillService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		CredentialHandler: handler.NewCredentialHandler(credentialService, logger),
		AdminHandler:      handler.NewAdminHandler(adminService, logger),
		EmployerHandler:   handler.NewEmployerHandler(employerService, logger),
		VerifyHandler:     handler.NewVerifyHandler(verifyService, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
