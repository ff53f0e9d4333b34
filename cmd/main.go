package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	applicant_routes "enrollment-backend/applicants/routes"
	applicants_services "enrollment-backend/applicants/services"
	"enrollment-backend/config"
	document_routes "enrollment-backend/documents/routes"
	document_services "enrollment-backend/documents/services"
	"enrollment-backend/middleware"
	"enrollment-backend/remote"
	"enrollment-backend/tables"
	"enrollment-backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultPort      = "8080"
	defaultBodyLimit = 50 * 1024 * 1024
	localStoreRoot   = "/"
	remoteStoreRoot  = "."
)

// openStore returns the dialer and document root for one endpoint.
func openStore(endpoint config.RemoteEndpoint) (remote.Dialer, string, error) {
	dialer, err := remote.NewSFTPDialer(endpoint)
	if err != nil {
		return nil, "", err
	}
	root := endpoint.Root
	if root == "" {
		root = remoteStoreRoot
	}
	return dialer, root, nil
}

func main() {
	// Load environment variables first so .env can configure the logger
	envErr := config.LoadEnv()

	// Initialize Zap logger
	config.InitLogger()
	defer config.Logger.Sync()

	if envErr != nil {
		config.Logger.Warn("No .env file loaded, using process environment", zap.Error(envErr))
	}

	storage := config.LoadStorageConfig()

	// Primary store: the remote host when configured, otherwise the local data directory
	var (
		dialer remote.Dialer
		root   string
	)
	if storage.UsesRemote() {
		var err error
		dialer, root, err = openStore(storage.Remote)
		if err != nil {
			config.Logger.Fatal("Cannot configure remote store", zap.Error(err))
		}
		config.Logger.Info("Using remote store", zap.String("address", storage.Remote.Address()), zap.String("root", root))
	} else {
		if err := os.MkdirAll(storage.LocalDataDir, os.ModePerm); err != nil {
			config.Logger.Fatal("Cannot create local data directory", zap.String("dir", storage.LocalDataDir), zap.Error(err))
		}
		dialer = remote.NewLocalDialer(storage.LocalDataDir)
		root = localStoreRoot
		config.Logger.Warn("REMOTE_HOST not set, using local data directory", zap.String("dir", storage.LocalDataDir))
	}

	ledger := tables.NewLedgerRepository(tables.NewStore(dialer), tables.DefaultPaths(root))
	placer := document_services.NewPlacer(dialer, root, false)

	// Mirror host for final submissions
	var mirror *applicants_services.MirrorTarget
	if storage.Mirror.Configured() {
		mirrorDialer, mirrorRoot, err := openStore(storage.Mirror)
		if err != nil {
			config.Logger.Fatal("Cannot configure mirror store", zap.Error(err))
		}
		mirror = &applicants_services.MirrorTarget{
			Placer: document_services.NewPlacer(mirrorDialer, mirrorRoot, true),
			Ledger: tables.NewLedgerRepository(tables.NewStore(mirrorDialer), tables.DefaultPaths(mirrorRoot)),
		}
	} else if storage.MirrorToRemote {
		config.Logger.Warn("MIRROR_TO_REMOTE is on but no mirror host is configured")
	}

	// Initialize the mailer
	mailConfig := config.LoadMailConfig()
	utils.InitializeMailer(mailConfig)

	submissionConfig := applicants_services.SubmissionConfig{
		Ledger:        ledger,
		Placer:        placer,
		Mirror:        mirror,
		MirrorEnabled: storage.MirrorToRemote,
	}
	var auditNotifier applicants_services.OperatorNotifier
	if mailConfig.Configured() {
		notifier := utils.NewMailNotifier(mailConfig)
		submissionConfig.Notifier = notifier
		auditNotifier = notifier
	} else {
		config.Logger.Warn("SMTP_HOST or NOTIFICATION_EMAIL not set, operator notifications are disabled")
	}

	submissionService := applicants_services.NewSubmissionService(submissionConfig)
	auditService := applicants_services.NewAuditService(ledger, auditNotifier)

	app := fiber.New(fiber.Config{
		BodyLimit: config.GetEnvInt("BODY_LIMIT", defaultBodyLimit),
	})

	// Apply CORS middleware from middleware package
	middleware.InitCors(app)
	app.Use(middleware.RequestContext())

	appCtx := &middleware.AppContext{OperatorKey: config.GetEnv("OPERATOR_API_KEY")}
	if appCtx.OperatorKey == "" {
		config.Logger.Warn("OPERATOR_API_KEY not set, operator endpoints are unprotected")
	}

	// Routes
	applicant_routes.ApplicantInitRoutes(app, appCtx, submissionService, auditService)
	document_routes.DocumentRouterInit(app, appCtx, ledger, placer)

	// Background ledger audit
	scheduler, err := utils.RunScheduledLedgerAudit(
		config.GetEnvDefault("AUDIT_SCHEDULE", utils.DefaultAuditSchedule),
		auditService.RunAndReport,
		func(err error) {
			if auditNotifier != nil {
				if notifyErr := auditNotifier.NotifyOperator("LEDGER AUDIT FAILED", err.Error()); notifyErr != nil {
					config.Logger.Error("Failed to send audit failure notice", zap.Error(notifyErr))
				}
			}
		},
	)
	if err != nil {
		config.Logger.Fatal("Cannot schedule ledger audit", zap.Error(err))
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		config.Logger.Info("Shutting down")
		<-scheduler.Stop().Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			config.Logger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	// Start the application
	port := config.GetEnvDefault("PORT", defaultPort)
	config.Logger.Info("Server starting", zap.String("port", port), zap.Bool("mirror_to_remote", storage.MirrorToRemote))
	if err := app.Listen(":" + port); err != nil {
		config.Logger.Fatal("Server failed", zap.String("port", port), zap.Error(err))
	}
}
