package main

import (
	"fmt"
	"log"

	"dealerops/internal/config"
	"dealerops/internal/email/noop"
	"dealerops/internal/email/ses"
	"dealerops/internal/handler"
	"dealerops/internal/port"
	"dealerops/internal/repository/postgres"
	"dealerops/internal/router"
	"dealerops/internal/service"
	s3storage "dealerops/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	dealerRepo := postgres.NewDealerRepo(db)
	userRepo := postgres.NewUserRepo(db)
	orderRepo := postgres.NewOrderRepo(db)
	invoiceRepo := postgres.NewInvoiceRepo(db)
	sequenceRepo := postgres.NewSequenceRepo(db, cfg.Billing.NumberPrefix)
	catalogRepo := postgres.NewServiceCatalogRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize email sender
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.ConsoleURL)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender(cfg.Email.ConsoleURL)
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, dealerRepo, cfg.JWT)
	billingSvc := service.NewBillingService(orderRepo, invoiceRepo, sequenceRepo, catalogRepo, userRepo, emailSender)
	invoiceSvc := service.NewInvoiceService(invoiceRepo)
	exportSvc := service.NewExportService(invoiceRepo, s3Client, &cfg.S3)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	billingH := handler.NewBillingHandler(billingSvc)
	invoiceH := handler.NewInvoiceHandler(invoiceSvc, exportSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, authH, billingH, invoiceH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
