package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/preetamfain2020-tech/BankingSimulation/internal/auth"
	"github.com/preetamfain2020-tech/BankingSimulation/internal/cache"
	"github.com/preetamfain2020-tech/BankingSimulation/internal/config"
	"github.com/preetamfain2020-tech/BankingSimulation/internal/handler"
	"github.com/preetamfain2020-tech/BankingSimulation/internal/ledger"
	"github.com/preetamfain2020-tech/BankingSimulation/internal/monitor"
	"github.com/preetamfain2020-tech/BankingSimulation/internal/notify"
	"github.com/preetamfain2020-tech/BankingSimulation/internal/repository"
)

func main() {
	configFile := flag.String("config", "", "path to bankd.yaml")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := repository.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := repository.InitSchema(db); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, 0)
	if err != nil {
		log.Fatalf("Failed to configure auth: %v", err)
	}

	reports, err := notify.NewReportWriter(cfg.Reports.Dir)
	if err != nil {
		log.Fatalf("Failed to prepare report directory: %v", err)
	}
	notifier := notify.NewNotifier(reports, notify.NewEmailSender(cfg.Mail))

	customerRepo := repository.NewCustomerRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	accountCache := cache.New(accountRepo)

	svc := ledger.NewService(ledger.Deps{
		Customers:      customerRepo,
		Accounts:       accountCache,
		AccountNumbers: accountRepo,
		Transactions:   transactionRepo,
		Transfers:      repository.NewUnitOfWork(db),
		Alerts:         notifier,
		Reports:        reports,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The monitor reads the store directly, never the cache.
	go func() {
		alertMonitor := monitor.New(accountRepo, notifier, cfg.Monitor.Interval(), cfg.Monitor.StartupDelay())
		if err := alertMonitor.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Alert monitor stopped: %v", err)
		}
	}()

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down...")
		cancel()
	}()

	router := handler.NewRouter(svc, tokens)
	log.Printf("bankd starting on port %d", cfg.HTTP.Port)
	if err := router.Run(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
