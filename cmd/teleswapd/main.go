package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/TeleportDAO/teleswapd/internal/config"
	"github.com/TeleportDAO/teleswapd/internal/core/application"
	"github.com/TeleportDAO/teleswapd/internal/infrastructure/btcaddr"
	"github.com/TeleportDAO/teleswapd/internal/infrastructure/btcwallet"
	"github.com/TeleportDAO/teleswapd/internal/infrastructure/db"
	"github.com/TeleportDAO/teleswapd/internal/infrastructure/esplora"
	"github.com/TeleportDAO/teleswapd/internal/infrastructure/evm"
	"github.com/TeleportDAO/teleswapd/internal/infrastructure/feeoracle"
	"github.com/TeleportDAO/teleswapd/internal/infrastructure/lockers"
	"github.com/TeleportDAO/teleswapd/internal/infrastructure/notifier"
	scheduler "github.com/TeleportDAO/teleswapd/internal/infrastructure/scheduler/gocron"
	"github.com/TeleportDAO/teleswapd/internal/interface/rest"
	log "github.com/sirupsen/logrus"
)

// nolint:all
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	log.SetLevel(log.Level(cfg.LogLevel))

	log.Info("starting teleswapd...")

	dbSvc, err := db.NewService(db.ServiceConfig{
		DbType:   "badger",
		DbConfig: []any{cfg.Datadir, log.New()},
	})
	if err != nil {
		log.WithError(err).Fatal("failed to open db")
	}

	evmClient, err := evm.NewClient(evm.Config{
		RpcURL:     cfg.EvmRPCURL,
		ChainId:    int64(cfg.DestinationChainId),
		PrivateKey: cfg.EvmPrivateKey,
		AmmFactory: cfg.AmmFactory,
		AmmRouter:  cfg.AmmRouter,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to evm rpc")
	}

	schedulerSvc := scheduler.NewScheduler()

	appSvc, err := application.NewService(
		cfg.LifecycleConfig(),
		dbSvc,
		schedulerSvc,
		feeoracle.NewService(cfg.FeeOracleURL),
		esplora.NewService(cfg.EsploraURL),
		btcwallet.NewService(cfg.WalletURL),
		evmClient,
		lockers.NewService(cfg.LockerRegistryURL),
		btcaddr.NewCodec(),
		notifier.NewService(),
	)
	if err != nil {
		log.WithError(err).Fatal(err)
	}

	if err := appSvc.ResumePolling(context.Background()); err != nil {
		log.WithError(err).Fatal("failed to resume polling")
	}
	schedulerSvc.Start()

	svc := rest.NewService(cfg.HTTPPort, appSvc)

	log.RegisterExitHandler(func() {
		svc.Stop()
		schedulerSvc.Stop()
		dbSvc.Close()
	})

	log.Info("starting service...")
	svc.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down service...")
	log.Exit(0)
}
