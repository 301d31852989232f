// Command prism-node runs the DID indexer daemon: it follows the chain,
// classifies observed operations by the DID they affect, persists a
// cursor, and serves the resolution and submission HTTP APIs.
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/prism-network/prism-index/internal/chainfollower"
	"github.com/prism-network/prism-index/internal/prismindex"
	"github.com/prism-network/prism-index/internal/prismop"
	"github.com/prism-network/prism-index/internal/prismrepo"
	"github.com/prism-network/prism-index/internal/prismstate"
	"github.com/prism-network/prism-index/internal/store/postgres"
	"github.com/prism-network/prism-index/internal/submitter"
	"github.com/prism-network/prism-index/pkg/config"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	configureLogging(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := postgres.Open(ctx, cfg.Database.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("open database")
	}
	defer store.Close()

	param := prismop.ParametersV1()
	machine := prismstate.NewMachine(param)

	cursorSignal := chainfollower.NewCursorSignal()
	source, err := buildChainSource(ChainFollowerConfig{
		Identifier:          cfg.Network.Identifier,
		Source:              cfg.ChainFollower.Source,
		PollIntervalSeconds: cfg.ChainFollower.PollInterval,
	}, store, cursorSignal, nil, nil)
	if err != nil {
		logrus.WithError(err).Warn("chain follower disabled, serving resolution against already-ingested data only")
	} else {
		restartDelay := time.Duration(cfg.ChainFollower.RestartDelay) * time.Second
		if restartDelay <= 0 {
			restartDelay = 10 * time.Second
		}
		go runChainFollower(ctx, store, source, restartDelay)
		go func() {
			if err := chainfollower.RunCursorPersistWorker(ctx, cursorSignal, store); err != nil && ctx.Err() == nil {
				logrus.WithError(err).Error("cursor persist worker exited")
			}
		}()
	}

	go runIndexerTicker(ctx, store, param, time.Duration(cfg.Database.IndexerInterval)*time.Second)

	wallet := submitter.NewWalletSink(
		cfg.Submitter.WalletBaseURL,
		cfg.Submitter.WalletID,
		cfg.Submitter.WalletPassphrase,
		cfg.Submitter.PaymentAddress,
		time.Duration(cfg.Submitter.RequestTimeoutSec)*time.Second,
	)

	resolver := NewResolutionService(store, machine, param)
	submission := NewSubmissionService(wallet)

	addr := cfg.HTTP.ListenAddr
	if addr == "" {
		addr = ":8080"
	}
	srv := NewServer(addr, resolver, submission)

	go func() {
		<-ctx.Done()
		logrus.Info("shutting down")
	}()

	logrus.WithField("addr", addr).Info("listening")
	if err := srv.Start(); err != nil {
		logrus.WithError(err).Fatal("http server")
	}
}

func configureLogging(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

// runIndexerTicker runs the classification pass on a fixed interval,
// defaulting to 10s when unset or non-positive.
func runIndexerTicker(ctx context.Context, repo prismrepo.OperationRepository, param prismop.Parameters, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := prismindex.RunIndexerLoop(ctx, repo, param); err != nil {
				logrus.WithError(err).Error("indexer loop")
			}
		}
	}
}
