package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prism-network/prism-index/internal/chainfollower"
	"github.com/prism-network/prism-index/internal/prismindex"
	"github.com/prism-network/prism-index/internal/prismrepo"
)

// errNoChainSourceWired is returned when the configured chain-follower
// source has no concrete backend wired in. The node-to-node mini-protocol
// client and the db-sync relational query are both deliberately out of
// scope for this repository (see internal/chainfollower's EventSource doc):
// production deployments provide a chainfollower.EventSourceFactory or
// chainfollower.PollingQuery of their own and pass it to buildChainSource.
var errNoChainSourceWired = fmt.Errorf("chain follower: no concrete source backend is wired into this build")

// buildChainSource constructs the configured BlockSource. dial and query
// are the deployment-specific backends for the n2n and polling sources
// respectively; either may be nil; errNoChainSourceWired is returned if
// the configured source has no backend.
func buildChainSource(
	cfg ChainFollowerConfig,
	cursors prismrepo.DltCursorRepository,
	signal *chainfollower.CursorSignal,
	dial chainfollower.EventSourceFactory,
	query chainfollower.PollingQuery,
) (prismindex.BlockSource, error) {
	network := parseNetworkIdentifier(cfg.Identifier)

	switch cfg.Source {
	case "n2n":
		if dial == nil {
			return nil, errNoChainSourceWired
		}
		return chainfollower.NewN2NSource(dial, cursors, network, signal), nil
	case "polling":
		if query == nil {
			return nil, errNoChainSourceWired
		}
		interval := time.Duration(cfg.PollIntervalSeconds) * time.Second
		return chainfollower.NewPollingSource(query, cursors, signal, interval), nil
	default:
		return nil, fmt.Errorf("chain follower: unknown source %q, want \"n2n\" or \"polling\"", cfg.Source)
	}
}

// ChainFollowerConfig is the subset of pkg/config.Config's chain_follower
// section buildChainSource needs, kept separate so this package's tests
// don't have to construct a full pkg/config.Config.
type ChainFollowerConfig struct {
	Identifier          string
	Source              string
	PollIntervalSeconds int
}

func parseNetworkIdentifier(s string) chainfollower.NetworkIdentifier {
	switch s {
	case "mainnet":
		return chainfollower.NetworkMainnet
	case "preprod":
		return chainfollower.NetworkPreprod
	default:
		return chainfollower.NetworkPreview
	}
}

// runChainFollower drains source into repo until ctx is cancelled,
// restarting the sync loop after a delay if it returns early (a closed
// source, typically). Consistent with spec's "persistent errors are
// logged and the loop continues rebuilding" policy for the follower tier.
func runChainFollower(ctx context.Context, repo prismrepo.OperationRepository, source prismindex.BlockSource, restartDelay time.Duration) {
	for {
		if ctx.Err() != nil {
			return
		}
		if err := prismindex.RunSyncLoop(ctx, repo, source); err != nil && ctx.Err() == nil {
			logrus.WithError(err).Error("chain follower sync loop exited, restarting")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(restartDelay):
		}
	}
}
