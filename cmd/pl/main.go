package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/prioritylivinglabs/priority-living-cli/pkg/backend"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/config"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/log"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/metrics"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/queue"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var dataDir string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pl",
	Short: "Priority Living CLI - local agent bridge and command center",
	Long: `Priority Living CLI runs cloud-managed agents on this machine.

It polls the Priority Living control plane for work, executes tasks as
bounded local subprocesses, and reports results back. Results produced
while offline are queued durably and replayed when connectivity returns.
A local web dashboard surfaces the live task feed and agent settings.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Priority Living CLI version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "",
		"Data directory (default ~/.priority-living)")
}

// loadConfig loads the config store and initializes logging for the
// invoked command.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, err
	}
	log.Init(log.Config{Level: cfg.LogLevel})
	metrics.SetVersion(Version)
	return cfg, nil
}

// openQueue opens the durable offline queue. Callers own the Close.
func openQueue(cfg *config.Config) (*queue.Queue, error) {
	store, err := queue.NewBoltStore(cfg.QueuePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open offline queue: %w", err)
	}
	return queue.New(store), nil
}

// newBridgeClient builds a client for operator commands, which
// authenticate with the bridge key.
func newBridgeClient(cfg *config.Config, q *queue.Queue) *backend.Client {
	return backend.NewClient(backend.Options{
		BackendURL:      cfg.BackendURL,
		AnonKey:         cfg.AnonKey,
		APIKey:          cfg.BridgeKey,
		ConnectionToken: cfg.ConnectionToken,
		UserAgent:       "priority-living-cli/" + Version,
	}, q)
}

// newWorkerClient builds a client for the agent worker, which
// authenticates every call with its connection token.
func newWorkerClient(cfg *config.Config, q *queue.Queue) *backend.Client {
	return backend.NewClient(backend.Options{
		BackendURL:      cfg.BackendURL,
		AnonKey:         cfg.AnonKey,
		APIKey:          cfg.ConnectionToken,
		ConnectionToken: cfg.ConnectionToken,
		UserAgent:       "priority-living-cli/" + Version,
	}, q)
}

func requireBridgeKey(cfg *config.Config) error {
	if cfg.BridgeKey == "" {
		return fmt.Errorf("bridge key required: run `pl config set bridge_key <key>`")
	}
	return nil
}

// shortID abbreviates an agent UUID the way the dashboard does.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return id
}
