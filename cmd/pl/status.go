package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prioritylivinglabs/priority-living-cli/pkg/liveness"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend connectivity and queue state",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		q, err := openQueue(cfg)
		if err != nil {
			return err
		}
		defer q.Close()

		backendState := "no bridge key"
		if cfg.BridgeKey != "" {
			host, _ := os.Hostname()
			if newBridgeClient(cfg, q).Probe(cmd.Context(), host) {
				backendState = "connected"
			} else {
				backendState = "unreachable"
			}
		}

		depth, err := q.Len()
		if err != nil {
			return fmt.Errorf("failed to read queue: %w", err)
		}
		running, _ := liveness.New(cfg.AgentsDir()).Running()

		fmt.Printf("  Backend:  %s (%s)\n", cfg.BackendURL, backendState)
		fmt.Printf("  Queue:    %d pending request(s)\n", depth)
		fmt.Printf("  Agents:   %d running locally\n", len(running))
		fmt.Printf("  Version:  %s\n", Version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
