package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/prioritylivinglabs/priority-living-cli/pkg/agent"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/config"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/executor"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/liveness"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Manage agents on this machine",
}

var agentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List agents bound to this bridge key",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := requireBridgeKey(cfg); err != nil {
			return err
		}

		q, err := openQueue(cfg)
		if err != nil {
			return err
		}
		defer q.Close()

		agents, err := newBridgeClient(cfg, q).ListAgents(cmd.Context())
		if err != nil {
			return fmt.Errorf("could not fetch agents: %w", err)
		}
		if len(agents) == 0 {
			fmt.Println("No agents bound to this bridge key.")
			return nil
		}

		registry := liveness.New(cfg.AgentsDir())
		for _, a := range agents {
			icon := "○"
			if a.Status == "active" {
				icon = "●"
			}
			local := ""
			if registry.IsRunning(a.ID) {
				local = " [running locally]"
			}
			name := a.Name
			if name == "" {
				name = "Unnamed"
			}
			fmt.Printf("  %s %s (%s) - %s%s\n", icon, name, a.Type, shortID(a.ID), local)
		}
		return nil
	},
}

var agentStartCmd = &cobra.Command{
	Use:   "start AGENT_ID",
	Short: "Run the worker loop for an agent in the foreground",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		interval, _ := cmd.Flags().GetInt("poll-interval")
		return runWorker(cmd, cfg, args[0], interval)
	},
}

var agentStopCmd = &cobra.Command{
	Use:   "stop AGENT_ID",
	Short: "Stop a locally running agent worker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		agentID := args[0]
		registry := liveness.New(cfg.AgentsDir())

		pid, err := registry.PID(agentID)
		if err != nil {
			fmt.Printf("Agent %s is not running.\n", shortID(agentID))
			return nil
		}
		if err := registry.Stop(agentID); err != nil {
			if errors.Is(err, liveness.ErrNotRunning) {
				fmt.Println("Agent process not found, cleaned up stale marker.")
				return nil
			}
			return fmt.Errorf("failed to stop agent: %w", err)
		}

		fmt.Printf("✓ Sent stop signal to agent %s (PID %d)\n", shortID(agentID), pid)
		return nil
	},
}

var agentDeployCmd = &cobra.Command{
	Use:   "deploy AGENT_ID",
	Short: "Register an agent for this machine and start its worker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := requireBridgeKey(cfg); err != nil {
			return err
		}

		agentID := args[0]
		platform, _ := cmd.Flags().GetString("platform")

		q, err := openQueue(cfg)
		if err != nil {
			return err
		}

		fmt.Printf("Deploying agent %s to %s\n", shortID(agentID), platform)
		if err := newBridgeClient(cfg, q).SpawnRequest(cmd.Context(), agentID, platform); err != nil {
			q.Close()
			return fmt.Errorf("deploy failed: %w", err)
		}
		fmt.Printf("✓ Agent registered for %s\n", platform)
		q.Close()

		if cfg.ConnectionToken == "" {
			fmt.Println("No connection_token configured. Set it to start local execution:")
			fmt.Println("  pl config set connection_token <token>")
			return nil
		}

		fmt.Println("Starting local worker...")
		return runWorker(cmd, cfg, agentID, 0)
	},
}

// runWorker runs the polling worker loop until the command context is
// cancelled. interval 0 means the configured poll interval.
func runWorker(cmd *cobra.Command, cfg *config.Config, agentID string, interval int) error {
	if cfg.ConnectionToken == "" {
		return fmt.Errorf("connection token required: run `pl config set connection_token <token>`")
	}
	if interval <= 0 {
		interval = cfg.PollInterval
	}

	q, err := openQueue(cfg)
	if err != nil {
		return err
	}
	defer q.Close()

	worker := agent.New(&agent.Config{
		AgentID:      agentID,
		PollInterval: time.Duration(interval) * time.Second,
		Client:       newWorkerClient(cfg, q),
		Executor:     executor.New().WithInterpreter(cfg.Interpreter),
		Registry:     liveness.New(cfg.AgentsDir()),
	})

	fmt.Printf("Agent worker started: %s\n", shortID(agentID))
	fmt.Printf("  PID: %d\n", os.Getpid())
	fmt.Printf("  Poll interval: %ds\n", interval)
	fmt.Println("  Press Ctrl+C to stop")

	if err := worker.Run(cmd.Context()); err != nil {
		if errors.Is(err, agent.ErrAlreadyRunning) {
			return fmt.Errorf("agent %s is already running on this machine", shortID(agentID))
		}
		return err
	}

	fmt.Printf("✓ Agent %s stopped\n", shortID(agentID))
	return nil
}

func init() {
	agentCmd.AddCommand(agentListCmd)
	agentCmd.AddCommand(agentStartCmd)
	agentCmd.AddCommand(agentStopCmd)
	agentCmd.AddCommand(agentDeployCmd)

	agentStartCmd.Flags().Int("poll-interval", 0, "Poll interval in seconds (default from config)")
	agentDeployCmd.Flags().String("platform", "", "Target platform label (required)")
	_ = agentDeployCmd.MarkFlagRequired("platform")

	rootCmd.AddCommand(agentCmd)
}
