package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prioritylivinglabs/priority-living-cli/pkg/dashboard"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/liveness"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/metrics"
)

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Serve the local command center dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.ListenAddr = fmt.Sprintf("127.0.0.1:%d", port)
		}

		q, err := openQueue(cfg)
		if err != nil {
			return err
		}
		defer q.Close()

		srv := dashboard.New(dashboard.Options{
			Config:    cfg,
			Client:    newBridgeClient(cfg, q),
			Version:   Version,
			Queue:     q,
			Collector: metrics.NewCollector(q, liveness.New(cfg.AgentsDir())),
		})

		fmt.Printf("Priority Living CLI v%s - Local Command Center\n", Version)
		fmt.Printf("  Dashboard: http://%s\n", cfg.ListenAddr)
		fmt.Printf("  Backend:   %s\n", cfg.BackendURL)
		fmt.Println("  Press Ctrl+C to stop")

		return srv.Run(cmd.Context())
	},
}

func init() {
	guiCmd.Flags().Int("port", 0, "Listen port (default from config)")

	rootCmd.AddCommand(guiCmd)
}
