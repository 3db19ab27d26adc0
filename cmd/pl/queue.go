package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect and replay the offline request queue",
}

var queueStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show queued requests awaiting replay",
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

		entries, err := q.Entries()
		if err != nil {
			return fmt.Errorf("failed to read queue: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("Queue is empty.")
			return nil
		}

		fmt.Printf("%d queued request(s):\n", len(entries))
		for i, e := range entries {
			fmt.Printf("  %d. %s %s (%d bytes, queued %s)\n",
				i+1, e.Method, e.Endpoint, len(e.Payload),
				e.QueuedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var queueDrainCmd = &cobra.Command{
	Use:   "drain",
	Short: "Replay queued requests against the backend now",
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

		drained, err := newBridgeClient(cfg, q).DrainQueue(cmd.Context())
		if err != nil {
			return fmt.Errorf("drain failed: %w", err)
		}

		remaining, _ := q.Len()
		fmt.Printf("✓ Resolved %d queued request(s), %d remaining\n", drained, remaining)
		return nil
	},
}

func init() {
	queueCmd.AddCommand(queueStatusCmd)
	queueCmd.AddCommand(queueDrainCmd)

	rootCmd.AddCommand(queueCmd)
}
