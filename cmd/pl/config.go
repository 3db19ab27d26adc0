package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prioritylivinglabs/priority-living-cli/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ %s updated\n", args[0])
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		value, err := cfg.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all configuration values (secrets abbreviated)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		for _, key := range config.Keys() {
			value, err := cfg.Get(key)
			if err != nil {
				return err
			}
			if isSecretKey(key) {
				value = abbreviate(value)
			}
			fmt.Printf("  %-18s %s\n", key, value)
		}
		return nil
	},
}

func isSecretKey(key string) bool {
	return strings.HasSuffix(key, "_key") || strings.HasSuffix(key, "_token")
}

func abbreviate(value string) string {
	if value == "" {
		return ""
	}
	if len(value) > 6 {
		value = value[:6]
	}
	return value + "..."
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)

	rootCmd.AddCommand(configCmd)
}
