package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prioritylivinglabs/priority-living-cli/pkg/updater"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the CLI from its GitHub repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		u := updater.New(updater.Options{
			CurrentVersion: Version,
			RepoOwner:      cfg.GitHubRepoOwner,
		})

		fmt.Println("Checking for updates...")
		fmt.Printf("  Current version: v%s\n", Version)

		release, err := u.Check(cmd.Context())
		if errors.Is(err, updater.ErrNotConfigured) {
			return fmt.Errorf("github_repo_owner not configured: run `pl config set github_repo_owner <owner>`")
		}
		if errors.Is(err, updater.ErrUpToDate) {
			fmt.Printf("  Remote version:  v%s\n", release.Version)
			fmt.Println("✓ Already on the latest version.")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("  Remote version:  v%s\n", release.Version)
		fmt.Printf("Update available: v%s -> v%s\n", Version, release.Version)

		dir, err := u.Apply(cmd.Context())
		if errors.Is(err, updater.ErrNoCheckout) {
			return fmt.Errorf("%w: update manually with `git pull` and `go build ./cmd/pl` in your clone", err)
		}
		if err != nil {
			return err
		}

		fmt.Printf("✓ Updated to v%s (rebuilt from %s)\n", release.Version, dir)
		fmt.Println("  Run `pl --version` to verify.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
