package updater

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/prioritylivinglabs/priority-living-cli/pkg/log"
)

const (
	// checkTimeout bounds the version.json fetch.
	checkTimeout = 15 * time.Second

	// pullTimeout bounds `git pull origin main`.
	pullTimeout = 60 * time.Second

	// buildTimeout bounds the rebuild of the binary.
	buildTimeout = 120 * time.Second

	repoName       = "priority-living-cli"
	defaultRawHost = "https://raw.githubusercontent.com"
)

var (
	// ErrUpToDate reports that the running version is current. Check
	// still returns the remote release alongside it.
	ErrUpToDate = errors.New("already on the latest version")

	// ErrNoCheckout reports that no source checkout could be located
	// for an in-place update.
	ErrNoCheckout = errors.New("cannot locate source checkout")

	// ErrNotConfigured reports a missing github_repo_owner setting.
	ErrNotConfigured = errors.New("github_repo_owner not configured")
)

// Release describes a published version as found in version.json at
// the repository root.
type Release struct {
	Version string `json:"version"`
	Notes   string `json:"notes,omitempty"`
}

// Options configures an Updater.
type Options struct {
	// CurrentVersion is the running build's version. Unparseable
	// values (dev builds) compare as 0.0.0 so any release wins.
	CurrentVersion string

	// RepoOwner is the GitHub account hosting the CLI repository.
	RepoOwner string

	// RawHost overrides the raw content host. Empty means GitHub.
	RawHost string
}

// Updater checks GitHub for a newer release and updates the local
// source checkout in place.
type Updater struct {
	current *semver.Version
	owner   string
	rest    *resty.Client
	logger  zerolog.Logger
}

// New creates an Updater for the given build.
func New(opts Options) *Updater {
	host := opts.RawHost
	if host == "" {
		host = defaultRawHost
	}

	rest := resty.New().
		SetBaseURL(host).
		SetTimeout(checkTimeout).
		SetHeader("Accept", "application/json")

	return &Updater{
		current: parseVersion(opts.CurrentVersion),
		owner:   opts.RepoOwner,
		rest:    rest,
		logger:  log.WithComponent("updater"),
	}
}

// RestyClient exposes the HTTP client, mainly for tests.
func (u *Updater) RestyClient() *resty.Client {
	return u.rest
}

// CurrentVersion returns the version this updater compares against.
func (u *Updater) CurrentVersion() string {
	return u.current.String()
}

// Check fetches the published version.json and compares it with the
// running build. When the remote release is not newer, it returns the
// release together with ErrUpToDate.
func (u *Updater) Check(ctx context.Context) (*Release, error) {
	if u.owner == "" {
		return nil, ErrNotConfigured
	}

	path := fmt.Sprintf("/%s/%s/main/version.json", u.owner, repoName)
	resp, err := u.rest.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, fmt.Errorf("failed to check for updates: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("version.json not found at %s%s", u.rest.BaseURL, path)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to check for updates: HTTP %d", resp.StatusCode())
	}

	var release Release
	if err := json.Unmarshal(resp.Body(), &release); err != nil {
		return nil, fmt.Errorf("failed to decode version.json: %w", err)
	}

	remote := parseVersion(release.Version)
	u.logger.Debug().
		Str("current", u.current.String()).
		Str("remote", remote.String()).
		Msg("Version check")

	if !remote.GreaterThan(u.current) {
		return &release, ErrUpToDate
	}
	return &release, nil
}

// Apply pulls the latest main branch into the local checkout and
// rebuilds the running binary in place.
func (u *Updater) Apply(ctx context.Context) (string, error) {
	dir, err := locateCheckout()
	if err != nil {
		return "", err
	}

	u.logger.Info().Str("dir", dir).Msg("Updating checkout")

	pullCtx, cancel := context.WithTimeout(ctx, pullTimeout)
	defer cancel()
	out, err := runIn(pullCtx, dir, "git", "pull", "origin", "main")
	if err != nil {
		return dir, fmt.Errorf("git pull failed: %w", err)
	}
	u.logger.Info().Str("output", out).Msg("Pulled latest main")

	exe, err := os.Executable()
	if err != nil {
		return dir, fmt.Errorf("cannot resolve running binary: %w", err)
	}

	buildCtx, cancel := context.WithTimeout(ctx, buildTimeout)
	defer cancel()
	if _, err := runIn(buildCtx, dir, "go", "build", "-o", exe, "./cmd/pl"); err != nil {
		return dir, fmt.Errorf("rebuild failed: %w", err)
	}

	u.logger.Info().Str("binary", exe).Msg("Rebuilt binary")
	return dir, nil
}

// runIn runs one command in dir and returns its combined output.
func runIn(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%s timed out", name)
		}
		return "", fmt.Errorf("%s: %s", err, snippet(out))
	}
	return string(out), nil
}

func snippet(out []byte) string {
	const max = 300
	s := string(out)
	if len(s) > max {
		return s[:max]
	}
	return s
}

// parseVersion is tolerant: dev builds and garbage compare as 0.0.0.
func parseVersion(v string) *semver.Version {
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return semver.New(0, 0, 0, "", "")
	}
	return parsed
}
