package liveness

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/prioritylivinglabs/priority-living-cli/pkg/log"
)

// ErrNotRunning is returned when an operation targets an identity
// without a live worker.
var ErrNotRunning = errors.New("agent is not running")

// Registry tracks which agent identities have a live worker process.
// One marker file per identity holds the worker's pid; a marker is
// only believed if that pid still refers to a live process.
type Registry struct {
	dir    string
	logger zerolog.Logger
}

// New creates a registry over the given marker directory.
func New(dir string) *Registry {
	return &Registry{
		dir:    dir,
		logger: log.WithComponent("liveness"),
	}
}

func (r *Registry) markerPath(agentID string) string {
	return filepath.Join(r.dir, agentID+".pid")
}

// Register records the current process as the live worker for an
// identity.
func (r *Registry) Register(agentID string) error {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("failed to create marker directory: %w", err)
	}

	pid := os.Getpid()
	if err := os.WriteFile(r.markerPath(agentID), []byte(strconv.Itoa(pid)), 0644); err != nil {
		return fmt.Errorf("failed to write liveness marker: %w", err)
	}

	r.logger.Debug().Str("agent_id", agentID).Int("pid", pid).Msg("Registered liveness marker")
	return nil
}

// Unregister removes the identity's marker. A missing marker is not
// an error.
func (r *Registry) Unregister(agentID string) error {
	err := os.Remove(r.markerPath(agentID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove liveness marker: %w", err)
	}
	return nil
}

// PID returns the recorded worker pid for an identity.
func (r *Registry) PID(agentID string) (int, error) {
	data, err := os.ReadFile(r.markerPath(agentID))
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("corrupt liveness marker for %s: %w", agentID, err)
	}
	return pid, nil
}

// IsRunning reports whether the identity has a live worker. Markers
// whose process is gone, and markers that cannot be parsed, are
// removed as a side effect so a crashed worker never blocks a
// restart.
func (r *Registry) IsRunning(agentID string) bool {
	pid, err := r.PID(agentID)
	if err != nil {
		if !os.IsNotExist(err) {
			r.removeStale(agentID)
		}
		return false
	}
	if !processAlive(pid) {
		r.removeStale(agentID)
		return false
	}
	return true
}

// Running returns the identities with a live worker, sorted. Stale
// markers found along the way are cleaned up.
func (r *Registry) Running() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read marker directory: %w", err)
	}

	var running []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".pid") {
			continue
		}
		agentID := strings.TrimSuffix(name, ".pid")
		if r.IsRunning(agentID) {
			running = append(running, agentID)
		}
	}
	sort.Strings(running)
	return running, nil
}

// Stop delivers SIGTERM to the identity's worker. The worker removes
// its own marker on the way out; Stop removes it as well in case the
// process is beyond cleaning up after itself.
func (r *Registry) Stop(agentID string) error {
	pid, err := r.PID(agentID)
	if err != nil {
		return ErrNotRunning
	}
	if !processAlive(pid) {
		r.removeStale(agentID)
		return ErrNotRunning
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return ErrNotRunning
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to signal pid %d: %w", pid, err)
	}

	r.logger.Info().Str("agent_id", agentID).Int("pid", pid).Msg("Sent stop signal to agent")
	return r.Unregister(agentID)
}

func (r *Registry) removeStale(agentID string) {
	if err := os.Remove(r.markerPath(agentID)); err == nil {
		r.logger.Debug().Str("agent_id", agentID).Msg("Removed stale liveness marker")
	}
}

// processAlive probes a pid with the null signal.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
