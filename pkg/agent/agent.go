package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/prioritylivinglabs/priority-living-cli/pkg/backend"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/executor"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/liveness"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/log"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/metrics"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/types"
)

const (
	// DefaultPollInterval is the sleep between poll cycles.
	DefaultPollInterval = 5 * time.Second

	// BackoffCeiling caps the sleep after consecutive connectivity
	// failures.
	BackoffCeiling = 60 * time.Second

	// recoveryPause follows an unexpected cycle failure.
	recoveryPause = 5 * time.Second
)

// ErrAlreadyRunning means another live worker owns this identity.
var ErrAlreadyRunning = errors.New("an agent with this identity is already running")

// TaskExecutor runs one task to a result.
type TaskExecutor interface {
	Execute(ctx context.Context, task *types.Task) *types.TaskResult
}

// Config wires an Agent.
type Config struct {
	// AgentID is the identity this worker serves.
	AgentID string

	// PollInterval is the base sleep between cycles (default 5s).
	PollInterval time.Duration

	// Client talks to the control plane; it must be constructed with
	// this agent's connection token and an offline queue.
	Client *backend.Client

	// Executor runs tasks (default: executor.New()).
	Executor TaskExecutor

	// Registry enforces one worker per identity. Optional; without it
	// duplicate workers are not detected.
	Registry *liveness.Registry
}

// Agent is the long-running worker for one identity: it drains the
// offline queue, polls for tasks, executes them sequentially and
// reports every result.
type Agent struct {
	agentID      string
	pollInterval time.Duration
	client       *backend.Client
	executor     TaskExecutor
	registry     *liveness.Registry
	logger       zerolog.Logger

	// failures counts consecutive connectivity-failed polls.
	failures int
}

// New creates an agent from cfg, filling defaults.
func New(cfg *Config) *Agent {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	exec := cfg.Executor
	if exec == nil {
		exec = executor.New()
	}
	return &Agent{
		agentID:      cfg.AgentID,
		pollInterval: interval,
		client:       cfg.Client,
		executor:     exec,
		registry:     cfg.Registry,
		logger:       log.WithAgentID(cfg.AgentID),
	}
}

// Run drives the worker loop until ctx is cancelled. Nothing else
// terminates the loop: poll failures back off, unexpected failures
// are recovered and logged, task failures become reported results.
func (a *Agent) Run(ctx context.Context) error {
	if a.registry != nil {
		if a.registry.IsRunning(a.agentID) {
			return ErrAlreadyRunning
		}
		if err := a.registry.Register(a.agentID); err != nil {
			return fmt.Errorf("failed to register liveness marker: %w", err)
		}
		defer func() {
			if err := a.registry.Unregister(a.agentID); err != nil {
				a.logger.Error().Err(err).Msg("Failed to remove liveness marker")
			}
		}()
	}

	a.logger.Info().Dur("poll_interval", a.pollInterval).Msg("Agent started")
	defer a.logger.Info().Msg("Agent stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		delay := a.cycle(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
	}
}

// cycle runs one drain/poll/execute pass and returns the sleep before
// the next one. Panics are contained here so a single bad cycle can
// never take the loop down.
func (a *Agent) cycle(ctx context.Context) (delay time.Duration) {
	delay = a.pollInterval
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error().Interface("panic", r).Msg("Unexpected worker failure, resuming")
			delay = recoveryPause
		}
	}()

	if _, err := a.client.DrainQueue(ctx); err != nil {
		a.logger.Error().Err(err).Msg("Queue drain failed")
	}

	metrics.PollCycles.Inc()
	poll, outcome := a.client.PollTasks(ctx)
	switch outcome {
	case backend.Success:
		if a.failures > 0 {
			a.logger.Info().Int("after_failures", a.failures).Msg("Connectivity restored")
		}
		a.failures = 0
		metrics.ConsecutivePollFailures.Set(0)
	case backend.Connectivity:
		a.failures++
		metrics.PollFailures.Inc()
		metrics.ConsecutivePollFailures.Set(float64(a.failures))
		delay = a.backoff()
		a.logger.Warn().
			Int("consecutive_failures", a.failures).
			Dur("backoff", delay).
			Msg("Backend unreachable, backing off")
		return delay
	default:
		// The backend answered but rejected the poll; there is no
		// connectivity problem to back off from.
		metrics.PollFailures.Inc()
		a.logger.Warn().Str("outcome", string(outcome)).Msg("Poll rejected by backend")
		return delay
	}

	for _, msg := range poll.Messages {
		a.logger.Info().
			Str("from_agent_id", msg.FromAgentID).
			Str("content", msg.Content).
			Msg("Message received")
	}

	// Tasks run one at a time in poll order. A stop request does not
	// interrupt a running task or its report; the executor's own
	// timeout bounds how long that can take.
	taskCtx := context.WithoutCancel(ctx)
	for _, task := range poll.Tasks {
		result := a.executor.Execute(taskCtx, task)
		a.client.ReportResult(taskCtx, task.ID, result)
	}

	return delay
}

// backoff grows linearly with consecutive failures up to the ceiling.
func (a *Agent) backoff() time.Duration {
	delay := time.Duration(a.failures) * a.pollInterval
	if delay > BackoffCeiling {
		return BackoffCeiling
	}
	return delay
}
