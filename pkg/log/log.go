package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the process-wide root logger. Packages derive child
// loggers from it at construction; before Init runs the zero value
// discards every event, so library code never has to guard its logs.
var Logger zerolog.Logger

// Config holds logging configuration.
type Config struct {
	// Level is the minimum severity, as zerolog spells it
	// ("debug", "info", "warn", "error"). Anything else, including
	// empty, means info.
	Level string

	// JSON emits one JSON object per line instead of the human
	// console format. Meant for log shipping.
	JSON bool

	// Output defaults to stderr, keeping logs out of command output
	// on stdout.
	Output io.Writer
}

// Init configures the root logger and the global severity floor.
func Init(cfg Config) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if !cfg.JSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}
	Logger = zerolog.New(out).With().Timestamp().Logger()
}

// WithComponent derives a logger tagged with the subsystem name
// ("agent", "queue", "executor", ...).
func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}

// WithAgentID derives a logger tagged with the worker's agent
// identity, so one machine running several agents stays readable.
func WithAgentID(agentID string) zerolog.Logger {
	return Logger.With().Str("agent_id", agentID).Logger()
}
