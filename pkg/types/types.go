package types

import (
	"encoding/json"
	"time"
)

// Task is a unit of work handed to an agent by the control plane.
type Task struct {
	ID          string      `json:"id"`
	ActionType  ActionKind  `json:"action_type"`
	ActionData  *ActionData `json:"action_data,omitempty"`
	Description string      `json:"action_description,omitempty"`
}

// ActionKind identifies how a task should be executed
type ActionKind string

const (
	ActionShell   ActionKind = "shell"
	ActionCommand ActionKind = "command"
	ActionExecute ActionKind = "execute"
	ActionScript  ActionKind = "script"
	ActionPython  ActionKind = "python"
)

// IsShell reports whether the kind maps to shell execution.
func (k ActionKind) IsShell() bool {
	return k == ActionShell || k == ActionCommand || k == ActionExecute
}

// IsScript reports whether the kind maps to interpreter execution.
func (k ActionKind) IsScript() bool {
	return k == ActionScript || k == ActionPython
}

// ActionData carries the execution parameters of a task. Unknown keys
// sent by the control plane are ignored.
type ActionData struct {
	Command string `json:"command,omitempty"`
	Script  string `json:"script,omitempty"`
	WorkDir string `json:"cwd,omitempty"`
}

// ResultStatus is the terminal state reported for a task
type ResultStatus string

const (
	ResultCompleted ResultStatus = "completed"
	ResultFailed    ResultStatus = "failed"
)

// TaskResult is what an agent reports back after handling a task. Data
// is shaped by the action kind: shell tasks carry exit_code and merged
// output, script tasks carry exit_code with separate stdout/stderr
// slices, acknowledgments carry a message.
type TaskResult struct {
	Status ResultStatus   `json:"result_status"`
	Data   map[string]any `json:"result_data"`
}

// NewCompletedResult builds a completed result with the given payload.
func NewCompletedResult(data map[string]any) *TaskResult {
	return &TaskResult{Status: ResultCompleted, Data: data}
}

// NewFailedResult builds a failed result with the given payload.
func NewFailedResult(data map[string]any) *TaskResult {
	return &TaskResult{Status: ResultFailed, Data: data}
}

// PollResponse is the body returned by the task queue endpoint.
type PollResponse struct {
	Tasks    []*Task    `json:"tasks"`
	Messages []*Message `json:"messages"`
}

// Message is an informational note from another agent. Messages are
// surfaced to the operator but never executed.
type Message struct {
	FromAgentID string `json:"from_agent_id"`
	Content     string `json:"content"`
}

// QueuedRequest is one deferred API call held in the offline queue
// until the control plane is reachable again.
type QueuedRequest struct {
	ID       string          `json:"id"`
	Endpoint string          `json:"endpoint"`
	Payload  json.RawMessage `json:"data,omitempty"`
	Method   string          `json:"method"`
	QueuedAt time.Time       `json:"queued_at"`
}

// AgentInfo describes an agent bound to a bridge key.
type AgentInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"agent_type"`
	Status string `json:"status"`
}

// AgentConfig is the cloud-side configuration of a bound agent.
type AgentConfig struct {
	AgentID       string           `json:"agent_id"`
	AutonomyMode  string           `json:"autonomy_mode"`
	LocalTools    []string         `json:"local_tools"`
	WorkspacePath string           `json:"workspace_path"`
	Deployment    *AgentDeployment `json:"agent_deployments,omitempty"`
}

// AgentDeployment is the deployment record nested in an AgentConfig.
type AgentDeployment struct {
	Name string `json:"name"`
}

// DisplayName is the deployment name when present, else a short
// prefix of the agent id.
func (c *AgentConfig) DisplayName() string {
	if c.Deployment != nil && c.Deployment.Name != "" {
		return c.Deployment.Name
	}
	if len(c.AgentID) > 8 {
		return c.AgentID[:8]
	}
	return c.AgentID
}

// FeedItem is one entry of the live task feed kept by the control
// plane. The agent only displays these; the authoritative history
// lives remotely.
type FeedItem struct {
	ID           string          `json:"id"`
	ActionType   string          `json:"action_type"`
	Description  string          `json:"action_description"`
	ResultStatus string          `json:"result_status"`
	ResultData   json.RawMessage `json:"result_data,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}
