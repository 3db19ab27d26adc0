package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prioritylivinglabs/priority-living-cli/pkg/types"
)

// taskReport is the wire body for a task result.
type taskReport struct {
	TaskID string             `json:"task_id"`
	Status types.ResultStatus `json:"result_status"`
	Data   map[string]any     `json:"result_data"`
}

// PollTasks fetches pending tasks and operator messages for this
// agent. The connection token identifies the agent; polls are never
// queued for replay.
func (c *Client) PollTasks(ctx context.Context) (*types.PollResponse, Outcome) {
	body, outcome := c.send(ctx, EndpointTaskQueue, struct{}{}, http.MethodPost, headerConnectionToken, c.connectionToken)
	if outcome != Success {
		return nil, outcome
	}

	var poll types.PollResponse
	if err := json.Unmarshal(body, &poll); err != nil {
		c.logger.Error().Err(err).Msg("Failed to decode poll response")
		return nil, ServerError
	}
	return &poll, Success
}

// ReportResult delivers one task result through the resilient path, so
// a result produced while offline is queued and replayed later.
func (c *Client) ReportResult(ctx context.Context, taskID string, result *types.TaskResult) {
	report := taskReport{
		TaskID: taskID,
		Status: result.Status,
		Data:   result.Data,
	}
	c.Resilient(ctx, EndpointTaskResult, report, http.MethodPost)
}

// Control performs one sovereign-agent-control action and decodes the
// response into out (pass nil to discard the body).
func (c *Client) Control(ctx context.Context, action map[string]any, out any) error {
	body, outcome := c.Call(ctx, EndpointControl, action, http.MethodPost)
	if outcome != Success {
		return fmt.Errorf("control action %v failed: %s", action["action"], outcome)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode control response: %w", err)
	}
	return nil
}

// ListAgents returns the agents registered to this bridge.
func (c *Client) ListAgents(ctx context.Context) ([]*types.AgentInfo, error) {
	body, outcome := c.Call(ctx, EndpointBridgePoll, map[string]any{"action": "list_agents"}, http.MethodPost)
	if outcome != Success {
		return nil, fmt.Errorf("bridge poll failed: %s", outcome)
	}

	var resp struct {
		Agents []*types.AgentInfo `json:"agents"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode agent list: %w", err)
	}
	return resp.Agents, nil
}

// Probe announces this machine to the bridge and reports whether the
// control plane accepted the announcement. An answer that carries an
// error field counts as not connected.
func (c *Client) Probe(ctx context.Context, machineName string) bool {
	payload := map[string]any{
		"machine_name": machineName,
		"capabilities": []string{},
	}
	body, outcome := c.Call(ctx, EndpointBridgePoll, payload, http.MethodPost)
	if outcome != Success {
		return false
	}

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(body, &resp); err != nil {
		return false
	}
	_, failed := resp["error"]
	return !failed
}

// SpawnRequest asks the control plane to deploy an agent to this
// machine.
func (c *Client) SpawnRequest(ctx context.Context, agentID, platform string) error {
	payload := map[string]any{
		"agent_id":     agentID,
		"platform":     platform,
		"deploy_local": true,
	}
	body, outcome := c.Call(ctx, EndpointSpawnRequest, payload, http.MethodPost)
	if outcome != Success {
		return fmt.Errorf("spawn request failed: %s", outcome)
	}

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to decode spawn response: %w", err)
	}
	if !resp.Success && resp.Error != "" {
		return fmt.Errorf("spawn rejected: %s", resp.Error)
	}
	return nil
}

// LiveFeed returns the most recent activity feed items.
func (c *Client) LiveFeed(ctx context.Context, limit int) ([]*types.FeedItem, error) {
	var resp struct {
		Feed []*types.FeedItem `json:"feed"`
	}
	action := map[string]any{"action": "get_live_feed", "limit": limit}
	if err := c.Control(ctx, action, &resp); err != nil {
		return nil, err
	}
	return resp.Feed, nil
}

// AgentConfig returns the agent binding known to the control plane,
// or nil when none is bound.
func (c *Client) AgentConfig(ctx context.Context) (*types.AgentConfig, error) {
	var resp struct {
		Config *types.AgentConfig `json:"config"`
	}
	action := map[string]any{"action": "get_config", "agent_id": nil}
	if err := c.Control(ctx, action, &resp); err != nil {
		return nil, err
	}
	return resp.Config, nil
}

// QueueManualTask submits an operator-authored task and returns the
// control plane's response body.
func (c *Client) QueueManualTask(ctx context.Context, description, actionType string) (json.RawMessage, error) {
	action := map[string]any{
		"action":           "queue_manual_task",
		"task_description": description,
		"action_type":      actionType,
	}
	body, outcome := c.Call(ctx, EndpointControl, action, http.MethodPost)
	if outcome != Success {
		return nil, fmt.Errorf("queue_manual_task failed: %s", outcome)
	}
	return body, nil
}

// BindAgent updates an agent's local binding and returns the control
// plane's response body.
func (c *Client) BindAgent(ctx context.Context, agentID, autonomyMode string, localTools []string) (json.RawMessage, error) {
	if localTools == nil {
		localTools = []string{}
	}
	action := map[string]any{
		"action":        "bind_agent",
		"agent_id":      agentID,
		"autonomy_mode": autonomyMode,
		"local_tools":   localTools,
	}
	body, outcome := c.Call(ctx, EndpointControl, action, http.MethodPost)
	if outcome != Success {
		return nil, fmt.Errorf("bind_agent failed: %s", outcome)
	}
	return body, nil
}
