package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prioritylivinglabs/priority-living-cli/pkg/queue"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/types"
)

const testBackendURL = "https://backend.test"

func newTestClient(t *testing.T) (*Client, *queue.Queue) {
	t.Helper()

	q := queue.New(queue.NewMemStore())
	c := NewClient(Options{
		BackendURL:      testBackendURL,
		AnonKey:         "anon-key",
		APIKey:          "api-key",
		ConnectionToken: "conn-token",
	}, q)

	httpmock.ActivateNonDefault(c.RestyClient().GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)

	return c, q
}

func TestCallOutcomes(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
		expected  Outcome
	}{
		{
			name:      "ok",
			responder: httpmock.NewStringResponder(200, `{"ok":true}`),
			expected:  Success,
		},
		{
			name:      "created",
			responder: httpmock.NewStringResponder(201, `{}`),
			expected:  Success,
		},
		{
			name:      "bad request",
			responder: httpmock.NewStringResponder(400, `{"error":"bad"}`),
			expected:  ClientError,
		},
		{
			name:      "not found",
			responder: httpmock.NewStringResponder(404, ``),
			expected:  ClientError,
		},
		{
			name:      "server error",
			responder: httpmock.NewStringResponder(500, `{"error":"boom"}`),
			expected:  ServerError,
		},
		{
			name:      "gateway down",
			responder: httpmock.NewStringResponder(503, ``),
			expected:  ServerError,
		},
		{
			name:      "unreachable",
			responder: httpmock.NewErrorResponder(errors.New("dial tcp: connection refused")),
			expected:  Connectivity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t)
			httpmock.RegisterResponder("POST", testBackendURL+"/functions/v1/bridge-poll", tt.responder)

			body, outcome := c.Call(context.Background(), EndpointBridgePoll, map[string]any{"action": "list_agents"}, http.MethodPost)
			assert.Equal(t, tt.expected, outcome)
			if tt.expected == Success {
				assert.NotNil(t, body)
			} else {
				assert.Nil(t, body)
			}
		})
	}
}

func TestCallSendsAuthHeaders(t *testing.T) {
	c, _ := newTestClient(t)

	var captured http.Header
	httpmock.RegisterResponder("POST", testBackendURL+"/functions/v1/bridge-poll",
		func(req *http.Request) (*http.Response, error) {
			captured = req.Header.Clone()
			return httpmock.NewStringResponse(200, `{}`), nil
		})

	_, outcome := c.Call(context.Background(), EndpointBridgePoll, map[string]any{"action": "list_agents"}, http.MethodPost)
	require.Equal(t, Success, outcome)

	assert.Equal(t, "anon-key", captured.Get("apikey"))
	assert.Equal(t, "Bearer anon-key", captured.Get("Authorization"))
	assert.Equal(t, "api-key", captured.Get("x-bridge-key"))
	assert.Equal(t, "application/json", captured.Get("Content-Type"))
	assert.Empty(t, captured.Get("x-connection-token"))
}

func TestPollTasks(t *testing.T) {
	c, _ := newTestClient(t)

	var captured http.Header
	httpmock.RegisterResponder("POST", testBackendURL+"/functions/v1/agent-task-queue",
		func(req *http.Request) (*http.Response, error) {
			captured = req.Header.Clone()
			return httpmock.NewStringResponse(200, `{
				"tasks": [
					{"id": "t-1", "action_type": "shell", "action_data": {"command": "uname -a"}, "action_description": "Check kernel"}
				],
				"messages": [
					{"from_agent_id": "overseer", "content": "hello"}
				]
			}`), nil
		})

	poll, outcome := c.PollTasks(context.Background())
	require.Equal(t, Success, outcome)
	require.NotNil(t, poll)

	require.Len(t, poll.Tasks, 1)
	assert.Equal(t, "t-1", poll.Tasks[0].ID)
	assert.Equal(t, types.ActionShell, poll.Tasks[0].ActionType)
	assert.Equal(t, "uname -a", poll.Tasks[0].ActionData.Command)
	require.Len(t, poll.Messages, 1)
	assert.Equal(t, "overseer", poll.Messages[0].FromAgentID)

	// Polls authenticate with the connection token, not the bridge key.
	assert.Equal(t, "conn-token", captured.Get("x-connection-token"))
	assert.Empty(t, captured.Get("x-bridge-key"))
}

func TestPollTasksMalformedBody(t *testing.T) {
	c, _ := newTestClient(t)
	httpmock.RegisterResponder("POST", testBackendURL+"/functions/v1/agent-task-queue",
		httpmock.NewStringResponder(200, `not json`))

	poll, outcome := c.PollTasks(context.Background())
	assert.Nil(t, poll)
	assert.Equal(t, ServerError, outcome)
}

func TestResilientQueuesTransientFailures(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
		queued    bool
	}{
		{
			name:      "connectivity failure queues",
			responder: httpmock.NewErrorResponder(errors.New("dial tcp: connection refused")),
			queued:    true,
		},
		{
			name:      "server error queues",
			responder: httpmock.NewStringResponder(502, ``),
			queued:    true,
		},
		{
			name:      "client error drops",
			responder: httpmock.NewStringResponder(422, `{"error":"unknown task"}`),
			queued:    false,
		},
		{
			name:      "success leaves queue empty",
			responder: httpmock.NewStringResponder(200, `{}`),
			queued:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, q := newTestClient(t)
			httpmock.RegisterResponder("POST", testBackendURL+"/functions/v1/agent-task-result", tt.responder)

			c.Resilient(context.Background(), EndpointTaskResult, map[string]any{"task_id": "t-1"}, http.MethodPost)

			entries, err := q.Entries()
			require.NoError(t, err)
			if tt.queued {
				require.Len(t, entries, 1)
				assert.Equal(t, EndpointTaskResult, entries[0].Endpoint)
				assert.Equal(t, http.MethodPost, entries[0].Method)
				assert.JSONEq(t, `{"task_id":"t-1"}`, string(entries[0].Payload))
			} else {
				assert.Empty(t, entries)
			}
		})
	}
}

func TestResilientWithoutPayloadNeverQueues(t *testing.T) {
	c, q := newTestClient(t)
	httpmock.RegisterResponder("POST", testBackendURL+"/functions/v1/bridge-poll",
		httpmock.NewErrorResponder(errors.New("dial tcp: connection refused")))

	body := c.Resilient(context.Background(), EndpointBridgePoll, nil, http.MethodPost)
	assert.Nil(t, body)

	entries, err := q.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReportResultBody(t *testing.T) {
	c, _ := newTestClient(t)

	var captured []byte
	httpmock.RegisterResponder("POST", testBackendURL+"/functions/v1/agent-task-result",
		func(req *http.Request) (*http.Response, error) {
			body, err := io.ReadAll(req.Body)
			if err != nil {
				return nil, err
			}
			captured = body
			return httpmock.NewStringResponse(200, `{}`), nil
		})

	result := types.NewCompletedResult(map[string]any{"exit_code": 0, "output": "ok\n"})
	c.ReportResult(context.Background(), "t-42", result)

	assert.JSONEq(t, `{
		"task_id": "t-42",
		"result_status": "completed",
		"result_data": {"exit_code": 0, "output": "ok\n"}
	}`, string(captured))
}

func TestReportResultQueuedWhenOffline(t *testing.T) {
	c, q := newTestClient(t)
	httpmock.RegisterResponder("POST", testBackendURL+"/functions/v1/agent-task-result",
		httpmock.NewErrorResponder(errors.New("dial tcp: connection refused")))

	c.ReportResult(context.Background(), "t-7", types.NewFailedResult(map[string]any{"error": "boom"}))

	entries, err := q.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, EndpointTaskResult, entries[0].Endpoint)

	var report map[string]any
	require.NoError(t, json.Unmarshal(entries[0].Payload, &report))
	assert.Equal(t, "t-7", report["task_id"])
	assert.Equal(t, "failed", report["result_status"])
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
		connected bool
	}{
		{
			name:      "accepted",
			responder: httpmock.NewStringResponder(200, `{"success": true}`),
			connected: true,
		},
		{
			name:      "error in body",
			responder: httpmock.NewStringResponder(200, `{"error": "unknown bridge"}`),
			connected: false,
		},
		{
			name:      "unreachable",
			responder: httpmock.NewErrorResponder(errors.New("dial tcp: connection refused")),
			connected: false,
		},
		{
			name:      "server error",
			responder: httpmock.NewStringResponder(500, `{}`),
			connected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t)
			httpmock.RegisterResponder("POST", testBackendURL+"/functions/v1/bridge-poll", tt.responder)

			assert.Equal(t, tt.connected, c.Probe(context.Background(), "workstation"))
		})
	}
}

func TestListAgents(t *testing.T) {
	c, _ := newTestClient(t)
	httpmock.RegisterResponder("POST", testBackendURL+"/functions/v1/bridge-poll",
		httpmock.NewStringResponder(200, `{
			"agents": [
				{"id": "a-1", "name": "atlas", "agent_type": "ops", "status": "active"},
				{"id": "a-2", "name": "hermes", "agent_type": "comms", "status": "idle"}
			]
		}`))

	agents, err := c.ListAgents(context.Background())
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, "atlas", agents[0].Name)
	assert.Equal(t, "idle", agents[1].Status)
}

func TestSpawnRequestRejected(t *testing.T) {
	c, _ := newTestClient(t)
	httpmock.RegisterResponder("POST", testBackendURL+"/functions/v1/agent-spawn-request",
		httpmock.NewStringResponder(200, `{"success": false, "error": "agent already deployed"}`))

	err := c.SpawnRequest(context.Background(), "a-1", "linux")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent already deployed")
}

