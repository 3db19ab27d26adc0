package dashboard

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prioritylivinglabs/priority-living-cli/pkg/metrics"
	"github.com/prioritylivinglabs/priority-living-cli/pkg/types"
)

func (s *Server) cloudContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), cloudTimeout)
}

func (s *Server) health(c *gin.Context) {
	h := metrics.GetHealth()
	c.JSON(http.StatusOK, gin.H{
		"status":     h.Status,
		"version":    s.version,
		"uptime":     h.Uptime,
		"components": h.Components,
	})
}

func (s *Server) status(c *gin.Context) {
	host, _ := os.Hostname()

	connected := false
	if s.cfg.BridgeKey != "" {
		ctx, cancel := s.cloudContext(c)
		defer cancel()
		connected = s.client.Probe(ctx, host)
	}

	resp := gin.H{
		"connected":    connected,
		"bridge_key":   maskKey(s.cfg.BridgeKey),
		"cli_version":  s.version,
		"machine_name": host,
		"queue_depth":  s.queueDepth(),
	}
	for k, v := range hardwareInfo(s.cfg.ModelsDir()) {
		resp[k] = v
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) queueDepth() int {
	if s.queue == nil {
		return 0
	}
	depth, err := s.queue.Len()
	if err != nil {
		return 0
	}
	return depth
}

// queuePreview lists the offline queue without touching it; replay
// stays with the worker loop and `pl queue drain`.
func (s *Server) queuePreview(c *gin.Context) {
	requests := []gin.H{}
	if s.queue != nil {
		entries, err := s.queue.Entries()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read queue"})
			return
		}
		for _, e := range entries {
			requests = append(requests, gin.H{
				"id":        e.ID,
				"endpoint":  e.Endpoint,
				"method":    e.Method,
				"queued_at": e.QueuedAt,
				"age_sec":   int(time.Since(e.QueuedAt).Seconds()),
			})
		}
	}
	c.JSON(http.StatusOK, gin.H{"queue": requests, "depth": len(requests)})
}

func (s *Server) feed(c *gin.Context) {
	if s.cfg.BridgeKey == "" {
		c.JSON(http.StatusOK, gin.H{"feed": []*types.FeedItem{}, "error": "No bridge key configured"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	ctx, cancel := s.cloudContext(c)
	defer cancel()

	items, err := s.client.LiveFeed(ctx, limit)
	if err != nil || items == nil {
		items = []*types.FeedItem{}
	}
	c.JSON(http.StatusOK, gin.H{"feed": items})
}

func (s *Server) agents(c *gin.Context) {
	agents := []gin.H{}
	if s.cfg.BridgeKey == "" {
		c.JSON(http.StatusOK, gin.H{"agents": agents})
		return
	}

	ctx, cancel := s.cloudContext(c)
	defer cancel()

	cfg, err := s.client.AgentConfig(ctx)
	if err == nil && cfg != nil {
		agents = append(agents, gin.H{
			"agent_id":       cfg.AgentID,
			"name":           cfg.DisplayName(),
			"autonomy_mode":  orDefault(cfg.AutonomyMode, "manual"),
			"local_tools":    orTools(cfg.LocalTools),
			"workspace_path": orDefault(cfg.WorkspacePath, "/workspace"),
		})
	}
	c.JSON(http.StatusOK, gin.H{"agents": agents})
}

func (s *Server) models(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": installedModels(s.cfg.ModelsDir())})
}

func (s *Server) queueTask(c *gin.Context) {
	if s.cfg.BridgeKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No bridge key configured"})
		return
	}

	var body struct {
		Description string `json:"description"`
		ActionType  string `json:"action_type"`
	}
	_ = c.ShouldBindJSON(&body)
	if body.ActionType == "" {
		body.ActionType = "manual_task"
	}

	ctx, cancel := s.cloudContext(c)
	defer cancel()

	result, err := s.client.QueueManualTask(ctx, body.Description, body.ActionType)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": "Failed to queue task"})
		return
	}
	c.Data(http.StatusOK, "application/json", result)
}

func (s *Server) updateConfig(c *gin.Context) {
	if s.cfg.BridgeKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No bridge key configured"})
		return
	}

	var body struct {
		AgentID      string   `json:"agent_id"`
		AutonomyMode string   `json:"autonomy_mode"`
		LocalTools   []string `json:"local_tools"`
	}
	_ = c.ShouldBindJSON(&body)
	if body.AutonomyMode == "" {
		body.AutonomyMode = "manual"
	}

	ctx, cancel := s.cloudContext(c)
	defer cancel()

	result, err := s.client.BindAgent(ctx, body.AgentID, body.AutonomyMode, body.LocalTools)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": "Failed to update config"})
		return
	}
	c.Data(http.StatusOK, "application/json", result)
}

// maskKey keeps a short identifying prefix of a credential.
func maskKey(key string) any {
	if key == "" {
		return nil
	}
	if len(key) > 6 {
		key = key[:6]
	}
	return key + "..."
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func orTools(tools []string) []string {
	if tools == nil {
		return []string{}
	}
	return tools
}
