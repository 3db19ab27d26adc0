package dashboard

import (
	"context"
	"maps"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
)

// feedSocket streams live feed updates to the dashboard page. The
// control plane has no push channel, so the socket re-polls it and
// only writes when the set of feed item ids actually changed.
func (s *Server) feedSocket(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Feed socket rejected")
		return
	}
	defer conn.CloseNow()

	// CloseRead pumps the connection so a client disconnect cancels
	// the context; the socket is write-only from our side.
	ctx := conn.CloseRead(c.Request.Context())

	ticker := time.NewTicker(feedPushInterval)
	defer ticker.Stop()

	var lastIDs map[string]struct{}
	for {
		fetchCtx, cancel := context.WithTimeout(ctx, cloudTimeout)
		items, err := s.client.LiveFeed(fetchCtx, 50)
		cancel()

		if err == nil {
			ids := make(map[string]struct{}, len(items))
			for _, item := range items {
				ids[item.ID] = struct{}{}
			}
			if !maps.Equal(lastIDs, ids) {
				if err := wsjson.Write(ctx, conn, gin.H{"feed": items}); err != nil {
					return
				}
				lastIDs = ids
			}
		}

		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case <-ticker.C:
		}
	}
}
