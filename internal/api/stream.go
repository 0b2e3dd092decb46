package api

import (
	"io"
	"time"

	"amfit/coach-app/internal/live"
	"amfit/coach-app/internal/logger"

	"github.com/gin-gonic/gin"
)

const sseHeartbeat = 15 * time.Second

// streamSubscription writes every update of sub as a server-sent event named
// event until the client disconnects or the source ends. It does not close
// sub; the handler that opened it does.
func streamSubscription[T, R any](c *gin.Context, log *logger.Logger, sub *live.Subscription[T], event string, render func(T) R) {
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(sseHeartbeat)
	defer heartbeat.Stop()
	ctx := c.Request.Context()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case v, ok := <-sub.Updates():
			if !ok {
				return false
			}
			c.SSEvent(event, render(v))
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		}
	})

	if err := sub.Err(); err != nil {
		log.Warn("live stream ended by source", "event", event, "error", err)
	}
}
