package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"taskdesk/internal/models"
	"taskdesk/internal/services"
)

// StreamInterval は残り時間イベントの送信間隔です。
var StreamInterval = time.Second

// streamRemaining は取得済みの一覧から残り時間を計算し、切断されるまで送り続けます。
func streamRemaining(c *gin.Context, todos []models.Todo) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	send := func() {
		c.SSEvent("remaining", services.RemainingTimes(todos, time.Now()))
		c.Writer.Flush()
	}

	ticker := time.NewTicker(StreamInterval)
	defer ticker.Stop()

	send()
	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			send()
		}
	}
}
