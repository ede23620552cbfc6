package controller

import (
	"io"

	"github.com/gin-gonic/gin"
)

// StreamPrices godoc
// @Summary Stream price updates
// @Description Server-Sent Events endpoint emitting a "prices" event whenever an item price changes
// @Tags prices
// @Produce text/event-stream
// @Success 200 {string} string "SSE stream"
// @Failure 503 {object} APIError
// @Router /api/prices/stream [get]
func (c *Controller) StreamPrices(ctx *gin.Context) {
	if c.priceEvents == nil {
		serviceUnavailable(ctx, "price stream not available")
		return
	}

	events, cancel := c.priceEvents.Subscribe()
	defer cancel()

	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")

	ctx.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-events:
			if !ok {
				return false
			}
			ctx.SSEvent("prices", string(msg))
			ctx.Writer.Flush()
			return true
		case <-ctx.Request.Context().Done():
			return false
		}
	})
}
