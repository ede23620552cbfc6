package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListPrices godoc
// @Summary List current prices
// @Description Current price of every priced item, keyed by item id
// @Tags prices
// @Produce json
// @Success 200 {object} map[string]float64
// @Router /api/prices [get]
func (c *Controller) ListPrices(ctx *gin.Context) {
	current := c.economy.CurrentPrices()
	prices := make(map[string]float64, len(current))
	for id, price := range current {
		prices[strconv.FormatInt(id, 10)] = price
	}
	ctx.JSON(http.StatusOK, prices)
}
