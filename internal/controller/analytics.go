package controller

import (
	"net/http"
	"strconv"

	"gtaeconomy/internal/flatfile"

	"github.com/gin-gonic/gin"
)

// GetAnalytics godoc
// @Summary Economy analytics
// @Description Totals, top spenders, top priced items and price trends
// @Tags analytics
// @Produce json
// @Success 200 {object} service.Analytics
// @Failure 500 {object} APIError
// @Router /api/analytics [get]
func (c *Controller) GetAnalytics(ctx *gin.Context) {
	a, err := c.economy.ComputeAnalytics()
	if err != nil {
		c.serviceError(ctx, err, "failed to compute analytics")
		return
	}
	ctx.JSON(http.StatusOK, a)
}

// TotalSpending godoc
// @Summary Total spending
// @Description Sum of every purchase amount
// @Tags analytics
// @Produce json
// @Success 200 {object} map[string]float64
// @Router /api/analytics/total-spending [get]
func (c *Controller) TotalSpending(ctx *gin.Context) {
	total, err := c.economy.TotalSpending()
	if err != nil {
		c.serviceError(ctx, err, "failed to compute total spending")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"total_spending": total})
}

// AverageTransaction godoc
// @Summary Average transaction
// @Description Mean amount over all transactions
// @Tags analytics
// @Produce json
// @Success 200 {object} map[string]float64
// @Router /api/analytics/average-transaction [get]
func (c *Controller) AverageTransaction(ctx *gin.Context) {
	avg, err := c.economy.AverageTransaction()
	if err != nil {
		c.serviceError(ctx, err, "failed to compute average transaction")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"average_transaction_value": avg})
}

// InflationRate godoc
// @Summary Item inflation rate
// @Description Compound annual price growth in percent between two recorded dates
// @Tags analytics
// @Produce json
// @Param item_id query int true "Item ID"
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Router /api/analytics/inflation-rate [get]
func (c *Controller) InflationRate(ctx *gin.Context) {
	itemID, err := strconv.ParseInt(ctx.Query("item_id"), 10, 64)
	if err != nil {
		badRequest(ctx, "invalid item_id")
		return
	}
	start, err := flatfile.ParseDate(ctx.Query("start_date"))
	if err != nil {
		badRequestWithDetails(ctx, "invalid start_date", err.Error())
		return
	}
	end, err := flatfile.ParseDate(ctx.Query("end_date"))
	if err != nil {
		badRequestWithDetails(ctx, "invalid end_date", err.Error())
		return
	}

	rate, err := c.economy.InflationRate(itemID, start, end)
	if err != nil {
		c.serviceError(ctx, err, "failed to compute inflation rate")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"item_id":        itemID,
		"start_date":     start.Format(flatfile.DateLayout),
		"end_date":       end.Format(flatfile.DateLayout),
		"inflation_rate": rate,
	})
}
