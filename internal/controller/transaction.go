package controller

import (
	"net/http"
	"strconv"
	"time"

	"gtaeconomy/internal/flatfile"
	"gtaeconomy/internal/service"

	"github.com/gin-gonic/gin"
)

type CreateTransactionRequest struct {
	PlayerID int64   `json:"player_id" binding:"required"`
	Item     string  `json:"item" binding:"required"`
	Amount   float64 `json:"amount"`
	Type     string  `json:"type"`
	Date     string  `json:"date"`
}

// ListTransactions godoc
// @Summary List transactions
// @Description List transactions in the order they were recorded
// @Tags transactions
// @Produce json
// @Param player_id query int false "Only this player"
// @Param type query string false "purchase or sale"
// @Param item query string false "Item name"
// @Param limit query int false "Page size, 0 for all"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} repo.TransactionListResult
// @Failure 400 {object} APIError
// @Router /api/transactions [get]
func (c *Controller) ListTransactions(ctx *gin.Context) {
	q := service.TransactionQuery{
		Type: ctx.Query("type"),
		Item: ctx.Query("item"),
	}

	if s := ctx.Query("player_id"); s != "" {
		playerID, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			badRequest(ctx, "invalid player_id")
			return
		}
		q.PlayerID = &playerID
	}
	if s := ctx.Query("limit"); s != "" {
		if limit, err := strconv.Atoi(s); err == nil {
			q.Limit = limit
		}
	}
	if s := ctx.Query("offset"); s != "" {
		if offset, err := strconv.Atoi(s); err == nil {
			q.Offset = offset
		}
	}

	result, err := c.economy.PageTransactions(q)
	if err != nil {
		c.serviceError(ctx, err, "failed to fetch transactions")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Router /api/transactions/{id} [get]
func (c *Controller) GetTransaction(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	tx, err := c.economy.GetTransaction(id)
	if err != nil {
		c.serviceError(ctx, err, "failed to fetch transaction")
		return
	}
	ctx.JSON(http.StatusOK, tx)
}

// CreateTransaction godoc
// @Summary Record a transaction
// @Description Record a purchase or sale. item may be an item name or id.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body CreateTransactionRequest true "Transaction data"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Router /api/transactions [post]
func (c *Controller) CreateTransaction(ctx *gin.Context) {
	var req CreateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "invalid input", err.Error())
		return
	}

	var date time.Time
	if req.Date != "" {
		d, err := flatfile.ParseDate(req.Date)
		if err != nil {
			badRequestWithDetails(ctx, "invalid date", err.Error())
			return
		}
		date = d
	}

	tx, err := c.economy.AddTransaction(service.TransactionInput{
		PlayerID: req.PlayerID,
		Item:     req.Item,
		Amount:   req.Amount,
		Type:     req.Type,
		Date:     date,
	})
	if err != nil {
		c.serviceError(ctx, err, "failed to create transaction")
		return
	}
	ctx.JSON(http.StatusCreated, tx)
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Param id path int true "Transaction ID"
// @Success 204
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Router /api/transactions/{id} [delete]
func (c *Controller) DeleteTransaction(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.economy.DeleteTransaction(id); err != nil {
		c.serviceError(ctx, err, "failed to delete transaction")
		return
	}
	ctx.Status(http.StatusNoContent)
}
