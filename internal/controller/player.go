package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type CreatePlayerRequest struct {
	Username string `json:"username" binding:"required"`
}

// ListPlayers godoc
// @Summary List all players
// @Description Get every player with the total of their purchases
// @Tags players
// @Produce json
// @Success 200 {array} models.Player
// @Failure 500 {object} APIError
// @Router /api/players [get]
func (c *Controller) ListPlayers(ctx *gin.Context) {
	players, err := c.economy.ListPlayers()
	if err != nil {
		c.serviceError(ctx, err, "failed to fetch players")
		return
	}
	ctx.JSON(http.StatusOK, players)
}

// GetPlayer godoc
// @Summary Get a player by ID
// @Tags players
// @Produce json
// @Param id path int true "Player ID"
// @Success 200 {object} models.Player
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Router /api/players/{id} [get]
func (c *Controller) GetPlayer(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	player, err := c.economy.GetPlayer(id)
	if err != nil {
		c.serviceError(ctx, err, "failed to fetch player")
		return
	}
	ctx.JSON(http.StatusOK, player)
}

// CreatePlayer godoc
// @Summary Create a new player
// @Tags players
// @Accept json
// @Produce json
// @Param player body CreatePlayerRequest true "Player data"
// @Success 201 {object} models.Player
// @Failure 400 {object} APIError
// @Failure 500 {object} APIError
// @Router /api/players [post]
func (c *Controller) CreatePlayer(ctx *gin.Context) {
	var req CreatePlayerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "invalid input", err.Error())
		return
	}

	player, err := c.economy.AddPlayer(req.Username)
	if err != nil {
		c.serviceError(ctx, err, "failed to create player")
		return
	}
	ctx.JSON(http.StatusCreated, player)
}

// DeletePlayer godoc
// @Summary Delete a player
// @Description Delete a player together with all of their transactions
// @Tags players
// @Param id path int true "Player ID"
// @Success 204
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Failure 500 {object} APIError
// @Router /api/players/{id} [delete]
func (c *Controller) DeletePlayer(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.economy.DeletePlayer(id); err != nil {
		c.serviceError(ctx, err, "failed to delete player")
		return
	}
	ctx.Status(http.StatusNoContent)
}
