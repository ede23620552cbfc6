package controller

import (
	"net/http"
	"time"

	"gtaeconomy/internal/flatfile"

	"github.com/gin-gonic/gin"
)

type CreateItemRequest struct {
	Name          string   `json:"name" binding:"required"`
	ImageFilename string   `json:"image_filename"`
	Price         *float64 `json:"price"`
}

type UpdateItemRequest struct {
	Name          string `json:"name"`
	ImageFilename string `json:"image_filename"`
}

type AddPriceRequest struct {
	Price float64 `json:"price" binding:"required"`
	Date  string  `json:"date"`
}

// ListItems godoc
// @Summary List or search items
// @Description List items with their current price. query filters by name substring or exact id.
// @Tags items
// @Produce json
// @Param query query string false "Search text"
// @Param query_type query string false "name or id" default(name)
// @Success 200 {array} service.ItemView
// @Failure 400 {object} APIError
// @Failure 500 {object} APIError
// @Router /api/items [get]
func (c *Controller) ListItems(ctx *gin.Context) {
	items, err := c.economy.SearchItems(ctx.Query("query"), ctx.Query("query_type"))
	if err != nil {
		c.serviceError(ctx, err, "failed to fetch items")
		return
	}
	ctx.JSON(http.StatusOK, items)
}

// GetItem godoc
// @Summary Get an item by ID
// @Tags items
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} service.ItemView
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Router /api/items/{id} [get]
func (c *Controller) GetItem(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	item, err := c.economy.GetItem(id)
	if err != nil {
		c.serviceError(ctx, err, "failed to fetch item")
		return
	}
	ctx.JSON(http.StatusOK, item)
}

// CreateItem godoc
// @Summary Create a new item
// @Description Create an item, optionally recording its first market price
// @Tags items
// @Accept json
// @Produce json
// @Param item body CreateItemRequest true "Item data"
// @Success 201 {object} service.ItemView
// @Failure 400 {object} APIError
// @Failure 500 {object} APIError
// @Router /api/items [post]
func (c *Controller) CreateItem(ctx *gin.Context) {
	var req CreateItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "invalid input", err.Error())
		return
	}
	if req.Price != nil && *req.Price <= 0 {
		badRequest(ctx, "price must be greater than zero")
		return
	}

	item, err := c.economy.AddItem(req.Name, req.ImageFilename)
	if err != nil {
		c.serviceError(ctx, err, "failed to create item")
		return
	}

	if req.Price != nil {
		if _, err := c.economy.UpdateItemPrice(item.ID, *req.Price, time.Time{}); err != nil {
			c.serviceError(ctx, err, "failed to record price")
			return
		}
	}

	view, err := c.economy.GetItem(item.ID)
	if err != nil {
		c.serviceError(ctx, err, "failed to fetch item")
		return
	}
	ctx.JSON(http.StatusCreated, view)
}

// UpdateItem godoc
// @Summary Update an item
// @Description Rename an item or change its image. Empty fields are left unchanged.
// @Tags items
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param item body UpdateItemRequest true "Item data"
// @Success 200 {object} models.Item
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Router /api/items/{id} [put]
func (c *Controller) UpdateItem(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "invalid input", err.Error())
		return
	}

	item, err := c.economy.UpdateItem(id, req.Name, req.ImageFilename)
	if err != nil {
		c.serviceError(ctx, err, "failed to update item")
		return
	}
	ctx.JSON(http.StatusOK, item)
}

// DeleteItem godoc
// @Summary Delete an item
// @Description Delete an item and its whole price history
// @Tags items
// @Param id path int true "Item ID"
// @Success 204
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Router /api/items/{id} [delete]
func (c *Controller) DeleteItem(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.economy.DeleteItem(id); err != nil {
		c.serviceError(ctx, err, "failed to delete item")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// GetItemPrices godoc
// @Summary Get item price history
// @Tags items
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {array} models.MarketPrice
// @Failure 404 {object} APIError
// @Router /api/items/{id}/prices [get]
func (c *Controller) GetItemPrices(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	history, err := c.economy.PriceHistory(id)
	if err != nil {
		c.serviceError(ctx, err, "failed to fetch price history")
		return
	}
	ctx.JSON(http.StatusOK, history)
}

// AddItemPrice godoc
// @Summary Record a market price
// @Description Append a price to the item's history. Date defaults to now.
// @Tags items
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param price body AddPriceRequest true "Price data"
// @Success 201 {object} models.MarketPrice
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Router /api/items/{id}/prices [post]
func (c *Controller) AddItemPrice(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req AddPriceRequest
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

	mp, err := c.economy.UpdateItemPrice(id, req.Price, date)
	if err != nil {
		c.serviceError(ctx, err, "failed to record price")
		return
	}
	ctx.JSON(http.StatusCreated, mp)
}

// GetItemPriceOnDate godoc
// @Summary Get the market price on a date
// @Tags items
// @Produce json
// @Param id path int true "Item ID"
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} models.MarketPrice
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Router /api/items/{id}/prices/{date} [get]
func (c *Controller) GetItemPriceOnDate(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	date, err := flatfile.ParseDate(ctx.Param("date"))
	if err != nil {
		badRequestWithDetails(ctx, "invalid date", err.Error())
		return
	}

	mp, err := c.economy.GetMarketPrice(id, date)
	if err != nil {
		c.serviceError(ctx, err, "failed to fetch price")
		return
	}
	ctx.JSON(http.StatusOK, mp)
}
