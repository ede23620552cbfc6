package handler

import (
	"log/slog"
	"net/http"

	"gtaeconomy/internal/models"
	"gtaeconomy/internal/service"

	"github.com/gin-gonic/gin"
)

type PlayersHandler struct {
	renderer *Renderer
	economy  *service.Economy
	logger   *slog.Logger
}

func NewPlayersHandler(renderer *Renderer, economy *service.Economy, logger *slog.Logger) *PlayersHandler {
	return &PlayersHandler{
		renderer: renderer,
		economy:  economy,
		logger:   logger,
	}
}

type PlayersPageData struct {
	Page
	Players []models.Player
}

type PlayerFormData struct {
	Page
	Username string
}

func (h *PlayersHandler) List(c *gin.Context) {
	h.renderList(c, http.StatusOK, "")
}

func (h *PlayersHandler) renderList(c *gin.Context, status int, errMsg string) {
	data := PlayersPageData{
		Page: Page{Title: "Players", ActivePage: "view-players", Error: errMsg},
	}

	players, err := h.economy.ListPlayers()
	if err != nil {
		status, data.Error = errorStatus(h.logger, err)
	}
	data.Players = players

	if data.Error != "" {
		toast(c, data.Error, "error")
	}
	h.renderer.HTML(c, status, "view_players", data)
}

func (h *PlayersHandler) New(c *gin.Context) {
	h.renderer.HTML(c, http.StatusOK, "add_player", PlayerFormData{
		Page: Page{Title: "Add Player", ActivePage: "add-player"},
	})
}

func (h *PlayersHandler) Create(c *gin.Context) {
	username := c.PostForm("username")

	if _, err := h.economy.AddPlayer(username); err != nil {
		status, msg := errorStatus(h.logger, err)
		toast(c, msg, "error")
		h.renderer.HTML(c, status, "add_player", PlayerFormData{
			Page:     Page{Title: "Add Player", ActivePage: "add-player", Error: msg},
			Username: username,
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/view-players")
}

// Delete removes the player and all of their transactions.
func (h *PlayersHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.renderList(c, http.StatusBadRequest, "Invalid player id")
		return
	}
	if err := h.economy.DeletePlayer(id); err != nil {
		status, msg := errorStatus(h.logger, err)
		h.renderList(c, status, msg)
		return
	}
	c.Redirect(http.StatusSeeOther, "/view-players")
}
