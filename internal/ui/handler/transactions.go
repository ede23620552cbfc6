package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gtaeconomy/internal/flatfile"
	"gtaeconomy/internal/models"
	"gtaeconomy/internal/service"

	"github.com/gin-gonic/gin"
)

type TransactionsHandler struct {
	renderer *Renderer
	economy  *service.Economy
	logger   *slog.Logger
}

func NewTransactionsHandler(renderer *Renderer, economy *service.Economy, logger *slog.Logger) *TransactionsHandler {
	return &TransactionsHandler{
		renderer: renderer,
		economy:  economy,
		logger:   logger,
	}
}

type TransactionFormData struct {
	Page
	Players []models.Player
	Items   []service.ItemView
	Form    TransactionForm
}

type TransactionForm struct {
	PlayerID string
	Item     string
	Amount   string
	Type     string
	Date     string
}

type TransactionsPageData struct {
	Page
	Players      []models.Player
	Rows         []TransactionRow
	PlayerFilter int64
}

type TransactionRow struct {
	models.Transaction
	Username string
	IsSale   bool
}

func (h *TransactionsHandler) New(c *gin.Context) {
	h.renderForm(c, http.StatusOK, TransactionForm{Type: models.TransactionTypePurchase}, "")
}

func (h *TransactionsHandler) Create(c *gin.Context) {
	form := TransactionForm{
		PlayerID: strings.TrimSpace(c.PostForm("player_id")),
		Item:     strings.TrimSpace(c.PostForm("item")),
		Amount:   strings.TrimSpace(c.PostForm("amount")),
		Type:     strings.TrimSpace(c.PostForm("transaction_type")),
		Date:     strings.TrimSpace(c.PostForm("date")),
	}

	playerID, err := strconv.ParseInt(form.PlayerID, 10, 64)
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, form, "Please choose a player")
		return
	}
	amount, err := strconv.ParseFloat(form.Amount, 64)
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, form, "Amount must be a number")
		return
	}
	var date time.Time
	if form.Date != "" {
		if date, err = flatfile.ParseDate(form.Date); err != nil {
			h.renderForm(c, http.StatusBadRequest, form, "Date must look like 2006-01-02")
			return
		}
	}

	_, err = h.economy.AddTransaction(service.TransactionInput{
		PlayerID: playerID,
		Item:     form.Item,
		Amount:   amount,
		Type:     form.Type,
		Date:     date,
	})
	if err != nil {
		status, msg := errorStatus(h.logger, err)
		h.renderForm(c, status, form, msg)
		return
	}

	c.Redirect(http.StatusSeeOther, "/view-transactions")
}

func (h *TransactionsHandler) renderForm(c *gin.Context, status int, form TransactionForm, errMsg string) {
	data := TransactionFormData{
		Page: Page{Title: "Add Transaction", ActivePage: "add-transaction", Error: errMsg},
		Form: form,
	}

	var err error
	if data.Players, err = h.economy.ListPlayers(); err != nil {
		h.logger.Error("failed to list players", "error", err)
	}
	if data.Items, err = h.economy.ListItems(); err != nil {
		h.logger.Error("failed to list items", "error", err)
	}
	if errMsg != "" {
		toast(c, errMsg, "error")
	}

	h.renderer.HTML(c, status, "add_transaction", data)
}

func (h *TransactionsHandler) List(c *gin.Context) {
	h.renderList(c, http.StatusOK, c.Query("player_id"), "")
}

func (h *TransactionsHandler) renderList(c *gin.Context, status int, playerFilter, errMsg string) {
	data := TransactionsPageData{
		Page: Page{Title: "Transactions", ActivePage: "view-transactions", Error: errMsg},
	}

	players, err := h.economy.ListPlayers()
	if err != nil {
		status, data.Error = errorStatus(h.logger, err)
		h.renderer.HTML(c, status, "view_transactions", data)
		return
	}
	data.Players = players

	usernames := make(map[int64]string, len(players))
	for _, p := range players {
		usernames[p.ID] = p.Username
	}

	var q service.TransactionQuery
	if playerFilter != "" {
		id, err := strconv.ParseInt(playerFilter, 10, 64)
		if err != nil {
			status, data.Error = http.StatusBadRequest, "Invalid player filter"
		} else {
			q.PlayerID = &id
			data.PlayerFilter = id
		}
	}

	transactions, err := h.economy.ListTransactions(q)
	if err != nil {
		status, data.Error = errorStatus(h.logger, err)
	}
	for _, tx := range transactions {
		data.Rows = append(data.Rows, TransactionRow{
			Transaction: tx,
			Username:    usernames[tx.PlayerID],
			IsSale:      tx.Type == models.TransactionTypeSale,
		})
	}

	if data.Error != "" {
		toast(c, data.Error, "error")
	}
	h.renderer.HTML(c, status, "view_transactions", data)
}

func (h *TransactionsHandler) Delete(c *gin.Context) {
	playerFilter := c.PostForm("player_id")

	id, ok := pathID(c)
	if !ok {
		h.renderList(c, http.StatusBadRequest, playerFilter, "Invalid transaction id")
		return
	}
	if err := h.economy.DeleteTransaction(id); err != nil {
		status, msg := errorStatus(h.logger, err)
		h.renderList(c, status, playerFilter, msg)
		return
	}

	redirect := "/view-transactions"
	if playerFilter != "" {
		redirect += "?" + url.Values{"player_id": {playerFilter}}.Encode()
	}
	c.Redirect(http.StatusSeeOther, redirect)
}
