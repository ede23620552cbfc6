package service

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"gtaeconomy/internal/models"
	"gtaeconomy/internal/repo"
	"gtaeconomy/pkg/types/cache"
	"gtaeconomy/pkg/types/pubsub"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var ErrInvalidEconomyConfig = errors.New("invalid economy service config")

const (
	QueryTypeName = "name"
	QueryTypeID   = "id"
)

// PriceEvent is published whenever an item's price history changes.
type PriceEvent struct {
	ItemID   int64     `json:"item_id"`
	ItemName string    `json:"item_name"`
	Price    float64   `json:"price"`
	Date     time.Time `json:"date"`
	Deleted  bool      `json:"deleted,omitempty"`
}

// ItemView is an item together with its current price, if it has one.
type ItemView struct {
	models.Item
	CurrentPrice float64 `json:"current_price"`
	HasPrice     bool    `json:"has_price"`
}

type TransactionInput struct {
	PlayerID int64
	Item     string
	Amount   float64
	Type     string
	Date     time.Time
}

type TransactionQuery struct {
	PlayerID *int64
	Type     string
	Item     string
	Limit    int
	Offset   int
}

type Economy struct {
	logger    *slog.Logger
	repo      *repo.Repository
	cache     cache.Cache[int64, float64]
	publisher pubsub.Publisher
	now       func() time.Time
}

type EconomyOption func(*Economy)

func WithEconomyLogger(l *slog.Logger) EconomyOption {
	return func(e *Economy) {
		e.logger = l
	}
}

func WithEconomyRepo(r *repo.Repository) EconomyOption {
	return func(e *Economy) {
		e.repo = r
	}
}

func WithEconomyPriceCache(c cache.Cache[int64, float64]) EconomyOption {
	return func(e *Economy) {
		e.cache = c
	}
}

// WithEconomyPublisher is optional. Without it price events are not broadcast.
func WithEconomyPublisher(p pubsub.Publisher) EconomyOption {
	return func(e *Economy) {
		e.publisher = p
	}
}

func WithEconomyClock(now func() time.Time) EconomyOption {
	return func(e *Economy) {
		e.now = now
	}
}

func (e *Economy) IsValid() error {
	switch {
	case e.logger == nil:
		return errors.Wrap(ErrInvalidEconomyConfig, "logger cannot be nil")
	case e.repo == nil:
		return errors.Wrap(ErrInvalidEconomyConfig, "repo cannot be nil")
	case e.cache == nil:
		return errors.Wrap(ErrInvalidEconomyConfig, "price cache cannot be nil")
	case e.now == nil:
		return errors.Wrap(ErrInvalidEconomyConfig, "clock cannot be nil")
	default:
		return nil
	}
}

func NewEconomy(opts ...EconomyOption) (*Economy, error) {
	e := &Economy{now: time.Now}

	for _, opt := range opts {
		opt(e)
	}

	if err := e.IsValid(); err != nil {
		return nil, err
	}

	return e, nil
}

// WarmCache replaces the cache contents with the latest price of every item.
func (e *Economy) WarmCache() error {
	latest, err := e.repo.LatestPrices()
	if err != nil {
		return errors.Wrap(err, "failed to load latest prices")
	}

	e.cache.Clear()
	for itemID, mp := range latest {
		e.cache.Set(itemID, mp.Price)
	}
	e.logger.Info("price cache warmed", "items", len(latest))
	return nil
}

func (e *Economy) CurrentPrices() map[int64]float64 {
	return e.cache.Snapshot()
}

func (e *Economy) AddPlayer(username string) (*models.Player, error) {
	return e.createPlayer(0, username)
}

// RestorePlayer creates a player under a caller-chosen id. Used when loading flat files
// whose transactions refer to players by id.
func (e *Economy) RestorePlayer(id int64, username string) (*models.Player, error) {
	if id <= 0 {
		return nil, invalid("player id must be positive")
	}
	if _, err := e.repo.GetPlayerByID(id); err == nil {
		return nil, invalid("player %d already exists", id)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(err, "failed to look up player %d", id)
	}
	return e.createPlayer(id, username)
}

func (e *Economy) createPlayer(id int64, username string) (*models.Player, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalid("username is required")
	}

	if _, err := e.repo.GetPlayerByUsername(username); err == nil {
		return nil, invalid("player %q already exists", username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "failed to look up player")
	}

	player := &models.Player{ID: id, Username: username}
	if err := e.repo.CreatePlayer(player); err != nil {
		return nil, errors.Wrap(err, "failed to create player")
	}

	e.logger.Info("player added", "id", player.ID, "username", player.Username)
	return player, nil
}

func (e *Economy) GetPlayer(id int64) (*models.Player, error) {
	player, err := e.repo.GetPlayerByID(id)
	if err != nil {
		return nil, notFoundOr(err, "player %d", id)
	}

	spending, err := e.spendingByPlayer()
	if err != nil {
		return nil, err
	}
	player.TotalSpent = spending[player.ID]
	return player, nil
}

func (e *Economy) ListPlayers() ([]models.Player, error) {
	players, err := e.repo.GetAllPlayers()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list players")
	}

	spending, err := e.spendingByPlayer()
	if err != nil {
		return nil, err
	}
	for i := range players {
		players[i].TotalSpent = spending[players[i].ID]
	}
	return players, nil
}

func (e *Economy) spendingByPlayer() (map[int64]float64, error) {
	rows, err := e.repo.TopSpenders(0)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sum player spending")
	}
	out := make(map[int64]float64, len(rows))
	for _, r := range rows {
		out[r.PlayerID] = r.Total
	}
	return out, nil
}

// DeletePlayer removes the player and every transaction that references it.
func (e *Economy) DeletePlayer(id int64) error {
	if _, err := e.repo.GetPlayerByID(id); err != nil {
		return notFoundOr(err, "player %d", id)
	}

	err := e.repo.Transaction(func(tx *repo.Repository) error {
		if err := tx.DeleteTransactionsByPlayerID(id); err != nil {
			return err
		}
		return tx.DeletePlayer(id)
	})
	if err != nil {
		return errors.Wrapf(err, "failed to delete player %d", id)
	}

	e.logger.Info("player deleted", "id", id)
	return nil
}

func (e *Economy) AddItem(name, image string) (*models.Item, error) {
	return e.createItem(0, name, image)
}

// RestoreItem creates an item under a caller-chosen id, for flat file loads.
func (e *Economy) RestoreItem(id int64, name, image string) (*models.Item, error) {
	if id <= 0 {
		return nil, invalid("item id must be positive")
	}
	if _, err := e.repo.GetItemByID(id); err == nil {
		return nil, invalid("item %d already exists", id)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(err, "failed to look up item %d", id)
	}
	return e.createItem(id, name, image)
}

func (e *Economy) createItem(id int64, name, image string) (*models.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("item name is required")
	}
	if err := e.ensureNameFree(name, 0); err != nil {
		return nil, err
	}

	item := &models.Item{ID: id, Name: name, ImageFilename: strings.TrimSpace(image)}
	if err := e.repo.CreateItem(item); err != nil {
		return nil, errors.Wrap(err, "failed to create item")
	}

	e.logger.Info("item added", "id", item.ID, "name", item.Name)
	return item, nil
}

func (e *Economy) ensureNameFree(name string, selfID int64) error {
	existing, err := e.repo.GetItemByName(name)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return errors.Wrap(err, "failed to look up item")
	case existing.ID != selfID:
		return invalid("item %q already exists", name)
	default:
		return nil
	}
}

func (e *Economy) GetItem(id int64) (*ItemView, error) {
	item, err := e.repo.GetItemByID(id)
	if err != nil {
		return nil, notFoundOr(err, "item %d", id)
	}
	view := e.view(*item)
	return &view, nil
}

func (e *Economy) ListItems() ([]ItemView, error) {
	items, err := e.repo.GetAllItems()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list items")
	}
	return e.views(items), nil
}

// UpdateItem renames an item or changes its image. Empty arguments keep the current value.
func (e *Economy) UpdateItem(id int64, name, image string) (*models.Item, error) {
	item, err := e.repo.GetItemByID(id)
	if err != nil {
		return nil, notFoundOr(err, "item %d", id)
	}

	if name = strings.TrimSpace(name); name != "" && name != item.Name {
		if err := e.ensureNameFree(name, item.ID); err != nil {
			return nil, err
		}
		item.Name = name
	}
	if image = strings.TrimSpace(image); image != "" {
		item.ImageFilename = image
	}

	if err := e.repo.UpdateItem(item); err != nil {
		return nil, errors.Wrapf(err, "failed to update item %d", id)
	}
	return item, nil
}

// DeleteItem removes the item and its whole price history. Transactions keep the item
// name they were recorded with.
func (e *Economy) DeleteItem(id int64) error {
	item, err := e.repo.GetItemByID(id)
	if err != nil {
		return notFoundOr(err, "item %d", id)
	}

	err = e.repo.Transaction(func(tx *repo.Repository) error {
		if err := tx.DeletePricesByItemID(id); err != nil {
			return err
		}
		return tx.DeleteItem(id)
	})
	if err != nil {
		return errors.Wrapf(err, "failed to delete item %d", id)
	}

	e.cache.Delete(id)
	e.publish(PriceEvent{ItemID: item.ID, ItemName: item.Name, Date: e.now().UTC(), Deleted: true})
	e.logger.Info("item deleted", "id", id, "name", item.Name)
	return nil
}

// UpdateItemPrice appends a price observation. A zero date means now.
func (e *Economy) UpdateItemPrice(itemID int64, price float64, date time.Time) (*models.MarketPrice, error) {
	item, err := e.repo.GetItemByID(itemID)
	if err != nil {
		return nil, notFoundOr(err, "item %d", itemID)
	}
	if price <= 0 {
		return nil, invalid("price must be greater than zero")
	}
	if date.IsZero() {
		date = e.now()
	}

	mp := &models.MarketPrice{ItemID: item.ID, Price: price, Date: date.UTC()}
	if err := e.repo.CreatePrice(mp); err != nil {
		return nil, errors.Wrap(err, "failed to record price")
	}

	// a backdated price does not change the current one
	latest, err := e.repo.GetLatestPrice(item.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read latest price")
	}
	e.cache.Set(item.ID, latest.Price)

	e.publish(PriceEvent{ItemID: item.ID, ItemName: item.Name, Price: latest.Price, Date: latest.Date})
	return mp, nil
}

func (e *Economy) PriceHistory(itemID int64) ([]models.MarketPrice, error) {
	if _, err := e.repo.GetItemByID(itemID); err != nil {
		return nil, notFoundOr(err, "item %d", itemID)
	}
	history, err := e.repo.GetPricesByItemID(itemID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load price history for item %d", itemID)
	}
	return history, nil
}

// GetMarketPrice returns the price recorded for the item on the calendar day of date.
func (e *Economy) GetMarketPrice(itemID int64, date time.Time) (*models.MarketPrice, error) {
	mp, err := e.repo.GetPriceOnDate(itemID, date.UTC())
	if err != nil {
		return nil, notFoundOr(err, "price for item %d on %s", itemID, date.Format("2006-01-02"))
	}
	return mp, nil
}

func (e *Economy) AddTransaction(in TransactionInput) (*models.Transaction, error) {
	txType := strings.ToLower(strings.TrimSpace(in.Type))
	if txType == "" {
		txType = models.TransactionTypePurchase
	}
	if txType != models.TransactionTypePurchase && txType != models.TransactionTypeSale {
		return nil, invalid("transaction type must be %q or %q", models.TransactionTypePurchase, models.TransactionTypeSale)
	}
	if in.Amount <= 0 {
		return nil, invalid("amount must be greater than zero")
	}

	if _, err := e.repo.GetPlayerByID(in.PlayerID); err != nil {
		return nil, notFoundOr(err, "player %d", in.PlayerID)
	}
	item, err := e.resolveItem(in.Item)
	if err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = e.now()
	}

	tx := &models.Transaction{
		PlayerID: in.PlayerID,
		Item:     item.Name,
		Amount:   in.Amount,
		Date:     date.UTC(),
		Type:     txType,
	}
	if err := e.repo.CreateTransaction(tx); err != nil {
		return nil, errors.Wrap(err, "failed to create transaction")
	}

	e.logger.Info("transaction added", "id", tx.ID, "player_id", tx.PlayerID, "item", tx.Item, "amount", tx.Amount, "type", tx.Type)
	return tx, nil
}

// resolveItem accepts an item name (any case) or a numeric item id.
func (e *Economy) resolveItem(ref string) (*models.Item, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, invalid("item is required")
	}

	item, err := e.repo.GetItemByName(ref)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "failed to look up item")
	}

	if id, convErr := strconv.ParseInt(ref, 10, 64); convErr == nil {
		item, err = e.repo.GetItemByID(id)
		if err == nil {
			return item, nil
		}
	}
	return nil, notFoundOr(err, "item %q", ref)
}

func (e *Economy) GetTransaction(id int64) (*models.Transaction, error) {
	tx, err := e.repo.GetTransactionByID(id)
	if err != nil {
		return nil, notFoundOr(err, "transaction %d", id)
	}
	return tx, nil
}

func (e *Economy) DeleteTransaction(id int64) error {
	if _, err := e.repo.GetTransactionByID(id); err != nil {
		return notFoundOr(err, "transaction %d", id)
	}
	if err := e.repo.DeleteTransaction(id); err != nil {
		return errors.Wrapf(err, "failed to delete transaction %d", id)
	}
	e.logger.Info("transaction deleted", "id", id)
	return nil
}

// ListTransactions returns matching transactions in insertion order.
func (e *Economy) ListTransactions(q TransactionQuery) ([]models.Transaction, error) {
	page, err := e.PageTransactions(q)
	if err != nil {
		return nil, err
	}
	return page.Transactions, nil
}

// PageTransactions is ListTransactions with the total match count. A Limit <= 0 returns
// every match.
func (e *Economy) PageTransactions(q TransactionQuery) (*repo.TransactionListResult, error) {
	result, err := e.repo.ListTransactions(repo.TransactionFilter{
		PlayerID: q.PlayerID,
		Type:     strings.ToLower(strings.TrimSpace(q.Type)),
		Item:     strings.TrimSpace(q.Item),
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list transactions")
	}
	if result.Transactions == nil {
		result.Transactions = []models.Transaction{}
	}
	return result, nil
}

// SearchItems matches by exact id or by case-insensitive name substring. An empty query
// returns every item.
func (e *Economy) SearchItems(query, queryType string) ([]ItemView, error) {
	query = strings.TrimSpace(query)
	queryType = strings.ToLower(strings.TrimSpace(queryType))
	if queryType == "" {
		queryType = QueryTypeName
	}

	switch queryType {
	case QueryTypeName:
		items, err := e.repo.SearchItemsByName(query)
		if err != nil {
			return nil, errors.Wrap(err, "failed to search items")
		}
		return e.views(items), nil
	case QueryTypeID:
		if query == "" {
			return e.ListItems()
		}
		id, err := strconv.ParseInt(query, 10, 64)
		if err != nil {
			return nil, invalid("item id must be a number")
		}
		item, err := e.repo.GetItemByID(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []ItemView{}, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to search items")
		}
		return []ItemView{e.view(*item)}, nil
	default:
		return nil, invalid("unknown query type %q", queryType)
	}
}

func (e *Economy) views(items []models.Item) []ItemView {
	out := make([]ItemView, 0, len(items))
	for _, it := range items {
		out = append(out, e.view(it))
	}
	return out
}

// view reads the current price through the cache, falling back to the database on a miss.
func (e *Economy) view(item models.Item) ItemView {
	v := ItemView{Item: item}
	if price, ok := e.cache.Get(item.ID); ok {
		v.CurrentPrice, v.HasPrice = price, true
		return v
	}

	latest, err := e.repo.GetLatestPrice(item.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			e.logger.Error("failed to read latest price", "item_id", item.ID, "error", err)
		}
		return v
	}
	e.cache.Set(item.ID, latest.Price)
	v.CurrentPrice, v.HasPrice = latest.Price, true
	return v
}

func (e *Economy) publish(ev PriceEvent) {
	if e.publisher == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		e.logger.Error("failed to marshal price event", "error", err)
		return
	}
	if err := e.publisher.Publish(data); err != nil {
		e.logger.Warn("failed to publish price event", "item_id", ev.ItemID, "error", err)
	}
}
