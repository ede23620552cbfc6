// Package flatfile reads and writes the economy data as type-tagged CSV rows or a single
// JSON document.
package flatfile

import (
	"encoding/json"
	"time"

	"gtaeconomy/internal/models"
)

const (
	RecordPlayer      = "Player"
	RecordItem        = "Item"
	RecordMarketPrice = "MarketPrice"
	RecordTransaction = "Transaction"

	DateLayout = "2006-01-02"
)

// Columns is the CSV header, in order. Readers match columns by name so files with a
// subset or a different order are accepted.
var Columns = []string{
	"type",
	"transaction_id",
	"player_id",
	"item",
	"amount",
	"date",
	"item_id",
	"item_name",
	"price",
	"username",
	"total_spent",
	"transaction_type",
	"image_filename",
}

// Record is one CSV row. Only the fields relevant to Type are populated.
type Record struct {
	Type            string    `json:"type"`
	TransactionID   int64     `json:"transaction_id,omitempty"`
	PlayerID        int64     `json:"player_id,omitempty"`
	Item            string    `json:"item,omitempty"`
	Amount          float64   `json:"amount,omitempty"`
	Date            time.Time `json:"date,omitempty"`
	ItemID          int64     `json:"item_id,omitempty"`
	ItemName        string    `json:"item_name,omitempty"`
	Price           float64   `json:"price,omitempty"`
	Username        string    `json:"username,omitempty"`
	TotalSpent      float64   `json:"total_spent,omitempty"`
	TransactionType string    `json:"transaction_type,omitempty"`
	ImageFilename   string    `json:"image_filename,omitempty"`

	// PlayerRef holds a non-numeric player_id such as "P001". Import maps it to a
	// generated id.
	PlayerRef string `json:"-"`

	// Line is the 1-based source position: the CSV line or the JSON array index.
	Line int `json:"-"`
}

type RowError struct {
	Row     int             `json:"row"`
	Data    json.RawMessage `json:"data,omitempty"`
	Field   string          `json:"field,omitempty"`
	Message string          `json:"message"`
}

type Dataset struct {
	Players      []models.Player      `json:"players"`
	Items        []models.Item        `json:"items"`
	Prices       []models.MarketPrice `json:"prices"`
	Transactions []models.Transaction `json:"transactions"`
}

// Records flattens ds in dependency order: players, items, prices, then transactions.
func (ds *Dataset) Records() []Record {
	names := make(map[int64]string, len(ds.Items))
	for _, it := range ds.Items {
		names[it.ID] = it.Name
	}

	out := make([]Record, 0, len(ds.Players)+len(ds.Items)+len(ds.Prices)+len(ds.Transactions))
	for _, p := range ds.Players {
		out = append(out, Record{
			Type:       RecordPlayer,
			PlayerID:   p.ID,
			Username:   p.Username,
			TotalSpent: p.TotalSpent,
		})
	}
	for _, it := range ds.Items {
		out = append(out, Record{
			Type:          RecordItem,
			ItemID:        it.ID,
			ItemName:      it.Name,
			ImageFilename: it.ImageFilename,
		})
	}
	for _, mp := range ds.Prices {
		out = append(out, Record{
			Type:     RecordMarketPrice,
			ItemID:   mp.ItemID,
			ItemName: names[mp.ItemID],
			Price:    mp.Price,
			Date:     mp.Date,
		})
	}
	for _, tx := range ds.Transactions {
		out = append(out, Record{
			Type:            RecordTransaction,
			TransactionID:   tx.ID,
			PlayerID:        tx.PlayerID,
			Item:            tx.Item,
			Amount:          tx.Amount,
			Date:            tx.Date,
			TransactionType: tx.Type,
		})
	}
	return out
}
