package models

import "time"

const (
	TransactionTypePurchase = "purchase"
	TransactionTypeSale     = "sale"
)

type Player struct {
	ID         int64     `json:"id"          gorm:"primaryKey"`
	Username   string    `json:"username"    gorm:"uniqueIndex"`
	TotalSpent float64   `json:"total_spent" gorm:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Item struct {
	ID            int64     `json:"id"             gorm:"primaryKey"`
	Name          string    `json:"name"           gorm:"uniqueIndex"`
	ImageFilename string    `json:"image_filename"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MarketPrice is one observed price of an item. The row with the latest Date is the
// item's current price.
type MarketPrice struct {
	ID        int64     `json:"id"         gorm:"primaryKey"`
	ItemID    int64     `json:"item_id"    gorm:"index:idx_item_date"`
	Price     float64   `json:"price"`
	Date      time.Time `json:"date"       gorm:"index:idx_item_date"`
	CreatedAt time.Time `json:"created_at"`
}

// Transaction references its item by name, not id.
type Transaction struct {
	ID        int64     `json:"id"         gorm:"primaryKey"`
	PlayerID  int64     `json:"player_id"  gorm:"index"`
	Item      string    `json:"item"       gorm:"index"`
	Amount    float64   `json:"amount"`
	Date      time.Time `json:"date"       gorm:"index"`
	Type      string    `json:"type"       gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

type ImportLog struct {
	ID           int64     `json:"id"            gorm:"primaryKey"`
	Filename     string    `json:"filename"`
	Format       string    `json:"format"`
	TotalRows    int       `json:"total_rows"`
	ImportedRows int       `json:"imported_rows"`
	FailedRows   int       `json:"failed_rows"`
	Status       string    `json:"status"`
	FailedData   string    `json:"failed_data"   gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Player) TableName() string {
	return "players"
}

func (Item) TableName() string {
	return "items"
}

func (MarketPrice) TableName() string {
	return "market_prices"
}

func (Transaction) TableName() string {
	return "transactions"
}

func (ImportLog) TableName() string {
	return "import_logs"
}
