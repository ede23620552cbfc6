package service

import (
	"math"
	"sort"
	"time"

	"gtaeconomy/internal/models"
	"gtaeconomy/internal/repo"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	TopSpendersLimit = 5
	TopPricedLimit   = 5
	TrendDateLayout  = "2006-01-02"
)

type Analytics struct {
	TotalTransactions  int64                 `json:"total_transactions"`
	TotalPlayers       int64                 `json:"total_players"`
	TotalItems         int64                 `json:"total_items"`
	TotalSpent         float64               `json:"total_spent"`
	AverageTransaction float64               `json:"average_transaction"`
	TopSpenders        []repo.PlayerSpending `json:"top_spenders"`
	TopPricedItems     []PricedItem          `json:"top_priced_items"`
	Trends             []TrendSeries         `json:"trends"`
}

type PricedItem struct {
	ItemID   int64     `json:"item_id"`
	ItemName string    `json:"item_name"`
	Price    float64   `json:"price"`
	Date     time.Time `json:"date"`
}

type TrendPoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// TrendSeries is the price history of one item, oldest first.
type TrendSeries struct {
	ItemID   int64        `json:"item_id"`
	ItemName string       `json:"item_name"`
	Points   []TrendPoint `json:"points"`
}

func (s TrendSeries) Labels() []string {
	out := make([]string, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Date.UTC().Format(TrendDateLayout)
	}
	return out
}

func (s TrendSeries) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Price
	}
	return out
}

func (e *Economy) ComputeAnalytics() (*Analytics, error) {
	a := &Analytics{}
	var err error

	if a.TotalPlayers, err = e.repo.CountPlayers(); err != nil {
		return nil, errors.Wrap(err, "failed to count players")
	}
	if a.TotalItems, err = e.repo.CountItems(); err != nil {
		return nil, errors.Wrap(err, "failed to count items")
	}

	transactions, err := e.repo.GetAllTransactions()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load transactions")
	}
	a.TotalTransactions = int64(len(transactions))
	a.TotalSpent = sumPurchases(transactions)
	a.AverageTransaction = averageAmount(transactions)

	if a.TopSpenders, err = e.repo.TopSpenders(TopSpendersLimit); err != nil {
		return nil, errors.Wrap(err, "failed to rank spenders")
	}
	if a.TopSpenders == nil {
		a.TopSpenders = []repo.PlayerSpending{}
	}

	items, err := e.repo.GetAllItems()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load items")
	}
	prices, err := e.repo.GetAllPrices()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load prices")
	}

	a.TopPricedItems = topPriced(items, prices, TopPricedLimit)
	a.Trends = trends(items, prices)
	return a, nil
}

// TotalSpending is the sum of every purchase amount.
func (e *Economy) TotalSpending() (float64, error) {
	transactions, err := e.repo.GetAllTransactions()
	if err != nil {
		return 0, errors.Wrap(err, "failed to load transactions")
	}
	return sumPurchases(transactions), nil
}

// AverageTransaction is the mean amount over all transactions, rounded to cents.
func (e *Economy) AverageTransaction() (float64, error) {
	transactions, err := e.repo.GetAllTransactions()
	if err != nil {
		return 0, errors.Wrap(err, "failed to load transactions")
	}
	return averageAmount(transactions), nil
}

// InflationRate is the compound annual growth, in percent, between the prices recorded on
// start and end. Prices within the same calendar year yield 0.
func (e *Economy) InflationRate(itemID int64, start, end time.Time) (float64, error) {
	if _, err := e.repo.GetItemByID(itemID); err != nil {
		return 0, notFoundOr(err, "item %d", itemID)
	}

	startPrice, err := e.GetMarketPrice(itemID, start)
	if err != nil {
		return 0, err
	}
	endPrice, err := e.GetMarketPrice(itemID, end)
	if err != nil {
		return 0, err
	}

	return compoundGrowth(startPrice.Price, endPrice.Price, end.Year()-start.Year()), nil
}

func compoundGrowth(start, end float64, years int) float64 {
	if years == 0 || start <= 0 {
		return 0
	}
	rate := (math.Pow(end/start, 1/float64(years)) - 1) * 100
	return decimal.NewFromFloat(rate).Round(4).InexactFloat64()
}

func sumPurchases(transactions []models.Transaction) float64 {
	sum := decimal.Zero
	for _, tx := range transactions {
		if tx.Type == models.TransactionTypePurchase {
			sum = sum.Add(decimal.NewFromFloat(tx.Amount))
		}
	}
	return sum.InexactFloat64()
}

func averageAmount(transactions []models.Transaction) float64 {
	if len(transactions) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, tx := range transactions {
		sum = sum.Add(decimal.NewFromFloat(tx.Amount))
	}
	return sum.Div(decimal.NewFromInt(int64(len(transactions)))).Round(2).InexactFloat64()
}

// topPriced ranks items by their latest price, highest first, ties by id. prices must be
// ordered by item, date then id.
func topPriced(items []models.Item, prices []models.MarketPrice, limit int) []PricedItem {
	latest := make(map[int64]models.MarketPrice, len(items))
	for _, p := range prices {
		latest[p.ItemID] = p
	}

	out := make([]PricedItem, 0, len(latest))
	for _, it := range items {
		mp, ok := latest[it.ID]
		if !ok {
			continue
		}
		out = append(out, PricedItem{ItemID: it.ID, ItemName: it.Name, Price: mp.Price, Date: mp.Date})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Price != out[j].Price {
			return out[i].Price > out[j].Price
		}
		return out[i].ItemID < out[j].ItemID
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func trends(items []models.Item, prices []models.MarketPrice) []TrendSeries {
	byItem := make(map[int64][]TrendPoint)
	for _, p := range prices {
		byItem[p.ItemID] = append(byItem[p.ItemID], TrendPoint{Date: p.Date, Price: p.Price})
	}

	out := make([]TrendSeries, 0, len(byItem))
	for _, it := range items {
		points, ok := byItem[it.ID]
		if !ok {
			continue
		}
		out = append(out, TrendSeries{ItemID: it.ID, ItemName: it.Name, Points: points})
	}
	return out
}
