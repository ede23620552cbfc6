package repo

import (
	"time"

	"gtaeconomy/internal/models"
)

func (r *Repository) CreatePrice(price *models.MarketPrice) error {
	return r.db.Create(price).Error
}

func (r *Repository) GetLatestPrice(itemID int64) (*models.MarketPrice, error) {
	var price models.MarketPrice
	if err := r.db.Where("item_id = ?", itemID).
		Order("date DESC").
		Order("id DESC").
		First(&price).Error; err != nil {
		return nil, err
	}
	return &price, nil
}

func (r *Repository) GetPricesByItemID(itemID int64) ([]models.MarketPrice, error) {
	var prices []models.MarketPrice
	if err := r.db.Where("item_id = ?", itemID).Order("date ASC").Order("id ASC").Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// GetPriceOnDate returns the last price recorded during the calendar day of date.
func (r *Repository) GetPriceOnDate(itemID int64, date time.Time) (*models.MarketPrice, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.AddDate(0, 0, 1)

	var price models.MarketPrice
	if err := r.db.Where("item_id = ? AND date >= ? AND date < ?", itemID, start, end).
		Order("date DESC").
		Order("id DESC").
		First(&price).Error; err != nil {
		return nil, err
	}
	return &price, nil
}

func (r *Repository) GetAllPrices() ([]models.MarketPrice, error) {
	var prices []models.MarketPrice
	if err := r.db.Order("item_id ASC").Order("date ASC").Order("id ASC").Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// LatestPrices maps each item id with a price history to its most recent price.
func (r *Repository) LatestPrices() (map[int64]models.MarketPrice, error) {
	prices, err := r.GetAllPrices()
	if err != nil {
		return nil, err
	}
	latest := make(map[int64]models.MarketPrice, len(prices))
	for _, p := range prices {
		latest[p.ItemID] = p
	}
	return latest, nil
}

func (r *Repository) DeletePricesByItemID(itemID int64) error {
	return r.db.Where("item_id = ?", itemID).Delete(&models.MarketPrice{}).Error
}

func (r *Repository) CountPrices() (int64, error) {
	var count int64
	if err := r.db.Model(&models.MarketPrice{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
