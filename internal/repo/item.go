package repo

import (
	"strings"

	"gtaeconomy/internal/models"
)

func (r *Repository) CreateItem(item *models.Item) error {
	return r.db.Create(item).Error
}

func (r *Repository) GetItemByID(id int64) (*models.Item, error) {
	var item models.Item
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) GetItemByName(name string) (*models.Item, error) {
	var item models.Item
	if err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) GetAllItems() ([]models.Item, error) {
	var items []models.Item
	if err := r.db.Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SearchItemsByName matches a case-insensitive substring of the item name. The match runs
// in Go because SQLite's LOWER and LIKE only fold ASCII.
func (r *Repository) SearchItemsByName(query string) ([]models.Item, error) {
	items, err := r.GetAllItems()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matched := make([]models.Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func (r *Repository) UpdateItem(item *models.Item) error {
	return r.db.Save(item).Error
}

func (r *Repository) DeleteItem(id int64) error {
	return r.db.Delete(&models.Item{}, id).Error
}

func (r *Repository) CountItems() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Item{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
