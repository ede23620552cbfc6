package repo

import (
	"gtaeconomy/internal/models"
)

type TransactionFilter struct {
	PlayerID *int64
	Type     string
	Item     string
	Limit    int
	Offset   int
}

type TransactionListResult struct {
	Transactions []models.Transaction `json:"transactions"`
	Total        int64                `json:"total"`
	Limit        int                  `json:"limit"`
	Offset       int                  `json:"offset"`
}

func (r *Repository) CreateTransaction(tx *models.Transaction) error {
	return r.db.Create(tx).Error
}

func (r *Repository) GetTransactionByID(id int64) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.First(&tx, id).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *Repository) GetAllTransactions() ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Order("id ASC").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *Repository) DeleteTransaction(id int64) error {
	return r.db.Delete(&models.Transaction{}, id).Error
}

func (r *Repository) DeleteTransactionsByPlayerID(playerID int64) error {
	return r.db.Where("player_id = ?", playerID).Delete(&models.Transaction{}).Error
}

// ListTransactions keeps insertion order. A Limit <= 0 returns every matching row.
func (r *Repository) ListTransactions(filter TransactionFilter) (*TransactionListResult, error) {
	query := r.db.Model(&models.Transaction{})

	if filter.PlayerID != nil {
		query = query.Where("player_id = ?", *filter.PlayerID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Item != "" {
		query = query.Where("LOWER(item) = LOWER(?)", filter.Item)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query = query.Order("id ASC").Offset(offset)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, err
	}

	return &TransactionListResult{
		Transactions: transactions,
		Total:        total,
		Limit:        filter.Limit,
		Offset:       offset,
	}, nil
}

func (r *Repository) CountTransactions() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Transaction{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
