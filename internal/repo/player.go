package repo

import (
	"gtaeconomy/internal/models"
)

type PlayerSpending struct {
	PlayerID int64   `json:"player_id"`
	Username string  `json:"username"`
	Total    float64 `json:"total"`
}

func (r *Repository) CreatePlayer(player *models.Player) error {
	return r.db.Create(player).Error
}

func (r *Repository) GetPlayerByID(id int64) (*models.Player, error) {
	var player models.Player
	if err := r.db.First(&player, id).Error; err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *Repository) GetPlayerByUsername(username string) (*models.Player, error) {
	var player models.Player
	if err := r.db.Where("LOWER(username) = LOWER(?)", username).First(&player).Error; err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *Repository) GetAllPlayers() ([]models.Player, error) {
	var players []models.Player
	if err := r.db.Order("id ASC").Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

func (r *Repository) DeletePlayer(id int64) error {
	return r.db.Delete(&models.Player{}, id).Error
}

func (r *Repository) CountPlayers() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Player{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// TopSpenders sums purchase amounts per player, highest first. A limit <= 0 returns every
// player that has at least one purchase.
func (r *Repository) TopSpenders(limit int) ([]PlayerSpending, error) {
	query := r.db.Table("transactions AS t").
		Select("t.player_id AS player_id, p.username AS username, SUM(t.amount) AS total").
		Joins("JOIN players AS p ON p.id = t.player_id").
		Where("t.type = ?", models.TransactionTypePurchase).
		Group("t.player_id, p.username").
		Order("total DESC, t.player_id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []PlayerSpending
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
