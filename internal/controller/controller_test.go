package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"gtaeconomy/internal/models"
	"gtaeconomy/internal/repo"
	"gtaeconomy/internal/service"
	"gtaeconomy/pkg/integrations/memcache"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type ControllerTestSuite struct {
	suite.Suite
	router *gin.Engine
	ctrl   *Controller

	player *models.Player
	item   *service.ItemView
	tx     *models.Transaction
}

func (s *ControllerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	repository, err := repo.New(db)
	s.Require().NoError(err)
	s.Require().NoError(repository.Migrate())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	economy, err := service.NewEconomy(
		service.WithEconomyLogger(logger),
		service.WithEconomyRepo(repository),
		service.WithEconomyPriceCache(memcache.New[int64, float64]()),
	)
	s.Require().NoError(err)

	ctrl, err := New(WithEconomy(economy), WithRepository(repository), WithLogger(logger))
	s.Require().NoError(err)
	s.ctrl = ctrl

	s.router = gin.New()
	api := s.router.Group("/api")

	players := api.Group("/players")
	players.GET("", ctrl.ListPlayers)
	players.POST("", ctrl.CreatePlayer)
	players.GET("/:id", ctrl.GetPlayer)
	players.DELETE("/:id", ctrl.DeletePlayer)

	items := api.Group("/items")
	items.GET("", ctrl.ListItems)
	items.POST("", ctrl.CreateItem)
	items.GET("/:id", ctrl.GetItem)
	items.PUT("/:id", ctrl.UpdateItem)
	items.DELETE("/:id", ctrl.DeleteItem)
	items.GET("/:id/prices", ctrl.GetItemPrices)
	items.POST("/:id/prices", ctrl.AddItemPrice)
	items.GET("/:id/prices/:date", ctrl.GetItemPriceOnDate)

	transactions := api.Group("/transactions")
	transactions.GET("", ctrl.ListTransactions)
	transactions.POST("", ctrl.CreateTransaction)
	transactions.GET("/:id", ctrl.GetTransaction)
	transactions.DELETE("/:id", ctrl.DeleteTransaction)

	analytics := api.Group("/analytics")
	analytics.GET("", ctrl.GetAnalytics)
	analytics.GET("/total-spending", ctrl.TotalSpending)
	analytics.GET("/average-transaction", ctrl.AverageTransaction)
	analytics.GET("/inflation-rate", ctrl.InflationRate)

	api.GET("/prices", ctrl.ListPrices)
	api.GET("/prices/stream", ctrl.StreamPrices)
	api.GET("/data/export", ctrl.ExportData)
	api.POST("/data/import", ctrl.ImportData)
	api.GET("/imports", ctrl.ListImportLogs)
	api.GET("/imports/:id", ctrl.GetImportLog)
	api.POST("/imports/:id/retry", ctrl.RetryImport)
	api.DELETE("/imports/:id", ctrl.DeleteImportLog)
}

func (s *ControllerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ControllerTestSuite) decodeError(w *httptest.ResponseRecorder) APIError {
	var apiErr APIError
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &apiErr))
	return apiErr
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New()
	if err != ErrNilEconomy {
		t.Fatalf("expected ErrNilEconomy, got %v", err)
	}
}

// Player Tests

func (s *ControllerTestSuite) Test02_Player_Create() {
	w := s.do(http.MethodPost, "/api/players", CreatePlayerRequest{Username: "Michael"})
	s.Equal(http.StatusCreated, w.Code)

	var created models.Player
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	s.NotZero(created.ID)
	s.Equal("Michael", created.Username)
	s.player = &created
}

func (s *ControllerTestSuite) Test03_Player_CreateDuplicate() {
	w := s.do(http.MethodPost, "/api/players", CreatePlayerRequest{Username: "michael"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(s.decodeError(w).Error, "already exists")
}

func (s *ControllerTestSuite) Test04_Player_CreateMissingUsername() {
	w := s.do(http.MethodPost, "/api/players", map[string]string{})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("invalid input", s.decodeError(w).Error)
}

func (s *ControllerTestSuite) Test05_Player_Get() {
	s.Require().NotNil(s.player)
	w := s.do(http.MethodGet, fmt.Sprintf("/api/players/%d", s.player.ID), nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/players/999", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("player 999 not found", s.decodeError(w).Error)

	w = s.do(http.MethodGet, "/api/players/abc", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

// Item Tests

func (s *ControllerTestSuite) Test10_Item_Create() {
	price := 3890250.0
	w := s.do(http.MethodPost, "/api/items", CreateItemRequest{Name: "Oppressor", ImageFilename: "oppressor.png", Price: &price})
	s.Equal(http.StatusCreated, w.Code)

	var created service.ItemView
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	s.Equal("Oppressor", created.Name)
	s.True(created.HasPrice)
	s.Equal(price, created.CurrentPrice)
	s.item = &created
}

func (s *ControllerTestSuite) Test11_Item_CreateInvalidPrice() {
	price := -1.0
	w := s.do(http.MethodPost, "/api/items", CreateItemRequest{Name: "Broken", Price: &price})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/items?query=Broken", nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`[]`, w.Body.String())
}

func (s *ControllerTestSuite) Test12_Item_Search() {
	w := s.do(http.MethodGet, "/api/items?query=press&query_type=name", nil)
	s.Equal(http.StatusOK, w.Code)

	var items []service.ItemView
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &items))
	s.Require().Len(items, 1)
	s.Equal("Oppressor", items[0].Name)

	w = s.do(http.MethodGet, "/api/items?query=x&query_type=id", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ControllerTestSuite) Test13_Item_AddPrice() {
	s.Require().NotNil(s.item)
	path := fmt.Sprintf("/api/items/%d/prices", s.item.ID)

	w := s.do(http.MethodPost, path, AddPriceRequest{Price: 3500000, Date: "2022-06-01"})
	s.Equal(http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, path, AddPriceRequest{Price: -3})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, path, AddPriceRequest{Price: 3, Date: "not-a-date"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, path, nil)
	s.Equal(http.StatusOK, w.Code)
	var history []models.MarketPrice
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &history))
	s.Require().Len(history, 2)
	s.Equal(3500000.0, history[0].Price)

	w = s.do(http.MethodGet, path+"/2022-06-01", nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, path+"/2022-06-02", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ControllerTestSuite) Test14_Item_Update() {
	s.Require().NotNil(s.item)
	w := s.do(http.MethodPut, fmt.Sprintf("/api/items/%d", s.item.ID), UpdateItemRequest{Name: "Oppressor Mk II"})
	s.Equal(http.StatusOK, w.Code)

	var updated models.Item
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	s.Equal("Oppressor Mk II", updated.Name)
	s.Equal("oppressor.png", updated.ImageFilename)

	w = s.do(http.MethodPut, "/api/items/999", UpdateItemRequest{Name: "x"})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ControllerTestSuite) Test15_Prices_List() {
	w := s.do(http.MethodGet, "/api/prices", nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(fmt.Sprintf(`{"%d": 3890250}`, s.item.ID), w.Body.String())
}

func (s *ControllerTestSuite) Test16_Prices_StreamUnavailable() {
	w := s.do(http.MethodGet, "/api/prices/stream", nil)
	s.Equal(http.StatusServiceUnavailable, w.Code)
}

// Transaction Tests

func (s *ControllerTestSuite) Test20_Transaction_Create() {
	s.Require().NotNil(s.player)
	w := s.do(http.MethodPost, "/api/transactions", CreateTransactionRequest{
		PlayerID: s.player.ID,
		Item:     "oppressor mk ii",
		Amount:   3890250,
		Date:     "2023-01-01",
	})
	s.Equal(http.StatusCreated, w.Code)

	var tx models.Transaction
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tx))
	s.Equal("Oppressor Mk II", tx.Item)
	s.Equal(models.TransactionTypePurchase, tx.Type)
	s.tx = &tx
}

func (s *ControllerTestSuite) Test21_Transaction_CreateRejected() {
	tests := []struct {
		name   string
		req    CreateTransactionRequest
		status int
	}{
		{"zero amount", CreateTransactionRequest{PlayerID: s.player.ID, Item: "Oppressor Mk II", Amount: 0}, http.StatusBadRequest},
		{"unknown player", CreateTransactionRequest{PlayerID: 404, Item: "Oppressor Mk II", Amount: 1}, http.StatusNotFound},
		{"unknown item", CreateTransactionRequest{PlayerID: s.player.ID, Item: "Hydra", Amount: 1}, http.StatusNotFound},
		{"bad type", CreateTransactionRequest{PlayerID: s.player.ID, Item: "Oppressor Mk II", Amount: 1, Type: "gift"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.do(http.MethodPost, "/api/transactions", tt.req)
			s.Equal(tt.status, w.Code)
		})
	}
}

func (s *ControllerTestSuite) Test22_Transaction_List() {
	w := s.do(http.MethodGet, fmt.Sprintf("/api/transactions?player_id=%d", s.player.ID), nil)
	s.Equal(http.StatusOK, w.Code)

	var result repo.TransactionListResult
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &result))
	s.Equal(int64(1), result.Total)
	s.Require().Len(result.Transactions, 1)

	w = s.do(http.MethodGet, "/api/transactions?player_id=404", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &result))
	s.Empty(result.Transactions)

	w = s.do(http.MethodGet, "/api/transactions?player_id=abc", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

// Analytics Tests

func (s *ControllerTestSuite) Test30_Analytics() {
	w := s.do(http.MethodGet, "/api/analytics", nil)
	s.Equal(http.StatusOK, w.Code)

	var a service.Analytics
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &a))
	s.Equal(int64(1), a.TotalTransactions)
	s.Equal(3890250.0, a.TotalSpent)
	s.Require().Len(a.TopSpenders, 1)
	s.Equal("Michael", a.TopSpenders[0].Username)
	s.Require().Len(a.TopPricedItems, 1)
	s.Equal(3890250.0, a.TopPricedItems[0].Price)

	w = s.do(http.MethodGet, "/api/analytics/total-spending", nil)
	s.JSONEq(`{"total_spending": 3890250}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/analytics/average-transaction", nil)
	s.JSONEq(`{"average_transaction_value": 3890250}`, w.Body.String())
}

func (s *ControllerTestSuite) Test31_Analytics_InflationRate() {
	w := s.do(http.MethodGet, fmt.Sprintf("/api/analytics/inflation-rate?item_id=%d&start_date=2022-06-01&end_date=2022-06-01", s.item.ID), nil)
	s.Equal(http.StatusOK, w.Code)

	var body map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal(0.0, body["inflation_rate"])

	w = s.do(http.MethodGet, fmt.Sprintf("/api/analytics/inflation-rate?item_id=%d&start_date=2020-01-01&end_date=2022-06-01", s.item.ID), nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/analytics/inflation-rate?item_id=1&start_date=yesterday&end_date=2022-06-01", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

// Data Tests

func (s *ControllerTestSuite) Test40_Export() {
	w := s.do(http.MethodGet, "/api/data/export?format=csv", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Disposition"), ".csv")
	s.Contains(w.Body.String(), "type;transaction_id;player_id")
	s.Contains(w.Body.String(), "Player;;")

	w = s.do(http.MethodGet, "/api/data/export?format=json", nil)
	s.Equal(http.StatusOK, w.Code)
	var doc map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &doc))
	s.Contains(doc, "transactions")

	w = s.do(http.MethodGet, "/api/data/export?format=xml", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ControllerTestSuite) Test41_Import() {
	csvData := "type,player_id,username,item,amount\nPlayer,50,Franklin,,\nTransaction,50,,Oppressor Mk II,100\nTransaction,51,,Oppressor Mk II,100\n"

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "seed.csv")
	s.Require().NoError(err)
	_, err = part.Write([]byte(csvData))
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/data/import?format=csv", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)

	var resp ImportResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.NotZero(resp.ID)
	s.Equal(2, resp.Imported)
	s.Equal(1, resp.Failed)
	s.Equal(service.ImportStatusPartial, resp.Status)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/imports/%d", resp.ID), nil)
	s.Equal(http.StatusOK, w.Code)
	var log models.ImportLog
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &log))
	s.Equal("seed.csv", log.Filename)
	s.Contains(log.FailedData, "player 51 not found")

	retry := []map[string]any{{"type": "Transaction", "player_id": 50, "item": "Oppressor Mk II", "amount": 100}}
	w = s.do(http.MethodPost, fmt.Sprintf("/api/imports/%d/retry", resp.ID), retry)
	s.Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(service.ImportStatusCompleted, resp.Status)

	w = s.do(http.MethodGet, "/api/imports", nil)
	s.Equal(http.StatusOK, w.Code)
	var logs []models.ImportLog
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &logs))
	s.Len(logs, 1)
	s.Equal(3, logs[0].ImportedRows)
}

func (s *ControllerTestSuite) Test42_Import_MissingFile() {
	req := httptest.NewRequest(http.MethodPost, "/api/data/import", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusBadRequest, w.Code)
}

// Delete Tests

func (s *ControllerTestSuite) Test50_Transaction_Delete() {
	s.Require().NotNil(s.tx)
	path := fmt.Sprintf("/api/transactions/%d", s.tx.ID)

	w := s.do(http.MethodDelete, path, nil)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodDelete, path, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ControllerTestSuite) Test51_Item_Delete() {
	path := fmt.Sprintf("/api/items/%d", s.item.ID)

	w := s.do(http.MethodDelete, path, nil)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, path+"/prices", nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/items?query=Oppressor", nil)
	s.JSONEq(`[]`, w.Body.String())
}

func (s *ControllerTestSuite) Test52_Player_DeleteCascades() {
	w := s.do(http.MethodDelete, "/api/players/50", nil)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/api/transactions?player_id=50", nil)
	var result repo.TransactionListResult
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &result))
	s.Empty(result.Transactions)

	w = s.do(http.MethodDelete, "/api/players/50", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ControllerTestSuite) Test53_ImportLog_Delete() {
	w := s.do(http.MethodDelete, "/api/imports/1", nil)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodDelete, "/api/imports/1", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func TestControllerTestSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}
