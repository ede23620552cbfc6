package handler

import (
	"errors"
	"log/slog"

	"gtaeconomy/internal/controller"
	"gtaeconomy/internal/repo"
	"gtaeconomy/internal/service"
	"gtaeconomy/pkg/types/pubsub"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var (
	ErrNilEngine     = errors.New("engine is required")
	ErrNilEconomy    = errors.New("economy service is required")
	ErrNilRepository = errors.New("repository is required")
	ErrNilLogger     = errors.New("logger is required")
)

// Handler mounts the JSON API under /api and the swagger UI under /swagger.
type Handler struct {
	engine      *gin.Engine
	economy     *service.Economy
	repository  *repo.Repository
	logger      *slog.Logger
	priceEvents pubsub.Subscriber
	swagger     bool
}

func (h *Handler) IsValid() error {
	switch {
	case h.engine == nil:
		return ErrNilEngine
	case h.economy == nil:
		return ErrNilEconomy
	case h.repository == nil:
		return ErrNilRepository
	case h.logger == nil:
		return ErrNilLogger
	}
	return nil
}

type Option func(*Handler)

func WithEngine(engine *gin.Engine) Option {
	return func(h *Handler) {
		h.engine = engine
	}
}

func WithEconomy(e *service.Economy) Option {
	return func(h *Handler) {
		h.economy = e
	}
}

func WithRepository(repository *repo.Repository) Option {
	return func(h *Handler) {
		h.repository = repository
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = l
	}
}

func WithPriceEvents(s pubsub.Subscriber) Option {
	return func(h *Handler) {
		h.priceEvents = s
	}
}

func WithSwagger() Option {
	return func(h *Handler) {
		h.swagger = true
	}
}

func New(opts ...Option) (*Handler, error) {
	h := &Handler{}
	for _, opt := range opts {
		opt(h)
	}
	if err := h.IsValid(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Handler) Setup() error {
	ctrl, err := controller.New(
		controller.WithEconomy(h.economy),
		controller.WithRepository(h.repository),
		controller.WithLogger(h.logger),
		controller.WithPriceEvents(h.priceEvents),
	)
	if err != nil {
		return err
	}

	if h.swagger {
		h.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := h.engine.Group("/api")

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

	prices := api.Group("/prices")
	prices.GET("", ctrl.ListPrices)
	prices.GET("/stream", ctrl.StreamPrices)

	data := api.Group("/data")
	data.GET("/export", ctrl.ExportData)
	data.POST("/import", ctrl.ImportData)

	imports := api.Group("/imports")
	imports.GET("", ctrl.ListImportLogs)
	imports.GET("/:id", ctrl.GetImportLog)
	imports.POST("/:id/retry", ctrl.RetryImport)
	imports.DELETE("/:id", ctrl.DeleteImportLog)

	return nil
}
