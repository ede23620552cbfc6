package handler

import (
	"errors"
	"log/slog"

	"gtaeconomy/internal/repo"
	"gtaeconomy/internal/service"

	"github.com/gin-gonic/gin"
)

var (
	ErrNilEngine     = errors.New("engine is required")
	ErrNilEconomy    = errors.New("economy service is required")
	ErrNilRepository = errors.New("repository is required")
	ErrNilLogger     = errors.New("logger is required")
)

type WebHandler struct {
	engine       *gin.Engine
	economy      *service.Economy
	repo         *repo.Repository
	logger       *slog.Logger
	renderer     *Renderer
	templatesDir string
	staticDir    string
	imagesDir    string
}

type Option func(*WebHandler)

func WithEngine(engine *gin.Engine) Option {
	return func(h *WebHandler) {
		h.engine = engine
	}
}

func WithEconomy(e *service.Economy) Option {
	return func(h *WebHandler) {
		h.economy = e
	}
}

func WithRepository(repository *repo.Repository) Option {
	return func(h *WebHandler) {
		h.repo = repository
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(h *WebHandler) {
		h.logger = l
	}
}

func WithTemplatesDir(dir string) Option {
	return func(h *WebHandler) {
		h.templatesDir = dir
	}
}

func WithStaticDir(dir string) Option {
	return func(h *WebHandler) {
		h.staticDir = dir
	}
}

// WithImagesDir sets where uploaded item images are written and served from.
func WithImagesDir(dir string) Option {
	return func(h *WebHandler) {
		h.imagesDir = dir
	}
}

func New(opts ...Option) (*WebHandler, error) {
	h := &WebHandler{
		templatesDir: "./internal/ui/templates",
		staticDir:    "./internal/ui/static",
		imagesDir:    "./internal/ui/static/images",
	}
	for _, opt := range opts {
		opt(h)
	}
	switch {
	case h.engine == nil:
		return nil, ErrNilEngine
	case h.economy == nil:
		return nil, ErrNilEconomy
	case h.repo == nil:
		return nil, ErrNilRepository
	case h.logger == nil:
		return nil, ErrNilLogger
	}
	h.renderer = NewRenderer(h.templatesDir)
	return h, nil
}

func (h *WebHandler) Setup() error {
	h.engine.Static("/static/images", h.imagesDir)
	h.engine.Static("/static/css", h.staticDir+"/css")
	h.engine.MaxMultipartMemory = maxUploadSize

	dashboard := NewDashboardHandler(h.renderer, h.economy, h.logger)
	transactions := NewTransactionsHandler(h.renderer, h.economy, h.logger)
	items := NewItemsHandler(h.renderer, h.economy, h.logger, h.imagesDir)
	players := NewPlayersHandler(h.renderer, h.economy, h.logger)
	data := NewDataHandler(h.renderer, h.economy, h.repo, h.logger)

	h.engine.GET("/", dashboard.Index)
	h.engine.GET("/analytics", dashboard.Index)
	h.engine.GET("/design", dashboard.Design)

	h.engine.GET("/add-transaction", transactions.New)
	h.engine.POST("/add-transaction", transactions.Create)
	h.engine.GET("/view-transactions", transactions.List)
	h.engine.POST("/transactions/delete/:id", transactions.Delete)

	h.engine.GET("/view-items", items.List)
	h.engine.GET("/add-item", items.New)
	h.engine.POST("/add-item", items.Create)
	h.engine.GET("/edit-item/:id", items.Edit)
	h.engine.POST("/edit-item/:id", items.Update)
	h.engine.POST("/items/delete/:id", items.Delete)

	h.engine.GET("/view-players", players.List)
	h.engine.GET("/add-player", players.New)
	h.engine.POST("/add-player", players.Create)
	h.engine.POST("/players/delete/:id", players.Delete)

	h.engine.GET("/data", data.Index)
	h.engine.POST("/data/import", data.Import)

	h.engine.GET("/api/health", Health(h.repo))

	return nil
}
