package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"gtaeconomy/internal/repo"
	"gtaeconomy/internal/service"

	"github.com/gin-gonic/gin"
)

type DataHandler struct {
	renderer *Renderer
	economy  *service.Economy
	repo     *repo.Repository
	logger   *slog.Logger
}

func NewDataHandler(renderer *Renderer, economy *service.Economy, repository *repo.Repository, logger *slog.Logger) *DataHandler {
	return &DataHandler{
		renderer: renderer,
		economy:  economy,
		repo:     repository,
		logger:   logger,
	}
}

type DataPageData struct {
	Page
	Imports []ImportLogView
}

type ImportLogView struct {
	ID           int64
	Filename     string
	Format       string
	TotalRows    int
	ImportedRows int
	FailedRows   int
	Status       string
	CreatedAt    string
	HasErrors    bool
}

func (h *DataHandler) Index(c *gin.Context) {
	h.render(c, http.StatusOK, "", "")
}

func (h *DataHandler) render(c *gin.Context, status int, notice, errMsg string) {
	data := DataPageData{
		Page: Page{Title: "Data", ActivePage: "data", Notice: notice, Error: errMsg},
	}

	logs, err := h.repo.ListImportLogs()
	if err != nil {
		h.logger.Error("failed to list import logs", "error", err)
	}
	for _, log := range logs {
		data.Imports = append(data.Imports, ImportLogView{
			ID:           log.ID,
			Filename:     log.Filename,
			Format:       log.Format,
			TotalRows:    log.TotalRows,
			ImportedRows: log.ImportedRows,
			FailedRows:   log.FailedRows,
			Status:       log.Status,
			CreatedAt:    log.CreatedAt.Format("2006-01-02 15:04"),
			HasErrors:    log.FailedRows > 0,
		})
	}

	h.renderer.HTML(c, status, "data", data)
}

func (h *DataHandler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		toast(c, "Choose a file to import", "error")
		h.render(c, http.StatusBadRequest, "", "Choose a file to import")
		return
	}

	format := strings.ToLower(c.PostForm("format"))
	if format == "" {
		format = service.FormatCSV
		if strings.HasSuffix(strings.ToLower(fh.Filename), ".json") {
			format = service.FormatJSON
		}
	}

	file, err := fh.Open()
	if err != nil {
		h.render(c, http.StatusBadRequest, "", "Could not read the uploaded file")
		return
	}
	defer file.Close()

	importLog, _, err := h.economy.ImportFile(fh.Filename, format, file)
	if err != nil {
		status, msg := errorStatus(h.logger, err)
		toast(c, msg, "error")
		h.render(c, status, "", msg)
		return
	}

	notice := fmt.Sprintf("Imported %d of %d rows from %s", importLog.ImportedRows, importLog.TotalRows, importLog.Filename)
	toast(c, notice, "success")
	h.render(c, http.StatusOK, notice, "")
}
