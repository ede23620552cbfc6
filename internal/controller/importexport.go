package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gtaeconomy/internal/flatfile"
	"gtaeconomy/internal/service"

	"github.com/gin-gonic/gin"
)

type ImportResponse struct {
	ID       int64               `json:"id"`
	Imported int                 `json:"imported"`
	Failed   int                 `json:"failed"`
	Total    int                 `json:"total"`
	Status   string              `json:"status"`
	Errors   []flatfile.RowError `json:"errors,omitempty"`
}

func formatParam(ctx *gin.Context) (string, bool) {
	format := strings.ToLower(ctx.DefaultQuery("format", "csv"))
	if format != service.FormatCSV && format != service.FormatJSON {
		badRequest(ctx, "format must be csv or json")
		return "", false
	}
	return format, true
}

// ExportData exports the whole economy as CSV or JSON
// @Summary Export data
// @Description Export players, items, prices and transactions. CSV uses ';' and one type-tagged row per record.
// @Tags data
// @Produce octet-stream
// @Param format query string false "Export format (csv or json)" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} APIError
// @Router /api/data/export [get]
func (c *Controller) ExportData(ctx *gin.Context) {
	format, ok := formatParam(ctx)
	if !ok {
		return
	}

	ds, err := c.economy.Dataset()
	if err != nil {
		c.serviceError(ctx, err, "failed to collect data")
		return
	}

	filename := fmt.Sprintf("gtaeconomy_%s.%s", time.Now().Format("2006-01-02"), format)
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	var buf bytes.Buffer
	contentType := "text/csv"
	if format == "json" {
		contentType = "application/json"
		err = flatfile.WriteJSON(&buf, ds)
	} else {
		err = flatfile.WriteCSV(&buf, ds.Records(), ';')
	}
	if err != nil {
		c.logger.Error("failed to encode export", "format", format, "error", err)
		internalError(ctx, "failed to encode export")
		return
	}

	ctx.Data(http.StatusOK, contentType, buf.Bytes())
}

// ImportData imports records from an uploaded CSV or JSON file
// @Summary Import data
// @Description Import type-tagged rows. Valid rows are applied in file order; failures are kept in the import log.
// @Tags data
// @Accept multipart/form-data
// @Produce json
// @Param format query string false "Import format (csv or json)" default(csv)
// @Param file formData file true "File to import"
// @Success 200 {object} ImportResponse
// @Failure 400 {object} APIError
// @Router /api/data/import [post]
func (c *Controller) ImportData(ctx *gin.Context) {
	format, ok := formatParam(ctx)
	if !ok {
		return
	}

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		badRequest(ctx, "file is required")
		return
	}
	defer file.Close()

	importLog, res, err := c.economy.ImportFile(header.Filename, format, file)
	if err != nil {
		c.serviceError(ctx, err, "failed to import file")
		return
	}

	ctx.JSON(http.StatusOK, ImportResponse{
		ID:       importLog.ID,
		Imported: res.ImportedRows,
		Failed:   res.FailedRows,
		Total:    res.TotalRows,
		Status:   res.Status,
		Errors:   res.Errors,
	})
}

// ListImportLogs returns all import logs
// @Summary List import logs
// @Description Get all import history, newest first
// @Tags data
// @Produce json
// @Success 200 {array} models.ImportLog
// @Router /api/imports [get]
func (c *Controller) ListImportLogs(ctx *gin.Context) {
	logs, err := c.repo.ListImportLogs()
	if err != nil {
		internalError(ctx, "failed to fetch import logs")
		return
	}
	ctx.JSON(http.StatusOK, logs)
}

// GetImportLog returns a specific import log
// @Summary Get import log
// @Description Get a specific import log with failed data
// @Tags data
// @Produce json
// @Param id path int true "Import log ID"
// @Success 200 {object} models.ImportLog
// @Failure 404 {object} APIError
// @Router /api/imports/{id} [get]
func (c *Controller) GetImportLog(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	log, err := c.repo.GetImportLogByID(id)
	if err != nil {
		notFound(ctx, "import log not found")
		return
	}

	ctx.JSON(http.StatusOK, log)
}

// RetryImport retries failed rows with corrected data
// @Summary Retry import
// @Description Apply corrected records against an earlier import and update its log
// @Tags data
// @Accept json
// @Produce json
// @Param id path int true "Import log ID"
// @Param records body []flatfile.Record true "Corrected records"
// @Success 200 {object} ImportResponse
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Router /api/imports/{id}/retry [post]
func (c *Controller) RetryImport(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	importLog, err := c.repo.GetImportLogByID(id)
	if err != nil {
		notFound(ctx, "import log not found")
		return
	}

	data, err := ctx.GetRawData()
	if err != nil {
		badRequest(ctx, "failed to read body")
		return
	}
	records, parseErrs := flatfile.ReadJSON(bytes.NewReader(data))
	if len(records) == 0 && len(parseErrs) > 0 {
		badRequestWithDetails(ctx, "invalid input", parseErrs[0].Message)
		return
	}

	res := c.economy.Import(records, parseErrs)

	importLog.ImportedRows += res.ImportedRows
	importLog.FailedRows = res.FailedRows
	if res.FailedRows == 0 {
		importLog.Status = service.ImportStatusCompleted
		importLog.FailedData = "[]"
	} else {
		importLog.Status = service.ImportStatusPartial
		failedData, _ := json.Marshal(res.Errors)
		importLog.FailedData = string(failedData)
	}
	if err := c.repo.UpdateImportLog(importLog); err != nil {
		c.logger.Error("failed to update import log", "id", importLog.ID, "error", err)
	}

	ctx.JSON(http.StatusOK, ImportResponse{
		ID:       importLog.ID,
		Imported: res.ImportedRows,
		Failed:   res.FailedRows,
		Total:    res.TotalRows,
		Status:   importLog.Status,
		Errors:   res.Errors,
	})
}

// DeleteImportLog deletes an import log
// @Summary Delete import log
// @Description Delete an import log
// @Tags data
// @Param id path int true "Import log ID"
// @Success 204
// @Failure 404 {object} APIError
// @Router /api/imports/{id} [delete]
func (c *Controller) DeleteImportLog(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if _, err := c.repo.GetImportLogByID(id); err != nil {
		notFound(ctx, "import log not found")
		return
	}
	if err := c.repo.DeleteImportLog(id); err != nil {
		internalError(ctx, "failed to delete import log")
		return
	}

	ctx.Status(http.StatusNoContent)
}
