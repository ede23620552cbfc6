package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"gtaeconomy/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	renderer *Renderer
	economy  *service.Economy
	logger   *slog.Logger
}

func NewDashboardHandler(renderer *Renderer, economy *service.Economy, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		renderer: renderer,
		economy:  economy,
		logger:   logger,
	}
}

type DashboardData struct {
	Page
	Analytics *service.Analytics
	Charts    []ChartData
}

// ChartData feeds one Chart.js line chart.
type ChartData struct {
	ID         string
	Title      string
	LabelsJSON string
	ValuesJSON string
}

func (h *DashboardHandler) Index(c *gin.Context) {
	data := DashboardData{
		Page: Page{Title: "Analytics", ActivePage: "analytics"},
	}

	a, err := h.economy.ComputeAnalytics()
	if err != nil {
		status, msg := errorStatus(h.logger, err)
		data.Error = msg
		h.renderer.HTML(c, status, "dashboard", data)
		return
	}

	data.Analytics = a
	for _, series := range a.Trends {
		labelsJSON, _ := json.Marshal(series.Labels())
		valuesJSON, _ := json.Marshal(series.Values())
		data.Charts = append(data.Charts, ChartData{
			ID:         "trend-" + itoa(series.ItemID),
			Title:      series.ItemName,
			LabelsJSON: string(labelsJSON),
			ValuesJSON: string(valuesJSON),
		})
	}

	h.renderer.HTML(c, http.StatusOK, "dashboard", data)
}

func (h *DashboardHandler) Design(c *gin.Context) {
	h.renderer.HTML(c, http.StatusOK, "design", Page{Title: "Design", ActivePage: "design"})
}
