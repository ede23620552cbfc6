package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"gtaeconomy/internal/service"

	"github.com/gin-gonic/gin"
)

// Page is embedded in every page's data.
type Page struct {
	Title      string
	ActivePage string
	Error      string
	Notice     string
}

// errorStatus maps a service error to a status and the message shown on the page.
func errorStatus(logger *slog.Logger, err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, err.Error()
	default:
		logger.Error("request failed", "error", err)
		return http.StatusInternalServerError, "Something went wrong, please try again"
	}
}

func toast(c *gin.Context, message, kind string) {
	payload, err := json.Marshal(map[string]any{
		"show-toast": map[string]string{"message": message, "type": kind},
	})
	if err == nil {
		c.Header("HX-Trigger", string(payload))
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
