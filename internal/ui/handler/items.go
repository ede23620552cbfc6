package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gtaeconomy/internal/flatfile"
	"gtaeconomy/internal/models"
	"gtaeconomy/internal/service"

	"github.com/gin-gonic/gin"
)

type ItemsHandler struct {
	renderer  *Renderer
	economy   *service.Economy
	logger    *slog.Logger
	imagesDir string
}

func NewItemsHandler(renderer *Renderer, economy *service.Economy, logger *slog.Logger, imagesDir string) *ItemsHandler {
	return &ItemsHandler{
		renderer:  renderer,
		economy:   economy,
		logger:    logger,
		imagesDir: imagesDir,
	}
}

type ItemsPageData struct {
	Page
	Items     []service.ItemView
	Query     string
	QueryType string
}

type ItemFormData struct {
	Page
	Item    *service.ItemView
	History []models.MarketPrice
	Form    ItemForm
}

type ItemForm struct {
	Name  string
	Price string
	Date  string
}

func (h *ItemsHandler) List(c *gin.Context) {
	h.renderList(c, http.StatusOK, "")
}

func (h *ItemsHandler) renderList(c *gin.Context, status int, errMsg string) {
	data := ItemsPageData{
		Page:      Page{Title: "Items", ActivePage: "view-items", Error: errMsg},
		Query:     c.Query("query"),
		QueryType: c.DefaultQuery("query_type", service.QueryTypeName),
	}

	items, err := h.economy.SearchItems(data.Query, data.QueryType)
	if err != nil {
		status, data.Error = errorStatus(h.logger, err)
	}
	data.Items = items

	if data.Error != "" {
		toast(c, data.Error, "error")
	}
	h.renderer.HTML(c, status, "view_items", data)
}

func (h *ItemsHandler) New(c *gin.Context) {
	h.renderNew(c, http.StatusOK, ItemForm{}, "")
}

func (h *ItemsHandler) renderNew(c *gin.Context, status int, form ItemForm, errMsg string) {
	if errMsg != "" {
		toast(c, errMsg, "error")
	}
	h.renderer.HTML(c, status, "add_item", ItemFormData{
		Page: Page{Title: "Add Item", ActivePage: "add-item", Error: errMsg},
		Form: form,
	})
}

func (h *ItemsHandler) Create(c *gin.Context) {
	form := ItemForm{
		Name:  strings.TrimSpace(c.PostForm("name")),
		Price: strings.TrimSpace(c.PostForm("price")),
		Date:  strings.TrimSpace(c.PostForm("date")),
	}

	price, hasPrice, err := parsePrice(form.Price)
	if err != nil {
		h.renderNew(c, http.StatusBadRequest, form, err.Error())
		return
	}
	var date time.Time
	if form.Date != "" {
		if date, err = flatfile.ParseDate(form.Date); err != nil {
			h.renderNew(c, http.StatusBadRequest, form, "Date must look like 2006-01-02")
			return
		}
	}

	image, err := h.upload(c, form.Name)
	if err != nil {
		status, msg := h.uploadError(err)
		h.renderNew(c, status, form, msg)
		return
	}

	item, err := h.economy.AddItem(form.Name, image)
	if err != nil {
		h.discard(image)
		status, msg := errorStatus(h.logger, err)
		h.renderNew(c, status, form, msg)
		return
	}

	if hasPrice {
		if _, err := h.economy.UpdateItemPrice(item.ID, price, date); err != nil {
			status, msg := errorStatus(h.logger, err)
			h.renderNew(c, status, form, msg)
			return
		}
	}

	c.Redirect(http.StatusSeeOther, "/view-items")
}

func (h *ItemsHandler) Edit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.renderList(c, http.StatusBadRequest, "Invalid item id")
		return
	}
	h.renderEdit(c, http.StatusOK, id, ItemForm{}, "")
}

func (h *ItemsHandler) renderEdit(c *gin.Context, status int, id int64, form ItemForm, errMsg string) {
	item, err := h.economy.GetItem(id)
	if err != nil {
		s, msg := errorStatus(h.logger, err)
		h.renderList(c, s, msg)
		return
	}
	history, err := h.economy.PriceHistory(id)
	if err != nil {
		h.logger.Error("failed to load price history", "item_id", id, "error", err)
	}

	if form.Name == "" {
		form.Name = item.Name
	}
	if errMsg != "" {
		toast(c, errMsg, "error")
	}
	h.renderer.HTML(c, status, "edit_item", ItemFormData{
		Page:    Page{Title: "Edit " + item.Name, ActivePage: "view-items", Error: errMsg},
		Item:    item,
		History: history,
		Form:    form,
	})
}

// Update renames the item, swaps its image when a file is uploaded and records a new price
// when one is given.
func (h *ItemsHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.renderList(c, http.StatusBadRequest, "Invalid item id")
		return
	}

	form := ItemForm{
		Name:  strings.TrimSpace(c.PostForm("name")),
		Price: strings.TrimSpace(c.PostForm("price")),
		Date:  strings.TrimSpace(c.PostForm("date")),
	}

	price, hasPrice, err := parsePrice(form.Price)
	if err != nil {
		h.renderEdit(c, http.StatusBadRequest, id, form, err.Error())
		return
	}
	var date time.Time
	if form.Date != "" {
		if date, err = flatfile.ParseDate(form.Date); err != nil {
			h.renderEdit(c, http.StatusBadRequest, id, form, "Date must look like 2006-01-02")
			return
		}
	}

	old, err := h.economy.GetItem(id)
	if err != nil {
		status, msg := errorStatus(h.logger, err)
		h.renderList(c, status, msg)
		return
	}

	image, err := h.upload(c, form.Name)
	if err != nil {
		status, msg := h.uploadError(err)
		h.renderEdit(c, status, id, form, msg)
		return
	}

	if _, err := h.economy.UpdateItem(id, form.Name, image); err != nil {
		h.discard(image)
		status, msg := errorStatus(h.logger, err)
		if status == http.StatusNotFound {
			h.renderList(c, status, msg)
			return
		}
		h.renderEdit(c, status, id, form, msg)
		return
	}
	if image != "" && image != old.ImageFilename {
		h.discard(old.ImageFilename)
	}

	if hasPrice {
		if _, err := h.economy.UpdateItemPrice(id, price, date); err != nil {
			status, msg := errorStatus(h.logger, err)
			h.renderEdit(c, status, id, form, msg)
			return
		}
	}

	c.Redirect(http.StatusSeeOther, "/view-items")
}

func (h *ItemsHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.renderList(c, http.StatusBadRequest, "Invalid item id")
		return
	}
	item, err := h.economy.GetItem(id)
	if err != nil {
		status, msg := errorStatus(h.logger, err)
		h.renderList(c, status, msg)
		return
	}
	if err := h.economy.DeleteItem(id); err != nil {
		status, msg := errorStatus(h.logger, err)
		h.renderList(c, status, msg)
		return
	}
	h.discard(item.ImageFilename)
	c.Redirect(http.StatusSeeOther, "/view-items")
}

// upload saves the optional "image" file and returns its stored name, or "" when none was
// sent.
func (h *ItemsHandler) upload(c *gin.Context, itemName string) (string, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if fh.Size == 0 && fh.Filename == "" {
		return "", nil
	}
	return saveImage(h.imagesDir, itemName, fh)
}

// discard removes an image file from the images directory once no item refers to it.
// Names that are not a plain file name, such as imported "../x.png", are left alone.
func (h *ItemsHandler) discard(image string) {
	if image == "" || filepath.Base(image) != image {
		return
	}
	items, err := h.economy.ListItems()
	if err != nil {
		h.logger.Warn("failed to check image references", "image", image, "error", err)
		return
	}
	for _, it := range items {
		if it.ImageFilename == image {
			return
		}
	}
	if err := os.Remove(filepath.Join(h.imagesDir, image)); err != nil {
		h.logger.Warn("failed to remove unused image", "image", image, "error", err)
	}
}

func (h *ItemsHandler) uploadError(err error) (int, string) {
	if errors.Is(err, ErrUnsupportedImage) || errors.Is(err, ErrImageTooLarge) {
		return http.StatusBadRequest, err.Error()
	}
	h.logger.Error("image upload failed", "error", err)
	return http.StatusInternalServerError, "Failed to save image"
}

func parsePrice(s string) (float64, bool, error) {
	if s == "" {
		return 0, false, nil
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false, errors.New("price must be a number")
	}
	if price <= 0 {
		return 0, false, errors.New("price must be greater than zero")
	}
	return price, true, nil
}
