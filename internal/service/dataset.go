package service

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"gtaeconomy/internal/flatfile"
	"gtaeconomy/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	ImportStatusCompleted = "completed"
	ImportStatusPartial   = "partial"
	ImportStatusFailed    = "failed"
)

type ImportResult struct {
	TotalRows    int                 `json:"total_rows"`
	ImportedRows int                 `json:"imported_rows"`
	FailedRows   int                 `json:"failed_rows"`
	Status       string              `json:"status"`
	Errors       []flatfile.RowError `json:"errors,omitempty"`
}

// Dataset collects the full state for export or snapshotting.
func (e *Economy) Dataset() (*flatfile.Dataset, error) {
	players, err := e.ListPlayers()
	if err != nil {
		return nil, err
	}
	items, err := e.repo.GetAllItems()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load items")
	}
	prices, err := e.repo.GetAllPrices()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load prices")
	}
	transactions, err := e.repo.GetAllTransactions()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load transactions")
	}

	return &flatfile.Dataset{
		Players:      nonNil(players),
		Items:        nonNil(items),
		Prices:       nonNil(prices),
		Transactions: nonNil(transactions),
	}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ImportFile parses r in the given format, applies it and records the outcome as an
// ImportLog.
func (e *Economy) ImportFile(filename, format string, r io.Reader) (*models.ImportLog, *ImportResult, error) {
	var records []flatfile.Record
	var parseErrs []flatfile.RowError

	switch format = strings.ToLower(format); format {
	case FormatCSV:
		records, parseErrs = flatfile.ReadCSV(r)
	case FormatJSON:
		records, parseErrs = flatfile.ReadJSON(r)
	default:
		return nil, nil, invalid("format must be csv or json")
	}

	res := e.Import(records, parseErrs)

	failedData, err := json.Marshal(res.Errors)
	if err != nil {
		return nil, res, errors.Wrap(err, "failed to encode failed rows")
	}
	importLog := &models.ImportLog{
		Filename:     filename,
		Format:       format,
		TotalRows:    res.TotalRows,
		ImportedRows: res.ImportedRows,
		FailedRows:   res.FailedRows,
		Status:       res.Status,
		FailedData:   string(failedData),
	}
	if err := e.repo.CreateImportLog(importLog); err != nil {
		return nil, res, errors.Wrap(err, "failed to save import log")
	}
	return importLog, res, nil
}

// Import applies records in order through the regular operations, so every row gets the
// same validation as a form submission. parseErrs are rows the reader already rejected.
func (e *Economy) Import(records []flatfile.Record, parseErrs []flatfile.RowError) *ImportResult {
	res := &ImportResult{
		TotalRows:  len(records) + len(parseErrs),
		FailedRows: len(parseErrs),
		Errors:     append([]flatfile.RowError{}, parseErrs...),
	}

	// Non-numeric player ids from the file, mapped to the ids their Player rows got.
	refs := make(map[string]int64)
	for i, rec := range records {
		if err := e.applyRecord(rec, refs); err != nil {
			row := rec.Line
			if row == 0 {
				row = i + 1
			}
			data, _ := json.Marshal(rec)
			res.Errors = append(res.Errors, flatfile.RowError{Row: row, Data: data, Message: err.Error()})
			res.FailedRows++
			continue
		}
		res.ImportedRows++
	}

	switch {
	case res.FailedRows == 0:
		res.Status = ImportStatusCompleted
	case res.ImportedRows == 0:
		res.Status = ImportStatusFailed
	default:
		res.Status = ImportStatusPartial
	}

	if err := e.WarmCache(); err != nil {
		e.logger.Error("failed to refresh price cache after import", "error", err)
	}
	e.logger.Info("import finished", "total", res.TotalRows, "imported", res.ImportedRows, "failed", res.FailedRows)
	return res
}

func (e *Economy) applyRecord(rec flatfile.Record, refs map[string]int64) error {
	switch rec.Type {
	case flatfile.RecordPlayer:
		if rec.PlayerRef != "" {
			if _, ok := refs[rec.PlayerRef]; ok {
				return invalid("duplicate player id %q", rec.PlayerRef)
			}
			p, err := e.AddPlayer(rec.Username)
			if err != nil {
				return err
			}
			refs[rec.PlayerRef] = p.ID
			return nil
		}
		if rec.PlayerID > 0 {
			_, err := e.RestorePlayer(rec.PlayerID, rec.Username)
			return err
		}
		_, err := e.AddPlayer(rec.Username)
		return err

	case flatfile.RecordItem:
		if rec.ItemID > 0 {
			_, err := e.RestoreItem(rec.ItemID, rec.ItemName, rec.ImageFilename)
			return err
		}
		_, err := e.AddItem(rec.ItemName, rec.ImageFilename)
		return err

	case flatfile.RecordMarketPrice:
		item, err := e.itemForPrice(rec)
		if err != nil {
			return err
		}
		_, err = e.UpdateItemPrice(item.ID, rec.Price, rec.Date)
		return err

	case flatfile.RecordTransaction:
		ref := rec.Item
		if ref == "" && rec.ItemID > 0 {
			ref = strconv.FormatInt(rec.ItemID, 10)
		}
		playerID := rec.PlayerID
		if rec.PlayerRef != "" {
			id, ok := refs[rec.PlayerRef]
			if !ok {
				return notFound("player %q", rec.PlayerRef)
			}
			playerID = id
		}
		_, err := e.AddTransaction(TransactionInput{
			PlayerID: playerID,
			Item:     ref,
			Amount:   rec.Amount,
			Type:     rec.TransactionType,
			Date:     rec.Date,
		})
		return err

	default:
		return invalid("unknown row type %q", rec.Type)
	}
}

// itemForPrice finds the item a price row belongs to, creating it on first sight.
func (e *Economy) itemForPrice(rec flatfile.Record) (*models.Item, error) {
	if rec.ItemName != "" {
		item, err := e.repo.GetItemByName(rec.ItemName)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(err, "failed to look up item")
		}
	}

	if rec.ItemID > 0 {
		item, err := e.repo.GetItemByID(rec.ItemID)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(err, "failed to look up item")
		}
		if rec.ItemName != "" {
			return e.RestoreItem(rec.ItemID, rec.ItemName, "")
		}
		return nil, notFound("item %d", rec.ItemID)
	}

	if rec.ItemName == "" {
		return nil, invalid("price row needs item_id or item_name")
	}
	return e.AddItem(rec.ItemName, "")
}
