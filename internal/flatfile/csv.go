package flatfile

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	DateLayout,
}

func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ReadCSV parses type-tagged rows. The delimiter is detected from the header line, so both
// comma files and the semicolon files written by WriteCSV are accepted. Rows that cannot be
// parsed are reported and skipped.
func ReadCSV(r io.Reader) ([]Record, []RowError) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, []RowError{{Row: 0, Message: "failed to read CSV: " + err.Error()}}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectComma(data)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, []RowError{{Row: 0, Message: "invalid CSV format: " + err.Error()}}
	}
	if len(rows) < 2 {
		return nil, []RowError{{Row: 0, Message: "CSV file must have a header and at least one data row"}}
	}

	colIndex := make(map[string]int)
	for i, col := range rows[0] {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := colIndex["type"]; !ok {
		return nil, []RowError{{Row: 1, Field: "type", Message: "CSV header must contain a type column"}}
	}

	var records []Record
	var errs []RowError
	for i, row := range rows[1:] {
		rowNum := i + 2
		get := func(col string) string {
			if idx, ok := colIndex[col]; ok && idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		rec, field, err := parseRecord(get)
		if err != nil {
			raw := make(map[string]string, len(colIndex))
			for col := range colIndex {
				if v := get(col); v != "" {
					raw[col] = v
				}
			}
			rowJSON, _ := json.Marshal(raw)
			errs = append(errs, RowError{Row: rowNum, Data: rowJSON, Field: field, Message: err.Error()})
			continue
		}
		rec.Line = rowNum
		records = append(records, rec)
	}

	return records, errs
}

func parseRecord(get func(string) string) (Record, string, error) {
	rec := Record{
		Type:            normalizeType(get("type")),
		Item:            get("item"),
		ItemName:        get("item_name"),
		Username:        get("username"),
		TransactionType: strings.ToLower(get("transaction_type")),
		ImageFilename:   get("image_filename"),
	}

	switch rec.Type {
	case RecordPlayer, RecordItem, RecordMarketPrice, RecordTransaction:
	default:
		return rec, "type", fmt.Errorf("unknown row type %q", get("type"))
	}

	var err error
	if rec.TransactionID, err = parseInt(get("transaction_id")); err != nil {
		return rec, "transaction_id", err
	}
	if v := get("player_id"); v != "" {
		if rec.PlayerID, err = parseInt(v); err != nil {
			rec.PlayerRef = v
		}
	}
	if rec.ItemID, err = parseInt(get("item_id")); err != nil {
		return rec, "item_id", err
	}
	if rec.Amount, err = parseFloat(get("amount")); err != nil {
		return rec, "amount", err
	}
	if rec.Price, err = parseFloat(get("price")); err != nil {
		return rec, "price", err
	}
	if rec.TotalSpent, err = parseFloat(get("total_spent")); err != nil {
		return rec, "total_spent", err
	}
	if v := get("date"); v != "" {
		if rec.Date, err = ParseDate(v); err != nil {
			return rec, "date", err
		}
	}
	return rec, "", nil
}

// WriteCSV writes records with the full Columns header.
func WriteCSV(w io.Writer, records []Record, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma

	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(recordRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func recordRow(r Record) []string {
	date := ""
	if !r.Date.IsZero() {
		date = r.Date.UTC().Format(time.RFC3339)
	}
	return []string{
		r.Type,
		formatInt(r.TransactionID),
		formatInt(r.PlayerID),
		r.Item,
		formatFloat(r.Amount),
		date,
		formatInt(r.ItemID),
		r.ItemName,
		formatFloat(r.Price),
		r.Username,
		formatFloat(r.TotalSpent),
		r.TransactionType,
		r.ImageFilename,
	}
}

func detectComma(data []byte) rune {
	line, _ := bufio.NewReader(bytes.NewReader(data)).ReadString('\n')
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

func normalizeType(s string) string {
	switch strings.ToLower(strings.ReplaceAll(s, "_", "")) {
	case "player":
		return RecordPlayer
	case "item":
		return RecordItem
	case "marketprice", "price":
		return RecordMarketPrice
	case "transaction":
		return RecordTransaction
	}
	return s
}

func parseInt(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return v, nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

func formatInt(v int64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatInt(v, 10)
}

func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
