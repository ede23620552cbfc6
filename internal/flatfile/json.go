package flatfile

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

func WriteJSON(w io.Writer, ds *Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ds)
}

// ReadJSON accepts either a Dataset document or a bare array of Records.
func ReadJSON(r io.Reader) ([]Record, []RowError) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, []RowError{{Row: 0, Message: "failed to read JSON: " + err.Error()}}
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err == nil {
		return recordsFromRaw(raws)
	}

	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, []RowError{{Row: 0, Message: "invalid JSON format: " + err.Error()}}
	}
	return ds.Records(), nil
}

func recordsFromRaw(raws []json.RawMessage) ([]Record, []RowError) {
	var records []Record
	var errs []RowError
	for i, raw := range raws {
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			errs = append(errs, RowError{Row: i + 1, Data: raw, Message: "invalid record format: " + err.Error()})
			continue
		}
		rec.Type = normalizeType(rec.Type)
		rec.Line = i + 1
		switch rec.Type {
		case RecordPlayer, RecordItem, RecordMarketPrice, RecordTransaction:
			records = append(records, rec)
		default:
			errs = append(errs, RowError{Row: i + 1, Data: raw, Field: "type", Message: fmt.Sprintf("unknown row type %q", rec.Type)})
		}
	}
	return records, errs
}

// UnmarshalJSON accepts player_id as a number, a numeric string or an opaque reference.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	aux := struct {
		*plain
		PlayerID json.RawMessage `json:"player_id,omitempty"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.PlayerID, r.PlayerRef = 0, ""
	if len(aux.PlayerID) == 0 || string(aux.PlayerID) == "null" {
		return nil
	}
	if err := json.Unmarshal(aux.PlayerID, &r.PlayerID); err == nil {
		return nil
	}
	var ref string
	if err := json.Unmarshal(aux.PlayerID, &ref); err != nil {
		return fmt.Errorf("player_id must be a number or a string")
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		r.PlayerID = id
	} else if ref != "" {
		r.PlayerRef = ref
	}
	return nil
}
