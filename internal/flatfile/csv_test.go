package flatfile

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_SeedFormat(t *testing.T) {
	input := `type,transaction_id,player_id,item,amount,date,item_id,item_name,price,username,total_spent
Player,,1,,,,,,,Michael,1200.5
MarketPrice,,,,,2023-04-01,3,Oppressor,3890250,,
Transaction,10,1,Oppressor,1200.5,2023-04-02 10:15:00,,,,,
`
	records, errs := ReadCSV(strings.NewReader(input))
	require.Empty(t, errs)
	require.Len(t, records, 3)

	assert.Equal(t, RecordPlayer, records[0].Type)
	assert.Equal(t, int64(1), records[0].PlayerID)
	assert.Equal(t, "Michael", records[0].Username)
	assert.Equal(t, 1200.5, records[0].TotalSpent)

	assert.Equal(t, RecordMarketPrice, records[1].Type)
	assert.Equal(t, int64(3), records[1].ItemID)
	assert.Equal(t, 3890250.0, records[1].Price)
	assert.Equal(t, time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), records[1].Date)

	assert.Equal(t, RecordTransaction, records[2].Type)
	assert.Equal(t, int64(10), records[2].TransactionID)
	assert.Equal(t, time.Date(2023, 4, 2, 10, 15, 0, 0, time.UTC), records[2].Date)
}

func TestReadCSV_SemicolonAndReorderedColumns(t *testing.T) {
	input := "username;type;player_id\nTrevor;player;4\n"

	records, errs := ReadCSV(strings.NewReader(input))
	require.Empty(t, errs)
	require.Len(t, records, 1)
	assert.Equal(t, RecordPlayer, records[0].Type)
	assert.Equal(t, "Trevor", records[0].Username)
	assert.Equal(t, int64(4), records[0].PlayerID)
}

func TestReadCSV_RowErrors(t *testing.T) {
	input := `type,transaction_id,amount,date
Transaction,abc,1,2023-01-01
Transaction,1,lots,2023-01-01
Transaction,1,1,yesterday
Unknown,1,1,2023-01-01
Transaction,1,1,2023-01-01
`
	records, errs := ReadCSV(strings.NewReader(input))
	require.Len(t, records, 1)
	require.Len(t, errs, 4)
	assert.Equal(t, 6, records[0].Line)

	assert.Equal(t, 2, errs[0].Row)
	assert.Equal(t, "transaction_id", errs[0].Field)
	assert.Equal(t, "amount", errs[1].Field)
	assert.Equal(t, "date", errs[2].Field)
	assert.Equal(t, "type", errs[3].Field)
	assert.Contains(t, string(errs[0].Data), "abc")
}

func TestReadCSV_PlayerRefs(t *testing.T) {
	input := `type,player_id,username,item,amount
Player,P001,Lamar,,
Transaction,P001,,Oppressor,100
Player,7,Lester,,
`
	records, errs := ReadCSV(strings.NewReader(input))
	require.Empty(t, errs)
	require.Len(t, records, 3)

	assert.Equal(t, "P001", records[0].PlayerRef)
	assert.Zero(t, records[0].PlayerID)
	assert.Equal(t, "P001", records[1].PlayerRef)
	assert.Equal(t, int64(7), records[2].PlayerID)
	assert.Empty(t, records[2].PlayerRef)
	assert.Equal(t, []int{2, 3, 4}, []int{records[0].Line, records[1].Line, records[2].Line})
}

func TestReadCSV_InvalidFiles(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"header only", "type,player_id\n"},
		{"no type column", "player_id,username\n1,a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, errs := ReadCSV(strings.NewReader(tt.input))
			assert.Empty(t, records)
			require.Len(t, errs, 1)
		})
	}
}

func TestWriteCSV_ReadBack(t *testing.T) {
	date := time.Date(2024, 2, 29, 18, 0, 0, 0, time.UTC)
	in := []Record{
		{Type: RecordItem, ItemID: 2, ItemName: "Deluxo; Mk2", ImageFilename: "deluxo.png", Line: 2},
		{Type: RecordTransaction, TransactionID: 5, PlayerID: 1, Item: "Deluxo; Mk2", Amount: 4721500, Date: date, TransactionType: "sale", Line: 3},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in, ';'))
	assert.True(t, strings.HasPrefix(buf.String(), strings.Join(Columns, ";")))

	out, errs := ReadCSV(&buf)
	require.Empty(t, errs)
	assert.Equal(t, in, out)
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2024-01-02", "2024-01-02 00:00:00", "2024-01-02T00:00", "2024-01-02T00:00:00Z"} {
		d, err := ParseDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), d)
	}

	_, err := ParseDate("02/01/2024")
	assert.Error(t, err)
}
