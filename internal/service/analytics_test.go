package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeAnalytics_Empty(t *testing.T) {
	e, _ := setupEconomy(t)

	a, err := e.ComputeAnalytics()
	require.NoError(t, err)
	assert.Zero(t, a.TotalTransactions)
	assert.Zero(t, a.TotalSpent)
	assert.Zero(t, a.AverageTransaction)
	assert.Empty(t, a.TopSpenders)
	assert.Empty(t, a.TopPricedItems)
	assert.Empty(t, a.Trends)
}

func TestComputeAnalytics_SinglePricedItem(t *testing.T) {
	e, _ := setupEconomy(t)
	oppressor, err := e.AddItem("Oppressor", "")
	require.NoError(t, err)
	_, err = e.UpdateItemPrice(oppressor.ID, 3890250, time.Time{})
	require.NoError(t, err)
	_, err = e.AddItem("Unpriced", "")
	require.NoError(t, err)

	a, err := e.ComputeAnalytics()
	require.NoError(t, err)
	require.Len(t, a.TopPricedItems, 1)
	assert.Equal(t, "Oppressor", a.TopPricedItems[0].ItemName)
	assert.Equal(t, 3890250.0, a.TopPricedItems[0].Price)
	assert.Equal(t, int64(2), a.TotalItems)

	kosatka, err := e.AddItem("Kosatka", "")
	require.NoError(t, err)
	_, err = e.UpdateItemPrice(kosatka.ID, 2200000, time.Time{})
	require.NoError(t, err)
	_, err = e.UpdateItemPrice(kosatka.ID, 4500000, time.Time{})
	require.NoError(t, err)

	a, err = e.ComputeAnalytics()
	require.NoError(t, err)
	require.Len(t, a.TopPricedItems, 2)
	assert.Equal(t, "Kosatka", a.TopPricedItems[0].ItemName)
	assert.Equal(t, 4500000.0, a.TopPricedItems[0].Price)
	assert.Equal(t, "Oppressor", a.TopPricedItems[1].ItemName)
}

func TestComputeAnalytics_TopPricedLimitAndTies(t *testing.T) {
	e, _ := setupEconomy(t)
	prices := []float64{100, 700, 300, 700, 500, 200, 900}
	for i, p := range prices {
		item, err := e.AddItem(string(rune('A'+i)), "")
		require.NoError(t, err)
		_, err = e.UpdateItemPrice(item.ID, p, time.Time{})
		require.NoError(t, err)
	}

	a, err := e.ComputeAnalytics()
	require.NoError(t, err)
	require.Len(t, a.TopPricedItems, TopPricedLimit)

	var names []string
	for _, it := range a.TopPricedItems {
		names = append(names, it.ItemName)
	}
	assert.Equal(t, []string{"G", "B", "D", "E", "C"}, names)
}

func TestComputeAnalytics_TopSpenders(t *testing.T) {
	e, _ := setupEconomy(t)
	_, err := e.AddItem("Vehicle", "")
	require.NoError(t, err)

	spend := map[string][]float64{
		"p1": {100},
		"p2": {300, 300},
		"p3": {50, 50},
		"p4": {700},
		"p5": {100},
		"p6": {10},
		"p7": {},
	}
	ids := map[string]int64{}
	for _, name := range []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7"} {
		p, err := e.AddPlayer(name)
		require.NoError(t, err)
		ids[name] = p.ID
		for _, amt := range spend[name] {
			_, err := e.AddTransaction(TransactionInput{PlayerID: p.ID, Item: "Vehicle", Amount: amt})
			require.NoError(t, err)
		}
	}
	// sales never count as spending
	_, err = e.AddTransaction(TransactionInput{PlayerID: ids["p6"], Item: "Vehicle", Amount: 5000, Type: "sale"})
	require.NoError(t, err)

	a, err := e.ComputeAnalytics()
	require.NoError(t, err)
	require.Len(t, a.TopSpenders, TopSpendersLimit)

	var got []string
	for i, s := range a.TopSpenders {
		got = append(got, s.Username)
		if i > 0 {
			assert.GreaterOrEqual(t, a.TopSpenders[i-1].Total, s.Total)
		}
	}
	assert.Equal(t, []string{"p4", "p2", "p1", "p3", "p5"}, got)
	assert.Equal(t, 1610.0, a.TotalSpent)
	assert.Equal(t, int64(9), a.TotalTransactions)
	assert.Equal(t, int64(7), a.TotalPlayers)
}

func TestComputeAnalytics_Trends(t *testing.T) {
	e, _ := setupEconomy(t)
	item, err := e.AddItem("Buzzard", "")
	require.NoError(t, err)
	_, err = e.AddItem("NoPrices", "")
	require.NoError(t, err)

	d1 := time.Date(2022, 1, 5, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2022, 2, 5, 0, 0, 0, 0, time.UTC)
	_, err = e.UpdateItemPrice(item.ID, 2000, d2)
	require.NoError(t, err)
	_, err = e.UpdateItemPrice(item.ID, 1750, d1)
	require.NoError(t, err)

	a, err := e.ComputeAnalytics()
	require.NoError(t, err)
	require.Len(t, a.Trends, 1)
	assert.Equal(t, "Buzzard", a.Trends[0].ItemName)
	assert.Equal(t, []string{"2022-01-05", "2022-02-05"}, a.Trends[0].Labels())
	assert.Equal(t, []float64{1750, 2000}, a.Trends[0].Values())
}

func TestAverageTransactionAndTotalSpending(t *testing.T) {
	e, _ := setupEconomy(t)
	p, err := e.AddPlayer("a")
	require.NoError(t, err)
	_, err = e.AddItem("x", "")
	require.NoError(t, err)

	avg, err := e.AverageTransaction()
	require.NoError(t, err)
	assert.Zero(t, avg)

	for _, in := range []TransactionInput{
		{PlayerID: p.ID, Item: "x", Amount: 10.10},
		{PlayerID: p.ID, Item: "x", Amount: 20.20},
		{PlayerID: p.ID, Item: "x", Amount: 0.05, Type: "sale"},
	} {
		_, err := e.AddTransaction(in)
		require.NoError(t, err)
	}

	total, err := e.TotalSpending()
	require.NoError(t, err)
	assert.Equal(t, 30.3, total)

	avg, err = e.AverageTransaction()
	require.NoError(t, err)
	assert.Equal(t, 10.12, avg)
}

func TestInflationRate(t *testing.T) {
	e, _ := setupEconomy(t)
	item, err := e.AddItem("Insurgent", "")
	require.NoError(t, err)

	start := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	mid := time.Date(2020, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)
	for d, p := range map[time.Time]float64{start: 100, mid: 110, end: 121} {
		_, err := e.UpdateItemPrice(item.ID, p, d)
		require.NoError(t, err)
	}

	rate, err := e.InflationRate(item.ID, start, end)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, rate, 0.0001)

	rate, err = e.InflationRate(item.ID, start, mid)
	require.NoError(t, err)
	assert.Zero(t, rate)

	_, err = e.InflationRate(item.ID, start, end.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.InflationRate(999, start, end)
	assert.ErrorIs(t, err, ErrNotFound)
}
