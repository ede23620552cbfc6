package service

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gtaeconomy/internal/flatfile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshotService_InvalidConfig(t *testing.T) {
	e, _ := setupEconomy(t)

	tests := []struct {
		name string
		opts []SnapshotOption
	}{
		{"no context", []SnapshotOption{WithSnapshotLogger(discardLogger), WithSnapshotSource(e), WithSnapshotDir(t.TempDir())}},
		{"no logger", []SnapshotOption{WithSnapshotContext(t.Context()), WithSnapshotSource(e), WithSnapshotDir(t.TempDir())}},
		{"no source", []SnapshotOption{WithSnapshotContext(t.Context()), WithSnapshotLogger(discardLogger), WithSnapshotDir(t.TempDir())}},
		{"no dir", []SnapshotOption{WithSnapshotContext(t.Context()), WithSnapshotLogger(discardLogger), WithSnapshotSource(e)}},
		{"bad interval", []SnapshotOption{WithSnapshotContext(t.Context()), WithSnapshotLogger(discardLogger), WithSnapshotSource(e), WithSnapshotDir(t.TempDir()), WithSnapshotInterval(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSnapshotService(tt.opts...)
			assert.ErrorIs(t, err, ErrInvalidSnapshotConfig)
		})
	}
}

func TestSnapshotService_Write(t *testing.T) {
	e, _ := setupEconomy(t)
	_, err := e.AddPlayer("Lamar")
	require.NoError(t, err)
	item, err := e.AddItem("Hermes", "")
	require.NoError(t, err)
	_, err = e.UpdateItemPrice(item.ID, 535000, time.Time{})
	require.NoError(t, err)

	dir := t.TempDir()
	s, err := NewSnapshotService(
		WithSnapshotContext(t.Context()),
		WithSnapshotLogger(discardLogger),
		WithSnapshotSource(e),
		WithSnapshotDir(dir),
	)
	require.NoError(t, err)
	require.NoError(t, s.Write())

	data, err := os.ReadFile(filepath.Join(dir, SnapshotJSON))
	require.NoError(t, err)
	var ds flatfile.Dataset
	require.NoError(t, json.Unmarshal(data, &ds))
	assert.Len(t, ds.Players, 1)
	assert.Len(t, ds.Prices, 1)
	assert.Empty(t, ds.Transactions)

	f, err := os.Open(filepath.Join(dir, SnapshotCSV))
	require.NoError(t, err)
	defer f.Close()
	records, errs := flatfile.ReadCSV(f)
	require.Empty(t, errs)
	assert.Len(t, records, 3)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.HasPrefix(entry.Name(), "."), "temp file left behind: %s", entry.Name())
	}
}

func TestSnapshotService_StartWritesOnSchedule(t *testing.T) {
	e, _ := setupEconomy(t)
	dir := t.TempDir()

	s, err := NewSnapshotService(
		WithSnapshotContext(t.Context()),
		WithSnapshotLogger(discardLogger),
		WithSnapshotSource(e),
		WithSnapshotDir(dir),
		WithSnapshotInterval(20*time.Millisecond),
	)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, SnapshotJSON))
		return err == nil
	}, time.Second, 10*time.Millisecond)
}
