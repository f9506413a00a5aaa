package database

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDatabasesKeepsOrder(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e", "f"}
	var running, peak atomic.Int32

	dbs, err := LoadDatabases(context.Background(), names, func(_ context.Context, db string) ([]Child, error) {
		n := running.Add(1)
		defer running.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return []Child{Table{Name: db + "_t"}}, nil
	})
	require.NoError(t, err)
	require.Len(t, dbs, len(names))
	for i, db := range dbs {
		assert.Equal(t, names[i], db.Name)
		assert.Equal(t, names[i]+"_t", db.Children[0].ChildName())
	}
	assert.LessOrEqual(t, peak.Load(), int32(maxTableListings))
}

func TestLoadDatabasesFailure(t *testing.T) {
	boom := errors.New("permission denied")
	_, err := LoadDatabases(context.Background(), []string{"ok", "locked"}, func(_ context.Context, db string) ([]Child, error) {
		if db == "locked" {
			return nil, boom
		}
		return nil, nil
	})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "tables of locked")
}

func TestLoadDatabasesEmpty(t *testing.T) {
	dbs, err := LoadDatabases(context.Background(), nil, func(context.Context, string) ([]Child, error) {
		return nil, fmt.Errorf("not called")
	})
	require.NoError(t, err)
	assert.Empty(t, dbs)
}
