package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinfolio/internal/models"
)

func TestPriceServiceUpsert(t *testing.T) {
	db := newTestDB(t)
	svc := NewPriceService(db)

	t.Run("first observation returns no previous price", func(t *testing.T) {
		previous, err := svc.UpsertPrice("BTC", 90000, time.Now())
		require.NoError(t, err)
		assert.Nil(t, previous)
	})

	t.Run("second upsert returns previous and keeps one row", func(t *testing.T) {
		previous, err := svc.UpsertPrice("BTC", 95000, time.Now())
		require.NoError(t, err)
		require.NotNil(t, previous)
		assert.Equal(t, 90000.0, *previous)

		var count int64
		require.NoError(t, db.Model(&models.TokenPrice{}).Where("symbol = ?", "BTC").Count(&count).Error)
		assert.Equal(t, int64(1), count)

		var stored models.TokenPrice
		require.NoError(t, db.Where("symbol = ?", "BTC").First(&stored).Error)
		assert.Equal(t, 95000.0, stored.Price)
	})

	t.Run("symbols are independent", func(t *testing.T) {
		previous, err := svc.UpsertPrice("ETH", 3000, time.Now())
		require.NoError(t, err)
		assert.Nil(t, previous)
	})

	t.Run("observation time is stored as given", func(t *testing.T) {
		at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		_, err := svc.UpsertPrice("SOL", 150, at)
		require.NoError(t, err)

		var stored models.TokenPrice
		require.NoError(t, db.Where("symbol = ?", "SOL").First(&stored).Error)
		assert.True(t, stored.UpdatedAt.Equal(at))
	})
}

func TestPriceServiceConcurrentUpsert(t *testing.T) {
	db := newTestDB(t)
	svc := NewPriceService(db)

	// Racing updates for one symbol must each observe a consistent
	// previous/next pair: exactly one writer sees no previous price, and
	// every written value surfaces exactly once, either as some writer's
	// previous price or as the final stored price. A lost update would
	// leave a value unseen and another seen twice.
	const writers = 20
	written := make([]float64, writers)
	for i := range written {
		written[i] = float64(1000 + i)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	observed := make([]*float64, 0, writers)

	for _, price := range written {
		wg.Add(1)
		go func(p float64) {
			defer wg.Done()
			previous, err := svc.UpsertPrice("BTC", p, time.Now())
			assert.NoError(t, err)
			mu.Lock()
			observed = append(observed, previous)
			mu.Unlock()
		}(price)
	}
	wg.Wait()

	var stored models.TokenPrice
	require.NoError(t, db.Where("symbol = ?", "BTC").First(&stored).Error)

	var firstObservations int
	seen := make(map[float64]int, writers)
	for _, previous := range observed {
		if previous == nil {
			firstObservations++
			continue
		}
		seen[*previous]++
	}
	seen[stored.Price]++

	assert.Equal(t, 1, firstObservations)
	for _, price := range written {
		assert.Equalf(t, 1, seen[price], "price %v lost or duplicated in the update chain", price)
	}
}
