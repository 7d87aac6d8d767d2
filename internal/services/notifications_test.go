package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinfolio/internal/models"
)

func TestNotificationServiceList(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		require.NoError(t, svc.Insert(&models.Notification{
			Title:     fmt.Sprintf("notification %d", i),
			Message:   "m",
			Severity:  models.SeverityInfo,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	t.Run("default limit is 25", func(t *testing.T) {
		list, err := svc.List(0)
		require.NoError(t, err)
		assert.Len(t, list, 25)
	})

	t.Run("newest first", func(t *testing.T) {
		list, err := svc.List(5)
		require.NoError(t, err)
		require.Len(t, list, 5)
		assert.Equal(t, "notification 29", list[0].Title)
		for i := 1; i < len(list); i++ {
			assert.False(t, list[i].CreatedAt.After(list[i-1].CreatedAt))
		}
	})

	t.Run("limit above cap is clamped", func(t *testing.T) {
		for i := 0; i < 80; i++ {
			require.NoError(t, svc.Insert(&models.Notification{
				Title:     fmt.Sprintf("extra %d", i),
				Message:   "m",
				Severity:  models.SeverityInfo,
				CreatedAt: base.Add(time.Hour),
			}))
		}

		list, err := svc.List(1000)
		require.NoError(t, err)
		assert.Len(t, list, MaxNotificationLimit)
	})
}

func TestNotificationServiceMarkAllRead(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Insert(&models.Notification{
			Title: "unread", Message: "m", Severity: models.SeverityInfo, CreatedAt: time.Now(),
		}))
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Insert(&models.Notification{
			Title: "read", Message: "m", Severity: models.SeverityInfo, IsRead: true, CreatedAt: time.Now(),
		}))
	}

	count, err := svc.UnreadCount()
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	updated, err := svc.MarkAllRead()
	require.NoError(t, err)
	assert.Equal(t, int64(5), updated)

	count, err = svc.UnreadCount()
	require.NoError(t, err)
	assert.Zero(t, count)

	// Second call has nothing left to flip
	updated, err = svc.MarkAllRead()
	require.NoError(t, err)
	assert.Zero(t, updated)
}

func TestNotificationServiceCreate(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)

	t.Run("severity defaults to info", func(t *testing.T) {
		n, err := svc.Create("Manual", "message", "", "BTC", ptr(80000))
		require.NoError(t, err)
		assert.Equal(t, models.SeverityInfo, n.Severity)
		assert.False(t, n.IsRead)
		assert.NotZero(t, n.ID)
	})

	t.Run("unknown severity rejected", func(t *testing.T) {
		_, err := svc.Create("Manual", "message", "shouting", "", nil)
		assert.ErrorIs(t, err, ErrInvalidSeverity)
	})

	t.Run("title and message required", func(t *testing.T) {
		_, err := svc.Create("", "message", "", "", nil)
		assert.ErrorIs(t, err, ErrMissingTitle)

		_, err = svc.Create("Manual", "", "", "", nil)
		assert.ErrorIs(t, err, ErrMissingMessage)
	})
}
