package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinfolio/internal/assets"
	"coinfolio/internal/models"
)

func TestShouldTrigger(t *testing.T) {
	tests := []struct {
		name     string
		operator string
		target   float64
		previous *float64
		next     float64
		want     bool
	}{
		{"above first observation already past target", models.OperatorAbove, 100, nil, 150, true},
		{"above first observation under target", models.OperatorAbove, 100, nil, 90, false},
		{"above steady above does not retrigger", models.OperatorAbove, 100, ptr(150), 150, false},
		{"above upward crossing", models.OperatorAbove, 100, ptr(90), 101, true},
		{"above exact target from below", models.OperatorAbove, 100, ptr(90), 100, true},
		{"above falls back under target", models.OperatorAbove, 100, ptr(150), 90, false},
		{"below downward crossing", models.OperatorBelow, 100, ptr(110), 95, true},
		{"below steady below does not retrigger", models.OperatorBelow, 100, ptr(95), 95, false},
		{"below first observation under target", models.OperatorBelow, 100, nil, 80, true},
		{"below first observation above target", models.OperatorBelow, 100, nil, 120, false},
		{"below unchanged price never retriggers", models.OperatorBelow, 100, ptr(100), 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldTrigger(tt.operator, tt.target, tt.previous, tt.next)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRuleServiceCreate(t *testing.T) {
	db := newTestDB(t)
	svc := NewRuleService(db, assets.Default())

	t.Run("valid rule", func(t *testing.T) {
		rule, err := svc.Create("btc", models.OperatorAbove, 80000)
		require.NoError(t, err)
		assert.Equal(t, "BTC", rule.AssetSymbol)
		assert.Equal(t, models.OperatorAbove, rule.Operator)
		assert.Equal(t, 80000.0, rule.PriceTarget)
		assert.NotZero(t, rule.ID)
	})

	t.Run("unsupported asset rejected", func(t *testing.T) {
		_, err := svc.Create("DOGE", models.OperatorAbove, 1)
		assert.ErrorIs(t, err, ErrUnsupportedAsset)
	})

	t.Run("negative target rejected", func(t *testing.T) {
		_, err := svc.Create("BTC", models.OperatorAbove, -5)
		assert.ErrorIs(t, err, ErrInvalidTarget)
	})

	t.Run("non-finite target rejected", func(t *testing.T) {
		_, err := svc.Create("BTC", models.OperatorBelow, math.Inf(1))
		assert.ErrorIs(t, err, ErrInvalidTarget)

		_, err = svc.Create("BTC", models.OperatorBelow, math.NaN())
		assert.ErrorIs(t, err, ErrInvalidTarget)
	})

	t.Run("unknown operator rejected", func(t *testing.T) {
		_, err := svc.Create("BTC", "equals", 100)
		assert.ErrorIs(t, err, ErrInvalidOperator)
	})
}

func TestRuleServiceForSymbol(t *testing.T) {
	db := newTestDB(t)
	svc := NewRuleService(db, assets.Default())

	_, err := svc.Create("BTC", models.OperatorAbove, 80000)
	require.NoError(t, err)
	_, err = svc.Create("BTC", models.OperatorBelow, 60000)
	require.NoError(t, err)
	_, err = svc.Create("ETH", models.OperatorAbove, 3000)
	require.NoError(t, err)

	btcRules, err := svc.ForSymbol("BTC")
	require.NoError(t, err)
	assert.Len(t, btcRules, 2)
	for _, r := range btcRules {
		assert.Equal(t, "BTC", r.AssetSymbol)
	}

	solRules, err := svc.ForSymbol("SOL")
	require.NoError(t, err)
	assert.Empty(t, solRules)
}
