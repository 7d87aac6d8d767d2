package services

import (
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"coinfolio/internal/assets"
	"coinfolio/internal/models"
)

// RuleService handles alert-rule operations. Rules are immutable once
// created; there is no update or delete.
type RuleService struct {
	db       *gorm.DB
	registry *assets.Registry
}

// NewRuleService creates a new rule service
func NewRuleService(db *gorm.DB, registry *assets.Registry) *RuleService {
	return &RuleService{db: db, registry: registry}
}

// Create validates and persists a new alert rule.
func (s *RuleService) Create(assetSymbol, operator string, priceTarget float64) (*models.AlertRule, error) {
	symbol := strings.ToUpper(strings.TrimSpace(assetSymbol))
	if !s.registry.IsSupported(symbol) {
		return nil, ErrUnsupportedAsset
	}
	if operator != models.OperatorAbove && operator != models.OperatorBelow {
		return nil, ErrInvalidOperator
	}
	if math.IsNaN(priceTarget) || math.IsInf(priceTarget, 0) || priceTarget <= 0 {
		return nil, ErrInvalidTarget
	}

	rule := &models.AlertRule{
		AssetSymbol: symbol,
		Operator:    operator,
		PriceTarget: priceTarget,
		CreatedAt:   time.Now(),
	}
	if err := s.db.Create(rule).Error; err != nil {
		return nil, err
	}
	return rule, nil
}

// List returns all rules, newest first.
func (s *RuleService) List() ([]models.AlertRule, error) {
	var rules []models.AlertRule
	err := s.db.Order("created_at DESC").Find(&rules).Error
	return rules, err
}

// ForSymbol returns the rules bound to one symbol.
func (s *RuleService) ForSymbol(symbol string) ([]models.AlertRule, error) {
	var rules []models.AlertRule
	err := s.db.Where("asset_symbol = ?", symbol).Find(&rules).Error
	return rules, err
}

// ShouldTrigger reports whether a rule fires on the price transition from
// previous to next. It fires only on the crossing itself: a price that was
// already on the qualifying side does not retrigger. A nil previous price
// means first observation, and any rule already satisfied by that price
// fires once.
func ShouldTrigger(operator string, target float64, previous *float64, next float64) bool {
	if operator == models.OperatorAbove {
		if next < target {
			return false
		}
		if previous == nil {
			return true
		}
		return *previous < target
	}

	if next > target {
		return false
	}
	if previous == nil {
		return true
	}
	return *previous > target
}
