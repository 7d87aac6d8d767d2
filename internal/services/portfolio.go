package services

import (
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"coinfolio/internal/assets"
	"coinfolio/internal/models"
)

// PortfolioService derives holdings, valuation and allocation from the raw
// position entries plus the latest prices. Pure computation over two reads;
// it never writes.
type PortfolioService struct {
	db       *gorm.DB
	registry *assets.Registry
}

// NewPortfolioService creates a new portfolio service
func NewPortfolioService(db *gorm.DB, registry *assets.Registry) *PortfolioService {
	return &PortfolioService{db: db, registry: registry}
}

// Insights describes one symbol's place in the portfolio.
type Insights struct {
	HasPosition   bool    `json:"has_position"`
	Amount        float64 `json:"amount"`
	Value         float64 `json:"value"`
	AllocationPct float64 `json:"allocation_pct"`
	TotalValue    float64 `json:"total_value"`
}

// Insights computes the portfolio context for one symbol. currentPrice
// overrides the stored price for that symbol, so a just-ingested price is
// reflected before the store write is visible to other readers.
func (s *PortfolioService) Insights(symbol string, currentPrice float64) (*Insights, error) {
	entries, prices, err := s.load()
	if err != nil {
		return nil, err
	}

	priceBySymbol := make(map[string]float64, len(prices))
	for _, p := range prices {
		priceBySymbol[p.Symbol] = p.Price
	}
	priceBySymbol[symbol] = currentPrice

	amounts := make(map[string]float64)
	for _, entry := range entries {
		sym, ok := s.registry.SymbolForCoinID(entry.CoinID)
		if !ok {
			sym = strings.ToUpper(entry.CoinID)
		}
		amounts[sym] += entry.Amount
	}

	var totalValue float64
	for sym, amount := range amounts {
		totalValue += amount * priceBySymbol[sym]
	}

	amount := amounts[symbol]
	value := amount * currentPrice
	var allocationPct float64
	if totalValue > 0 && value > 0 {
		allocationPct = (value / totalValue) * 100
	}

	return &Insights{
		HasPosition:   amount > 0,
		Amount:        amount,
		Value:         value,
		AllocationPct: allocationPct,
		TotalValue:    totalValue,
	}, nil
}

// Holding is one aggregated position in the overview.
type Holding struct {
	CoinID       string  `json:"coin_id"`
	Symbol       string  `json:"symbol"`
	Amount       float64 `json:"amount"`
	CurrentPrice float64 `json:"current_price"`
	CurrentValue float64 `json:"current_value"`
	Allocation   float64 `json:"allocation"`
}

// OverviewSummary totals the portfolio.
type OverviewSummary struct {
	TotalInvested  float64 `json:"total_invested"`
	CurrentValue   float64 `json:"current_value"`
	Gain           float64 `json:"gain"`
	PerfPct        float64 `json:"perf_pct"`
	DistinctAssets int     `json:"distinct_assets"`
}

// Overview is the full-portfolio read model served to the dashboard.
type Overview struct {
	Summary                OverviewSummary `json:"summary"`
	Holdings               []Holding       `json:"holdings"`
	LastPriceUpdate        time.Time       `json:"last_price_update"`
	HasManualInvestedValue bool            `json:"has_manual_invested_value"`
}

// Overview aggregates every holding with its latest price. When no manual
// invested amount was recorded, the invested value falls back to the
// current value, yielding a defined 0% performance instead of NaN.
func (s *PortfolioService) Overview() (*Overview, error) {
	entries, prices, err := s.load()
	if err != nil {
		return nil, err
	}

	priceBySymbol := make(map[string]float64, len(prices))
	var lastPriceUpdate time.Time
	for _, p := range prices {
		priceBySymbol[p.Symbol] = p.Price
		if p.UpdatedAt.After(lastPriceUpdate) {
			lastPriceUpdate = p.UpdatedAt
		}
	}

	holdings := make(map[string]*Holding)
	order := make([]string, 0)
	var currentValue float64
	var rawInvested float64

	for _, entry := range entries {
		sym, ok := s.registry.SymbolForCoinID(entry.CoinID)
		if !ok {
			sym = strings.ToUpper(entry.CoinID)
		}
		livePrice := priceBySymbol[sym]

		holding, ok := holdings[sym]
		if !ok {
			holding = &Holding{CoinID: entry.CoinID, Symbol: sym}
			holdings[sym] = holding
			order = append(order, sym)
		}
		holding.Amount += entry.Amount
		holding.CurrentPrice = livePrice
		holding.CurrentValue = holding.Amount * livePrice

		currentValue += entry.Amount * livePrice
		if entry.InvestedEur != nil {
			rawInvested += *entry.InvestedEur
		}
	}

	investedValue := rawInvested
	if investedValue <= 0 {
		investedValue = currentValue
	}
	gain := currentValue - investedValue
	var perfPct float64
	if investedValue != 0 {
		perfPct = (gain / investedValue) * 100
	}

	list := make([]Holding, 0, len(order))
	for _, sym := range order {
		h := *holdings[sym]
		if currentValue != 0 {
			h.Allocation = math.Round((h.CurrentValue/currentValue)*100*100) / 100
		}
		list = append(list, h)
	}

	return &Overview{
		Summary: OverviewSummary{
			TotalInvested:  investedValue,
			CurrentValue:   currentValue,
			Gain:           gain,
			PerfPct:        perfPct,
			DistinctAssets: len(holdings),
		},
		Holdings:               list,
		LastPriceUpdate:        lastPriceUpdate,
		HasManualInvestedValue: rawInvested > 0,
	}, nil
}

// load takes the two reads behind every aggregation. The reads are not
// wrapped in a transaction; partial staleness between them is acceptable.
func (s *PortfolioService) load() ([]models.PortfolioEntry, []models.TokenPrice, error) {
	var entries []models.PortfolioEntry
	if err := s.db.Find(&entries).Error; err != nil {
		return nil, nil, err
	}
	var prices []models.TokenPrice
	if err := s.db.Find(&prices).Error; err != nil {
		return nil, nil, err
	}
	return entries, prices, nil
}
