package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"coinfolio/internal/advisor"
	"coinfolio/internal/logger"
	"coinfolio/internal/models"
)

// Advisor drafts the advisory sentence for a triggered alert. It is the
// text-generation collaborator: given the alert context it returns a short
// natural-language string, or an error when generation is unavailable.
type Advisor interface {
	Advise(ctx context.Context, baseMessage, portfolioSummary string) (string, error)
}

// Pipeline orchestrates one ingested price update: upsert the price,
// evaluate the symbol's rules against the previous/next pair, compute
// portfolio context for anything that fired, and dispatch message payloads
// to the advisor. Dispatch is fire-and-forget: the ingestion call never
// blocks on, or fails because of, text generation.
type Pipeline struct {
	prices        *PriceService
	rules         *RuleService
	portfolio     *PortfolioService
	notifications *NotificationService
	advisor       Advisor
	timeout       time.Duration

	wg sync.WaitGroup
}

// NewPipeline creates a new notification pipeline.
func NewPipeline(prices *PriceService, rules *RuleService, portfolio *PortfolioService, notifications *NotificationService, adv Advisor, timeout time.Duration) *Pipeline {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Pipeline{
		prices:        prices,
		rules:         rules,
		portfolio:     portfolio,
		notifications: notifications,
		advisor:       adv,
		timeout:       timeout,
	}
}

// HandlePriceUpdate ingests one observed price for a symbol. The returned
// error covers the synchronous part only; advisory generation failures are
// contained in the dispatch goroutines and logged.
func (p *Pipeline) HandlePriceUpdate(symbol string, price float64, updatedAt time.Time) error {
	previous, err := p.prices.UpsertPrice(symbol, price, updatedAt)
	if err != nil {
		return fmt.Errorf("upsert price for %s: %w", symbol, err)
	}

	rules, err := p.rules.ForSymbol(symbol)
	if err != nil {
		return fmt.Errorf("load rules for %s: %w", symbol, err)
	}

	var triggered []models.AlertRule
	for _, rule := range rules {
		if ShouldTrigger(rule.Operator, rule.PriceTarget, previous, price) {
			triggered = append(triggered, rule)
		}
	}
	if len(triggered) == 0 {
		return nil
	}

	logger.Log.Info("alert rules triggered",
		zap.String("symbol", symbol),
		zap.Int("total", len(rules)),
		zap.Int("triggered", len(triggered)),
		zap.Float64("price", price),
	)

	insights, err := p.portfolio.Insights(symbol, price)
	if err != nil {
		return fmt.Errorf("portfolio insights for %s: %w", symbol, err)
	}

	for _, rule := range triggered {
		payload := buildPayload(rule, price, updatedAt, insights)
		p.wg.Add(1)
		go func(pl alertPayload) {
			defer p.wg.Done()
			p.deliver(pl)
		}(payload)
	}
	return nil
}

// Wait blocks until every dispatched advisory has completed. Used on
// shutdown so in-flight notifications are not lost.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

type alertPayload struct {
	Title            string
	BaseMessage      string
	PortfolioSummary string
	Severity         string
	AssetSymbol      string
	PriceTarget      float64
	CreatedAt        time.Time
}

// Severity is mapped from the operator and is not user-configurable:
// crossing above a threshold warns, crossing below informs.
func buildPayload(rule models.AlertRule, price float64, updatedAt time.Time, insights *Insights) alertPayload {
	severity := models.SeverityInfo
	comparator := "<"
	direction := "below"
	if rule.Operator == models.OperatorAbove {
		severity = models.SeverityWarning
		comparator = ">"
		direction = "above"
	}

	target := formatEUR(rule.PriceTarget)
	current := formatEUR(price)

	var summary string
	if insights.HasPosition {
		allocation := "less than 1%"
		if insights.AllocationPct > 0 {
			allocation = fmt.Sprintf("%.1f%%", insights.AllocationPct)
		}
		summary = fmt.Sprintf("You hold %s %s (~%s), i.e. %s of your allocation.",
			formatAmount(insights.Amount), rule.AssetSymbol, formatEUR(insights.Value), allocation)
	} else {
		summary = fmt.Sprintf("You do not hold %s.", rule.AssetSymbol)
	}

	return alertPayload{
		Title:            fmt.Sprintf("%s %s %s", rule.AssetSymbol, comparator, target),
		BaseMessage:      fmt.Sprintf("%s is now %s the %s threshold (current price %s).", rule.AssetSymbol, direction, target, current),
		PortfolioSummary: summary,
		Severity:         severity,
		AssetSymbol:      rule.AssetSymbol,
		PriceTarget:      rule.PriceTarget,
		CreatedAt:        updatedAt,
	}
}

// deliver runs in its own goroutine. Whatever happens to text generation,
// exactly one notification row is persisted for the payload.
func (p *Pipeline) deliver(pl alertPayload) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	text, err := p.advisor.Advise(ctx, pl.BaseMessage, pl.PortfolioSummary)
	if err != nil {
		logger.Log.Warn("advisory generation failed, using fallback",
			zap.String("symbol", pl.AssetSymbol),
			zap.Error(err),
		)
	}
	if strings.TrimSpace(text) == "" {
		text = advisor.FallbackMessage
	}

	target := pl.PriceTarget
	notification := &models.Notification{
		Title:       pl.Title,
		Message:     text,
		Severity:    pl.Severity,
		AssetSymbol: pl.AssetSymbol,
		PriceTarget: &target,
		IsRead:      false,
		CreatedAt:   pl.CreatedAt,
	}
	if err := p.notifications.Insert(notification); err != nil {
		logger.Log.Error("failed to persist notification",
			zap.String("symbol", pl.AssetSymbol),
			zap.Error(err),
		)
	}
}
