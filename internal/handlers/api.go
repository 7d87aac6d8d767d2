package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"coinfolio/internal/assets"
	"coinfolio/internal/services"
)

// Handler serves the dashboard API.
type Handler struct {
	notifications *services.NotificationService
	rules         *services.RuleService
	portfolio     *services.PortfolioService
	pipeline      *services.Pipeline
	registry      *assets.Registry
}

// NewHandler creates a new API handler.
func NewHandler(
	notifications *services.NotificationService,
	rules *services.RuleService,
	portfolio *services.PortfolioService,
	pipeline *services.Pipeline,
	registry *assets.Registry,
) *Handler {
	return &Handler{
		notifications: notifications,
		rules:         rules,
		portfolio:     portfolio,
		pipeline:      pipeline,
		registry:      registry,
	}
}

// ListNotifications returns recent notifications, newest first. The limit
// query parameter defaults to 25 and is clamped server-side.
func (h *Handler) ListNotifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultNotificationLimit)))

	notifications, err := h.notifications.List(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// UnreadCount returns the number of unread notifications.
func (h *Handler) UnreadCount(c *gin.Context) {
	count, err := h.notifications.UnreadCount()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkAllRead flips every unread notification and reports how many changed.
func (h *Handler) MarkAllRead(c *gin.Context) {
	updated, err := h.notifications.MarkAllRead()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// CreateNotificationRequest is the manual notification payload.
type CreateNotificationRequest struct {
	Title       string   `json:"title"`
	Message     string   `json:"message"`
	Severity    string   `json:"severity,omitempty"`
	AssetSymbol string   `json:"asset_symbol,omitempty"`
	PriceTarget *float64 `json:"price_target,omitempty"`
}

// CreateNotification persists a manual notification.
func (h *Handler) CreateNotification(c *gin.Context) {
	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	notification, err := h.notifications.Create(req.Title, req.Message, req.Severity, req.AssetSymbol, req.PriceTarget)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
		return
	}

	c.JSON(http.StatusCreated, notification)
}

// CreateRuleRequest is the alert-rule payload.
type CreateRuleRequest struct {
	AssetSymbol string  `json:"asset_symbol"`
	Operator    string  `json:"operator"`
	PriceTarget float64 `json:"price_target"`
}

// CreateRule validates and persists an alert rule.
func (h *Handler) CreateRule(c *gin.Context) {
	var req CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	rule, err := h.rules.Create(req.AssetSymbol, req.Operator, req.PriceTarget)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create rule"})
		return
	}

	c.JSON(http.StatusCreated, rule)
}

// ListRules returns all alert rules, newest first.
func (h *Handler) ListRules(c *gin.Context) {
	rules, err := h.rules.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rules"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rules": rules,
		"count": len(rules),
	})
}

// GetPortfolio returns the full-portfolio overview.
func (h *Handler) GetPortfolio(c *gin.Context) {
	overview, err := h.portfolio.Overview()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute portfolio overview"})
		return
	}

	c.JSON(http.StatusOK, overview)
}

// UpdatePriceRequest is the manual price-update payload.
type UpdatePriceRequest struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

// UpdatePrice is the public, validated price-update entry point. It feeds
// the same pipeline as the scheduler, so rule evaluation and notification
// dispatch behave identically.
func (h *Handler) UpdatePrice(c *gin.Context) {
	var req UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if !h.registry.IsSupported(symbol) {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrUnsupportedAsset.Error()})
		return
	}
	if math.IsNaN(req.Price) || math.IsInf(req.Price, 0) || req.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrInvalidPrice.Error()})
		return
	}

	if err := h.pipeline.HandlePriceUpdate(symbol, req.Price, time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update price"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Price updated",
		"symbol":  symbol,
		"price":   req.Price,
	})
}

func isValidationError(err error) bool {
	return errors.Is(err, services.ErrUnsupportedAsset) ||
		errors.Is(err, services.ErrInvalidOperator) ||
		errors.Is(err, services.ErrInvalidTarget) ||
		errors.Is(err, services.ErrInvalidPrice) ||
		errors.Is(err, services.ErrInvalidSeverity) ||
		errors.Is(err, services.ErrMissingTitle) ||
		errors.Is(err, services.ErrMissingMessage)
}
