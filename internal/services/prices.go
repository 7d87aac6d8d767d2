package services

import (
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"coinfolio/internal/models"
)

// PriceService owns the latest-price collection: one row per symbol with
// upsert semantics. The read of the previous price and the write of the new
// one must be observed as a single step by rule evaluation, so updates for
// the same symbol are serialized here.
type PriceService struct {
	db *gorm.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewPriceService creates a new price service
func NewPriceService(db *gorm.DB) *PriceService {
	return &PriceService{
		db:    db,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *PriceService) symbolLock(symbol string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[symbol]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[symbol] = lock
	}
	return lock
}

// UpsertPrice stores the latest price for symbol, overwriting any existing
// row, and returns the price it replaced. A nil previous price means this
// was the first observation for the symbol. The ingestion path trusts its
// source; positivity is validated at the public write boundary instead.
func (s *PriceService) UpsertPrice(symbol string, price float64, updatedAt time.Time) (*float64, error) {
	lock := s.symbolLock(symbol)
	lock.Lock()
	defer lock.Unlock()

	var previous *float64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.TokenPrice
		err := tx.Where("symbol = ?", symbol).First(&existing).Error
		switch {
		case err == nil:
			prev := existing.Price
			previous = &prev
			return tx.Model(&existing).Updates(map[string]interface{}{
				"price":      price,
				"updated_at": updatedAt,
			}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&models.TokenPrice{
				Symbol:    symbol,
				Price:     price,
				UpdatedAt: updatedAt,
			}).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return previous, nil
}

// ListPrices returns all stored prices.
func (s *PriceService) ListPrices() ([]models.TokenPrice, error) {
	var prices []models.TokenPrice
	err := s.db.Find(&prices).Error
	return prices, err
}
