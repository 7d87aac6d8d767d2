package market

import (
	"context"
	"fmt"
	"strconv"

	"github.com/adshao/go-binance/v2"
)

// Source provides the live EUR price for an exchange market code.
type Source interface {
	FetchPrice(ctx context.Context, market string) (float64, error)
}

// BinanceSource fetches ticker prices from the Binance spot API. The
// ticker endpoint is public, so no credentials are required.
type BinanceSource struct {
	client *binance.Client
}

// NewBinanceSource creates a Binance-backed price source.
func NewBinanceSource() *BinanceSource {
	return &BinanceSource{
		client: binance.NewClient("", ""),
	}
}

// FetchPrice returns the latest price for a market code such as "BTCEUR".
func (s *BinanceSource) FetchPrice(ctx context.Context, market string) (float64, error) {
	prices, err := s.client.NewListPricesService().Symbol(market).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("binance ticker price for %s: %w", market, err)
	}
	if len(prices) == 0 {
		return 0, fmt.Errorf("binance returned no price for %s", market)
	}

	price, err := strconv.ParseFloat(prices[0].Price, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q for %s: %w", prices[0].Price, market, err)
	}
	return price, nil
}
