package assets

import "strings"

// Asset maps an internal coin identifier to its display symbol and the
// exchange market code used to fetch its EUR price.
type Asset struct {
	CoinID string
	Symbol string
	Market string
}

// DefaultAssets is the built-in supported-asset table.
var DefaultAssets = []Asset{
	{CoinID: "bitcoin", Symbol: "BTC", Market: "BTCEUR"},
	{CoinID: "ethereum", Symbol: "ETH", Market: "ETHEUR"},
	{CoinID: "solana", Symbol: "SOL", Market: "SOLEUR"},
}

// Registry is an immutable lookup over the supported assets. It is built
// once at startup and injected wherever asset membership matters: the
// scheduler, rule validation and the portfolio aggregator.
type Registry struct {
	assets         []Asset
	bySymbol       map[string]Asset
	symbolByCoinID map[string]string
}

// NewRegistry builds a registry from the given asset table. Symbols are
// normalized to upper case.
func NewRegistry(list []Asset) *Registry {
	r := &Registry{
		assets:         make([]Asset, 0, len(list)),
		bySymbol:       make(map[string]Asset, len(list)),
		symbolByCoinID: make(map[string]string, len(list)),
	}
	for _, a := range list {
		a.Symbol = strings.ToUpper(strings.TrimSpace(a.Symbol))
		r.assets = append(r.assets, a)
		r.bySymbol[a.Symbol] = a
		r.symbolByCoinID[a.CoinID] = a.Symbol
	}
	return r
}

// Default returns a registry over DefaultAssets.
func Default() *Registry {
	return NewRegistry(DefaultAssets)
}

// All returns the supported assets in table order.
func (r *Registry) All() []Asset {
	return r.assets
}

// IsSupported reports whether symbol belongs to the supported set.
func (r *Registry) IsSupported(symbol string) bool {
	_, ok := r.bySymbol[symbol]
	return ok
}

// SymbolForCoinID resolves a coin identifier to its display symbol.
func (r *Registry) SymbolForCoinID(coinID string) (string, bool) {
	symbol, ok := r.symbolByCoinID[coinID]
	return symbol, ok
}
