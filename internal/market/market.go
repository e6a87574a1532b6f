package market

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
)

// RawQuote is the upstream quote payload for a symbol, kept as parsed JSON.
// Field absence is expected and normal; consumers navigate by path and supply
// their own defaults.
type RawQuote struct {
	gjson.Result
}

// RawTrade is the upstream trade/order-book payload for a symbol.
type RawTrade struct {
	gjson.Result
}

func ParseRawQuote(b []byte) RawQuote { return RawQuote{gjson.ParseBytes(b)} }

func ParseRawTrade(b []byte) RawTrade { return RawTrade{gjson.ParseBytes(b)} }

// Fetcher retrieves the matched payload pair for one symbol. Implementations
// fail as a unit: either both payloads are returned or neither is.
//
//go:generate mockgen -package=refresh_test -destination=../refresh/mock_fetcher_test.go nsedash/internal/market Fetcher
type Fetcher interface {
	Fetch(ctx context.Context, symbol string) (RawQuote, RawTrade, error)
}

// FetchError wraps any upstream retrieval failure with the symbol it was for.
type FetchError struct {
	Symbol string
	Cause  error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.Symbol, e.Cause) }

func (e *FetchError) Unwrap() error { return e.Cause }
