package dashboard

import (
	"sort"

	"github.com/tidwall/gjson"

	"nsedash/internal/market"
)

// NA marks a source field that was missing or null.
const NA = "N/A"

// Table is a display-ready grid. Every cell is a string so any bundle renders
// uniformly regardless of which source fields were present.
type Table struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

// Bundle is the full output of one normalize cycle. Each cycle's bundle
// replaces the previous one wholesale; nothing is retained across cycles.
type Bundle struct {
	PriceSummary  Table     `json:"price_summary"`
	MarketSummary Table     `json:"market_summary"`
	OrderBook     Table     `json:"order_book"`
	TradeInfo     Table     `json:"trade_info"`
	LastPrice     string    `json:"last_price"`
	PChange       string    `json:"p_change"`
	Direction     Direction `json:"direction"`
}

// field binds one output column to its path in a source payload. Defaults and
// stringification live in lookup, so the whole missing-field policy sits in
// one place.
type field struct {
	column string
	path   string
}

var priceSummaryFields = []field{
	{"lastPrice", "priceInfo.lastPrice"},
	{"open", "priceInfo.open"},
	{"close", "priceInfo.close"},
	{"high", "priceInfo.intraDayHighLow.max"},
	{"low", "priceInfo.intraDayHighLow.min"},
	{"change", "priceInfo.change"},
	{"pChange", "priceInfo.pChange"},
	{"previousClose", "priceInfo.previousClose"},
	{"vwap", "priceInfo.vwap"},
}

var marketSummaryTradeFields = []field{
	{"totalBuyQuantity", "marketDeptOrderBook.totalBuyQuantity"},
	{"totalSellQuantity", "marketDeptOrderBook.totalSellQuantity"},
	{"lastQuantity", "marketDeptOrderBook.lastQuantity"},
	{"totalTradedVolume", "marketDeptOrderBook.totalTradedVolume"},
}

// marketSummaryQuoteFields completes the market summary from the quote
// payload. dayVolume reads the quote's priceInfo.totalTradedVolume, which is
// a different field from the trade-side totalTradedVolume above.
var marketSummaryQuoteFields = []field{
	{"averagePrice", "priceInfo.averagePrice"},
	{"dayVolume", "priceInfo.totalTradedVolume"},
	{"marketCap", "priceInfo.marketCap"},
}

// metadataFields are always present in the trade info table and always win
// over any same-named key carried in the trade payload's tradeInfo section.
var metadataFields = []field{
	{"tradingStatus", "metadata.tradingStatus"},
	{"industry", "metadata.industry"},
	{"symbol", "metadata.symbol"},
	{"listingDate", "metadata.listingDate"},
	{"isin", "metadata.isin"},
}

var orderBookColumns = []string{"Bid Price", "Bid Quantity", "Ask Price", "Ask Quantity"}

// Normalize turns a matched quote/trade payload pair into one display bundle.
// It is total: any missing or malformed nested section degrades to NA cells,
// never an error.
func Normalize(quote market.RawQuote, trade market.RawTrade) Bundle {
	return Bundle{
		PriceSummary:  recordTable(quote.Result, priceSummaryFields),
		MarketSummary: marketSummary(quote, trade),
		OrderBook:     orderBook(trade),
		TradeInfo:     tradeInfo(quote, trade),
		LastPrice:     lookup(quote.Result, "priceInfo.lastPrice"),
		PChange:       lookup(quote.Result, "priceInfo.pChange"),
		Direction:     ClassifyChange(quote.Get("priceInfo.pChange")),
	}
}

// lookup resolves one optional nested field to its display string. Missing
// and null both collapse to NA; numbers and booleans keep their JSON text.
func lookup(root gjson.Result, path string) string {
	v := root.Get(path)
	if !v.Exists() || v.Type == gjson.Null {
		return NA
	}
	return v.String()
}

func recordTable(root gjson.Result, fields []field) Table {
	cols := make([]string, 0, len(fields))
	row := make(map[string]string, len(fields))
	for _, f := range fields {
		cols = append(cols, f.column)
		row[f.column] = lookup(root, f.path)
	}
	return Table{Columns: cols, Rows: []map[string]string{row}}
}

func marketSummary(quote market.RawQuote, trade market.RawTrade) Table {
	n := len(marketSummaryTradeFields) + len(marketSummaryQuoteFields)
	cols := make([]string, 0, n)
	row := make(map[string]string, n)
	for _, f := range marketSummaryTradeFields {
		cols = append(cols, f.column)
		row[f.column] = lookup(trade.Result, f.path)
	}
	for _, f := range marketSummaryQuoteFields {
		cols = append(cols, f.column)
		row[f.column] = lookup(quote.Result, f.path)
	}
	return Table{Columns: cols, Rows: []map[string]string{row}}
}

// orderBook pairs bid and ask levels positionally, one row per index. When
// the sides differ in length, the shorter side's trailing cells are empty
// strings; a level price is never fabricated. If either side is absent the
// table keeps its headers with zero rows.
func orderBook(trade market.RawTrade) Table {
	t := Table{
		Columns: append([]string(nil), orderBookColumns...),
		Rows:    []map[string]string{},
	}
	bids := trade.Get("marketDeptOrderBook.bid")
	asks := trade.Get("marketDeptOrderBook.ask")
	if !bids.IsArray() || !asks.IsArray() {
		return t
	}
	b, a := bids.Array(), asks.Array()
	n := len(b)
	if len(a) > n {
		n = len(a)
	}
	for i := 0; i < n; i++ {
		row := map[string]string{
			"Bid Price":    "",
			"Bid Quantity": "",
			"Ask Price":    "",
			"Ask Quantity": "",
		}
		if i < len(b) {
			row["Bid Price"] = lookup(b[i], "price")
			row["Bid Quantity"] = lookup(b[i], "quantity")
		}
		if i < len(a) {
			row["Ask Price"] = lookup(a[i], "price")
			row["Ask Quantity"] = lookup(a[i], "quantity")
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// tradeInfo seeds the table from the trade payload's free-form tradeInfo
// mapping, then overwrites the five metadata keys from the quote payload.
// Rows are sorted by field name so equal inputs yield identical bundles.
func tradeInfo(quote market.RawQuote, trade market.RawTrade) Table {
	kv := map[string]string{}
	if ti := trade.Get("marketDeptOrderBook.tradeInfo"); ti.IsObject() {
		ti.ForEach(func(k, v gjson.Result) bool {
			if v.Type == gjson.Null {
				kv[k.String()] = NA
			} else {
				kv[k.String()] = v.String()
			}
			return true
		})
	}
	for _, f := range metadataFields {
		kv[f.column] = lookup(quote.Result, f.path)
	}
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([]map[string]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, map[string]string{"Field": k, "Value": kv[k]})
	}
	return Table{Columns: []string{"Field", "Value"}, Rows: rows}
}
