package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nsedash/internal/market"
	"nsedash/internal/refresh"
)

type fakeFetcher struct {
	quote map[string]string // symbol -> quote JSON
	trade string
}

func (f fakeFetcher) Fetch(_ context.Context, symbol string) (market.RawQuote, market.RawTrade, error) {
	q, ok := f.quote[symbol]
	if !ok {
		return market.RawQuote{}, market.RawTrade{}, &market.FetchError{Symbol: symbol, Cause: errors.New("status 404")}
	}
	return market.ParseRawQuote([]byte(q)), market.ParseRawTrade([]byte(f.trade)), nil
}

func newTestRefresher(t *testing.T, f market.Fetcher, symbol string) *refresh.Refresher {
	t.Helper()
	r, err := refresh.New(f, symbol, time.Minute)
	if err != nil {
		t.Fatalf("refresher: %v", err)
	}
	t.Cleanup(r.Stop)
	return r
}

func TestHandleDashboard_ServesLatestSnapshot(t *testing.T) {
	f := fakeFetcher{
		quote: map[string]string{"RELIANCE": `{"metadata":{"symbol":"RELIANCE"},"priceInfo":{"lastPrice":2901.5,"pChange":-0.2}}`},
		trade: `{}`,
	}
	r := newTestRefresher(t, f, "RELIANCE")
	r.Refresh(context.Background())

	rr := httptest.NewRecorder()
	handleDashboard(rr, httptest.NewRequest("GET", "/api/dashboard", nil), r)
	if rr.Code != 200 {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var snap refresh.Snapshot
	if err := json.Unmarshal(rr.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Symbol != "RELIANCE" || snap.Bundle == nil || snap.Err != "" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.Bundle.LastPrice != "2901.5" || snap.Bundle.Direction.String() != "down" {
		t.Fatalf("unexpected bundle: %+v", snap.Bundle)
	}
}

func TestHandleSymbol_SwitchesAndRefreshes(t *testing.T) {
	f := fakeFetcher{
		quote: map[string]string{
			"RELIANCE": `{"metadata":{"symbol":"RELIANCE"}}`,
			"INFY":     `{"metadata":{"symbol":"INFY"},"priceInfo":{"lastPrice":1650}}`,
		},
		trade: `{}`,
	}
	r := newTestRefresher(t, f, "RELIANCE")

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/symbol", strings.NewReader(`{"symbol":" infy "}`))
	handleSymbol(rr, req, r)
	if rr.Code != 200 {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var snap refresh.Snapshot
	if err := json.Unmarshal(rr.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Symbol != "INFY" || snap.Bundle == nil {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if got := r.Latest().Symbol; got != "INFY" {
		t.Fatalf("latest symbol = %s, want INFY", got)
	}
}

func TestHandleSymbol_FetchErrorStillAnswers(t *testing.T) {
	f := fakeFetcher{quote: map[string]string{}, trade: `{}`}
	r := newTestRefresher(t, f, "NOPE")

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/symbol", strings.NewReader(`{"symbol":"NOPE"}`))
	handleSymbol(rr, req, r)
	if rr.Code != 200 {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var snap refresh.Snapshot
	if err := json.Unmarshal(rr.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Bundle != nil || !strings.Contains(snap.Err, "no data available for NOPE") {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestHandleSymbol_RejectsBadInput(t *testing.T) {
	r := newTestRefresher(t, fakeFetcher{trade: `{}`}, "RELIANCE")

	rr := httptest.NewRecorder()
	handleSymbol(rr, httptest.NewRequest("POST", "/api/symbol", strings.NewReader(`{"symbol":""}`)), r)
	if rr.Code != 400 {
		t.Fatalf("empty symbol: status=%d", rr.Code)
	}

	rr = httptest.NewRecorder()
	handleSymbol(rr, httptest.NewRequest("POST", "/api/symbol", strings.NewReader(`not json`)), r)
	if rr.Code != 400 {
		t.Fatalf("bad json: status=%d", rr.Code)
	}

	rr = httptest.NewRecorder()
	handleSymbol(rr, httptest.NewRequest("GET", "/api/symbol", nil), r)
	if rr.Code != 405 {
		t.Fatalf("wrong method: status=%d", rr.Code)
	}
}
