package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/pretty"

	"nsedash/internal/httpx"
	"nsedash/internal/nse"
)

// Dumps the two raw upstream payloads for a symbol to disk, pretty-printed.
// Useful for inspecting what the site actually returns when the normalizer
// shows unexpected N/A cells.
func main() {
	var symbol string
	var baseURL string
	var outDir string
	var timeout int

	flag.StringVar(&symbol, "symbol", "RELIANCE", "NSE symbol to dump")
	flag.StringVar(&baseURL, "base-url", "", "NSE site base URL (optional)")
	flag.StringVar(&outDir, "out", ".", "output directory")
	flag.IntVar(&timeout, "timeout", 20, "HTTP timeout seconds")
	flag.Parse()

	httpClient := httpx.New(time.Duration(timeout) * time.Second)
	opts := []nse.Option{}
	if baseURL != "" {
		opts = append(opts, nse.WithBaseURL(baseURL))
	}
	client := nse.New(httpClient, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	quote, trade, err := client.Fetch(ctx, symbol)
	if err != nil {
		log.Fatalf("fetch: %v", err)
	}

	quotePath := filepath.Join(outDir, fmt.Sprintf("quote_%s.json", symbol))
	tradePath := filepath.Join(outDir, fmt.Sprintf("trade_%s.json", symbol))
	if err := os.WriteFile(quotePath, pretty.Pretty([]byte(quote.Raw)), 0o644); err != nil {
		log.Fatalf("write quote: %v", err)
	}
	if err := os.WriteFile(tradePath, pretty.Pretty([]byte(trade.Raw)), 0o644); err != nil {
		log.Fatalf("write trade: %v", err)
	}
	log.Printf("done: wrote %s and %s", quotePath, tradePath)
}
