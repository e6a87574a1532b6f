package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"nsedash/internal/dashboard"
	"nsedash/internal/httpx"
	"nsedash/internal/nse"
)

// One-shot fetch-and-normalize for a single symbol; prints the bundle JSON.
func main() {
	var symbol string
	var baseURL string
	var timeout int

	flag.StringVar(&symbol, "symbol", getenv("SYMBOL", "RELIANCE"), "NSE symbol to fetch")
	flag.StringVar(&baseURL, "base-url", getenv("NSE_BASE_URL", ""), "NSE site base URL (optional)")
	flag.IntVar(&timeout, "timeout", 15, "request timeout seconds")
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
		log.Fatalf("no data available for %s, verify the symbol is correct (%v)", symbol, err)
	}

	bundle := dashboard.Normalize(quote, trade)
	b, _ := json.MarshalIndent(bundle, "", "  ")
	fmt.Println(string(b))
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
