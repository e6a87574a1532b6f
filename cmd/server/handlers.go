package main

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"strings"

	"nsedash/internal/refresh"
)

//go:embed index.html
var indexHTML []byte

// handleDashboard serves the latest snapshot for the selected symbol.
func handleDashboard(w http.ResponseWriter, r *http.Request, refresher *refresh.Refresher) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeSnapshot(w, refresher.Latest())
}

type symbolBody struct {
	Symbol string `json:"symbol"`
}

// handleSymbol switches the displayed symbol and refreshes immediately. The
// response is the fresh snapshot; a fetch failure still answers 200 with the
// user-visible error in the snapshot, never a partial dashboard.
func handleSymbol(w http.ResponseWriter, r *http.Request, refresher *refresh.Refresher) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var b symbolBody
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	symbol := strings.ToUpper(strings.TrimSpace(b.Symbol))
	if symbol == "" {
		http.Error(w, "symbol cannot be empty", http.StatusBadRequest)
		return
	}
	writeSnapshot(w, refresher.SetSymbol(r.Context(), symbol))
}

func writeSnapshot(w http.ResponseWriter, snap refresh.Snapshot) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(snap)
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}
