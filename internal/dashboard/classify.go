package dashboard

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// Direction classifies the percent change of the last price and drives the
// price banner color.
type Direction int

const (
	Neutral Direction = iota
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "neutral"
	}
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(b []byte) error {
	switch string(b) {
	case "up":
		*d = Up
	case "down":
		*d = Down
	case "neutral":
		*d = Neutral
	default:
		return fmt.Errorf("unknown direction %q", b)
	}
	return nil
}

// ClassifyChange maps a raw pChange value to a Direction. The value may be a
// JSON number or a string holding one; anything else, including a missing
// value or a string that does not parse, is Neutral. Exactly zero is Neutral.
// Parsing goes through decimal so the zero boundary is exact.
func ClassifyChange(raw gjson.Result) Direction {
	var s string
	switch raw.Type {
	case gjson.Number:
		s = raw.Raw
	case gjson.String:
		s = strings.TrimSpace(raw.Str)
	default:
		return Neutral
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Neutral
	}
	switch d.Sign() {
	case 1:
		return Up
	case -1:
		return Down
	}
	return Neutral
}
