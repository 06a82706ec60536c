package trip

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kilometers is an odometer reading on the wire.
// Non-finite values marshal as null since JSON has no NaN.
type Kilometers float64

// MarshalJSON implements json.Marshaler
func (k Kilometers) MarshalJSON() ([]byte, error) {
	f := float64(k)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// IsFinite reports whether the reading is a real number.
func (k Kilometers) IsFinite() bool {
	f := float64(k)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Request is the body of POST /trip.
type Request struct {
	UserName string     `json:"user_name"`
	StartKM  Kilometers `json:"start_km"`
	EndKM    Kilometers `json:"end_km"`
}

// Normalize converts a draft into a request: the user name is trimmed and the
// odometer fields are parsed as decimals. Empty or malformed numbers become NaN
// (sent as null); empty text is not 0 and hex such as "0x1A" is malformed.
func Normalize(d Draft) Request {
	return Request{
		UserName: strings.TrimSpace(d.UserName),
		StartKM:  parseKilometers(d.StartKM),
		EndKM:    parseKilometers(d.EndKM),
	}
}

func parseKilometers(raw string) Kilometers {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return Kilometers(math.NaN())
	}
	return Kilometers(v)
}
