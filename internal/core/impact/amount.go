package impact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Amount is an impact quantity. Fixed amounts encode as a two-decimal JSON
// string ("0.57"), the rest as a plain JSON number. Clients have always had to
// accept both, so both forms decode.
type Amount struct {
	Value float64
	Fixed bool
}

// Fixed2 returns an Amount that encodes as a two-decimal string.
func Fixed2(v float64) Amount { return Amount{Value: v, Fixed: true} }

// Number returns an Amount that encodes as a JSON number.
func Number(v float64) Amount { return Amount{Value: v} }

func (a Amount) String() string {
	return strconv.FormatFloat(a.Value, 'f', 2, 64)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if a.Fixed {
		return []byte(strconv.Quote(a.String())), nil
	}
	return []byte(strconv.FormatFloat(a.Value, 'f', -1, 64)), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("impact amount %q: %w", s, err)
		}
		*a = Amount{Value: v, Fixed: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("impact amount: %w", err)
	}
	*a = Amount{Value: v}
	return nil
}
