package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NumericText accepts a JSON number or string and keeps the raw text so the
// caller can report a field-specific parse error.
type NumericText struct {
	Raw   string
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NumericText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = NumericText{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericText{Raw: strings.TrimSpace(s), Valid: true}
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("numeric field must be a number or string: %w", err)
	}
	*n = NumericText{Raw: num.String(), Valid: true}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n NumericText) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Raw)
}

// Decimal parses the text. An absent or blank value yields fallback.
func (n NumericText) Decimal(fallback decimal.Decimal) (decimal.Decimal, error) {
	if !n.Valid || n.Raw == "" {
		return fallback, nil
	}
	return decimal.NewFromString(n.Raw)
}

// Text builds a NumericText from a literal.
func Text(raw string) NumericText {
	return NumericText{Raw: raw, Valid: true}
}
