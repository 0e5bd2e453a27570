package decoder

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// thousandsGroups matches integers grouped with commas, e.g. "1,299" or "12,345,678".
var thousandsGroups = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+$`)

// ParseOptionalNumber parses price-like string into decimal.
// Leading currency symbols, thousands separators and trailing currency codes ("12.99 USD") are ignored.
// A lone comma is a thousands separator only when followed by groups of exactly three digits
// ("1,299"), otherwise it is a decimal comma ("3,49").
// Empty and non-numeric input returns invalid (null) decimal.
func ParseOptionalNumber(value string) decimal.NullDecimal {
	value = strings.TrimSpace(value)
	value = strings.TrimLeft(value, "$€£¥ ")
	if fields := strings.Fields(value); len(fields) > 0 {
		value = fields[0]
	}

	value = normalizeSeparators(value)
	if value == "" {
		return decimal.NullDecimal{}
	}

	number, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}
	}

	return decimal.NewNullDecimal(number)
}

// normalizeSeparators rewrites value to use dot as the only decimal separator.
func normalizeSeparators(value string) string {
	comma := strings.LastIndex(value, ",")
	dot := strings.LastIndex(value, ".")

	switch {
	case comma < 0:
		return value
	case dot > comma: // 1,299.99
		return strings.ReplaceAll(value, ",", "")
	case dot >= 0: // 1.299,99
		return strings.Replace(strings.ReplaceAll(value, ".", ""), ",", ".", 1)
	case thousandsGroups.MatchString(value):
		return strings.ReplaceAll(value, ",", "")
	default:
		return strings.Replace(value, ",", ".", 1)
	}
}

// flexString is JSON value which may be encoded as string, number or boolean.
type flexString string

// UnmarshalJSON decodes strings as is, and numbers, booleans as their literal text. Null is decoded as empty string.
func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = flexString(str)
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch raw.(type) {
	case float64, bool:
		*s = flexString(data)
	default:
		*s = ""
	}

	return nil
}

func (s flexString) String() string {
	return strings.TrimSpace(string(s))
}
