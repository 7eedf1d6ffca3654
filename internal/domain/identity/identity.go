// Package identity turns caller-supplied user tokens into the one canonical string form
// used everywhere behind the transport boundary.
package identity

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var (
	ErrEmpty   = errors.New("identity is empty")
	ErrInvalid = errors.New("identity is invalid")
)

const maxLength = 128

// Normalize trims the token and canonicalizes integer forms, so "123", " 0123 " and "+123"
// all become "123". Any other non-empty token is kept as is.
func Normalize(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", ErrEmpty
	}
	if len(value) > maxLength {
		return "", ErrInvalid
	}
	if canonical, ok := canonicalInteger(value); ok {
		return canonical, nil
	}
	if strings.ContainsAny(value, "/|\x00") {
		return "", ErrInvalid
	}
	return value, nil
}

// FromJSON accepts a JSON number or JSON string.
func FromJSON(data []byte) (string, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return "", ErrEmpty
	}

	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal([]byte(trimmed), &s); err != nil {
			return "", ErrInvalid
		}
		return Normalize(s)
	}

	var n json.Number
	if err := json.Unmarshal([]byte(trimmed), &n); err != nil {
		return "", ErrInvalid
	}
	return canonicalNumber(n.String())
}

// ID is a JSON field that decodes from either a number or a string.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	value, err := FromJSON(data)
	if err != nil {
		return err
	}
	*id = ID(value)
	return nil
}

func (id ID) String() string {
	return string(id)
}

func canonicalInteger(value string) (string, bool) {
	sign := ""
	digits := value
	switch value[0] {
	case '+':
		digits = value[1:]
	case '-':
		sign = "-"
		digits = value[1:]
	}
	if digits == "" {
		return "", false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return "0", true
	}
	return sign + digits, true
}

// canonicalNumber rewrites a JSON number literal as a plain integer without going through
// float64, so 7.77e2 and "777" agree and large ids keep every digit. Fractions are rejected.
func canonicalNumber(literal string) (string, error) {
	mantissa, exponent := literal, 0
	if i := strings.IndexAny(literal, "eE"); i >= 0 {
		exp, err := strconv.Atoi(literal[i+1:])
		if err != nil {
			return "", ErrInvalid
		}
		mantissa, exponent = literal[:i], exp
	}

	sign := ""
	if strings.HasPrefix(mantissa, "-") {
		sign, mantissa = "-", mantissa[1:]
	}

	digits := mantissa
	if i := strings.IndexByte(mantissa, '.'); i >= 0 {
		frac := mantissa[i+1:]
		digits = mantissa[:i] + frac
		exponent -= len(frac)
	}
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return "0", nil
	}

	switch {
	case exponent > 0:
		if len(digits)+exponent > maxLength {
			return "", ErrInvalid
		}
		digits += strings.Repeat("0", exponent)
	case exponent < 0:
		if -exponent >= len(digits) {
			return "", ErrInvalid
		}
		cut := len(digits) + exponent
		if strings.Trim(digits[cut:], "0") != "" {
			return "", ErrInvalid
		}
		digits = digits[:cut]
	}

	if len(digits) > maxLength {
		return "", ErrInvalid
	}
	canonical, ok := canonicalInteger(sign + digits)
	if !ok {
		return "", ErrInvalid
	}
	return canonical, nil
}
