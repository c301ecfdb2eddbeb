// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Round rounds x to the given number of decimal places. The exact binary
// value is rounded, so 0.15 (stored as 0.1499...) becomes 0.1 and exact
// halves go to the even digit.
func Round(x float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return r
}

// fixed renders v with exactly places decimals (4 -> "4.0" for one place).
func fixed(v float64, places int) json.Number {
	return json.Number(strconv.FormatFloat(v, 'f', places, 64))
}

// pointed renders v in shortest form but keeps a decimal point on whole
// numbers (2 -> "2.0", 2.46 -> "2.46").
func pointed(v float64) json.Number {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return json.Number(s)
}

// marshalUnescaped encodes v without HTML escaping so output written by an
// encoder with SetEscapeHTML(false) keeps "<", ">" and "&" literal.
func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
