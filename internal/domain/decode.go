package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// UnmarshalJSON accepts an id written as a whole-valued float ("1.0") or a
// numeric string, as models sometimes emit.
func (q *Question) UnmarshalJSON(data []byte) error {
	type plain Question
	aux := struct {
		*plain
		ID json.RawMessage `json:"id"`
	}{plain: (*plain)(q)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := wholeNumber(aux.ID)
	if err != nil {
		return fmt.Errorf("question id: %w", err)
	}
	q.ID = id
	return nil
}

// UnmarshalJSON accepts word_count written as a whole-valued float or a numeric string.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	type plain Metadata
	aux := struct {
		*plain
		WordCount json.RawMessage `json:"word_count"`
	}{plain: (*plain)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	n, err := wholeNumber(aux.WordCount)
	if err != nil {
		return fmt.Errorf("word_count: %w", err)
	}
	m.WordCount = n
	return nil
}

// wholeNumber decodes a JSON number or numeric string with no fractional part.
// A missing or null value is zero.
func wholeNumber(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}

	var num json.Number
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		num = json.Number(strings.TrimSpace(s))
	} else if err := json.Unmarshal(raw, &num); err != nil {
		return 0, err
	}

	if i, err := num.Int64(); err == nil && i >= math.MinInt32 && i <= math.MaxInt32 {
		return int(i), nil
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("%q is not a whole number", string(raw))
	}
	return int(f), nil
}
