package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedEntities is returned when the filter payload is not a JSON array of entities
var ErrMalformedEntities = errors.New("malformed filter entities")

// Identifier is an opaque id coerced to its string form.
// The backend may serialize ids as numbers or strings; 10, 10.0 and "10" decode to the same value.
type Identifier string

// UnmarshalJSON accepts a JSON string, number or null
func (id *Identifier) UnmarshalJSON(data []byte) error {
	s, err := scalarString(data)
	if err == nil && (s == "true" || s == "false") && !bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		err = fmt.Errorf("unexpected boolean %s", s)
	}
	if err != nil {
		return fmt.Errorf("identifier must be a string or number: %w", err)
	}
	*id = Identifier(s)
	return nil
}

// String returns the identifier as used for option values and comparisons
func (id Identifier) String() string {
	return string(id)
}

// Text is display text that tolerates a backend sending numbers or booleans in its place
type Text string

// UnmarshalJSON accepts a JSON string, number, boolean or null
func (t *Text) UnmarshalJSON(data []byte) error {
	s, err := scalarString(data)
	if err != nil {
		return fmt.Errorf("text must be a scalar: %w", err)
	}
	*t = Text(s)
	return nil
}

// String returns the text
func (t Text) String() string {
	return string(t)
}

// scalarString renders a JSON scalar the way the browser's String() would: null is empty,
// and numbers lose trailing zeros and exponents, so 10.0 and 1e1 both become "10"
func scalarString(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		return "", nil
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		return string(data), nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", err
	}
	literal := n.String()
	if !strings.ContainsAny(literal, ".eE") {
		return literal, nil
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return literal, nil
	}
	if abs := math.Abs(f); f == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	return literal, nil
}

// FilterableEntity is one selectable item of the dependent control, e.g. an animal in a batch
type FilterableEntity struct {
	ID       Identifier `json:"id"`
	GroupKey Identifier `json:"batch"`
	Label    Text       `json:"label"`
}

// ParseEntities decodes the filter payload, a JSON array of entities
func ParseEntities(raw []byte) ([]FilterableEntity, error) {
	var entities []FilterableEntity
	if err := json.Unmarshal(raw, &entities); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEntities, err)
	}
	return entities, nil
}
