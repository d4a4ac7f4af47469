package schema

import "fmt"

// Row is an attribute-name-keyed record. An attribute with no entry (or an
// explicit nil entry) is treated as missing — the schema package never
// invents a value for it; resolving a missing value is the tree package's
// job (its missing-value policy).
type Row map[string]interface{}

// ValidateRow checks that every key in row names a known attribute and
// coerces each present value to that attribute's declared type. It returns
// a new Row; the input is not mutated.
func (s *Schema) ValidateRow(row Row) (Row, error) {
	out := make(Row, len(row))
	for name, v := range row {
		a, ok := s.byName[name]
		if !ok {
			return nil, &RowValidationError{Attribute: name, Reason: "not declared in schema"}
		}
		if v == nil {
			continue
		}
		cv, err := coerce(a, v)
		if err != nil {
			return nil, err
		}
		out[name] = cv
	}
	return out, nil
}

// ValidateOrderedRow zips values positionally against the schema's declared
// attribute order (as returned by Attributes) and coerces each one. It is
// the positional-row counterpart to ValidateRow, for callers (such as a CSV
// or SQL row source) that read records as ordered tuples rather than maps.
// A value of nil at a given position leaves that attribute missing.
func (s *Schema) ValidateOrderedRow(values []interface{}) (Row, error) {
	if len(values) != len(s.attrs) {
		return nil, &RowValidationError{Reason: fmt.Sprintf("expected %d values, got %d", len(s.attrs), len(values))}
	}
	out := make(Row, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		a := s.attrs[i]
		cv, err := coerce(a, v)
		if err != nil {
			return nil, err
		}
		out[a.Name] = cv
	}
	return out, nil
}

func coerce(a Attribute, v interface{}) (interface{}, error) {
	switch a.Type {
	case Discrete:
		return coerceInt(a.Name, v)
	case Continuous:
		return coerceFloat(a.Name, v)
	default:
		return v, nil
	}
}

func coerceInt(attr string, v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
		return 0, &RowValidationError{Attribute: attr, Reason: fmt.Sprintf("non-integral value %v for discrete attribute", n)}
	default:
		return 0, &RowValidationError{Attribute: attr, Reason: fmt.Sprintf("value %v (%T) is not discrete-compatible", v, v)}
	}
}

func coerceFloat(attr string, v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, &RowValidationError{Attribute: attr, Reason: fmt.Sprintf("value %v (%T) is not continuous-compatible", v, v)}
	}
}
