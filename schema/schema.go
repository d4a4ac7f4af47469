// Package schema describes the attributes a tree is trained and queried
// over — their names, types, and which one is the class attribute — and
// validates/coerces rows against that description.
package schema

import "sort"

// Type is the kind of value an attribute holds.
type Type int

const (
	// Nominal attributes take an opaque, equatable value (typically a
	// string) with no ordering.
	Nominal Type = iota
	// Discrete attributes take an integer value.
	Discrete
	// Continuous attributes take a real (float64) value.
	Continuous
)

func (t Type) String() string {
	switch t {
	case Nominal:
		return "nominal"
	case Discrete:
		return "discrete"
	case Continuous:
		return "continuous"
	default:
		return "unknown"
	}
}

// Attribute describes one column of a Schema.
type Attribute struct {
	Name  string
	Type  Type
	Class bool
}

// Schema is an ordered list of attribute descriptors, exactly one of which
// is marked as the class attribute.
type Schema struct {
	attrs     []Attribute
	byName    map[string]Attribute
	classAttr string
}

// New validates attrs and returns the Schema they describe. It requires
// exactly one attribute to be marked Class; it does not, by itself, reject
// non-class continuous attributes — that stricter rule belongs to the CSV
// schema-header compatibility path (documented, not implemented, per
// SPEC_FULL.md §6) and is enforced by ValidateForCSVCompatibility, not by
// New.
func New(attrs []Attribute) (*Schema, error) {
	byName := make(map[string]Attribute, len(attrs))
	classAttr := ""
	for _, a := range attrs {
		if _, dup := byName[a.Name]; dup {
			return nil, &SchemaError{Reason: "duplicate attribute name " + a.Name}
		}
		byName[a.Name] = a
		if a.Class {
			if classAttr != "" {
				return nil, &SchemaError{Reason: "multiple class attributes: " + classAttr + " and " + a.Name}
			}
			classAttr = a.Name
		}
	}
	if classAttr == "" {
		return nil, &SchemaError{Reason: "no class attribute specified"}
	}
	cp := make([]Attribute, len(attrs))
	copy(cp, attrs)
	return &Schema{attrs: cp, byName: byName, classAttr: classAttr}, nil
}

// ValidateForCSVCompatibility applies the stricter rule the CSV schema
// header format uses (documented in SPEC_FULL.md §6 for compatibility,
// though this module does not implement a CSV reader): non-class
// continuous attributes are rejected.
func (s *Schema) ValidateForCSVCompatibility() error {
	for _, a := range s.attrs {
		if a.Type == Continuous && !a.Class {
			return &SchemaError{Reason: "non-class continuous attribute " + a.Name + " is not supported"}
		}
	}
	return nil
}

// ClassAttribute returns the name of the schema's class attribute.
func (s *Schema) ClassAttribute() string {
	return s.classAttr
}

// IsContinuousClass reports whether the class attribute is continuous
// (regression) as opposed to discrete (classification).
func (s *Schema) IsContinuousClass() bool {
	return s.byName[s.classAttr].Type == Continuous
}

// Attributes returns the full ordered attribute list, including the class
// attribute.
func (s *Schema) Attributes() []Attribute {
	cp := make([]Attribute, len(s.attrs))
	copy(cp, s.attrs)
	return cp
}

// AttributeNames returns the non-class attribute names, sorted, so callers
// that need a deterministic scan order (e.g. Node.Update, Tree.Build) get
// one without having to sort themselves.
func (s *Schema) AttributeNames() []string {
	names := make([]string, 0, len(s.attrs))
	for _, a := range s.attrs {
		if !a.Class {
			names = append(names, a.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Lookup returns the attribute descriptor for name, or false if unknown.
func (s *Schema) Lookup(name string) (Attribute, bool) {
	a, ok := s.byName[name]
	return a, ok
}
