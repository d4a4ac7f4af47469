package yaml

import (
	"testing"

	"github.com/Sandy4321/dtree/tree"
)

func TestReadSchemaParsesContinuousAndNominalAndClass(t *testing.T) {
	doc := []byte(`
attributes:
  age:
    type: continuous
  color:
    - red
    - green
    - blue
  buys:
    type: nominal
    class: true
`)
	s, err := ReadSchema(doc)
	if err != nil {
		t.Fatal(err)
	}
	if s.ClassAttribute() != "buys" {
		t.Error("expected buys to be the class attribute, got", s.ClassAttribute())
	}
	a, ok := s.Lookup("age")
	if !ok {
		t.Fatal("expected age attribute to be present")
	}
	if a.Type.String() != "continuous" {
		t.Error("expected age to be continuous, got", a.Type)
	}
	c, ok := s.Lookup("color")
	if !ok || c.Type.String() != "nominal" {
		t.Error("expected color to be nominal, got", c.Type)
	}
}

func TestReadSchemaRequiresAttributesProperty(t *testing.T) {
	if _, err := ReadSchema([]byte(`foo: bar`)); err == nil {
		t.Error("expected error when attributes property is missing")
	}
}

func TestReadSchemaRequiresExactlyOneClassAttribute(t *testing.T) {
	doc := []byte(`
attributes:
  a:
    type: nominal
  b:
    type: nominal
`)
	if _, err := ReadSchema(doc); err == nil {
		t.Error("expected error: no class attribute declared")
	}
}

func TestDiscreteValuesAllInts(t *testing.T) {
	doc := []byte(`
attributes:
  count:
    - 1
    - 2
    - 3
  cls:
    type: nominal
    class: true
`)
	s, err := ReadSchema(doc)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := s.Lookup("count")
	if a.Type.String() != "discrete" {
		t.Error("expected count to be discrete, got", a.Type)
	}
}

func TestReadTreeConfigParsesAllKnobs(t *testing.T) {
	doc := []byte(`
metric: entropy2
splitting_n: 50
leaf_threshold: 0.9
auto_grow: true
missing_value_policy:
  age: use-nearest
`)
	cfg, err := ReadTreeConfig(doc)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Metric != "entropy2" {
		t.Errorf("expected metric entropy2, got %q", cfg.Metric)
	}
	if cfg.SplittingN != 50 {
		t.Errorf("expected splitting_n 50, got %d", cfg.SplittingN)
	}
	if cfg.LeafThreshold == nil || *cfg.LeafThreshold != 0.9 {
		t.Errorf("expected leaf_threshold 0.9, got %v", cfg.LeafThreshold)
	}
	if !cfg.AutoGrow {
		t.Error("expected auto_grow true")
	}
	policy, ok := cfg.MissingValuePolicy["age"]
	if !ok || policy != tree.UseNearest {
		t.Errorf("expected age policy use-nearest, got %v (present=%v)", policy, ok)
	}
}

func TestReadTreeConfigEmptyDocumentYieldsZeroValue(t *testing.T) {
	cfg, err := ReadTreeConfig([]byte(``))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Metric != "" || cfg.SplittingN != 0 || cfg.LeafThreshold != nil || cfg.AutoGrow || cfg.MissingValuePolicy != nil {
		t.Errorf("expected a zero-value Config for an empty document, got %+v", cfg)
	}
}
