/*
Package yaml provides methods to parse schema.Schema definitions and
tree.Config tree configuration from YAML documents, adapted from the
original feature/yaml metadata loader to the nominal/discrete/continuous
attribute model.
*/
package yaml

import (
	"fmt"
	"io/ioutil"

	"github.com/Sandy4321/dtree/schema"
	"github.com/Sandy4321/dtree/tree"
	yaml "gopkg.in/yaml.v2"
)

/*
ReadSchema takes a slice of bytes with a schema specification in YAML and
returns the schema.Schema parsed from it or an error.

The YAML is expected to be an object with an "attributes" property, itself
an object mapping each attribute's name to its declaration. A declaration is
either:

  - the string "continuous", for a continuous attribute
  - a list of values, for a discrete attribute given as integers or a
    nominal attribute given as anything else
  - an object {type: ..., class: true} for explicit control, required to
    mark the class attribute

Exactly one attribute must be marked as the class attribute via
"class: true" in its declaration.
*/
func ReadSchema(doc []byte) (*schema.Schema, error) {
	var spec struct {
		Attributes map[string]interface{} `yaml:"attributes"`
	}
	if err := yaml.Unmarshal(doc, &spec); err != nil {
		return nil, fmt.Errorf("parsing yaml schema: %v", err)
	}
	if spec.Attributes == nil {
		return nil, fmt.Errorf("schema yaml has no attributes property")
	}
	attrs := make([]schema.Attribute, 0, len(spec.Attributes))
	for name, decl := range spec.Attributes {
		a, err := parseAttribute(name, decl)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}
	s, err := schema.New(attrs)
	if err != nil {
		return nil, fmt.Errorf("building schema from yaml: %v", err)
	}
	return s, nil
}

func parseAttribute(name string, decl interface{}) (schema.Attribute, error) {
	switch v := decl.(type) {
	case string:
		if v == "continuous" {
			return schema.Attribute{Name: name, Type: schema.Continuous}, nil
		}
		return schema.Attribute{}, fmt.Errorf("attribute %s: unrecognized string declaration %q", name, v)
	case []interface{}:
		return schema.Attribute{Name: name, Type: discreteOrNominal(v)}, nil
	case map[interface{}]interface{}:
		return parseExplicitAttribute(name, v)
	default:
		return schema.Attribute{}, fmt.Errorf("attribute %s: invalid declaration of type %T", name, decl)
	}
}

func parseExplicitAttribute(name string, decl map[interface{}]interface{}) (schema.Attribute, error) {
	a := schema.Attribute{Name: name}
	typ, _ := decl["type"].(string)
	switch typ {
	case "continuous":
		a.Type = schema.Continuous
	case "discrete":
		a.Type = schema.Discrete
	case "nominal", "":
		a.Type = schema.Nominal
	default:
		return schema.Attribute{}, fmt.Errorf("attribute %s: unrecognized type %q", name, typ)
	}
	if class, _ := decl["class"].(bool); class {
		a.Class = true
	}
	return a, nil
}

// discreteOrNominal inspects a list of declared values and classifies the
// attribute as Discrete when every value parses as an integer, Nominal
// otherwise.
func discreteOrNominal(values []interface{}) schema.Type {
	for _, v := range values {
		switch v.(type) {
		case int:
		default:
			return schema.Nominal
		}
	}
	return schema.Discrete
}

/*
ReadSchemaFromFile reads a file at filepath and parses its contents with
ReadSchema.
*/
func ReadSchemaFromFile(filepath string) (*schema.Schema, error) {
	doc, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading schema yaml file %s: %v", filepath, err)
	}
	s, err := ReadSchema(doc)
	if err != nil {
		return nil, fmt.Errorf("parsing schema yaml file %s: %v", filepath, err)
	}
	return s, nil
}

/*
ReadTreeConfig takes a slice of bytes with a tree configuration in YAML and
returns the tree.Config parsed from it or an error.

The YAML is expected to be an object with the same knobs tree.Config
recognizes, snake-cased:

  - metric: a string, e.g. "entropy2" or "variance1"
  - splitting_n: an integer
  - leaf_threshold: a float; if absent, tree.Config's own zero-value
    default applies
  - auto_grow: a boolean
  - missing_value_policy: an object mapping attribute name to policy name,
    e.g. {age: use-nearest}

Every key is optional; an empty document yields a zero tree.Config.
*/
func ReadTreeConfig(doc []byte) (tree.Config, error) {
	var spec struct {
		Metric             string            `yaml:"metric"`
		SplittingN         int               `yaml:"splitting_n"`
		LeafThreshold      *float64          `yaml:"leaf_threshold"`
		AutoGrow           bool              `yaml:"auto_grow"`
		MissingValuePolicy map[string]string `yaml:"missing_value_policy"`
	}
	if err := yaml.Unmarshal(doc, &spec); err != nil {
		return tree.Config{}, fmt.Errorf("parsing yaml tree config: %v", err)
	}
	cfg := tree.Config{
		Metric:        spec.Metric,
		SplittingN:    spec.SplittingN,
		LeafThreshold: spec.LeafThreshold,
		AutoGrow:      spec.AutoGrow,
	}
	if spec.MissingValuePolicy != nil {
		cfg.MissingValuePolicy = make(map[string]tree.MissingValuePolicy, len(spec.MissingValuePolicy))
		for attr, policy := range spec.MissingValuePolicy {
			cfg.MissingValuePolicy[attr] = tree.MissingValuePolicy(policy)
		}
	}
	return cfg, nil
}

/*
ReadTreeConfigFromFile reads a file at filepath and parses its contents with
ReadTreeConfig.
*/
func ReadTreeConfigFromFile(filepath string) (tree.Config, error) {
	doc, err := ioutil.ReadFile(filepath)
	if err != nil {
		return tree.Config{}, fmt.Errorf("reading tree config yaml file %s: %v", filepath, err)
	}
	cfg, err := ReadTreeConfig(doc)
	if err != nil {
		return tree.Config{}, fmt.Errorf("parsing tree config yaml file %s: %v", filepath, err)
	}
	return cfg, nil
}
