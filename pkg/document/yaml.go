package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrTooLarge is returned when YAML aliases expand into far more values
// than the input size accounts for.
var ErrTooLarge = errors.New("document expands beyond size limit")

// yamlNodeBudget bounds the values one YAML stream may expand into. Plain
// documents stay well below one value per input byte; only nested aliases
// grow past it.
func yamlNodeBudget(size int) int {
	return 10000 + 100*size
}

// yamlDecoder converts yaml.Node trees while counting every value it
// produces, so that expanded aliases stay within budget.
type yamlDecoder struct {
	nodes  int
	budget int
}

// ParseYAMLDocuments parses a YAML stream and flattens the documents with
// Flatten.
func ParseYAMLDocuments(data []byte) ([]*Object, error) {
	values, err := ParseYAMLValues(data)
	if err != nil {
		return nil, err
	}
	return Flatten(values), nil
}

// ParseYAMLValues parses every document of a YAML stream.
func ParseYAMLValues(data []byte) ([]Value, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	conv := &yamlDecoder{budget: yamlNodeBudget(len(data))}

	var values []Value
	for n := 1; ; n++ {
		var node yaml.Node
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid YAML at document %d: %w", n, err)
		}

		v, err := conv.convert(&node, 0)
		if err != nil {
			return nil, fmt.Errorf("invalid YAML at document %d: %w", n, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// ParseYAML parses a single YAML document into a Value.
func ParseYAML(data []byte) (Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return Null(), fmt.Errorf("invalid YAML: %w", err)
	}
	conv := &yamlDecoder{budget: yamlNodeBudget(len(data))}
	return conv.convert(&node, 0)
}

func (d *yamlDecoder) convert(node *yaml.Node, depth int) (Value, error) {
	if depth > maxParseDepth {
		return Null(), ErrTooDeep
	}
	if node.Kind != yaml.DocumentNode && node.Kind != yaml.AliasNode {
		d.nodes++
		if d.nodes > d.budget {
			return Null(), ErrTooLarge
		}
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return d.convert(node.Content[0], depth)

	case yaml.AliasNode:
		if node.Alias == nil {
			return Null(), nil
		}
		return d.convert(node.Alias, depth+1)

	case yaml.SequenceNode:
		elems := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			v, err := d.convert(child, depth+1)
			if err != nil {
				return Null(), err
			}
			elems = append(elems, v)
		}
		return Array(elems...), nil

	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			v, err := d.convert(node.Content[i+1], depth+1)
			if err != nil {
				return Null(), err
			}
			obj.Set(key, v)
		}
		return ObjectValue(obj), nil

	case yaml.ScalarNode:
		return fromYAMLScalar(node)

	default:
		return Null(), nil
	}
}

func fromYAMLScalar(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Null(), err
		}
		return Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return Null(), err
		}
		return Number(f), nil
	case "!!timestamp":
		var t time.Time
		if err := node.Decode(&t); err != nil {
			return String(node.Value), nil
		}
		return Date(t), nil
	default:
		return String(node.Value), nil
	}
}
