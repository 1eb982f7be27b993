package document

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrEmptyDocument is returned when the input contains no document content.
var ErrEmptyDocument = errors.New("empty document")

// Parse decodes YAML or JSON bytes into a Value tree. YAML is a superset of
// JSON, so both formats go through the same decoder. Mapping key order is
// preserved.
func Parse(data []byte) (*Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, ErrEmptyDocument
	}
	return fromNode(root.Content[0])
}

// LoadFile reads and parses a YAML or JSON document from disk.
func LoadFile(path string) (*Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	v, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func fromNode(n *yaml.Node) (*Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return fromNode(n.Alias)

	case yaml.ScalarNode:
		return fromScalar(n), nil

	case yaml.SequenceNode:
		seq := make([]*Value, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := fromNode(item)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return &Value{Kind: KindSequence, Seq: seq}, nil

	case yaml.MappingNode:
		entries := make([]Entry, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			val, err := fromNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			entries = append(entries, Entry{Key: key.Value, Value: val})
		}
		return &Value{Kind: KindMapping, Map: entries}, nil

	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, ErrEmptyDocument
		}
		return fromNode(n.Content[0])

	default:
		return nil, fmt.Errorf("unsupported node kind %d at line %d", n.Kind, n.Line)
	}
}

func fromScalar(n *yaml.Node) *Value {
	switch n.Tag {
	case "!!null":
		return Null()
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return NewString(n.Value)
		}
		return NewBool(b)
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return NewString(n.Value)
		}
		return NewInt(i)
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return NewString(n.Value)
		}
		return NewFloat(f)
	default:
		return NewString(n.Value)
	}
}
