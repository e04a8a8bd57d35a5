package records

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLSource reads a stream of YAML documents. A mapping document is one
// record; a sequence document yields one record per mapping element.
//
//	Name: Ada
//	Destination: out/ada
//	---
//	- Name: Lin
//	- Name: Grace
type YAMLSource struct {
	name    string
	decoder *yaml.Decoder
	pending []*yaml.Node
	done    bool
}

// NewYAMLSource returns a source over r.
func NewYAMLSource(r io.Reader, name string) *YAMLSource {
	return &YAMLSource{name: name, decoder: yaml.NewDecoder(r)}
}

func (s *YAMLSource) Name() string { return s.name }

func (s *YAMLSource) Close() error { return nil }

func (s *YAMLSource) Next() (Record, error) {
	for {
		if len(s.pending) > 0 {
			node := s.pending[0]
			s.pending = s.pending[1:]
			return s.recordFrom(node)
		}
		if s.done {
			return Record{}, io.EOF
		}

		var doc yaml.Node
		if err := s.decoder.Decode(&doc); err != nil {
			s.done = true
			if err == io.EOF {
				return Record{}, io.EOF
			}
			// The decoder cannot resynchronise after a syntax error.
			return Record{}, parseError(s.name, doc.Line, "%v", err)
		}
		if len(doc.Content) == 0 {
			continue
		}

		root := doc.Content[0]
		switch root.Kind {
		case yaml.MappingNode:
			s.pending = append(s.pending, root)
		case yaml.SequenceNode:
			s.pending = append(s.pending, root.Content...)
		case yaml.ScalarNode:
			if root.Tag == "!!null" {
				continue
			}
			return Record{}, parseError(s.name, root.Line, "document is a scalar, expected a mapping or a list of mappings")
		default:
			return Record{}, parseError(s.name, root.Line, "unsupported document kind")
		}
	}
}

func (s *YAMLSource) recordFrom(node *yaml.Node) (Record, error) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return Record{}, parseError(s.name, node.Line, "record must be a mapping")
	}

	values := make(map[string]string, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind == yaml.AliasNode && val.Alias != nil {
			val = val.Alias
		}
		if val.Kind != yaml.ScalarNode {
			return Record{}, parseError(s.name, val.Line, "value of %q must be a scalar", key.Value)
		}
		if val.Tag == "!!null" {
			values[key.Value] = ""
			continue
		}
		values[key.Value] = val.Value
	}
	return Record{Values: values, Source: s.name, Line: node.Line}, nil
}
