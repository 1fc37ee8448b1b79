package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one leaf setting with its effective value and source.
type Entry struct {
	Path   string
	Value  string
	Source Source
}

// Explain returns the effective value at a dotted YAML path, such as
// "metrics.max_rate" or "desktop.terminal", and where it came from.
func Explain(res *LoadResult, path string) (string, Source, error) {
	if res == nil || res.Config == nil {
		return "", Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return "", Source{}, fmt.Errorf("path is empty")
	}

	root, err := configNode(res.Config)
	if err != nil {
		return "", Source{}, err
	}
	node := root
	for _, part := range strings.Split(path, ".") {
		node = mappingValue(node, part)
		if node == nil {
			return "", Source{}, fmt.Errorf("unknown path: %s", path)
		}
	}

	value, err := renderNode(node)
	if err != nil {
		return "", Source{}, err
	}
	return value, sourceFor(res, path), nil
}

// Entries lists every leaf setting in file order.
func Entries(res *LoadResult) ([]Entry, error) {
	if res == nil || res.Config == nil {
		return nil, fmt.Errorf("no config loaded")
	}
	root, err := configNode(res.Config)
	if err != nil {
		return nil, err
	}

	var out []Entry
	var walk func(node *yaml.Node, prefix string) error
	walk = func(node *yaml.Node, prefix string) error {
		if node.Kind == yaml.MappingNode {
			for i := 0; i+1 < len(node.Content); i += 2 {
				path := node.Content[i].Value
				if prefix != "" {
					path = prefix + "." + path
				}
				if err := walk(node.Content[i+1], path); err != nil {
					return err
				}
			}
			return nil
		}
		value, err := renderNode(node)
		if err != nil {
			return err
		}
		out = append(out, Entry{Path: prefix, Value: value, Source: sourceFor(res, prefix)})
		return nil
	}
	if err := walk(root, ""); err != nil {
		return nil, err
	}
	return out, nil
}

func sourceFor(res *LoadResult, path string) Source {
	if src, ok := res.Sources[path]; ok {
		return src
	}
	return Source{Kind: SourceDefault}
}

func configNode(cfg *Config) (*yaml.Node, error) {
	var doc yaml.Node
	if err := doc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return &doc, nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func renderNode(node *yaml.Node) (string, error) {
	if node.Kind == yaml.ScalarNode {
		return node.Value, nil
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		return "", fmt.Errorf("failed to render value: %w", err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}
