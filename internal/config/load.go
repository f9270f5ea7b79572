package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// nodeList decodes either a plain sequence of nodes or the terraform output
// envelope {"value": [...], "type": ..., "sensitive": ...}.
type nodeList []Node

func (l *nodeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var nodes []Node
		if err := value.Decode(&nodes); err != nil {
			return err
		}
		*l = nodes
	case yaml.MappingNode:
		var envelope struct {
			Value []Node `yaml:"value"`
		}
		if err := value.Decode(&envelope); err != nil {
			return err
		}
		*l = envelope.Value
	default:
		return fmt.Errorf("line %d: nodes must be a list or a terraform output object", value.Line)
	}
	return nil
}

type clusterFile struct {
	Nodes nodeList `yaml:"nodes"`
}

// LoadFile reads, parses and validates a cluster file.
func LoadFile(path string) (*Cluster, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cluster file: %w", err)
	}

	cluster, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if err := cluster.Validate(); err != nil {
		return nil, fmt.Errorf("cluster file validation failed: %w", err)
	}

	return cluster, nil
}

// Parse decodes cluster file contents and applies defaults without validating.
func Parse(data []byte) (*Cluster, error) {
	var raw clusterFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse cluster file: %w", err)
	}

	cluster := &Cluster{Nodes: []Node(raw.Nodes)}
	cluster.applyDefaults()
	return cluster, nil
}

func (c *Cluster) applyDefaults() {
	for i := range c.Nodes {
		c.Nodes[i].Role = c.Nodes[i].Role.Canonical()
	}
}
