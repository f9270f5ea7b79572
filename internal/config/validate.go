package config

import (
	"fmt"
)

// Validate checks the cluster for errors that would stop a bootstrap run.
// Label syntax is left to the Docker daemon.
func (c *Cluster) Validate() error {
	if len(c.Nodes) == 0 {
		return fmt.Errorf("at least one node is required")
	}

	seen := make(map[string]int, len(c.Nodes))
	for i, n := range c.Nodes {
		if err := n.validate(); err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
		if prev, ok := seen[n.PublicIP]; ok {
			return fmt.Errorf("node %d: public_ip %q already used by node %d", i, n.PublicIP, prev)
		}
		seen[n.PublicIP] = i
	}

	if _, err := c.Primary(); err != nil {
		return err
	}

	return nil
}

func (n Node) validate() error {
	if n.PublicIP == "" {
		return fmt.Errorf("public_ip is required")
	}
	if n.Username == "" {
		return fmt.Errorf("%s: username is required", n.PublicIP)
	}
	switch n.Role.Canonical() {
	case RoleManager, RoleWorker:
	case "":
		return fmt.Errorf("%s: swarm_node_type is required", n.PublicIP)
	default:
		return fmt.Errorf("%s: invalid swarm_node_type %q: must be %q or %q", n.PublicIP, n.Role, RoleManager, RoleWorker)
	}
	return nil
}
