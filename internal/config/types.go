package config

import (
	"slices"
	"strings"
)

// PrimaryLabel marks the manager that initializes the swarm.
const PrimaryLabel = "manager.main=true"

// DefaultClusterFile is the cluster file looked up when no path is given.
const DefaultClusterFile = "swarm-config.json"

// Role is the swarm role a node is meant to have.
type Role string

const (
	// RoleManager nodes can administer the swarm.
	RoleManager Role = "manager"
	// RoleWorker nodes only run tasks.
	RoleWorker Role = "worker"

	// RoleCoordinator is an alias of RoleManager.
	RoleCoordinator Role = "coordinator"
)

// Canonical returns the role with aliases resolved.
func (r Role) Canonical() Role {
	if r == RoleCoordinator {
		return RoleManager
	}
	return r
}

// Node describes one machine to bring into the swarm.
type Node struct {
	// Username is the SSH login used to reach the node.
	Username string `yaml:"username"`
	// PublicIP is the address used for SSH and for trust bootstrap.
	PublicIP string `yaml:"public_ip"`
	Role     Role   `yaml:"swarm_node_type"`
	// Labels are key=value node labels. Order only matters for display.
	Labels []string `yaml:"swarm_labels"`
	// AdvertiseAddr is passed as --advertise-addr on init and join when set.
	AdvertiseAddr string `yaml:"advertise_addr,omitempty"`
}

// SSHHost returns user@address.
func (n Node) SSHHost() string {
	return n.Username + "@" + n.PublicIP
}

// IsPrimary reports whether the node carries PrimaryLabel.
func (n Node) IsPrimary() bool {
	return slices.Contains(n.Labels, PrimaryLabel)
}

// IsManager reports whether the node should be a swarm manager.
func (n Node) IsManager() bool {
	return n.Role.Canonical() == RoleManager
}

// Cluster is the ordered list of nodes from the cluster file.
type Cluster struct {
	Nodes []Node
}

// Primary returns the single node labelled PrimaryLabel.
func (c *Cluster) Primary() (Node, error) {
	var matches []Node
	for _, n := range c.Nodes {
		if n.IsPrimary() {
			matches = append(matches, n)
		}
	}

	switch len(matches) {
	case 0:
		return Node{}, &PreconditionError{Reason: "no node is labelled " + PrimaryLabel}
	case 1:
	default:
		addrs := make([]string, 0, len(matches))
		for _, n := range matches {
			addrs = append(addrs, n.PublicIP)
		}
		return Node{}, &PreconditionError{
			Reason: "multiple nodes are labelled " + PrimaryLabel + ": " + strings.Join(addrs, ", "),
		}
	}

	primary := matches[0]
	if !primary.IsManager() {
		return Node{}, &PreconditionError{
			Reason: "primary node " + primary.PublicIP + " must have role " + string(RoleManager),
		}
	}
	return primary, nil
}

// Others returns every node except the primary, in file order.
func (c *Cluster) Others(primary Node) []Node {
	out := make([]Node, 0, len(c.Nodes))
	for _, n := range c.Nodes {
		if n.PublicIP == primary.PublicIP {
			continue
		}
		out = append(out, n)
	}
	return out
}
