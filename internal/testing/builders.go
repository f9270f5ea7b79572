package testing

import (
	"github.com/imamik/swarmup/internal/config"
)

// ClusterBuilder provides a fluent API for building cluster definitions.
type ClusterBuilder struct {
	user  string
	nodes []config.Node
}

// NewClusterBuilder creates a builder whose nodes log in as root.
func NewClusterBuilder() *ClusterBuilder {
	return &ClusterBuilder{user: "root"}
}

// WithUser sets the login of nodes added afterwards.
func (b *ClusterBuilder) WithUser(user string) *ClusterBuilder {
	b.user = user
	return b
}

// WithPrimary adds a manager labelled manager.main=true followed by labels.
func (b *ClusterBuilder) WithPrimary(ip string, labels ...string) *ClusterBuilder {
	return b.add(ip, config.RoleManager, append([]string{config.PrimaryLabel}, labels...))
}

// WithManager adds a manager node.
func (b *ClusterBuilder) WithManager(ip string, labels ...string) *ClusterBuilder {
	return b.add(ip, config.RoleManager, labels)
}

// WithWorker adds a worker node.
func (b *ClusterBuilder) WithWorker(ip string, labels ...string) *ClusterBuilder {
	return b.add(ip, config.RoleWorker, labels)
}

// WithNode adds node as-is.
func (b *ClusterBuilder) WithNode(node config.Node) *ClusterBuilder {
	b.nodes = append(b.nodes, node)
	return b
}

// Build returns the cluster.
func (b *ClusterBuilder) Build() *config.Cluster {
	return &config.Cluster{Nodes: append([]config.Node(nil), b.nodes...)}
}

func (b *ClusterBuilder) add(ip string, role config.Role, labels []string) *ClusterBuilder {
	if labels == nil {
		labels = []string{}
	}
	b.nodes = append(b.nodes, config.Node{
		Username: b.user,
		PublicIP: ip,
		Role:     role,
		Labels:   labels,
	})
	return b
}
