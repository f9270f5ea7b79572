package swarm

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/swarmup/internal/config"
	"github.com/imamik/swarmup/internal/platform/shell"
)

// Membership changes the swarm membership of nodes.
type Membership struct {
	runner Runner
}

// NewMembership creates a Membership.
func NewMembership(runner Runner) *Membership {
	return &Membership{runner: runner}
}

// Init creates a new swarm with node as its first manager.
func (m *Membership) Init(ctx context.Context, node config.Node) error {
	if _, err := m.runner.Run(ctx, node, InitArgs(node)); err != nil {
		return fmt.Errorf("failed to initialize swarm on %s: %w", node.PublicIP, err)
	}
	return nil
}

// Join adds node to the swarm using joinArgs as returned by TokenIssuer.
func (m *Membership) Join(ctx context.Context, node config.Node, joinArgs string) error {
	if joinArgs == "" {
		return fmt.Errorf("no %s join credentials for %s", node.Role, node.PublicIP)
	}
	if _, err := m.runner.Run(ctx, node, JoinArgs(node, joinArgs)); err != nil {
		return fmt.Errorf("failed to join %s to swarm as %s: %w", node.PublicIP, node.Role, err)
	}
	return nil
}

// InitArgs returns the docker arguments that initialize a swarm on node.
func InitArgs(node config.Node) string {
	parts := []string{"swarm", "init"}
	if node.AdvertiseAddr != "" {
		parts = append(parts, "--advertise-addr", shell.Quote(node.AdvertiseAddr))
	}
	return strings.Join(parts, " ")
}

// JoinArgs returns the docker arguments that join node to a swarm.
func JoinArgs(node config.Node, joinArgs string) string {
	parts := []string{"swarm", "join"}
	if node.AdvertiseAddr != "" {
		parts = append(parts, "--advertise-addr", shell.Quote(node.AdvertiseAddr))
	}
	parts = append(parts, joinArgs)
	return strings.Join(parts, " ")
}
