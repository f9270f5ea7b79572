package orchestration

import (
	"context"

	"github.com/imamik/swarmup/internal/config"
	"github.com/imamik/swarmup/internal/swarm"
)

// StatusProber reads swarm facts from a node.
// Implemented by swarm.Prober.
type StatusProber interface {
	Status(ctx context.Context, node config.Node) (swarm.Status, error)
	NodeID(ctx context.Context, node config.Node) (string, error)
	Probe(ctx context.Context, node config.Node) (swarm.Info, error)
}

// TokenIssuer reads join credentials from the primary.
// Implemented by swarm.TokenIssuer.
type TokenIssuer interface {
	Issue(ctx context.Context, primary config.Node) (swarm.JoinCredentials, error)
}

// MembershipManager changes swarm membership.
// Implemented by swarm.Membership.
type MembershipManager interface {
	Init(ctx context.Context, node config.Node) error
	Join(ctx context.Context, node config.Node, joinArgs string) error
}

// LabelApplier applies node labels through the primary.
// Implemented by swarm.LabelApplier.
type LabelApplier interface {
	Apply(ctx context.Context, primary, target config.Node, nodeID string) error
}

// TrustBootstrapper makes sure a host key is trusted before first contact.
// Implemented by trust.Keyscan and trust.KnownHosts.
type TrustBootstrapper interface {
	EnsureTrusted(ctx context.Context, address string) error
}
