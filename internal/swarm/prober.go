package swarm

import (
	"context"
	"fmt"

	"github.com/imamik/swarmup/internal/config"
)

const infoArgs = "info"

// Info holds the facts read from one `docker info` call.
type Info struct {
	Status Status
	// NodeID is empty when the node is not part of a swarm.
	NodeID string
}

// Prober reads swarm facts from `docker info`.
type Prober struct {
	runner Runner
}

// NewProber creates a Prober.
func NewProber(runner Runner) *Prober {
	return &Prober{runner: runner}
}

// Status returns the membership status of node.
func (p *Prober) Status(ctx context.Context, node config.Node) (Status, error) {
	out, err := p.info(ctx, node)
	if err != nil {
		return "", err
	}
	status, err := ParseStatus(out)
	if err != nil {
		return "", fmt.Errorf("failed to read swarm status of %s: %w", node.PublicIP, err)
	}
	return status, nil
}

// NodeID returns the swarm node ID of node.
func (p *Prober) NodeID(ctx context.Context, node config.Node) (string, error) {
	out, err := p.info(ctx, node)
	if err != nil {
		return "", err
	}
	id, err := ParseNodeID(out)
	if err != nil {
		return "", fmt.Errorf("failed to read node ID of %s: %w", node.PublicIP, err)
	}
	return id, nil
}

// Probe reads status and node ID with a single call. A missing node ID is
// not an error.
func (p *Prober) Probe(ctx context.Context, node config.Node) (Info, error) {
	out, err := p.info(ctx, node)
	if err != nil {
		return Info{}, err
	}
	status, err := ParseStatus(out)
	if err != nil {
		return Info{}, fmt.Errorf("failed to read swarm status of %s: %w", node.PublicIP, err)
	}
	id, _ := ParseNodeID(out)
	return Info{Status: status, NodeID: id}, nil
}

func (p *Prober) info(ctx context.Context, node config.Node) (string, error) {
	res, err := p.runner.Run(ctx, node, infoArgs)
	if err != nil {
		return "", fmt.Errorf("failed to query docker info on %s: %w", node.PublicIP, err)
	}
	return res.Stdout, nil
}
