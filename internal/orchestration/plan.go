package orchestration

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/swarmup/internal/config"
	"github.com/imamik/swarmup/internal/swarm"
)

// PlannedNode is the probed state of one node and the action Run would take.
type PlannedNode struct {
	Node    config.Node
	Primary bool
	Info    swarm.Info
	// Action is empty when Problem is set.
	Action Action
	// Problem explains why no safe action exists for the node.
	Problem string
}

// Plan probes every node without changing anything. Nodes in an unsafe
// state are reported rather than failing the whole plan.
func (o *Orchestrator) Plan(ctx context.Context) ([]PlannedNode, error) {
	primary, err := o.cluster.Primary()
	if err != nil {
		return nil, err
	}

	plan := make([]PlannedNode, 0, len(o.cluster.Nodes))
	for _, node := range o.cluster.Nodes {
		if err := o.deps.Trust.EnsureTrusted(ctx, node.PublicIP); err != nil {
			return nil, fmt.Errorf("failed to trust node %s: %w", node.PublicIP, err)
		}

		info, err := o.deps.Prober.Probe(ctx, node)
		if err != nil {
			return nil, err
		}
		emit(o.deps.Observer, EventNodeProbed, node.PublicIP, "swarm status probed", map[string]string{
			"role":   string(node.Role),
			"status": string(info.Status),
		})

		isPrimary := node.PublicIP == primary.PublicIP
		entry := PlannedNode{Node: node, Primary: isPrimary, Info: info}

		action, err := decideFor(node, info.Status, isPrimary)
		var unsafe *UnsafeStateError
		switch {
		case errors.As(err, &unsafe):
			entry.Problem = unsafe.Error()
		case err != nil:
			return nil, err
		default:
			entry.Action = action
		}
		plan = append(plan, entry)
	}
	return plan, nil
}
