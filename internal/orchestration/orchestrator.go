package orchestration

import (
	"context"
	"fmt"

	"github.com/imamik/swarmup/internal/config"
	"github.com/imamik/swarmup/internal/swarm"
)

// Dependencies are the collaborators an Orchestrator drives.
type Dependencies struct {
	Trust      TrustBootstrapper
	Prober     StatusProber
	Issuer     TokenIssuer
	Membership MembershipManager
	Labels     LabelApplier
	// Observer is optional.
	Observer Observer
}

// Orchestrator forms a swarm from a cluster definition.
type Orchestrator struct {
	cluster *config.Cluster
	deps    Dependencies
}

// New creates an Orchestrator.
func New(cluster *config.Cluster, deps Dependencies) *Orchestrator {
	if deps.Observer == nil {
		deps.Observer = nopObserver{}
	}
	return &Orchestrator{cluster: cluster, deps: deps}
}

// NewForRunner creates an Orchestrator whose swarm operations all go through
// runner.
func NewForRunner(cluster *config.Cluster, runner swarm.Runner, trust TrustBootstrapper, observer Observer) *Orchestrator {
	return New(cluster, Dependencies{
		Trust:      trust,
		Prober:     swarm.NewProber(runner),
		Issuer:     swarm.NewTokenIssuer(runner),
		Membership: swarm.NewMembership(runner),
		Labels:     swarm.NewLabelApplier(runner),
		Observer:   observer,
	})
}

// NodeOutcome is what happened to one node during a run.
type NodeOutcome struct {
	Node    config.Node
	Primary bool
	// StatusBefore is the swarm status probed before acting.
	StatusBefore swarm.Status
	Action       Action
	NodeID       string
}

// Result summarizes a successful run.
type Result struct {
	// Nodes holds one outcome per node in cluster file order.
	Nodes []NodeOutcome
	// NodeIDs maps node address to swarm node ID.
	NodeIDs map[string]string
}

// Changed reports whether any node's membership was changed.
func (r *Result) Changed() bool {
	for _, n := range r.Nodes {
		if n.Action.Mutating() {
			return true
		}
	}
	return false
}

// Run brings every node into the swarm and applies labels. Any failure
// aborts the run; running again after fixing the cause is safe.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	primary, err := o.cluster.Primary()
	if err != nil {
		return nil, err
	}

	outcomes := make(map[string]NodeOutcome, len(o.cluster.Nodes))
	nodeIDs := make(map[string]string, len(o.cluster.Nodes))

	// 1. Primary
	outcome, err := o.prepare(ctx, primary, true, swarm.JoinCredentials{})
	if err != nil {
		return nil, fmt.Errorf("failed to prepare primary node %s: %w", primary.PublicIP, err)
	}
	outcomes[primary.PublicIP] = outcome
	nodeIDs[primary.PublicIP] = outcome.NodeID

	// 2. Credentials
	creds, err := o.issueCredentials(ctx, primary)
	if err != nil {
		return nil, err
	}

	// 3. Remaining nodes
	for _, node := range o.cluster.Others(primary) {
		outcome, err := o.prepare(ctx, node, false, creds)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare node %s: %w", node.PublicIP, err)
		}
		outcomes[node.PublicIP] = outcome
		nodeIDs[node.PublicIP] = outcome.NodeID
	}

	// 4. Labels
	for _, node := range o.cluster.Nodes {
		id := nodeIDs[node.PublicIP]
		if err := o.deps.Labels.Apply(ctx, primary, node, id); err != nil {
			return nil, err
		}
		emit(o.deps.Observer, EventLabelsApplied, node.PublicIP, "labels applied", map[string]string{
			"node_id": id,
			"labels":  fmt.Sprint(len(node.Labels)),
		})
	}

	result := &Result{NodeIDs: nodeIDs}
	for _, node := range o.cluster.Nodes {
		result.Nodes = append(result.Nodes, outcomes[node.PublicIP])
	}
	return result, nil
}

// prepare trusts, probes and acts on one node, then reads its node ID.
func (o *Orchestrator) prepare(ctx context.Context, node config.Node, isPrimary bool, creds swarm.JoinCredentials) (NodeOutcome, error) {
	if err := o.deps.Trust.EnsureTrusted(ctx, node.PublicIP); err != nil {
		return NodeOutcome{}, err
	}

	status, err := o.deps.Prober.Status(ctx, node)
	if err != nil {
		return NodeOutcome{}, err
	}
	emit(o.deps.Observer, EventNodeProbed, node.PublicIP, "swarm status probed", map[string]string{
		"role":   string(node.Role),
		"status": string(status),
	})

	action, err := decideFor(node, status, isPrimary)
	if err != nil {
		return NodeOutcome{}, err
	}

	switch action {
	case ActionInit:
		if err := o.deps.Membership.Init(ctx, node); err != nil {
			return NodeOutcome{}, err
		}
		emit(o.deps.Observer, EventNodeInitialized, node.PublicIP, "swarm initialized", nil)
	case ActionJoinManager, ActionJoinWorker:
		if err := o.deps.Membership.Join(ctx, node, creds.For(node.Role)); err != nil {
			return NodeOutcome{}, err
		}
		emit(o.deps.Observer, EventNodeJoined, node.PublicIP, "node joined swarm", map[string]string{
			"role": string(node.Role),
		})
	default:
		emit(o.deps.Observer, EventNodeUnchanged, node.PublicIP, "node already in swarm", map[string]string{
			"status": string(status),
		})
	}

	id, err := o.deps.Prober.NodeID(ctx, node)
	if err != nil {
		return NodeOutcome{}, err
	}

	return NodeOutcome{
		Node:         node,
		Primary:      isPrimary,
		StatusBefore: status,
		Action:       action,
		NodeID:       id,
	}, nil
}

// issueCredentials confirms the primary is a swarm member before asking it
// for join tokens.
func (o *Orchestrator) issueCredentials(ctx context.Context, primary config.Node) (swarm.JoinCredentials, error) {
	status, err := o.deps.Prober.Status(ctx, primary)
	if err != nil {
		return swarm.JoinCredentials{}, fmt.Errorf("failed to confirm primary node %s: %w", primary.PublicIP, err)
	}
	if !status.Member() {
		return swarm.JoinCredentials{}, &config.PreconditionError{
			Reason: fmt.Sprintf("primary node %s reports swarm status %q, join credentials need an initialized swarm",
				primary.PublicIP, status),
		}
	}

	creds, err := o.deps.Issuer.Issue(ctx, primary)
	if err != nil {
		return swarm.JoinCredentials{}, err
	}
	emit(o.deps.Observer, EventCredentialsIssued, primary.PublicIP, "join credentials issued", nil)
	return creds, nil
}

func decideFor(node config.Node, status swarm.Status, isPrimary bool) (Action, error) {
	action, err := Decide(node.Role, status, isPrimary)
	if err != nil {
		if us, ok := err.(*UnsafeStateError); ok {
			us.Node = node.PublicIP
		}
		return "", err
	}
	return action, nil
}
