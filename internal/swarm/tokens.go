package swarm

import (
	"context"
	"fmt"

	"github.com/imamik/swarmup/internal/config"
)

// JoinCredentials holds the `docker swarm join` arguments for each role,
// each starting at --token and ending with the manager address.
type JoinCredentials struct {
	Manager string
	Worker  string
}

// For returns the join arguments for role.
func (c JoinCredentials) For(role config.Role) string {
	if role.Canonical() == config.RoleManager {
		return c.Manager
	}
	return c.Worker
}

// TokenIssuer reads join credentials from an initialized manager.
type TokenIssuer struct {
	runner Runner
}

// NewTokenIssuer creates a TokenIssuer.
func NewTokenIssuer(runner Runner) *TokenIssuer {
	return &TokenIssuer{runner: runner}
}

// Issue reads the manager and worker join arguments from primary. primary
// must already be an active manager.
func (t *TokenIssuer) Issue(ctx context.Context, primary config.Node) (JoinCredentials, error) {
	manager, err := t.joinArgs(ctx, primary, config.RoleManager)
	if err != nil {
		return JoinCredentials{}, err
	}
	worker, err := t.joinArgs(ctx, primary, config.RoleWorker)
	if err != nil {
		return JoinCredentials{}, err
	}
	return JoinCredentials{Manager: manager, Worker: worker}, nil
}

func (t *TokenIssuer) joinArgs(ctx context.Context, primary config.Node, role config.Role) (string, error) {
	res, err := t.runner.Run(ctx, primary, "swarm join-token "+string(role))
	if err != nil {
		return "", fmt.Errorf("failed to get %s join token from %s: %w", role, primary.PublicIP, err)
	}
	args, err := ParseJoinArgs(res.Stdout)
	if err != nil {
		return "", fmt.Errorf("failed to read %s join token from %s: %w", role, primary.PublicIP, err)
	}
	return args, nil
}
