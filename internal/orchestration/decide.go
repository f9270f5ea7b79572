package orchestration

import (
	"errors"
	"fmt"

	"github.com/imamik/swarmup/internal/config"
	"github.com/imamik/swarmup/internal/swarm"
)

// Action is what the orchestrator does to a node.
type Action string

const (
	// ActionNone leaves a node that is already a swarm member alone.
	ActionNone Action = "none"
	// ActionInit creates the swarm on the primary.
	ActionInit Action = "init"
	// ActionJoinManager joins a node with the manager credentials.
	ActionJoinManager Action = "join-manager"
	// ActionJoinWorker joins a node with the worker credentials.
	ActionJoinWorker Action = "join-worker"
)

// Mutating reports whether the action changes swarm membership.
func (a Action) Mutating() bool {
	return a != ActionNone
}

// UnsafeStateError is returned when no action is known to be safe for a node.
type UnsafeStateError struct {
	Node   string
	Role   config.Role
	Status swarm.Status
}

func (e *UnsafeStateError) Error() string {
	node := e.Node
	if node == "" {
		node = "node"
	}
	return fmt.Sprintf("cannot determine a safe action for %s (role %s, swarm status %q)", node, e.Role, e.Status)
}

// IsUnsafeState reports whether err is or wraps an *UnsafeStateError.
func IsUnsafeState(err error) bool {
	var us *UnsafeStateError
	return errors.As(err, &us)
}

// Decide returns the action for a node with the given role and swarm status.
// Statuses other than inactive, active and pending are unsafe, as is any
// role other than manager or worker.
func Decide(role config.Role, status swarm.Status, isPrimary bool) (Action, error) {
	switch status {
	case swarm.StatusActive, swarm.StatusPending:
		if r := role.Canonical(); r == config.RoleManager || r == config.RoleWorker {
			return ActionNone, nil
		}
	case swarm.StatusInactive:
		switch role.Canonical() {
		case config.RoleManager:
			if isPrimary {
				return ActionInit, nil
			}
			return ActionJoinManager, nil
		case config.RoleWorker:
			return ActionJoinWorker, nil
		}
	}
	return "", &UnsafeStateError{Role: role, Status: status}
}
