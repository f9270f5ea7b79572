// Package orchestration brings every node of a cluster file into one Docker
// swarm.
//
// # Workflow
//
// The Orchestrator executes the following phases in order:
//  1. Primary - Trust, probe and initialize the node labelled manager.main=true
//  2. Credentials - Read the manager and worker join arguments from the primary
//  3. Nodes - Trust, probe and join every other node in file order
//  4. Labels - Apply each node's labels through the primary
//
// Per node, the action is chosen by Decide from the node's role, its probed
// swarm status and whether it is the primary.
//
// # Usage
//
//	orch := orchestration.NewForRunner(cluster, runner, bootstrapper, observer)
//	result, err := orch.Run(ctx)
//
// The orchestrator is idempotent - a second run against a formed swarm only
// probes and re-applies labels.
package orchestration
