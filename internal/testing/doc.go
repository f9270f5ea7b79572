// Package testing provides test utilities, builders, and fakes for unit tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ClusterBuilder: Fluent builder for cluster definitions
//   - FakeSwarm: In-memory Docker daemon answering the swarm CLI commands swarmup issues
//   - SSHServer: In-process SSH server with scripted command results
//   - FakeExecutor: shell.Executor answering commands from prefix rules
//
// Usage:
//
//	cluster := testing.NewClusterBuilder().
//	    WithPrimary("10.0.0.1", "region=us").
//	    WithWorker("10.0.0.3").
//	    Build()
//
//	fake := testing.NewFakeSwarm().SetStatus("10.0.0.1", "active", true)
//	prober := swarm.NewProber(fake)
package testing
