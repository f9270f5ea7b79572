// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/imamik/swarmup/internal/config"
	"github.com/imamik/swarmup/internal/logging"
	"github.com/imamik/swarmup/internal/orchestration"
	"github.com/imamik/swarmup/internal/util/prerequisites"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newLogger creates the logger for a run.
	newLogger = logging.New

	// loadClusterFile loads and validates the cluster file.
	loadClusterFile = config.LoadFile

	// newTransport builds the docker runner and host key bootstrapper.
	newTransport = defaultTransport

	// checkPrereqs checks that local tools are installed.
	checkPrereqs = prerequisites.Check

	// stdout receives command output meant for the operator.
	stdout io.Writer = os.Stdout

	// isInteractive reports whether output should be styled.
	isInteractive = isInteractiveTTY
)

// Apply forms the swarm described by clusterFile.
//
// This function orchestrates the complete bootstrap:
//  1. Loads and validates the cluster file
//  2. Checks the local tools the transport needs
//  3. Runs the orchestrator (primary, credentials, nodes, labels)
//  4. Prints a per-node summary
func Apply(ctx context.Context, clusterFile string, settings *config.Settings) error {
	log, sync, err := newLogger(logging.Options{Level: settings.LogLevel, Format: settings.LogFormat})
	if err != nil {
		return err
	}
	defer sync()
	log, _ = logging.WithRunID(log)

	cluster, err := loadClusterFile(clusterFile)
	if err != nil {
		return err
	}

	if results := checkPrereqs(requiredTools(settings)); results.HasErrors() {
		return results.Error()
	}

	runner, bootstrapper, err := newTransport(settings, log)
	if err != nil {
		return err
	}

	log.Info("forming swarm", "file", clusterFile, "nodes", len(cluster.Nodes), "transport", settings.Transport)
	orch := orchestration.NewForRunner(cluster, runner, bootstrapper, orchestration.NewLogObserver(log))
	result, err := orch.Run(ctx)
	if err != nil {
		return fmt.Errorf("swarm bootstrap failed: %w", err)
	}

	if result.Changed() {
		log.Info("swarm formed", "nodes", len(result.Nodes))
	} else {
		log.Info("swarm already formed, labels re-applied", "nodes", len(result.Nodes))
	}

	_, err = fmt.Fprint(stdout, renderSummary(result, isInteractive()))
	return err
}

// requiredTools lists the local binaries settings depend on.
func requiredTools(settings *config.Settings) []prerequisites.Tool {
	var tools []prerequisites.Tool
	if settings.Transport == config.TransportDockerHost {
		tools = append(tools, prerequisites.DockerTools(settings.DockerBinary)...)
	}
	if settings.Trust == config.TrustKeyscan {
		tools = append(tools, prerequisites.KeyscanTools()...)
	}
	return tools
}

func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
