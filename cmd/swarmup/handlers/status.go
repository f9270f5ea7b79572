package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/swarmup/internal/config"
	"github.com/imamik/swarmup/internal/logging"
	"github.com/imamik/swarmup/internal/orchestration"
)

// Status probes every node and prints its swarm state together with the
// action apply would take. It fails when any node is in a state apply
// refuses to touch.
func Status(ctx context.Context, clusterFile string, settings *config.Settings) error {
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

	orch := orchestration.NewForRunner(cluster, runner, bootstrapper, orchestration.NewLogObserver(log.V(1)))
	plan, err := orch.Plan(ctx)
	if err != nil {
		return fmt.Errorf("failed to probe swarm: %w", err)
	}

	if _, err := fmt.Fprint(stdout, renderPlan(plan, isInteractive())); err != nil {
		return err
	}

	unsafe := 0
	for _, n := range plan {
		if n.Problem != "" {
			unsafe++
		}
	}
	if unsafe > 0 {
		return fmt.Errorf("%d of %d nodes are in a state apply cannot handle", unsafe, len(plan))
	}
	return nil
}
