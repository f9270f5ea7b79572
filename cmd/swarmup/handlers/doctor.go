package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/swarmup/internal/config"
	"github.com/imamik/swarmup/internal/util/prerequisites"
)

// Doctor checks local tools and the cluster file without contacting nodes.
func Doctor(_ context.Context, clusterFile string, settings *config.Settings) error {
	tools := append(requiredTools(settings), prerequisites.OptionalTools()...)
	results := checkPrereqs(tools)

	report := doctorReport{
		Tools:       results.Results,
		ClusterFile: clusterFile,
	}

	cluster, err := loadClusterFile(clusterFile)
	if err != nil {
		report.ClusterErr = err
	} else {
		report.Nodes = len(cluster.Nodes)
		if primary, err := cluster.Primary(); err != nil {
			report.ClusterErr = err
		} else {
			report.Primary = primary.PublicIP
		}
		for _, n := range cluster.Nodes {
			if n.IsManager() {
				report.Managers++
			} else {
				report.Workers++
			}
		}
	}

	if _, err := fmt.Fprint(stdout, renderDoctor(report, isInteractive())); err != nil {
		return err
	}

	if problems := errors.Join(results.Error(), report.ClusterErr); problems != nil {
		return fmt.Errorf("doctor found problems: %w", problems)
	}
	return nil
}
