package swarm

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/swarmup/internal/config"
	"github.com/imamik/swarmup/internal/platform/shell"
)

// LabelApplier adds node labels through a manager.
type LabelApplier struct {
	runner Runner
}

// NewLabelApplier creates a LabelApplier.
func NewLabelApplier(runner Runner) *LabelApplier {
	return &LabelApplier{runner: runner}
}

// Apply adds every label of target to the swarm node nodeID, running the
// command on primary. Labels are passed to docker unvalidated.
func (l *LabelApplier) Apply(ctx context.Context, primary, target config.Node, nodeID string) error {
	if _, err := l.runner.Run(ctx, primary, LabelArgs(target.Labels, nodeID)); err != nil {
		return fmt.Errorf("failed to label node %s (%s): %w", target.PublicIP, nodeID, err)
	}
	return nil
}

// LabelArgs returns the docker arguments that add labels to nodeID.
func LabelArgs(labels []string, nodeID string) string {
	parts := make([]string, 0, 2*len(labels)+3)
	parts = append(parts, "node", "update")
	for _, label := range labels {
		parts = append(parts, "--label-add", shell.Quote(label))
	}
	parts = append(parts, shell.Quote(nodeID))
	return strings.Join(parts, " ")
}
