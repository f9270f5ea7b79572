package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/swarmup/cmd/swarmup/handlers"
)

// Apply returns the command that forms or updates the swarm.
//
// Optional flags (inherited):
//
//	--config, -c: Path to the cluster file (default: swarm-config.json)
//	--transport: docker-host (default) or ssh
//	--trust: keyscan (default) or known-hosts
func Apply(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Form the swarm and apply node labels",
		Long: `Form the Docker swarm described by the cluster file.

The node labelled manager.main=true initializes the swarm. Every other node
joins as a manager or worker according to its swarm_node_type, then the
labels of every node are applied through the primary.

Nodes that already belong to the swarm are left alone, so apply can be
re-run safely after fixing a failure.

Examples:
  # Form the swarm from swarm-config.json
  swarmup apply

  # Use the terraform output of another project
  terraform output -json > nodes.json && swarmup apply -c nodes.json

  # Run docker on the nodes over SSH instead of docker -H ssh://
  swarmup apply --transport ssh --trust known-hosts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := g.settings()
			if err != nil {
				return err
			}
			return handlers.Apply(cmd.Context(), g.clusterFile, settings)
		},
	}
}
