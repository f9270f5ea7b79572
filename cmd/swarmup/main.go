// Package main is the entry point for the swarmup CLI.
//
// swarmup forms a Docker swarm from a list of hosts reachable over SSH. It
// initializes the node labelled manager.main=true, joins every other node
// with the matching role and applies node labels. Running it again against
// a formed swarm only re-applies labels.
//
// Commands: apply, status, doctor, version.
//
// For detailed usage information, run:
//
//	swarmup --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/swarmup/cmd/swarmup/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	commands.SetVersionInfo(version, commit, date)
	err := commands.Root().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
