// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/imamik/swarmup/internal/config"
)

// flagBindings maps persistent flag names to setting keys.
var flagBindings = map[string]string{
	"log-level":     config.KeyLogLevel,
	"log-format":    config.KeyLogFormat,
	"transport":     config.KeyTransport,
	"trust":         config.KeyTrust,
	"known-hosts":   config.KeyKnownHosts,
	"ssh-key":       config.KeySSHKey,
	"ssh-port":      config.KeySSHPort,
	"docker-binary": config.KeyDockerBinary,
}

// globals holds the options shared by every subcommand.
type globals struct {
	v           *viper.Viper
	envFile     string
	clusterFile string
}

// settings loads the .env file and resolves settings from flags,
// environment and defaults.
func (g *globals) settings() (*config.Settings, error) {
	if err := config.LoadDotEnv(g.envFile); err != nil {
		return nil, err
	}
	return config.LoadSettings(g.v)
}

// Root returns the root command for the swarmup CLI.
//
// The root command serves as the entry point and parent for all subcommands.
// It owns the persistent flags; every flag can also be set through a
// SWARMUP_* environment variable or a .env file.
func Root() *cobra.Command {
	cmd, _ := newRoot()
	return cmd
}

func newRoot() (*cobra.Command, *globals) {
	g := &globals{v: config.NewViper()}

	cmd := &cobra.Command{
		Use:           "swarmup",
		Short:         "Form a Docker swarm from hosts reachable over SSH",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&g.clusterFile, "config", "c", config.DefaultClusterFile, "Path to the cluster file (YAML or JSON)")
	flags.StringVar(&g.envFile, "env-file", ".env", "Path to a .env file with SWARMUP_* variables")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "console", "Log format: console or json")
	flags.String("transport", config.TransportDockerHost, "How docker commands reach nodes: docker-host or ssh")
	flags.String("trust", config.TrustKeyscan, "How host keys are trusted: keyscan or known-hosts")
	flags.String("known-hosts", "~/.ssh/known_hosts", "known_hosts file used for host key trust")
	flags.String("ssh-key", "~/.ssh/id_ed25519", "Private key used by the ssh transport")
	flags.Int("ssh-port", 22, "SSH port of every node")
	flags.String("docker-binary", "docker", "docker binary to run")

	if err := config.BindFlags(g.v, flags, flagBindings); err != nil {
		panic(err)
	}

	cmd.AddCommand(Apply(g))
	cmd.AddCommand(Status(g))
	cmd.AddCommand(Doctor(g))
	cmd.AddCommand(Version())

	return cmd, g
}
