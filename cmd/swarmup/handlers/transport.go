package handlers

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"

	"github.com/imamik/swarmup/internal/config"
	"github.com/imamik/swarmup/internal/orchestration"
	"github.com/imamik/swarmup/internal/platform/shell"
	"github.com/imamik/swarmup/internal/platform/trust"
	"github.com/imamik/swarmup/internal/swarm"
)

// defaultTransport wires the runner and bootstrapper selected by settings.
// Both trust methods write the same known_hosts file, which the ssh
// transport then verifies against.
func defaultTransport(settings *config.Settings, log logr.Logger) (swarm.Runner, orchestration.TrustBootstrapper, error) {
	local := shell.NewLocal(log)
	knownHosts := trust.NewKnownHosts(settings.KnownHosts, settings.SSHPort, log)

	var bootstrapper orchestration.TrustBootstrapper
	switch settings.Trust {
	case config.TrustKeyscan:
		bootstrapper = trust.NewKeyscan(local, settings.KnownHosts, settings.SSHPort)
	case config.TrustKnownHosts:
		bootstrapper = knownHosts
	default:
		return nil, nil, fmt.Errorf("unsupported trust method %q", settings.Trust)
	}

	switch settings.Transport {
	case config.TransportDockerHost:
		return swarm.NewDockerHost(local, settings.DockerBinary, settings.SSHPort), bootstrapper, nil
	case config.TransportSSH:
		// #nosec G304 - path comes from settings
		key, err := os.ReadFile(settings.SSHKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read SSH key: %w", err)
		}
		runner, err := swarm.NewSSHRunner(swarm.SSHRunnerConfig{
			Binary:     settings.DockerBinary,
			Port:       settings.SSHPort,
			PrivateKey: key,
			HostKeys:   knownHosts.HostKeyCallback,
			Logger:     log,
		})
		if err != nil {
			return nil, nil, err
		}
		return runner, bootstrapper, nil
	default:
		return nil, nil, fmt.Errorf("unsupported transport %q", settings.Transport)
	}
}
