package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/swarmup/internal/config"
)

func TestRoot_Subcommands(t *testing.T) {
	cmd := Root()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"apply", "status", "doctor", "version"}, names)
}

func TestRoot_PersistentFlags(t *testing.T) {
	cmd := Root()

	for name := range flagBindings {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "flag %s", name)
	}
	cfg := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, cfg)
	assert.Equal(t, "c", cfg.Shorthand)
	assert.Equal(t, config.DefaultClusterFile, cfg.DefValue)
}

func TestSettings_Defaults(t *testing.T) {
	_, g := newRoot()
	g.envFile = filepath.Join(t.TempDir(), "missing.env")

	s, err := g.settings()
	require.NoError(t, err)
	assert.Equal(t, config.TransportDockerHost, s.Transport)
	assert.Equal(t, config.TrustKeyscan, s.Trust)
	assert.Equal(t, 22, s.SSHPort)
	assert.Equal(t, "docker", s.DockerBinary)
}

func TestSettings_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("SWARMUP_TRANSPORT", "ssh")
	t.Setenv("SWARMUP_SSH_PORT", "2222")

	cmd, g := newRoot()
	g.envFile = filepath.Join(t.TempDir(), "missing.env")
	require.NoError(t, cmd.PersistentFlags().Parse([]string{"--ssh-port", "2200", "--trust", "known-hosts"}))

	s, err := g.settings()
	require.NoError(t, err)
	assert.Equal(t, config.TransportSSH, s.Transport, "environment applies when no flag is given")
	assert.Equal(t, 2200, s.SSHPort, "flag wins over environment")
	assert.Equal(t, config.TrustKnownHosts, s.Trust)
}

func TestSettings_DotEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SWARMUP_DOCKER_BINARY=/usr/local/bin/docker\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SWARMUP_DOCKER_BINARY") })

	_, g := newRoot()
	g.envFile = envFile

	s, err := g.settings()
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/docker", s.DockerBinary)
}

func TestApply_InvalidSettingsFailBeforeRunning(t *testing.T) {
	cmd := Root()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"apply", "--transport", "telnet", "--env-file", filepath.Join(t.TempDir(), "none")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid settings")
	assert.Contains(t, err.Error(), `"telnet"`)
}

func TestApply_RejectsArguments(t *testing.T) {
	cmd := Root()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"apply", "nodes.json"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}
