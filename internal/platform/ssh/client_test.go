package ssh

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"github.com/imamik/swarmup/internal/platform/shell"
	testutil "github.com/imamik/swarmup/internal/testing"
)

func newTestClient(t *testing.T, srv *testutil.SSHServer, hostKey ssh.HostKeyCallback) *Client {
	t.Helper()
	key, _ := testutil.GenerateKey(t)

	client, err := NewClient(&Config{
		Host:            srv.Host,
		Port:            srv.Port,
		User:            "deploy",
		PrivateKey:      key,
		HostKeyCallback: hostKey,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_Validation(t *testing.T) {
	key, _ := testutil.GenerateKey(t)
	accept := ssh.InsecureIgnoreHostKey() //nolint:gosec // test only

	tests := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{"nil config", nil, "config cannot be nil"},
		{"empty host", &Config{User: "root", PrivateKey: key, HostKeyCallback: accept}, "config host cannot be empty"},
		{"empty user", &Config{Host: "10.0.0.1", PrivateKey: key, HostKeyCallback: accept}, "config user cannot be empty"},
		{"empty key", &Config{Host: "10.0.0.1", User: "root", HostKeyCallback: accept}, "config private key cannot be empty"},
		{"nil host key callback", &Config{Host: "10.0.0.1", User: "root", PrivateKey: key}, "config host key callback cannot be nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg)
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestNewClient_InvalidKey(t *testing.T) {
	_, err := NewClient(&Config{
		Host:            "10.0.0.1",
		User:            "root",
		PrivateKey:      []byte("invalid key"),
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // test only
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse private key")
}

func TestNewClient_AppliesDefaults(t *testing.T) {
	key, _ := testutil.GenerateKey(t)

	cfg := &Config{
		Host:            "10.0.0.1",
		User:            "root",
		PrivateKey:      key,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // test only
	}

	client, err := NewClient(cfg)
	require.NoError(t, err)

	assert.Equal(t, defaultPort, client.config.Port)
	assert.Equal(t, defaultDialTimeout, client.config.DialTimeout)
	assert.Equal(t, "10.0.0.1:22", client.Addr())

	// Caller's struct is not mutated.
	assert.Zero(t, cfg.Port)
	assert.Zero(t, cfg.DialTimeout)
}

func TestClient_Run_Success(t *testing.T) {
	srv := testutil.NewSSHServer(t, func(cmd string) testutil.CommandResult {
		return testutil.CommandResult{Stdout: "Swarm: active\n", Stderr: "warning\n"}
	})
	client := newTestClient(t, srv, ssh.FixedHostKey(srv.HostKey))

	res, err := client.Run(testutil.TestContext(t), "docker info")
	require.NoError(t, err)

	assert.Equal(t, "docker info", res.Command)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "Swarm: active\n", res.Stdout)
	assert.Equal(t, "warning\n", res.Stderr)
	assert.Equal(t, []string{"docker info"}, srv.Commands())
	assert.Equal(t, []string{"deploy"}, srv.Users())
}

func TestClient_Run_StrictFailure(t *testing.T) {
	srv := testutil.NewSSHServer(t, func(string) testutil.CommandResult {
		return testutil.CommandResult{Stderr: "Error response from daemon: This node is not a swarm manager.", ExitCode: 1}
	})
	client := newTestClient(t, srv, ssh.FixedHostKey(srv.HostKey))

	res, err := client.Run(testutil.TestContext(t), "docker swarm join-token worker")
	require.Error(t, err)

	var cmdErr *shell.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 1, cmdErr.ExitCode)
	assert.Equal(t, "docker swarm join-token worker", cmdErr.Command)
	assert.Contains(t, cmdErr.Stderr, "not a swarm manager")
	assert.Equal(t, 1, res.ExitCode)
}

func TestClient_Run_Lenient(t *testing.T) {
	srv := testutil.NewSSHServer(t, func(string) testutil.CommandResult {
		return testutil.CommandResult{ExitCode: 7}
	})
	client := newTestClient(t, srv, ssh.FixedHostKey(srv.HostKey))

	res, err := client.Run(testutil.TestContext(t), "false", shell.Lenient())
	require.NoError(t, err)
	assert.Equal(t, 7, res.ExitCode)
}

func TestClient_Run_HostKeyMismatch(t *testing.T) {
	srv := testutil.NewSSHServer(t, func(string) testutil.CommandResult {
		return testutil.CommandResult{}
	})
	_, other := testutil.GenerateKey(t)
	client := newTestClient(t, srv, ssh.FixedHostKey(other.PublicKey()))

	_, err := client.Run(testutil.TestContext(t), "docker info")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SSH handshake with")
	assert.Empty(t, srv.Commands(), "no command may run on an unverified host")
}

func TestClient_Run_ContextCancelled(t *testing.T) {
	key, _ := testutil.GenerateKey(t)
	client, err := NewClient(&Config{
		Host:            "192.0.2.1", // TEST-NET-1, never routable
		User:            "root",
		PrivateKey:      key,
		DialTimeout:     5 * time.Second,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // test only
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.Run(ctx, "echo test")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
