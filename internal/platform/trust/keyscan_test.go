package trust

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/swarmup/internal/platform/shell"
	testutil "github.com/imamik/swarmup/internal/testing"
)

func TestKeyscan_AlreadyTrusted(t *testing.T) {
	exec := testutil.NewFakeExecutor().
		On("ssh-keygen -F", shell.Result{ExitCode: 0})

	k := NewKeyscan(exec, "/home/op/.ssh/known_hosts", 22)
	require.NoError(t, k.EnsureTrusted(testutil.TestContext(t), "10.0.0.1"))

	assert.Equal(t, []string{
		"ssh-keygen -F 10.0.0.1 -f /home/op/.ssh/known_hosts 1>&2 >/dev/null",
	}, exec.Commands())
}

func TestKeyscan_UnknownHostIsScanned(t *testing.T) {
	exec := testutil.NewFakeExecutor().
		On("ssh-keygen -F", shell.Result{ExitCode: 1})
	knownHosts := filepath.Join(t.TempDir(), "known_hosts")

	k := NewKeyscan(exec, knownHosts, 0)
	require.NoError(t, k.EnsureTrusted(testutil.TestContext(t), "10.0.0.1"))

	assert.Equal(t, []string{
		"ssh-keygen -F 10.0.0.1 -f " + shell.Quote(knownHosts) + " 1>&2 >/dev/null",
		"ssh-keyscan 10.0.0.1 >> " + shell.Quote(knownHosts),
	}, exec.Commands())
}

func TestKeyscan_CreatesKnownHostsDirectory(t *testing.T) {
	exec := testutil.NewFakeExecutor().
		On("ssh-keygen -F", shell.Result{ExitCode: 1})
	sshDir := filepath.Join(t.TempDir(), "home", ".ssh")

	k := NewKeyscan(exec, filepath.Join(sshDir, "known_hosts"), 22)
	require.NoError(t, k.EnsureTrusted(testutil.TestContext(t), "10.0.0.1"))

	info, err := os.Stat(sshDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}

func TestKeyscan_KnownHostsDirectoryFailure(t *testing.T) {
	exec := testutil.NewFakeExecutor().
		On("ssh-keygen -F", shell.Result{ExitCode: 1})
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	k := NewKeyscan(exec, filepath.Join(blocker, "known_hosts"), 22)
	err := k.EnsureTrusted(testutil.TestContext(t), "10.0.0.1")
	require.Error(t, err)

	assert.Contains(t, err.Error(), "failed to create known_hosts directory")
	assert.Len(t, exec.Commands(), 1, "no scan without a directory to write to")
}

func TestKeyscan_CustomPort(t *testing.T) {
	exec := testutil.NewFakeExecutor().
		On("ssh-keygen -F", shell.Result{ExitCode: 1})

	k := NewKeyscan(exec, "/tmp/kh", 2222)
	require.NoError(t, k.EnsureTrusted(testutil.TestContext(t), "10.0.0.1"))

	assert.Equal(t, []string{
		"ssh-keygen -F '[10.0.0.1]:2222' -f /tmp/kh 1>&2 >/dev/null",
		"ssh-keyscan -p 2222 10.0.0.1 >> /tmp/kh",
	}, exec.Commands())
}

func TestKeyscan_FetchFailureIsFatal(t *testing.T) {
	exec := testutil.NewFakeExecutor().
		On("ssh-keygen -F", shell.Result{ExitCode: 1}).
		On("ssh-keyscan", shell.Result{ExitCode: 1, Stderr: "connect to host 10.0.0.9 port 22: Connection refused"})

	k := NewKeyscan(exec, "/tmp/kh", 22)
	err := k.EnsureTrusted(testutil.TestContext(t), "10.0.0.9")
	require.Error(t, err)

	assert.Contains(t, err.Error(), "failed to fetch host key of 10.0.0.9")
	assert.True(t, shell.IsCommandError(err))
}

func TestKeyscan_QuotesPaths(t *testing.T) {
	exec := testutil.NewFakeExecutor().
		On("ssh-keygen -F", shell.Result{ExitCode: 1})
	knownHosts := filepath.Join(t.TempDir(), "my user", "known_hosts")

	k := NewKeyscan(exec, knownHosts, 22)
	require.NoError(t, k.EnsureTrusted(testutil.TestContext(t), "10.0.0.1"))

	assert.Equal(t, "ssh-keyscan 10.0.0.1 >> '"+knownHosts+"'", exec.Commands()[1])
}
