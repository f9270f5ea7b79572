package swarm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/swarmup/internal/config"
	"github.com/imamik/swarmup/internal/platform/shell"
	testutil "github.com/imamik/swarmup/internal/testing"
)

func TestTokenIssuer_Issue(t *testing.T) {
	cluster := testutil.NewClusterBuilder().WithPrimary("10.0.0.1").Build()
	fake := testutil.NewFakeSwarm().SetStatus("10.0.0.1", "active", true)

	creds, err := NewTokenIssuer(fake).Issue(testutil.TestContext(t), cluster.Nodes[0])
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(creds.Manager, "--token SWMTKN-1-"))
	assert.True(t, strings.HasSuffix(creds.Manager, " 10.0.0.1:2377"))
	assert.True(t, strings.HasPrefix(creds.Worker, "--token SWMTKN-1-"))
	assert.NotEqual(t, creds.Manager, creds.Worker)

	assert.Equal(t, []testutil.Call{
		{Node: "10.0.0.1", Args: "swarm join-token manager"},
		{Node: "10.0.0.1", Args: "swarm join-token worker"},
	}, fake.Calls())
}

func TestTokenIssuer_NotAManager(t *testing.T) {
	cluster := testutil.NewClusterBuilder().WithPrimary("10.0.0.1").Build()
	fake := testutil.NewFakeSwarm()

	_, err := NewTokenIssuer(fake).Issue(testutil.TestContext(t), cluster.Nodes[0])
	require.Error(t, err)
	assert.True(t, shell.IsCommandError(err))
	assert.Contains(t, err.Error(), "failed to get manager join token from 10.0.0.1")
	assert.Len(t, fake.Calls(), 1, "worker token is not requested after a failure")
}

func TestTokenIssuer_UnexpectedOutput(t *testing.T) {
	cluster := testutil.NewClusterBuilder().WithPrimary("10.0.0.1").Build()
	fake := testutil.NewFakeSwarm().
		SetStatus("10.0.0.1", "active", true).
		FailOn("10.0.0.1", "swarm join-token worker", testutil.CommandResult{Stdout: "nothing to see\n"})

	_, err := NewTokenIssuer(fake).Issue(testutil.TestContext(t), cluster.Nodes[0])
	require.Error(t, err)
	assert.True(t, IsParseError(err))
	assert.Contains(t, err.Error(), "failed to read worker join token")
}

func TestJoinCredentials_For(t *testing.T) {
	creds := JoinCredentials{Manager: "--token M a:2377", Worker: "--token W a:2377"}
	assert.Equal(t, "--token M a:2377", creds.For(config.RoleManager))
	assert.Equal(t, "--token W a:2377", creds.For(config.RoleWorker))
	assert.Equal(t, "--token M a:2377", creds.For(config.RoleCoordinator))
}
