package swarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/swarmup/internal/config"
	"github.com/imamik/swarmup/internal/platform/shell"
	testutil "github.com/imamik/swarmup/internal/testing"
)

func TestInitArgs(t *testing.T) {
	assert.Equal(t, "swarm init", InitArgs(config.Node{PublicIP: "10.0.0.1"}))
	assert.Equal(t, "swarm init --advertise-addr 192.168.1.10",
		InitArgs(config.Node{PublicIP: "10.0.0.1", AdvertiseAddr: "192.168.1.10"}))
}

func TestJoinArgs(t *testing.T) {
	assert.Equal(t, "swarm join --token T 10.0.0.1:2377",
		JoinArgs(config.Node{}, "--token T 10.0.0.1:2377"))
	assert.Equal(t, "swarm join --advertise-addr eth1 --token T 10.0.0.1:2377",
		JoinArgs(config.Node{AdvertiseAddr: "eth1"}, "--token T 10.0.0.1:2377"))
}

func TestMembership_InitAndJoin(t *testing.T) {
	cluster := testutil.NewClusterBuilder().
		WithPrimary("10.0.0.1").
		WithManager("10.0.0.2").
		WithWorker("10.0.0.3").
		Build()
	fake := testutil.NewFakeSwarm()
	ctx := testutil.TestContext(t)
	m := NewMembership(fake)

	require.NoError(t, m.Init(ctx, cluster.Nodes[0]))
	creds, err := NewTokenIssuer(fake).Issue(ctx, cluster.Nodes[0])
	require.NoError(t, err)

	require.NoError(t, m.Join(ctx, cluster.Nodes[1], creds.For(cluster.Nodes[1].Role)))
	require.NoError(t, m.Join(ctx, cluster.Nodes[2], creds.For(cluster.Nodes[2].Role)))

	assert.True(t, fake.IsManager("10.0.0.2"))
	assert.False(t, fake.IsManager("10.0.0.3"))
	assert.Equal(t, "active", fake.Status("10.0.0.3"))
}

func TestMembership_InitTwiceFails(t *testing.T) {
	node := testutil.NewClusterBuilder().WithPrimary("10.0.0.1").Build().Nodes[0]
	fake := testutil.NewFakeSwarm().SetStatus("10.0.0.1", "active", true)

	err := NewMembership(fake).Init(testutil.TestContext(t), node)
	require.Error(t, err)

	var ce *shell.CommandError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Stderr, "already part of a swarm")
}

func TestMembership_JoinWithoutCredentials(t *testing.T) {
	node := testutil.NewClusterBuilder().WithWorker("10.0.0.3").Build().Nodes[0]
	fake := testutil.NewFakeSwarm()

	err := NewMembership(fake).Join(testutil.TestContext(t), node, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no worker join credentials for 10.0.0.3")
	assert.Empty(t, fake.Calls())
}
