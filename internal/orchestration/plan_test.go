package orchestration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/swarmup/internal/config"
	"github.com/imamik/swarmup/internal/swarm"
	testutil "github.com/imamik/swarmup/internal/testing"
)

func TestPlan_FreshCluster(t *testing.T) {
	fake := testutil.NewFakeSwarm()
	trust := &recordingTrust{}

	plan, err := NewForRunner(threeNodes(), fake, trust, nil).Plan(testutil.TestContext(t))
	require.NoError(t, err)
	require.Len(t, plan, 3)

	assert.Equal(t, ActionInit, plan[0].Action)
	assert.True(t, plan[0].Primary)
	assert.Equal(t, ActionJoinManager, plan[1].Action)
	assert.Equal(t, ActionJoinWorker, plan[2].Action)
	for _, p := range plan {
		assert.Equal(t, swarm.StatusInactive, p.Info.Status)
		assert.Empty(t, p.Info.NodeID)
	}

	assert.Empty(t, fake.MutatingCalls(), "plan only probes")
	assert.Len(t, fake.Calls(), 3)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}, trust.hosts)
}

func TestPlan_ReportsUnsafeNodes(t *testing.T) {
	fake := testutil.NewFakeSwarm().
		SetStatus("10.0.0.1", "active", true).
		SetInfo("10.0.0.2", "Swarm: error\n")

	plan, err := NewForRunner(threeNodes(), fake, &recordingTrust{}, nil).Plan(testutil.TestContext(t))
	require.NoError(t, err)

	assert.Equal(t, ActionNone, plan[0].Action)
	assert.Equal(t, fake.NodeID("10.0.0.1"), plan[0].Info.NodeID)
	assert.Empty(t, plan[1].Action)
	assert.Contains(t, plan[1].Problem, "10.0.0.2")
	assert.Equal(t, ActionJoinWorker, plan[2].Action)
}

func TestPlan_RequiresPrimary(t *testing.T) {
	cluster := testutil.NewClusterBuilder().WithWorker("10.0.0.3").Build()
	fake := testutil.NewFakeSwarm()

	_, err := NewForRunner(cluster, fake, &recordingTrust{}, nil).Plan(testutil.TestContext(t))
	assert.True(t, config.IsPrecondition(err))
	assert.Empty(t, fake.Calls())
}

func TestPlan_ProbeFailure(t *testing.T) {
	fake := testutil.NewFakeSwarm().SetInfo("10.0.0.3", "")

	_, err := NewForRunner(threeNodes(), fake, &recordingTrust{}, nil).Plan(testutil.TestContext(t))
	assert.True(t, swarm.IsParseError(err))
}
