package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manager(ip string, labels ...string) Node {
	return Node{Username: "root", PublicIP: ip, Role: RoleManager, Labels: labels}
}

func worker(ip string, labels ...string) Node {
	return Node{Username: "root", PublicIP: ip, Role: RoleWorker, Labels: labels}
}

func TestNode_SSHHost(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "deploy@203.0.113.5", Node{Username: "deploy", PublicIP: "203.0.113.5"}.SSHHost())
}

func TestNode_IsPrimary(t *testing.T) {
	t.Parallel()
	assert.True(t, manager("a", "region=us", PrimaryLabel).IsPrimary())
	assert.False(t, manager("a", "manager.main=false").IsPrimary())
	assert.False(t, manager("a", "xmanager.main=true").IsPrimary(), "label must match exactly")
}

func TestCluster_Primary(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		nodes     []Node
		wantIP    string
		wantError string
	}{
		{
			name:   "single primary",
			nodes:  []Node{worker("c"), manager("a", PrimaryLabel), manager("b")},
			wantIP: "a",
		},
		{
			name:      "no primary",
			nodes:     []Node{manager("a"), worker("b")},
			wantError: "no node is labelled manager.main=true",
		},
		{
			name:      "multiple primaries",
			nodes:     []Node{manager("a", PrimaryLabel), manager("b", PrimaryLabel)},
			wantError: "multiple nodes are labelled manager.main=true: a, b",
		},
		{
			name:   "coordinator primary",
			nodes:  []Node{{Username: "root", PublicIP: "a", Role: RoleCoordinator, Labels: []string{PrimaryLabel}}},
			wantIP: "a",
		},
		{
			name:      "primary is a worker",
			nodes:     []Node{worker("a", PrimaryLabel)},
			wantError: "primary node a must have role manager",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := &Cluster{Nodes: tt.nodes}
			primary, err := c.Primary()
			if tt.wantError != "" {
				require.Error(t, err)
				assert.True(t, IsPrecondition(err))
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIP, primary.PublicIP)
		})
	}
}

func TestCluster_Others(t *testing.T) {
	t.Parallel()
	a := manager("a", PrimaryLabel)
	c := &Cluster{Nodes: []Node{manager("b"), a, worker("c")}}

	others := c.Others(a)
	require.Len(t, others, 2)
	assert.Equal(t, "b", others[0].PublicIP)
	assert.Equal(t, "c", others[1].PublicIP)
}

func TestRole_Canonical(t *testing.T) {
	t.Parallel()
	tests := []struct {
		role Role
		want Role
	}{
		{RoleManager, RoleManager},
		{RoleWorker, RoleWorker},
		{RoleCoordinator, RoleManager},
		{"leader", "leader"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.role), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.role.Canonical())
		})
	}
}

func TestNode_IsManager(t *testing.T) {
	t.Parallel()
	assert.True(t, manager("a").IsManager())
	assert.True(t, Node{Role: RoleCoordinator}.IsManager())
	assert.False(t, worker("a").IsManager())
}
