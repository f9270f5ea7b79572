package testing

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/imamik/swarmup/internal/config"
	"github.com/imamik/swarmup/internal/platform/shell"
)

const (
	fakeManagerToken = "SWMTKN-1-3pu6hszjas19xyp7ghgosyx9k8atbfcr8p2is99znpy26u2lkl-7p73s1dx5in4tatdymyhg9hu2"
	fakeWorkerToken  = "SWMTKN-1-3pu6hszjas19xyp7ghgosyx9k8atbfcr8p2is99znpy26u2lkl-1awxwuwd3z9j1z3puu7rcgdbx"
	fakeSwarmPort    = "2377"
)

// Call is one docker invocation received by FakeSwarm.
type Call struct {
	// Node is the address the command targeted.
	Node string
	Args string
}

func (c Call) String() string {
	return c.Node + ": " + c.Args
}

type fakeNode struct {
	status  string
	id      string
	manager bool
	labels  map[string]string
	info    *string
}

type fakeFailure struct {
	node   string
	prefix string
	result CommandResult
}

// FakeSwarm is an in-memory set of Docker daemons. It answers the docker
// arguments swarmup sends with realistic output and tracks swarm membership,
// node IDs and labels. It satisfies swarm.Runner.
type FakeSwarm struct {
	mu       sync.Mutex
	nodes    map[string]*fakeNode
	leader   string
	seq      int
	failures []fakeFailure
	calls    []Call
}

// NewFakeSwarm returns a FakeSwarm where every node starts inactive.
func NewFakeSwarm() *FakeSwarm {
	return &FakeSwarm{nodes: make(map[string]*fakeNode)}
}

// SetStatus forces the swarm status reported for address. Nodes set to
// active or pending get a node ID; setting a manager active makes it able
// to issue tokens and label nodes.
func (f *FakeSwarm) SetStatus(address, status string, manager bool) *FakeSwarm {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := f.node(address)
	n.status = status
	n.manager = manager
	if (status == "active" || status == "pending") && n.id == "" {
		n.id = f.nextID()
	}
	if manager && status == "active" && f.leader == "" {
		f.leader = address
	}
	return f
}

// SetInfo replaces the `docker info` output of address.
func (f *FakeSwarm) SetInfo(address, output string) *FakeSwarm {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.node(address).info = &output
	return f
}

// FailOn makes commands on address whose arguments start with prefix
// return result instead of being handled.
func (f *FakeSwarm) FailOn(address, prefix string, result CommandResult) *FakeSwarm {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, fakeFailure{node: address, prefix: prefix, result: result})
	return f
}

// Run executes docker args against node.
func (f *FakeSwarm) Run(_ context.Context, node config.Node, args string, opts ...shell.Option) (*shell.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Node: node.PublicIP, Args: args})
	out := f.handle(node.PublicIP, args)
	f.mu.Unlock()

	res := &shell.Result{
		Command:  "docker " + args,
		ExitCode: int(out.ExitCode),
		Stdout:   out.Stdout,
		Stderr:   out.Stderr,
	}
	if err := shell.ApplyOptions(opts...).Check(res); err != nil {
		return res, err
	}
	return res, nil
}

// Calls returns every call in the order received.
func (f *FakeSwarm) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// MutatingCalls returns every call except `docker info`.
func (f *FakeSwarm) MutatingCalls() []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Args != "info" {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls but keeps the daemon state.
func (f *FakeSwarm) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// Status returns the swarm status of address.
func (f *FakeSwarm) Status(address string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.node(address).status
}

// NodeID returns the node ID of address, or "" if it never joined.
func (f *FakeSwarm) NodeID(address string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.node(address).id
}

// IsManager reports whether address is a swarm manager.
func (f *FakeSwarm) IsManager(address string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.node(address).manager
}

// Labels returns the node labels of address.
func (f *FakeSwarm) Labels(address string) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string)
	for k, v := range f.node(address).labels {
		out[k] = v
	}
	return out
}

func (f *FakeSwarm) node(address string) *fakeNode {
	n, ok := f.nodes[address]
	if !ok {
		n = &fakeNode{status: "inactive", labels: make(map[string]string)}
		f.nodes[address] = n
	}
	return n
}

func (f *FakeSwarm) nextID() string {
	f.seq++
	return fmt.Sprintf("n%02dqx7yrdp0zk3m", f.seq)
}

func (f *FakeSwarm) handle(address, args string) CommandResult {
	for _, fl := range f.failures {
		if fl.node == address && strings.HasPrefix(args, fl.prefix) {
			return fl.result
		}
	}

	n := f.node(address)
	fields := strings.Fields(args)

	switch {
	case args == "info":
		return f.info(n)
	case strings.HasPrefix(args, "swarm init"):
		return f.init(address, n)
	case strings.HasPrefix(args, "swarm join-token "):
		return f.joinToken(n, fields[len(fields)-1])
	case strings.HasPrefix(args, "swarm join "):
		return f.join(n, fields)
	case strings.HasPrefix(args, "node update "):
		return f.update(n, fields[2:])
	}
	return CommandResult{ExitCode: 1, Stderr: fmt.Sprintf("unknown command %q", args)}
}

func (f *FakeSwarm) info(n *fakeNode) CommandResult {
	if n.info != nil {
		return CommandResult{Stdout: *n.info}
	}

	var b strings.Builder
	b.WriteString("Client:\n Version:    27.3.1\n Context:    default\n\n")
	b.WriteString("Server:\n Containers: 0\n  Running: 0\n Images: 0\n")
	b.WriteString(" Swarm: " + n.status + "\n")
	if n.id != "" {
		b.WriteString("  NodeID: " + n.id + "\n")
		fmt.Fprintf(&b, "  Is Manager: %t\n", n.manager)
	}
	b.WriteString(" Kernel Version: 6.8.0-45-generic\n")
	return CommandResult{Stdout: b.String()}
}

func (f *FakeSwarm) init(address string, n *fakeNode) CommandResult {
	if n.status != "inactive" {
		return alreadyInSwarm()
	}
	n.status = "active"
	n.manager = true
	n.id = f.nextID()
	f.leader = address
	return CommandResult{Stdout: fmt.Sprintf(
		"Swarm initialized: current node (%s) is now a manager.\n", n.id)}
}

func (f *FakeSwarm) joinToken(n *fakeNode, role string) CommandResult {
	if n.status != "active" || !n.manager {
		return notAManager()
	}

	token := fakeWorkerToken
	if role == "manager" {
		token = fakeManagerToken
	}
	return CommandResult{Stdout: fmt.Sprintf(
		"To add a %s to this swarm, run the following command:\n\n    docker swarm join --token %s %s\n\n",
		role, token, f.leaderAddr())}
}

func (f *FakeSwarm) join(n *fakeNode, fields []string) CommandResult {
	if n.status != "inactive" {
		return alreadyInSwarm()
	}

	token := ""
	for i, field := range fields {
		if field == "--token" && i+1 < len(fields) {
			token = fields[i+1]
		}
	}
	remote := fields[len(fields)-1]
	if f.leader == "" || remote != f.leaderAddr() {
		return CommandResult{ExitCode: 1, Stderr: "Error response from daemon: Timeout was reached before node joined."}
	}

	switch token {
	case fakeManagerToken:
		n.manager = true
	case fakeWorkerToken:
		n.manager = false
	default:
		return CommandResult{ExitCode: 1, Stderr: "Error response from daemon: invalid join token"}
	}

	n.status = "active"
	n.id = f.nextID()
	if n.manager {
		return CommandResult{Stdout: "This node joined a swarm as a manager.\n"}
	}
	return CommandResult{Stdout: "This node joined a swarm as a worker.\n"}
}

func (f *FakeSwarm) update(n *fakeNode, fields []string) CommandResult {
	if n.status != "active" || !n.manager {
		return notAManager()
	}
	if len(fields) == 0 {
		return CommandResult{ExitCode: 1, Stderr: "\"docker node update\" requires exactly 1 argument."}
	}

	id := unquote(fields[len(fields)-1])
	var target *fakeNode
	for _, candidate := range f.nodes {
		if candidate.id == id && candidate.status != "inactive" {
			target = candidate
		}
	}
	if target == nil {
		return CommandResult{ExitCode: 1, Stderr: "Error response from daemon: node " + id + " not found"}
	}

	for i := 0; i < len(fields)-1; i++ {
		if fields[i] != "--label-add" || i+1 >= len(fields)-1 {
			continue
		}
		key, value, _ := strings.Cut(unquote(fields[i+1]), "=")
		target.labels[key] = value
		i++
	}
	return CommandResult{Stdout: id + "\n"}
}

func (f *FakeSwarm) leaderAddr() string {
	return f.leader + ":" + fakeSwarmPort
}

func alreadyInSwarm() CommandResult {
	return CommandResult{ExitCode: 1, Stderr: "Error response from daemon: This node is already part of a swarm. " +
		"Use \"docker swarm leave\" to leave this swarm and join another one."}
}

func notAManager() CommandResult {
	return CommandResult{ExitCode: 1, Stderr: "Error response from daemon: This node is not a swarm manager. " +
		"Use \"docker swarm init\" or \"docker swarm join\" to connect this node to swarm and try again."}
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}
