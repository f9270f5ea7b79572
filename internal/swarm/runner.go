package swarm

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/crypto/ssh"

	"github.com/imamik/swarmup/internal/config"
	"github.com/imamik/swarmup/internal/platform/shell"
	sshclient "github.com/imamik/swarmup/internal/platform/ssh"
)

const defaultBinary = "docker"

// Runner runs docker CLI arguments against a node.
type Runner interface {
	// Run executes `docker <args>` targeting node. args is passed to the
	// shell verbatim, so callers quote untrusted parts.
	Run(ctx context.Context, node config.Node, args string, opts ...shell.Option) (*shell.Result, error)
}

// DockerHost runs the local docker binary with `-H ssh://user@address`.
type DockerHost struct {
	exec   shell.Executor
	binary string
	port   int
}

var _ Runner = (*DockerHost)(nil)

// NewDockerHost creates a DockerHost runner. An empty binary means "docker";
// a port of 0 or 22 is left out of the host URL.
func NewDockerHost(exec shell.Executor, binary string, port int) *DockerHost {
	if binary == "" {
		binary = defaultBinary
	}
	return &DockerHost{exec: exec, binary: binary, port: port}
}

// Run implements Runner.
func (d *DockerHost) Run(ctx context.Context, node config.Node, args string, opts ...shell.Option) (*shell.Result, error) {
	command := fmt.Sprintf("%s -H %s %s", d.binary, shell.Quote(d.hostURL(node)), args)
	return d.exec.Run(ctx, command, opts...)
}

// hostURL returns the ssh:// URL of node. IPv6 literals are bracketed.
func (d *DockerHost) hostURL(node config.Node) string {
	host := node.PublicIP
	if d.port != 0 && d.port != 22 {
		host = net.JoinHostPort(host, strconv.Itoa(d.port))
	} else if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	u := url.URL{Scheme: "ssh", User: url.User(node.Username), Host: host}
	return u.String()
}

// HostKeySource returns the callback used to verify node host keys. It is
// called when the first command for a node runs, after trust bootstrap.
type HostKeySource func() (ssh.HostKeyCallback, error)

// SSHRunnerConfig configures an SSHRunner.
type SSHRunnerConfig struct {
	// Binary is the docker binary on the nodes. Defaults to "docker".
	Binary      string
	Port        int
	PrivateKey  []byte
	DialTimeout time.Duration
	HostKeys    HostKeySource
	Logger      logr.Logger
}

// SSHRunner runs docker on the node itself over SSH. One client is kept
// per node address.
type SSHRunner struct {
	cfg SSHRunnerConfig

	mu      sync.Mutex
	clients map[string]*sshclient.Client
}

var _ Runner = (*SSHRunner)(nil)

// NewSSHRunner creates an SSHRunner.
func NewSSHRunner(cfg SSHRunnerConfig) (*SSHRunner, error) {
	if len(cfg.PrivateKey) == 0 {
		return nil, fmt.Errorf("private key cannot be empty")
	}
	if cfg.HostKeys == nil {
		return nil, fmt.Errorf("host key source cannot be nil")
	}
	if cfg.Binary == "" {
		cfg.Binary = defaultBinary
	}
	return &SSHRunner{cfg: cfg, clients: make(map[string]*sshclient.Client)}, nil
}

// Run implements Runner.
func (r *SSHRunner) Run(ctx context.Context, node config.Node, args string, opts ...shell.Option) (*shell.Result, error) {
	client, err := r.client(node)
	if err != nil {
		return nil, err
	}
	return client.Run(ctx, r.cfg.Binary+" "+args, opts...)
}

func (r *SSHRunner) client(node config.Node) (*sshclient.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[node.PublicIP]; ok {
		return c, nil
	}

	callback, err := r.cfg.HostKeys()
	if err != nil {
		return nil, fmt.Errorf("failed to load host keys for %s: %w", node.PublicIP, err)
	}

	c, err := sshclient.NewClient(&sshclient.Config{
		Host:            node.PublicIP,
		Port:            r.cfg.Port,
		User:            node.Username,
		PrivateKey:      r.cfg.PrivateKey,
		DialTimeout:     r.cfg.DialTimeout,
		HostKeyCallback: callback,
		Logger:          r.cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH client for %s: %w", node.PublicIP, err)
	}
	r.clients[node.PublicIP] = c
	return c, nil
}
