package testing

import (
	"io"
	"net"
	"strconv"
	"sync"
	"testing"

	"golang.org/x/crypto/ssh"
)

// CommandResult is what SSHServer sends back for an exec request.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode uint32
}

// CommandHandler decides the result of a command received by SSHServer.
type CommandHandler func(command string) CommandResult

// SSHServer is a minimal SSH server listening on 127.0.0.1 that accepts any
// public key and answers exec requests through a CommandHandler.
type SSHServer struct {
	Host    string
	Port    int
	HostKey ssh.PublicKey

	listener net.Listener
	config   *ssh.ServerConfig
	handler  CommandHandler

	mu       sync.Mutex
	commands []string
	users    []string
}

// NewSSHServer starts a server that is closed when the test ends.
func NewSSHServer(t *testing.T, handler CommandHandler) *SSHServer {
	t.Helper()

	_, hostSigner := GenerateKey(t)

	s := &SSHServer{handler: handler}
	s.config = &ssh.ServerConfig{
		PublicKeyCallback: func(conn ssh.ConnMetadata, _ ssh.PublicKey) (*ssh.Permissions, error) {
			s.mu.Lock()
			s.users = append(s.users, conn.User())
			s.mu.Unlock()
			return &ssh.Permissions{}, nil
		},
	}
	s.config.AddHostKey(hostSigner)
	s.HostKey = hostSigner.PublicKey()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	s.listener = l

	host, port, _ := net.SplitHostPort(l.Addr().String())
	s.Host = host
	s.Port, _ = strconv.Atoi(port)

	go s.serve()
	t.Cleanup(func() { _ = l.Close() })

	return s
}

// Commands returns every command received so far.
func (s *SSHServer) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

// Users returns the login names of authenticated connections.
func (s *SSHServer) Users() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.users...)
}

func (s *SSHServer) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleConn(conn)
	}
}

func (s *SSHServer) handleConn(conn net.Conn) {
	defer func() { _ = conn.Close() }()

	_, chans, reqs, err := ssh.NewServerConn(conn, s.config)
	if err != nil {
		return
	}
	go ssh.DiscardRequests(reqs)

	for newCh := range chans {
		if newCh.ChannelType() != "session" {
			_ = newCh.Reject(ssh.UnknownChannelType, "only sessions are supported")
			continue
		}
		ch, requests, err := newCh.Accept()
		if err != nil {
			return
		}
		go s.handleSession(ch, requests)
	}
}

func (s *SSHServer) handleSession(ch ssh.Channel, requests <-chan *ssh.Request) {
	defer func() { _ = ch.Close() }()

	for req := range requests {
		if req.Type != "exec" {
			_ = req.Reply(false, nil)
			continue
		}

		var payload struct{ Command string }
		if err := ssh.Unmarshal(req.Payload, &payload); err != nil {
			_ = req.Reply(false, nil)
			continue
		}
		_ = req.Reply(true, nil)

		s.mu.Lock()
		s.commands = append(s.commands, payload.Command)
		s.mu.Unlock()

		res := s.handler(payload.Command)
		_, _ = io.WriteString(ch, res.Stdout)
		_, _ = io.WriteString(ch.Stderr(), res.Stderr)

		status := struct{ Status uint32 }{res.ExitCode}
		_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(&status))
		return
	}
}
