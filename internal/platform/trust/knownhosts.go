package trust

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

const defaultDialTimeout = 10 * time.Second

var errKeyCaptured = errors.New("host key captured")

// KnownHosts trusts hosts without external tools. It is used with the ssh
// transport, whose connections verify against the same file.
type KnownHosts struct {
	// Path is the known_hosts file. Parent directories are created on demand.
	Path string
	// Port is the SSH port of every node. Defaults to 22.
	Port int
	// DialTimeout bounds the key-fetching connection. Defaults to 10s.
	DialTimeout time.Duration

	log logr.Logger
}

// NewKnownHosts creates a KnownHosts bootstrapper.
func NewKnownHosts(path string, port int, log logr.Logger) *KnownHosts {
	return &KnownHosts{Path: path, Port: port, log: log}
}

// EnsureTrusted appends the host key of address to Path unless Path already
// has an entry for it.
func (k *KnownHosts) EnsureTrusted(ctx context.Context, address string) error {
	addr := hostPort(address, k.Port)

	known, err := k.isKnown(address, addr)
	if err != nil {
		return err
	}
	if known {
		return nil
	}

	key, err := k.fetchKey(ctx, addr)
	if err != nil {
		return fmt.Errorf("failed to fetch host key of %s: %w", address, err)
	}

	if err := k.appendKey(addr, key); err != nil {
		return err
	}
	k.log.Info("trusted new host key", "node", address, "type", key.Type(),
		"fingerprint", ssh.FingerprintSHA256(key))
	return nil
}

// HostKeyCallback returns a callback that verifies hosts against Path.
func (k *KnownHosts) HostKeyCallback() (ssh.HostKeyCallback, error) {
	cb, err := knownhosts.New(k.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", k.Path, err)
	}
	return cb, nil
}

// isKnown checks Path for any key of addr by verifying a throwaway key: a
// *knownhosts.KeyError listing wanted keys means the host has an entry.
func (k *KnownHosts) isKnown(address, addr string) (bool, error) {
	if _, err := os.Stat(k.Path); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	cb, err := k.HostKeyCallback()
	if err != nil {
		return false, err
	}

	probe, err := throwawayKey()
	if err != nil {
		return false, err
	}

	remote := &net.TCPAddr{IP: net.ParseIP(address), Port: k.port()}
	err = cb(addr, remote, probe)
	if err == nil {
		return true, nil
	}

	var keyErr *knownhosts.KeyError
	if errors.As(err, &keyErr) {
		return len(keyErr.Want) > 0, nil
	}

	var revoked *knownhosts.RevokedError
	if errors.As(err, &revoked) {
		return false, fmt.Errorf("host key of %s is revoked in %s", address, k.Path)
	}
	return false, fmt.Errorf("failed to check %s in %s: %w", address, k.Path, err)
}

// fetchKey starts an SSH handshake only far enough to receive the host key.
func (k *KnownHosts) fetchKey(ctx context.Context, addr string) (ssh.PublicKey, error) {
	timeout := k.DialTimeout
	if timeout == 0 {
		timeout = defaultDialTimeout
	}

	dialer := &net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	var captured ssh.PublicKey
	cfg := &ssh.ClientConfig{
		User: "swarmup",
		HostKeyCallback: func(_ string, _ net.Addr, key ssh.PublicKey) error {
			captured = key
			return errKeyCaptured
		},
		Timeout: timeout,
	}

	_, _, _, err = ssh.NewClientConn(conn, addr, cfg)
	if captured != nil {
		return captured, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return nil, err
}

func (k *KnownHosts) appendKey(addr string, key ssh.PublicKey) error {
	if err := os.MkdirAll(filepath.Dir(k.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", k.Path, err)
	}

	// #nosec G304 - path comes from settings
	f, err := os.OpenFile(k.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", k.Path, err)
	}

	line := knownhosts.Line([]string{knownhosts.Normalize(addr)}, key)
	if _, err := f.WriteString(line + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", k.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", k.Path, err)
	}
	return nil
}

func (k *KnownHosts) port() int {
	if k.Port == 0 {
		return 22
	}
	return k.Port
}

func throwawayKey() (ssh.PublicKey, error) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate probe key: %w", err)
	}
	return ssh.NewPublicKey(pub)
}

