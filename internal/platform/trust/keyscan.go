package trust

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/imamik/swarmup/internal/platform/shell"
)

// Keyscan trusts hosts with the OpenSSH command line tools.
type Keyscan struct {
	exec       shell.Executor
	knownHosts string
	port       int
}

// NewKeyscan creates a Keyscan bootstrapper writing to knownHosts.
// A port of 0 or 22 uses the default SSH port.
func NewKeyscan(exec shell.Executor, knownHosts string, port int) *Keyscan {
	return &Keyscan{exec: exec, knownHosts: knownHosts, port: port}
}

// EnsureTrusted appends the host key of address to known_hosts unless an
// entry for it already exists.
func (k *Keyscan) EnsureTrusted(ctx context.Context, address string) error {
	lookup := shell.Quote(k.hostPattern(address))
	file := shell.Quote(k.knownHosts)

	res, err := k.exec.Run(ctx,
		fmt.Sprintf("ssh-keygen -F %s -f %s 1>&2 >/dev/null", lookup, file),
		shell.Lenient())
	if err != nil {
		return fmt.Errorf("failed to look up %s in known_hosts: %w", address, err)
	}
	if res.ExitCode == 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(k.knownHosts), 0o700); err != nil {
		return fmt.Errorf("failed to create known_hosts directory: %w", err)
	}

	scan := "ssh-keyscan"
	if k.customPort() {
		scan += " -p " + strconv.Itoa(k.port)
	}
	if _, err := k.exec.Run(ctx, fmt.Sprintf("%s %s >> %s", scan, shell.Quote(address), file)); err != nil {
		return fmt.Errorf("failed to fetch host key of %s: %w", address, err)
	}
	return nil
}

func (k *Keyscan) customPort() bool {
	return k.port != 0 && k.port != 22
}

// hostPattern returns the known_hosts name of address, which is bracketed
// when a non-default port is used.
func (k *Keyscan) hostPattern(address string) string {
	if !k.customPort() {
		return address
	}
	return "[" + address + "]:" + strconv.Itoa(k.port)
}

// hostPort joins address and port, defaulting to 22.
func hostPort(address string, port int) string {
	if port == 0 {
		port = 22
	}
	return net.JoinHostPort(address, strconv.Itoa(port))
}
