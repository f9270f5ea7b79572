// Package trust makes sure a node's SSH host key is in known_hosts before
// swarmup first talks to it.
//
// Both implementations are idempotent: a host that is already listed is left
// alone, an unknown host gets its key appended. A failure to fetch the key
// is returned as an error and aborts the run.
//
//   - Keyscan runs `ssh-keygen -F` and `ssh-keyscan` through a shell.Executor.
//   - KnownHosts does the lookup with golang.org/x/crypto/ssh/knownhosts and
//     fetches the key with an in-process SSH handshake.
package trust

import "context"

// Bootstrapper ensures a host is trusted before first contact.
type Bootstrapper interface {
	EnsureTrusted(ctx context.Context, address string) error
}
