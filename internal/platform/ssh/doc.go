// Package ssh provides an SSH client for executing commands on cluster nodes.
//
// It backs the "ssh" transport, where the Docker CLI runs on the node itself
// instead of being tunnelled through `docker -H ssh://`. The client implements
// shell.Executor, so strict and lenient calls behave exactly as they do for
// local commands: the remote exit status is taken from the SSH exit-status
// message and stdout and stderr are captured separately.
//
// Host keys are always verified. Callers pass a HostKeyCallback, normally one
// built with knownhosts.New over the file populated by the trust package.
package ssh
