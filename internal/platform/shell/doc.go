// Package shell runs commands in a local bash subshell and captures their output.
//
// Executors are strict by default: a non-zero exit status is returned as a
// *CommandError carrying the command, exit code, stdout and stderr. Probes
// that are expected to fail sometimes (for example "is this host already in
// known_hosts?") pass Lenient() and inspect Result.ExitCode themselves.
package shell
