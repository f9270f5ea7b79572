// Package swarm talks to the Docker daemon of each node through its CLI.
//
// Everything swarmup learns about a node comes from parsing the text the
// docker CLI prints. That parsing lives only here:
//   - Prober reads membership status and node ID from `docker info`
//   - TokenIssuer reads the join arguments from `docker swarm join-token`
//   - Membership runs `docker swarm init` and `docker swarm join`
//   - LabelApplier runs `docker node update --label-add`
//
// Commands reach a node through a Runner. DockerHost runs the local docker
// binary against `ssh://user@address`; SSHRunner runs docker on the node
// over an in-process SSH connection.
package swarm
