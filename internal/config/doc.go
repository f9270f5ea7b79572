// Package config handles the cluster file and the runtime settings of swarmup.
//
// The cluster file lists the nodes to bootstrap. It is read with yaml.v3, so
// both YAML and JSON work, and it may be either a plain document
//
//	nodes:
//	  - username: root
//	    public_ip: 203.0.113.10
//	    swarm_node_type: manager
//	    swarm_labels: ["manager.main=true"]
//
// or the JSON emitted by `terraform output -json`, where the list sits under
// nodes.value. Exactly one node must carry the manager.main=true label.
//
// Runtime settings (logging, transport, trust method, SSH key) come from
// flags, SWARMUP_* environment variables and an optional .env file, merged
// with viper.
package config
