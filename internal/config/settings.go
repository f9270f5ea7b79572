package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read into Settings.
const EnvPrefix = "SWARMUP"

// Setting keys. Environment variables use EnvPrefix and replace "." with "_",
// so KeySSHKey is read from SWARMUP_SSH_KEY.
const (
	KeyLogLevel     = "log.level"
	KeyLogFormat    = "log.format"
	KeyTransport    = "transport"
	KeyTrust        = "trust"
	KeyKnownHosts   = "known_hosts"
	KeySSHKey       = "ssh.key"
	KeySSHPort      = "ssh.port"
	KeyDockerBinary = "docker.binary"
)

// Transports select how Docker CLI commands reach a node.
const (
	// TransportDockerHost runs `docker -H ssh://user@host ...` locally.
	TransportDockerHost = "docker-host"
	// TransportSSH runs `docker ...` on the node over an SSH session.
	TransportSSH = "ssh"
)

// Trust methods select how unknown host keys are added to known_hosts.
const (
	// TrustKeyscan shells out to ssh-keygen -F and ssh-keyscan.
	TrustKeyscan = "keyscan"
	// TrustKnownHosts fetches the key with an in-process SSH handshake.
	TrustKnownHosts = "known-hosts"
)

// Settings are the runtime options of a swarmup invocation.
type Settings struct {
	LogLevel     string
	LogFormat    string
	Transport    string
	Trust        string
	KnownHosts   string
	SSHKey       string
	SSHPort      int
	DockerBinary string
}

// NewViper returns a viper instance with swarmup defaults and environment
// lookup configured.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyTransport, TransportDockerHost)
	v.SetDefault(KeyTrust, TrustKeyscan)
	v.SetDefault(KeyKnownHosts, "~/.ssh/known_hosts")
	v.SetDefault(KeySSHKey, "~/.ssh/id_ed25519")
	v.SetDefault(KeySSHPort, 22)
	v.SetDefault(KeyDockerBinary, "docker")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v
}

// BindFlags binds each flag name in bindings to its setting key. Only flags
// the user actually set override environment values and defaults.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, bindings map[string]string) error {
	for flagName, key := range bindings {
		f := flags.Lookup(flagName)
		if f == nil {
			return fmt.Errorf("unknown flag %q", flagName)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %q: %w", flagName, err)
		}
	}
	return nil
}

// LoadDotEnv loads KEY=value pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// LoadSettings reads Settings from v and validates them.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		LogLevel:     strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:    strings.ToLower(v.GetString(KeyLogFormat)),
		Transport:    strings.ToLower(v.GetString(KeyTransport)),
		Trust:        strings.ToLower(v.GetString(KeyTrust)),
		KnownHosts:   v.GetString(KeyKnownHosts),
		SSHKey:       v.GetString(KeySSHKey),
		SSHPort:      v.GetInt(KeySSHPort),
		DockerBinary: v.GetString(KeyDockerBinary),
	}

	var err error
	if s.KnownHosts, err = ExpandHome(s.KnownHosts); err != nil {
		return nil, err
	}
	if s.SSHKey, err = ExpandHome(s.SSHKey); err != nil {
		return nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// Validate checks that every enumerated setting has a known value.
func (s *Settings) Validate() error {
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%s: unknown level %q", KeyLogLevel, s.LogLevel)
	}
	switch s.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("%s: unknown format %q", KeyLogFormat, s.LogFormat)
	}
	switch s.Transport {
	case TransportDockerHost, TransportSSH:
	default:
		return fmt.Errorf("%s: must be %q or %q, got %q", KeyTransport, TransportDockerHost, TransportSSH, s.Transport)
	}
	switch s.Trust {
	case TrustKeyscan, TrustKnownHosts:
	default:
		return fmt.Errorf("%s: must be %q or %q, got %q", KeyTrust, TrustKeyscan, TrustKnownHosts, s.Trust)
	}
	if s.KnownHosts == "" {
		return fmt.Errorf("%s is required", KeyKnownHosts)
	}
	if s.SSHPort <= 0 || s.SSHPort > 65535 {
		return fmt.Errorf("%s: invalid port %d", KeySSHPort, s.SSHPort)
	}
	if s.DockerBinary == "" {
		return fmt.Errorf("%s is required", KeyDockerBinary)
	}
	return nil
}

// ExpandHome replaces a leading "~/" with the current user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory for %q: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
