// Package prerequisites checks for the client tools swarmup shells out to.
package prerequisites

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Tool represents a client tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallURL provides a URL for installation instructions.
	InstallURL string
}

var (
	lookPath = exec.LookPath

	versionTimeout = 5 * time.Second
)

// DockerTools returns the tools needed to drive remote daemons through the
// local docker CLI. binary overrides the docker binary name.
func DockerTools(binary string) []Tool {
	if binary == "" {
		binary = "docker"
	}
	return []Tool{
		{
			Name:        binary,
			Required:    true,
			Description: "Runs docker commands against nodes over ssh://",
			InstallURL:  "https://docs.docker.com/engine/install/",
		},
		{
			Name:        "ssh",
			Required:    true,
			Description: "Transport used by docker -H ssh://",
			InstallURL:  "https://www.openssh.com/portable.html",
		},
	}
}

// KeyscanTools returns the tools needed to trust hosts with OpenSSH.
func KeyscanTools() []Tool {
	return []Tool{
		{
			Name:        "ssh-keygen",
			Required:    true,
			Description: "Looks up hosts in known_hosts",
			InstallURL:  "https://www.openssh.com/portable.html",
		},
		{
			Name:        "ssh-keyscan",
			Required:    true,
			Description: "Fetches host keys of new nodes",
			InstallURL:  "https://www.openssh.com/portable.html",
		},
	}
}

// OptionalTools returns tools that are useful but not required.
func OptionalTools() []Tool {
	return []Tool{
		{
			Name:        "docker",
			Required:    false,
			Description: "Useful for inspecting the swarm by hand",
			InstallURL:  "https://docs.docker.com/engine/install/",
		},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool    Tool
	Found   bool
	Path    string
	Version string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check verifies that the specified tools are available. Tools listed more
// than once are checked once, keeping the first definition.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}
	seen := make(map[string]bool, len(tools))

	for _, tool := range tools {
		if seen[tool.Name] {
			continue
		}
		seen[tool.Name] = true

		result := CheckResult{Tool: tool}

		path, err := lookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
			// Try to get version (best effort)
			result.Version = getToolVersion(path)
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// getToolVersion attempts to get the version of a tool.
// Returns empty string if version cannot be determined.
func getToolVersion(path string) string {
	// ssh prints its version on stderr, docker on stdout.
	for _, flag := range []string{"--version", "-V"} {
		ctx, cancel := context.WithTimeout(context.Background(), versionTimeout)
		// #nosec G204 - path comes from LookPath of a fixed tool name
		output, err := exec.CommandContext(ctx, path, flag).CombinedOutput()
		cancel()
		if err == nil {
			lines := strings.Split(string(output), "\n")
			if len(lines) > 0 {
				return strings.TrimSpace(lines[0])
			}
		}
	}

	return ""
}
