package swarm

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Status is the swarm membership state reported by `docker info`.
type Status string

const (
	StatusInactive Status = "inactive"
	StatusActive   Status = "active"
	StatusPending  Status = "pending"
	StatusLocked   Status = "locked"
	StatusError    Status = "error"
)

// Member reports whether the node already belongs to a swarm.
func (s Status) Member() bool {
	return s == StatusActive || s == StatusPending
}

// Fields extracted from CLI output.
const (
	FieldStatus   = "Swarm"
	FieldNodeID   = "NodeID"
	FieldJoinArgs = "--token"
)

var (
	statusPattern   = regexp.MustCompile(`Swarm: (?P<status>\w+)`)
	nodeIDPattern   = regexp.MustCompile(`NodeID: (?P<nodeId>\w+)`)
	joinArgsPattern = regexp.MustCompile(`--token .*`)
)

// ParseError is returned when an expected field is missing from output.
type ParseError struct {
	Field  string
	Output string
}

func (e *ParseError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("could not find %q in empty output", e.Field)
	}
	return fmt.Sprintf("could not find %q in output:\n%s", e.Field, out)
}

// IsParseError reports whether err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// ParseStatus extracts the membership status from `docker info` output.
// Unknown status words are returned as-is.
func ParseStatus(output string) (Status, error) {
	m := statusPattern.FindStringSubmatch(output)
	if m == nil {
		return "", &ParseError{Field: FieldStatus, Output: output}
	}
	return Status(m[statusPattern.SubexpIndex("status")]), nil
}

// ParseNodeID extracts the node ID from `docker info` output.
func ParseNodeID(output string) (string, error) {
	m := nodeIDPattern.FindStringSubmatch(output)
	if m == nil {
		return "", &ParseError{Field: FieldNodeID, Output: output}
	}
	return m[nodeIDPattern.SubexpIndex("nodeId")], nil
}

// ParseJoinArgs extracts the arguments following `docker swarm join` from
// `docker swarm join-token` output, starting at --token.
func ParseJoinArgs(output string) (string, error) {
	m := joinArgsPattern.FindString(output)
	if m == "" {
		return "", &ParseError{Field: FieldJoinArgs, Output: output}
	}
	return strings.TrimSpace(m), nil
}
