package testing

import (
	"context"
	"strings"
	"sync"

	"github.com/imamik/swarmup/internal/platform/shell"
)

// FakeExecutor is a shell.Executor that records commands and answers them
// from a list of prefix rules. Unmatched commands succeed with empty output.
type FakeExecutor struct {
	mu       sync.Mutex
	rules    []fakeRule
	commands []string
}

type fakeRule struct {
	prefix string
	result shell.Result
}

// NewFakeExecutor creates an executor with no rules.
func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{}
}

// On registers the result for commands starting with prefix. The first
// matching rule wins.
func (f *FakeExecutor) On(prefix string, res shell.Result) *FakeExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, fakeRule{prefix: prefix, result: res})
	return f
}

// Run implements shell.Executor with the same strictness rules as shell.Local.
func (f *FakeExecutor) Run(_ context.Context, command string, opts ...shell.Option) (*shell.Result, error) {
	f.mu.Lock()
	f.commands = append(f.commands, command)
	res := shell.Result{}
	for _, r := range f.rules {
		if strings.HasPrefix(command, r.prefix) {
			res = r.result
			break
		}
	}
	f.mu.Unlock()

	res.Command = command
	if err := shell.ApplyOptions(opts...).Check(&res); err != nil {
		return &res, err
	}
	return &res, nil
}

// Commands returns every command run so far.
func (f *FakeExecutor) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}
