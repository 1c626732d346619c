package mmd2svg

import (
	"context"
	"os"
	"sync"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

// mockCall records one Run invocation.
type mockCall struct {
	Name string
	Args []string
}

// mockRunner implements CommandRunner without spawning processes.
type mockRunner struct {
	mu     sync.Mutex
	calls  []mockCall
	stdout string
	stderr string
	err    error

	// onRun, when set, runs before the canned answer is returned.
	onRun func(ctx context.Context, name string, args []string)
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, mockCall{Name: name, Args: append([]string(nil), args...)})
	m.mu.Unlock()

	if m.onRun != nil {
		m.onRun(ctx, name, args)
	}
	return m.stdout, m.stderr, m.err
}

func (m *mockRunner) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// argValue returns the argument following flag, or "" if absent.
func argValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

// writeOutput simulates mmdc writing the -o file.
func writeOutput(_ context.Context, _ string, args []string) {
	if out := argValue(args, "-o"); out != "" {
		_ = os.WriteFile(out, []byte("<svg></svg>"), 0o600)
	}
}
