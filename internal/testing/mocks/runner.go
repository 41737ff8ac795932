package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/vtlab/vtshtest/internal/executor"
)

// RunnerCall records one invocation of the mock runner.
type RunnerCall struct {
	Spec    executor.Spec
	Timeout time.Duration
}

// MockRunner implements executor.Runner for tests that must not spawn
// real processes. OnRun decides the outcome of every call; when nil the
// runner reports a clean zero exit with no output.
type MockRunner struct {
	Mu    sync.Mutex
	Calls []RunnerCall

	OnRun func(spec executor.Spec) (*executor.Result, error)
}

var _ executor.Runner = (*MockRunner)(nil)

func (m *MockRunner) Run(ctx context.Context, spec executor.Spec) (*executor.Result, error) {
	return m.record(spec, 0)
}

func (m *MockRunner) RunWithTimeout(ctx context.Context, spec executor.Spec, timeout time.Duration) (*executor.Result, error) {
	return m.record(spec, timeout)
}

func (m *MockRunner) record(spec executor.Spec, timeout time.Duration) (*executor.Result, error) {
	m.Mu.Lock()
	m.Calls = append(m.Calls, RunnerCall{Spec: spec, Timeout: timeout})
	onRun := m.OnRun
	m.Mu.Unlock()

	if onRun != nil {
		return onRun(spec)
	}
	return &executor.Result{ExitCode: 0}, nil
}

// CallCount returns how many commands were run.
func (m *MockRunner) CallCount() int {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return len(m.Calls)
}
