package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vtlab/vtshtest/internal/config"
	"github.com/vtlab/vtshtest/internal/executor"
	"github.com/vtlab/vtshtest/internal/logging"
	"github.com/vtlab/vtshtest/internal/testing/mocks"
	"github.com/vtlab/vtshtest/internal/testing/testhelpers"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Build.ConfigureCommand = []string{"buildtool", "configure", "{root}", "{build}"}
	cfg.Build.BuildCommand = []string{"buildtool", "build", "{build}"}
	return cfg
}

func testPaths(t *testing.T) Paths {
	t.Helper()
	root := t.TempDir()
	buildDir := filepath.Join(root, "build")
	return Paths{
		BinaryPath:  filepath.Join(buildDir, "vtsh"),
		ProjectRoot: root,
		BuildDir:    buildDir,
	}
}

func TestDerivePaths(t *testing.T) {
	paths, err := DerivePaths("/home/user/lab/vtsh/build/vtsh")
	require.NoError(t, err)
	assert.Equal(t, "/home/user/lab/vtsh/build/vtsh", paths.BinaryPath)
	assert.Equal(t, "/home/user/lab/vtsh/build", paths.BuildDir)
	assert.Equal(t, "/home/user/lab/vtsh", paths.ProjectRoot)
}

func TestEnsure_BinaryPresent_NoInvocations(t *testing.T) {
	paths := testPaths(t)
	require.NoError(t, os.MkdirAll(paths.BuildDir, 0o755))
	require.NoError(t, os.WriteFile(paths.BinaryPath, []byte("#!/bin/sh\n"), 0o755))

	runner := &mocks.MockRunner{}
	ensurer := NewEnsurer(runner, testConfig(), logging.NewNop())

	require.NoError(t, ensurer.Ensure(context.Background(), paths))
	require.NoError(t, ensurer.Ensure(context.Background(), paths))

	assert.Equal(t, 0, runner.CallCount(), "existing binary must never trigger the build tool")
}

func TestEnsure_MissingBinary_RunsConfigureThenBuild(t *testing.T) {
	paths := testPaths(t)

	runner := &mocks.MockRunner{
		OnRun: func(spec executor.Spec) (*executor.Result, error) {
			if spec.Command[1] == "build" {
				// Emulate the build tool materializing the artifact.
				if err := os.WriteFile(paths.BinaryPath, []byte("#!/bin/sh\n"), 0o755); err != nil {
					return nil, err
				}
			}
			return &executor.Result{ExitCode: 0}, nil
		},
	}
	ensurer := NewEnsurer(runner, testConfig(), logging.NewNop())

	require.NoError(t, ensurer.Ensure(context.Background(), paths))

	require.Equal(t, 2, runner.CallCount())
	assert.Equal(t,
		[]string{"buildtool", "configure", paths.ProjectRoot, paths.BuildDir},
		runner.Calls[0].Spec.Command)
	assert.Equal(t,
		[]string{"buildtool", "build", paths.BuildDir},
		runner.Calls[1].Spec.Command)
	assert.Equal(t, paths.ProjectRoot, runner.Calls[0].Spec.Dir)

	// Build dir was created and the stamp recorded.
	stampPath := filepath.Join(paths.BuildDir, config.DefaultConfig().Build.StampFile)
	info, err := os.Stat(stampPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestEnsure_ConfigureFails_ReturnsBuildError(t *testing.T) {
	paths := testPaths(t)

	runner := &mocks.MockRunner{
		OnRun: func(spec executor.Spec) (*executor.Result, error) {
			return &executor.Result{ExitCode: 2, Stderr: "CMake Error: bad source dir"}, errors.New("exit status 2")
		},
	}
	ensurer := NewEnsurer(runner, testConfig(), logging.NewNop())

	err := ensurer.Ensure(context.Background(), paths)

	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, "configure", buildErr.Step)
	assert.Equal(t, 2, buildErr.ExitCode)
	assert.Contains(t, buildErr.Error(), "CMake Error")
	assert.Equal(t, 1, runner.CallCount(), "build step must not run after configure failure")
}

func TestEnsure_BuildFails_ReturnsBuildError(t *testing.T) {
	paths := testPaths(t)

	runner := &mocks.MockRunner{
		OnRun: func(spec executor.Spec) (*executor.Result, error) {
			if spec.Command[1] == "build" {
				return &executor.Result{ExitCode: 1, Stderr: "ld: undefined reference"}, errors.New("exit status 1")
			}
			return &executor.Result{ExitCode: 0}, nil
		},
	}
	ensurer := NewEnsurer(runner, testConfig(), logging.NewNop())

	err := ensurer.Ensure(context.Background(), paths)

	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, "build", buildErr.Step)
	assert.Equal(t, 2, runner.CallCount())
}

func TestEnsure_BuildSucceedsWithoutArtifact_ReturnsMissingArtifact(t *testing.T) {
	paths := testPaths(t)

	// Both steps report success but nothing is produced.
	runner := &mocks.MockRunner{}
	ensurer := NewEnsurer(runner, testConfig(), logging.NewNop())

	err := ensurer.Ensure(context.Background(), paths)

	var missing *MissingArtifactError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, paths.BinaryPath, missing.BinaryPath)
	assert.Equal(t, 2, runner.CallCount())
}

func TestEnsure_SpawnFailure_ReturnsBuildError(t *testing.T) {
	paths := testPaths(t)

	runner := &mocks.MockRunner{
		OnRun: func(spec executor.Spec) (*executor.Result, error) {
			return nil, &executor.CommandError{Cmd: "buildtool", Stage: "start", Cause: os.ErrNotExist}
		},
	}
	ensurer := NewEnsurer(runner, testConfig(), logging.NewNop())

	err := ensurer.Ensure(context.Background(), paths)

	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, "configure", buildErr.Step)

	var cmdErr *executor.CommandError
	assert.ErrorAs(t, err, &cmdErr, "spawn cause must stay on the chain")
}

func TestEnsure_ConcurrentCalls_BuildOnce(t *testing.T) {
	paths := testPaths(t)

	runner := &mocks.MockRunner{
		OnRun: func(spec executor.Spec) (*executor.Result, error) {
			time.Sleep(20 * time.Millisecond)
			if spec.Command[1] == "build" {
				if err := os.WriteFile(paths.BinaryPath, []byte("#!/bin/sh\n"), 0o755); err != nil {
					return nil, err
				}
			}
			return &executor.Result{ExitCode: 0}, nil
		},
	}
	ensurer := NewEnsurer(runner, testConfig(), logging.NewNop())

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = ensurer.Ensure(context.Background(), paths)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 2, runner.CallCount(), "concurrent ensures must share one build")
}

func TestEnsure_WithRealBuildTool(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Skipping shell script test on Windows")
	}

	paths := testPaths(t)
	toolDir := t.TempDir()
	logPath := filepath.Join(toolDir, "calls.log")
	tool := testhelpers.WriteScript(t, toolDir, "buildtool",
		testhelpers.FakeBuildTool(paths.BinaryPath, logPath, "vtsh> "))

	cfg := config.DefaultConfig()
	cfg.Build.ConfigureCommand = []string{tool, "configure", "{root}", "{build}"}
	cfg.Build.BuildCommand = []string{tool, "build", "{build}"}

	ensurer := NewEnsurer(executor.NewOSCommandExecutor(cfg), cfg, logging.NewNop())

	require.NoError(t, ensurer.Ensure(context.Background(), paths))

	info, err := os.Stat(paths.BinaryPath)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o111, "produced binary must be executable")

	log, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(log), "configure "+paths.ProjectRoot)
	assert.Contains(t, string(log), "build "+paths.BuildDir)
}
