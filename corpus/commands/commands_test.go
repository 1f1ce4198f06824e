package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	gofrogcmd "github.com/jfrog/gofrog/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tharvik/flock"
)

// recordingRunner captures every issued command and fails the modules listed in failModules.
type recordingRunner struct {
	mu          sync.Mutex
	issued      [][]string
	failModules map[string]int
}

func newRecordingRunner(failModules map[string]int) *recordingRunner {
	if failModules == nil {
		failModules = map[string]int{}
	}
	return &recordingRunner{failModules: failModules}
}

func (rr *recordingRunner) Run(config gofrogcmd.CmdConfig) error {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	cmd := config.GetCmd()
	rr.issued = append(rr.issued, cmd.Args)
	pmc := config.(*pythonModuleCommand)
	if rr.failModules[pmc.module] > 0 {
		rr.failModules[pmc.module]--
		return errors.New("exit status 1")
	}
	return nil
}

func fastOptions(runner Runner) StepOptions {
	return StepOptions{Runner: runner, RetryDelay: time.Millisecond}
}

func stubVersionCheck(t *testing.T, available ...string) {
	previous := versionCheck
	t.Cleanup(func() { versionCheck = previous })
	versionCheck = func(name string) error {
		for _, a := range available {
			if a == name {
				return nil
			}
		}
		return errors.New("executable file not found in $PATH")
	}
}

func TestResolvePython(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		available  []string
		expected   string
		expectErr  bool
	}{
		{name: "Configured interpreter wins", configured: "/opt/venv/bin/python", available: nil, expected: "/opt/venv/bin/python"},
		{name: "python3 preferred", available: []string{"python", "python3"}, expected: "python3"},
		{name: "python fallback", available: []string{"python"}, expected: "python"},
		{name: "None available", available: nil, expectErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubVersionCheck(t, tt.available...)
			python, err := ResolvePython(tt.configured)
			if tt.expectErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "neither python3 nor python")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, python)
		})
	}
}

func TestPipInstallCommand_Args(t *testing.T) {
	cmd := NewPipInstallCommand().SetPython("python3")
	assert.Equal(t, []string{"-m", "pip", "install", "nltk"}, cmd.Args())
	assert.Equal(t, DefaultLibrary, cmd.Library())

	result := cmd.SetLibrary("")
	assert.Same(t, cmd, result, "SetLibrary should return same instance for chaining")
	assert.Equal(t, "nltk", cmd.Library(), "empty library should keep the default")

	cmd.SetLibrary("spacy")
	assert.Equal(t, []string{"-m", "pip", "install", "spacy"}, cmd.Args())
}

func TestCorpusDownloadCommand_Args(t *testing.T) {
	cmd := NewCorpusDownloadCommand().SetPython("python3")
	assert.Equal(t, []string{"-m", "nltk.downloader", "-d", "./src/db/nltk_data", "gutenberg"}, cmd.Args())

	cmd.SetDestination("/data/nltk").SetCorpora([]string{"punkt", "stopwords"})
	assert.Equal(t, []string{"-m", "nltk.downloader", "-d", "/data/nltk", "punkt", "stopwords"}, cmd.Args())

	cmd.SetCorpora(nil).SetDestination("")
	assert.Equal(t, "/data/nltk", cmd.Destination())
	assert.Equal(t, []string{"punkt", "stopwords"}, cmd.Corpora())
}

func TestPythonModuleCommand_GetCmd(t *testing.T) {
	pmc := newPythonModuleCommand(context.Background(), "python3", downloaderModule, "-d", DefaultDestination, DefaultCorpus)
	execCmd := pmc.GetCmd()
	require.NotNil(t, execCmd)
	assert.Equal(t, []string{"python3", "-m", "nltk.downloader", "-d", "./src/db/nltk_data", "gutenberg"}, execCmd.Args)
	assert.Empty(t, pmc.GetEnv())
	assert.Nil(t, pmc.GetStdWriter())
	assert.Nil(t, pmc.GetErrWriter())
}

func TestSetupCommand_Run(t *testing.T) {
	expectedInstall := []string{"python3", "-m", "pip", "install", "nltk"}
	expectedDownload := []string{"python3", "-m", "nltk.downloader", "-d", "./src/db/nltk_data", "gutenberg"}

	tests := []struct {
		name           string
		policy         FailurePolicy
		failModules    map[string]int
		expectErr      bool
		expectedIssued [][]string
		expectedFailed int
	}{
		{
			name:           "Both steps succeed",
			policy:         BestEffort,
			expectedIssued: [][]string{expectedInstall, expectedDownload},
		},
		{
			name:           "Install failure still attempts download",
			policy:         BestEffort,
			failModules:    map[string]int{pipModule: 1},
			expectedIssued: [][]string{expectedInstall, expectedDownload},
			expectedFailed: 1,
		},
		{
			name:           "Both failures are silent in best effort",
			policy:         BestEffort,
			failModules:    map[string]int{pipModule: 1, downloaderModule: 1},
			expectedIssued: [][]string{expectedInstall, expectedDownload},
			expectedFailed: 2,
		},
		{
			name:           "Strict aborts after install failure",
			policy:         Strict,
			failModules:    map[string]int{pipModule: 1},
			expectErr:      true,
			expectedIssued: [][]string{expectedInstall},
			expectedFailed: 1,
		},
		{
			name:           "Strict reports download failure",
			policy:         Strict,
			failModules:    map[string]int{downloaderModule: 1},
			expectErr:      true,
			expectedIssued: [][]string{expectedInstall, expectedDownload},
			expectedFailed: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := newRecordingRunner(tt.failModules)
			cmd := NewSetupCommand().SetPython("python3").SetPolicy(tt.policy).SetStepOptions(fastOptions(runner))

			err := cmd.Run()
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedIssued, runner.issued)

			result := cmd.Result()
			require.NotNil(t, result)
			assert.NotEmpty(t, result.RunId)
			assert.Equal(t, "python3", result.Python)
			assert.Len(t, result.Steps, len(tt.expectedIssued))
			assert.Len(t, result.Failed(), tt.expectedFailed)
			assert.Equal(t, InstallStep, result.Steps[0].Step)
		})
	}
}

func TestSetupCommand_RunTwice(t *testing.T) {
	runner := newRecordingRunner(nil)
	cmd := NewSetupCommand().SetPython("python3").SetStepOptions(fastOptions(runner))

	require.NoError(t, cmd.Run())
	firstRunId := cmd.Result().RunId
	require.NoError(t, cmd.Run())

	assert.Len(t, runner.issued, 4)
	assert.NotEqual(t, firstRunId, cmd.Result().RunId)
}

func TestSetupCommand_NoInterpreter(t *testing.T) {
	stubVersionCheck(t)

	runner := newRecordingRunner(nil)
	err := NewSetupCommand().SetStepOptions(fastOptions(runner)).Run()
	assert.NoError(t, err)
	require.Len(t, runner.issued, 2, "best effort should still issue both steps")
	assert.Equal(t, "python3", runner.issued[0][0])

	runner = newRecordingRunner(nil)
	err = NewSetupCommand().SetPolicy(Strict).SetStepOptions(fastOptions(runner)).Run()
	assert.Error(t, err)
	assert.Empty(t, runner.issued)
}

func TestRunStep_Retries(t *testing.T) {
	runner := newRecordingRunner(map[string]int{pipModule: 2})
	options := fastOptions(runner)
	options.Attempts = 3

	result := NewPipInstallCommand().SetPython("python3").SetStepOptions(options).Execute()
	assert.True(t, result.Succeeded())
	assert.Equal(t, 3, result.Attempts)
	assert.Len(t, runner.issued, 3)

	runner = newRecordingRunner(map[string]int{pipModule: 5})
	options = fastOptions(runner)
	options.Attempts = 2
	result = NewPipInstallCommand().SetPython("python3").SetStepOptions(options).Execute()
	assert.False(t, result.Succeeded())
	assert.Equal(t, 2, result.Attempts)
	assert.EqualError(t, result.Err, "install step failed: exit status 1")
}

func TestRunStep_Timeout(t *testing.T) {
	blocking := RunnerFunc(func(config gofrogcmd.CmdConfig) error {
		<-config.(*pythonModuleCommand).ctx.Done()
		return errors.New("signal: killed")
	})
	options := fastOptions(blocking)
	options.Timeout = 10 * time.Millisecond

	result := NewCorpusDownloadCommand().SetPython("python3").SetStepOptions(options).Execute()
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "timed out after 10ms")
}

func TestCorpusDownloadCommand_Lock(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nltk_data")
	runner := newRecordingRunner(nil)

	cmd := NewCorpusDownloadCommand().SetPython("python3").SetDestination(dest).SetLock(true).SetStepOptions(fastOptions(runner))
	require.NoError(t, cmd.Run())
	assert.DirExists(t, dest)
	assert.Len(t, runner.issued, 1)

	// A lock held elsewhere makes the step fail without issuing the downloader.
	held := flock.New(filepath.Join(dest, destinationLockFile))
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer func() { _ = held.Close() }()

	err = cmd.Run()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "is locked by another corpus download")
	assert.Len(t, runner.issued, 1)

	_, statErr := os.Stat(filepath.Join(dest, destinationLockFile))
	assert.NoError(t, statErr)
}
