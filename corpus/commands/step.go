package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	gofrogcmd "github.com/jfrog/gofrog/io"
	"github.com/jfrog/jfrog-client-go/utils/log"
	"github.com/juju/clock"
	"github.com/juju/retry"
	"github.com/pkg/errors"
)

const DefaultRetryDelay = 2 * time.Second

type StepName string

const (
	InstallStep  StepName = "install"
	DownloadStep StepName = "download"
)

// Runner executes a prepared subprocess.
type Runner interface {
	Run(config gofrogcmd.CmdConfig) error
}

type RunnerFunc func(config gofrogcmd.CmdConfig) error

func (f RunnerFunc) Run(config gofrogcmd.CmdConfig) error {
	return f(config)
}

// DefaultRunner streams the subprocess output to the terminal and waits for it to exit.
var DefaultRunner Runner = RunnerFunc(gofrogcmd.RunCmd)

// StepOptions controls how a single step's subprocess is executed.
// The zero value runs the subprocess once, with no timeout.
type StepOptions struct {
	Runner     Runner
	Attempts   int
	RetryDelay time.Duration
	// Zero means wait for the subprocess indefinitely.
	Timeout time.Duration
	Clock   clock.Clock
}

func (so StepOptions) normalized() StepOptions {
	if so.Runner == nil {
		so.Runner = DefaultRunner
	}
	if so.Attempts < 1 {
		so.Attempts = 1
	}
	if so.RetryDelay <= 0 {
		so.RetryDelay = DefaultRetryDelay
	}
	if so.Clock == nil {
		so.Clock = clock.WallClock
	}
	return so
}

// StepResult records the outcome of one step. Err is nil when the step succeeded.
type StepResult struct {
	Step     StepName      `json:"step"`
	Command  []string      `json:"command"`
	Attempts int           `json:"attempts"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

func (sr *StepResult) Succeeded() bool {
	return sr.Err == nil
}

func (sr *StepResult) CommandLine() string {
	return strings.Join(sr.Command, " ")
}

// runStep executes the command produced by build, retrying failed attempts as configured.
// build is called once per attempt so every attempt gets a fresh exec.Cmd and deadline.
func runStep(step StepName, python string, options StepOptions, build func(ctx context.Context) *pythonModuleCommand) *StepResult {
	options = options.normalized()
	preview := build(context.Background())
	result := &StepResult{
		Step:    step,
		Command: append([]string{python}, preview.Args()...),
	}
	log.Info(fmt.Sprintf("Running %s step: %s", step, result.CommandLine()))

	start := options.Clock.Now()
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			result.Attempts++
			return runAttempt(step, options, build)
		},
		Attempts: options.Attempts,
		Delay:    options.RetryDelay,
		Clock:    options.Clock,
		NotifyFunc: func(err error, attempt int) {
			if attempt < options.Attempts {
				log.Warn(fmt.Sprintf("%s step attempt %d of %d failed: %s", step, attempt, options.Attempts, err.Error()))
			}
		},
	})
	if retry.IsAttemptsExceeded(err) {
		err = retry.LastError(err)
	}
	result.Duration = options.Clock.Now().Sub(start)
	if err != nil {
		result.Err = errors.Wrapf(err, "%s step failed", step)
	}
	return result
}

func runAttempt(step StepName, options StepOptions, build func(ctx context.Context) *pythonModuleCommand) error {
	ctx := context.Background()
	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}
	err := options.Runner.Run(build(ctx))
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.Wrapf(err, "%s step timed out after %s", step, options.Timeout)
	}
	return err
}
