package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jfrog/jfrog-client-go/utils/log"
	"github.com/juju/clock"
)

type FailurePolicy string

const (
	// BestEffort logs a failed step and carries on; the run itself never fails.
	BestEffort FailurePolicy = "best-effort"
	// Strict aborts on the first failed step and returns its error.
	Strict FailurePolicy = "strict"
)

// SetupResult is the outcome of a setup run, one entry per step that was issued, in order.
type SetupResult struct {
	RunId    string        `json:"runId"`
	Python   string        `json:"python"`
	Policy   FailurePolicy `json:"policy"`
	Steps    []*StepResult `json:"steps"`
	Duration time.Duration `json:"duration"`
}

func (sr *SetupResult) Failed() []*StepResult {
	var failed []*StepResult
	for _, step := range sr.Steps {
		if !step.Succeeded() {
			failed = append(failed, step)
		}
	}
	return failed
}

// SetupCommand provisions the NLP library and its corpus: install, then download.
type SetupCommand struct {
	python   string
	policy   FailurePolicy
	install  *PipInstallCommand
	download *CorpusDownloadCommand
	options  StepOptions
	result   *SetupResult
}

func NewSetupCommand() *SetupCommand {
	return &SetupCommand{
		policy:   BestEffort,
		install:  NewPipInstallCommand(),
		download: NewCorpusDownloadCommand(),
	}
}

// SetPython sets the interpreter. When empty, one is detected on PATH at run time.
func (sc *SetupCommand) SetPython(python string) *SetupCommand {
	sc.python = python
	return sc
}

func (sc *SetupCommand) SetPolicy(policy FailurePolicy) *SetupCommand {
	if policy != "" {
		sc.policy = policy
	}
	return sc
}

func (sc *SetupCommand) SetLibrary(library string) *SetupCommand {
	sc.install.SetLibrary(library)
	return sc
}

func (sc *SetupCommand) SetDestination(destination string) *SetupCommand {
	sc.download.SetDestination(destination)
	return sc
}

func (sc *SetupCommand) SetCorpora(corpora []string) *SetupCommand {
	sc.download.SetCorpora(corpora)
	return sc
}

func (sc *SetupCommand) SetLock(lock bool) *SetupCommand {
	sc.download.SetLock(lock)
	return sc
}

func (sc *SetupCommand) SetStepOptions(options StepOptions) *SetupCommand {
	sc.options = options
	return sc
}

func (sc *SetupCommand) CommandName() string {
	return "corpus_setup"
}

func (sc *SetupCommand) Result() *SetupResult {
	return sc.result
}

func (sc *SetupCommand) Run() error {
	sc.result = &SetupResult{RunId: uuid.NewString(), Policy: sc.policy}
	clk := sc.options.Clock
	if clk == nil {
		clk = clock.WallClock
	}
	start := clk.Now()
	defer func() {
		sc.result.Duration = clk.Now().Sub(start)
	}()
	log.Info(fmt.Sprintf("Starting corpus setup (run %s, policy %s)", sc.result.RunId, sc.policy))

	python, err := ResolvePython(sc.python)
	if err != nil {
		if sc.policy == Strict {
			return err
		}
		// Issue both steps anyway so the failure surfaces from the OS, like a missing package manager would.
		log.Warn(err.Error())
		python = FallbackPython
	}
	sc.result.Python = python

	installResult := sc.install.SetPython(python).SetStepOptions(sc.options).Execute()
	if err = sc.record(installResult); err != nil {
		return err
	}
	downloadResult := sc.download.SetPython(python).SetStepOptions(sc.options).Execute()
	return sc.record(downloadResult)
}

// record stores a step result and applies the failure policy to it.
func (sc *SetupCommand) record(result *StepResult) error {
	sc.result.Steps = append(sc.result.Steps, result)
	if result.Succeeded() {
		log.Info(fmt.Sprintf("%s step completed", result.Step))
		return nil
	}
	if sc.policy == Strict {
		return result.Err
	}
	log.Warn(fmt.Sprintf("%s. Continuing, since the %s failure policy is in effect.", result.Err.Error(), BestEffort))
	return nil
}
