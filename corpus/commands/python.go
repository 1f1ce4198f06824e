package commands

import (
	"context"
	"io"
	"os/exec"

	"github.com/jfrog/jfrog-client-go/utils/errorutils"
	"github.com/jfrog/jfrog-client-go/utils/log"
)

const (
	DefaultLibrary     = "nltk"
	DefaultCorpus      = "gutenberg"
	DefaultDestination = "./src/db/nltk_data"

	pipModule        = "pip"
	downloaderModule = "nltk.downloader"

	// FallbackPython is issued when no interpreter could be resolved and the run is best effort.
	FallbackPython = "python3"
)

// Interpreters probed, in order, when no interpreter was configured.
var pythonExecutables = []string{FallbackPython, "python"}

// versionCheck runs "<name> --version". It verifies the executable both exists and works,
// which also rejects pyenv style shims whose selected version is missing.
var versionCheck = func(name string) error {
	return exec.Command(name, "--version").Run()
}

// ResolvePython returns the interpreter used for every step of a run.
// A configured interpreter is returned as is; otherwise python3 and python are probed.
func ResolvePython(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	var probeErrs []any
	for _, name := range pythonExecutables {
		err := versionCheck(name)
		if err == nil {
			log.Debug("Using Python interpreter:", name)
			return name, nil
		}
		probeErrs = append(probeErrs, name, err)
	}
	return "", errorutils.CheckErrorf("neither python3 nor python executable found in PATH. %s error: %v, %s error: %v", probeErrs...)
}

// pythonModuleCommand runs "<python> -m <module> <args...>" and satisfies gofrog's io.CmdConfig.
type pythonModuleCommand struct {
	ctx    context.Context
	python string
	module string
	args   []string
}

func newPythonModuleCommand(ctx context.Context, python, module string, args ...string) *pythonModuleCommand {
	return &pythonModuleCommand{ctx: ctx, python: python, module: module, args: args}
}

func (pmc *pythonModuleCommand) Args() []string {
	return append([]string{"-m", pmc.module}, pmc.args...)
}

func (pmc *pythonModuleCommand) GetCmd() *exec.Cmd {
	return exec.CommandContext(pmc.ctx, pmc.python, pmc.Args()...)
}

func (pmc *pythonModuleCommand) GetEnv() map[string]string {
	return map[string]string{}
}

func (pmc *pythonModuleCommand) GetStdWriter() io.WriteCloser {
	return nil
}

func (pmc *pythonModuleCommand) GetErrWriter() io.WriteCloser {
	return nil
}
