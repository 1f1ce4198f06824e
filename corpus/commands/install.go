package commands

import (
	"context"
)

// PipInstallCommand installs a library through "<python> -m pip install", so the
// library lands in the environment of the interpreter that later runs the downloader.
type PipInstallCommand struct {
	python  string
	library string
	options StepOptions
}

func NewPipInstallCommand() *PipInstallCommand {
	return &PipInstallCommand{library: DefaultLibrary}
}

func (pic *PipInstallCommand) SetPython(python string) *PipInstallCommand {
	pic.python = python
	return pic
}

func (pic *PipInstallCommand) SetLibrary(library string) *PipInstallCommand {
	if library != "" {
		pic.library = library
	}
	return pic
}

func (pic *PipInstallCommand) SetStepOptions(options StepOptions) *PipInstallCommand {
	pic.options = options
	return pic
}

func (pic *PipInstallCommand) Library() string {
	return pic.library
}

func (pic *PipInstallCommand) CommandName() string {
	return "corpus_install"
}

// Args returns the interpreter arguments, without the interpreter itself.
func (pic *PipInstallCommand) Args() []string {
	return pic.cmdConfig(context.Background()).Args()
}

// Execute runs the install step and reports its outcome without interpreting it.
func (pic *PipInstallCommand) Execute() *StepResult {
	return runStep(InstallStep, pic.python, pic.options, pic.cmdConfig)
}

func (pic *PipInstallCommand) Run() error {
	return pic.Execute().Err
}

func (pic *PipInstallCommand) cmdConfig(ctx context.Context) *pythonModuleCommand {
	return newPythonModuleCommand(ctx, pic.python, pipModule, "install", pic.library)
}
