package commands

import (
	"context"
	"path/filepath"

	"github.com/jfrog/jfrog-client-go/utils/errorutils"
	"github.com/jfrog/jfrog-client-go/utils/io/fileutils"
	"github.com/jfrog/jfrog-client-go/utils/log"
	"github.com/pkg/errors"
	"github.com/tharvik/flock"
)

const destinationLockFile = ".corpus.lock"

// CorpusDownloadCommand fetches corpora with the library's bundled downloader:
// "<python> -m nltk.downloader -d <destination> <corpus...>".
type CorpusDownloadCommand struct {
	python      string
	destination string
	corpora     []string
	lock        bool
	options     StepOptions
}

func NewCorpusDownloadCommand() *CorpusDownloadCommand {
	return &CorpusDownloadCommand{
		destination: DefaultDestination,
		corpora:     []string{DefaultCorpus},
	}
}

func (cdc *CorpusDownloadCommand) SetPython(python string) *CorpusDownloadCommand {
	cdc.python = python
	return cdc
}

func (cdc *CorpusDownloadCommand) SetDestination(destination string) *CorpusDownloadCommand {
	if destination != "" {
		cdc.destination = destination
	}
	return cdc
}

func (cdc *CorpusDownloadCommand) SetCorpora(corpora []string) *CorpusDownloadCommand {
	if len(corpora) > 0 {
		cdc.corpora = corpora
	}
	return cdc
}

// SetLock makes the download hold an exclusive lock on the destination directory.
func (cdc *CorpusDownloadCommand) SetLock(lock bool) *CorpusDownloadCommand {
	cdc.lock = lock
	return cdc
}

func (cdc *CorpusDownloadCommand) SetStepOptions(options StepOptions) *CorpusDownloadCommand {
	cdc.options = options
	return cdc
}

func (cdc *CorpusDownloadCommand) Destination() string {
	return cdc.destination
}

func (cdc *CorpusDownloadCommand) Corpora() []string {
	return cdc.corpora
}

func (cdc *CorpusDownloadCommand) CommandName() string {
	return "corpus_download"
}

func (cdc *CorpusDownloadCommand) Args() []string {
	return cdc.cmdConfig(context.Background()).Args()
}

func (cdc *CorpusDownloadCommand) Execute() *StepResult {
	if !cdc.lock {
		return runStep(DownloadStep, cdc.python, cdc.options, cdc.cmdConfig)
	}
	unlock, err := cdc.lockDestination()
	if err != nil {
		return &StepResult{
			Step:    DownloadStep,
			Command: append([]string{cdc.python}, cdc.Args()...),
			Err:     errors.Wrapf(err, "%s step failed", DownloadStep),
		}
	}
	defer unlock()
	return runStep(DownloadStep, cdc.python, cdc.options, cdc.cmdConfig)
}

func (cdc *CorpusDownloadCommand) Run() error {
	return cdc.Execute().Err
}

func (cdc *CorpusDownloadCommand) cmdConfig(ctx context.Context) *pythonModuleCommand {
	args := append([]string{"-d", cdc.destination}, cdc.corpora...)
	return newPythonModuleCommand(ctx, cdc.python, downloaderModule, args...)
}

func (cdc *CorpusDownloadCommand) lockDestination() (func(), error) {
	if err := fileutils.CreateDirIfNotExist(cdc.destination); err != nil {
		return nil, err
	}
	lockPath := filepath.Join(cdc.destination, destinationLockFile)
	fileLock := flock.New(lockPath)
	locked, err := fileLock.TryLock()
	if err != nil {
		_ = fileLock.Close()
		return nil, errorutils.CheckError(err)
	}
	if !locked {
		_ = fileLock.Close()
		return nil, errorutils.CheckErrorf("destination %s is locked by another corpus download", cdc.destination)
	}
	log.Debug("Acquired lock", lockPath)
	return func() {
		if err := fileLock.Close(); err != nil {
			log.Warn("Failed to release lock " + lockPath + ": " + err.Error())
		}
	}, nil
}
