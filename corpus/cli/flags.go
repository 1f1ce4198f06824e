package cli

import (
	"fmt"
	"strings"

	pluginsCommon "github.com/jfrog/jfrog-cli-core/v2/plugins/common"
	"github.com/jfrog/jfrog-cli-core/v2/plugins/components"

	"github.com/jfrog/jfrog-cli-corpus/corpus/summary"
)

const (
	// Corpus commands keys
	Setup    = "setup"
	Install  = "install"
	Download = "download"
)

const (
	python     = "python"
	library    = "library"
	corpus     = "corpus"
	dest       = "dest"
	strict     = "strict"
	attempts   = "attempts"
	retryDelay = "retry-delay"
	timeout    = "timeout"
	lock       = "lock"
	format     = "format"
)

var flagsMap = map[string]components.Flag{
	python:     components.NewStringFlag(python, "Python interpreter used for every step. Default: python3 or python found in PATH.", components.SetMandatoryFalse()),
	library:    components.NewStringFlag(library, "Library installed with pip. Default: nltk.", components.SetMandatoryFalse()),
	corpus:     components.NewStringFlag(corpus, "Comma separated corpus identifiers to download. Default: gutenberg.", components.SetMandatoryFalse()),
	dest:       components.NewStringFlag(dest, "Directory the corpora are downloaded into. Default: ./src/db/nltk_data.", components.SetMandatoryFalse()),
	strict:     components.NewBoolFlag(strict, "Stop at the first failed step and exit with an error instead of only reporting it.", components.WithBoolDefaultValueFalse()),
	attempts:   components.NewStringFlag(attempts, "Number of attempts per step. Default: 1.", components.SetMandatoryFalse()),
	retryDelay: components.NewStringFlag(retryDelay, "Delay between attempts of a step, for example 5s. Default: 2s.", components.SetMandatoryFalse()),
	timeout:    components.NewStringFlag(timeout, "Maximum duration of each subprocess, for example 10m. Default: no timeout.", components.SetMandatoryFalse()),
	lock:       components.NewBoolFlag(lock, "Hold an exclusive lock on the destination directory while downloading.", components.WithBoolDefaultValueFalse()),
	format:     components.NewStringFlag(format, fmt.Sprintf("Summary output format. Supported formats: %s. Default: console.", strings.Join(summary.SupportedFormats, ", ")), components.SetMandatoryFalse()),
}

var commandFlags = map[string][]string{
	Setup: {
		python,
		library,
		corpus,
		dest,
		strict,
		attempts,
		retryDelay,
		timeout,
		lock,
		format,
	},
	Install: {
		python,
		library,
		strict,
		attempts,
		retryDelay,
		timeout,
	},
	Download: {
		python,
		corpus,
		dest,
		strict,
		attempts,
		retryDelay,
		timeout,
		lock,
	},
}

func GetCommandFlags(cmdKey string) []components.Flag {
	return pluginsCommon.GetCommandFlags(cmdKey, commandFlags, flagsMap)
}
