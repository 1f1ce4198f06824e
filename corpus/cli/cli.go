package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jfrog/jfrog-cli-core/v2/plugins/components"
	"github.com/jfrog/jfrog-client-go/utils/errorutils"
	"github.com/jfrog/jfrog-client-go/utils/log"
	"github.com/pkg/errors"

	"github.com/jfrog/jfrog-cli-corpus/commonutils"
	"github.com/jfrog/jfrog-cli-corpus/corpus/commands"
	"github.com/jfrog/jfrog-cli-corpus/corpus/config"
	"github.com/jfrog/jfrog-cli-corpus/corpus/docs/download"
	"github.com/jfrog/jfrog-cli-corpus/corpus/docs/install"
	"github.com/jfrog/jfrog-cli-corpus/corpus/docs/setup"
	"github.com/jfrog/jfrog-cli-corpus/corpus/summary"
)

const corpusCategory = "Corpus Provisioning"

// stepRunner executes every subprocess issued by the corpus commands.
var stepRunner = commands.DefaultRunner

func GetCommands() []components.Command {
	return []components.Command{
		{
			Name:        Setup,
			Description: setup.GetDescription(),
			Arguments:   setup.GetArguments(),
			Flags:       GetCommandFlags(Setup),
			Action:      SetupCmd,
			Aliases:     []string{"s"},
			Category:    corpusCategory,
		},
		{
			Name:        Install,
			Description: install.GetDescription(),
			Arguments:   install.GetArguments(),
			Flags:       GetCommandFlags(Install),
			Action:      installCmd,
			Category:    corpusCategory,
		},
		{
			Name:        Download,
			Description: download.GetDescription(),
			Arguments:   download.GetArguments(),
			Flags:       GetCommandFlags(Download),
			Action:      downloadCmd,
			Aliases:     []string{"dl"},
			Category:    corpusCategory,
		},
	}
}

// SetupCmd installs the library and downloads the corpora. A nil context runs with
// configuration and defaults only, which is what a bare invocation of the binary does.
func SetupCmd(c *components.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	outputFormat := getStringFlag(c, format, summary.FormatConsole)
	if !summary.IsSupportedFormat(outputFormat) {
		return errorutils.CheckErrorf("unsupported format '%s'. Supported formats are: %v", outputFormat, summary.SupportedFormats)
	}

	setupCmd := commands.NewSetupCommand().
		SetPython(cfg.Python).
		SetPolicy(policy(cfg)).
		SetLibrary(cfg.Library).
		SetCorpora(cfg.Corpora).
		SetDestination(cfg.Destination).
		SetLock(cfg.Lock).
		SetStepOptions(stepOptions(cfg))
	runErr := setupCmd.Run()
	if result := setupCmd.Result(); result != nil {
		if err = summary.NewSetupResultsWriter(result, outputFormat).Print(); err != nil {
			log.Warn("Failed to print corpus setup summary: " + err.Error())
		}
	}
	return errors.WithStack(runErr)
}

func installCmd(c *components.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	python, err := resolvePython(cfg)
	if err != nil {
		return err
	}
	result := commands.NewPipInstallCommand().
		SetPython(python).
		SetLibrary(cfg.Library).
		SetStepOptions(stepOptions(cfg)).
		Execute()
	return applyPolicy(cfg, result)
}

func downloadCmd(c *components.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c != nil && c.GetNumberOfArgs() > 0 {
		cfg.Corpora = c.Arguments
	}
	python, err := resolvePython(cfg)
	if err != nil {
		return err
	}
	result := commands.NewCorpusDownloadCommand().
		SetPython(python).
		SetDestination(cfg.Destination).
		SetCorpora(cfg.Corpora).
		SetLock(cfg.Lock).
		SetStepOptions(stepOptions(cfg)).
		Execute()
	return applyPolicy(cfg, result)
}

// loadConfig reads the corpus config and applies the flags set on the command line over it.
func loadConfig(c *components.Context) (*config.CorpusConfig, error) {
	cfg, err := config.LoadCorpusConfig()
	if err != nil {
		return nil, err
	}
	if c == nil {
		return cfg, nil
	}
	if c.IsFlagSet(python) {
		cfg.Python = c.GetStringFlagValue(python)
	}
	if c.IsFlagSet(library) {
		cfg.Library = c.GetStringFlagValue(library)
	}
	if c.IsFlagSet(corpus) {
		cfg.Corpora = commonutils.SplitCommaList(c.GetStringFlagValue(corpus))
	}
	if c.IsFlagSet(dest) {
		cfg.Destination = c.GetStringFlagValue(dest)
	}
	if c.IsFlagSet(strict) {
		cfg.Strict = c.GetBoolFlagValue(strict)
	}
	if c.IsFlagSet(lock) {
		cfg.Lock = c.GetBoolFlagValue(lock)
	}
	if c.IsFlagSet(attempts) {
		value := c.GetStringFlagValue(attempts)
		if !commonutils.IsFlagPositiveNumber(value) {
			return nil, errorutils.CheckErrorf("the --%s option must have a positive integer value, got '%s'", attempts, value)
		}
		cfg.Attempts, _ = strconv.Atoi(value)
	}
	if cfg.RetryDelay, err = getDurationFlag(c, retryDelay, cfg.RetryDelay); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = getDurationFlag(c, timeout, cfg.Timeout); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getStringFlag(c *components.Context, flag, defaultValue string) string {
	if c == nil || !c.IsFlagSet(flag) {
		return defaultValue
	}
	return c.GetStringFlagValue(flag)
}

func getDurationFlag(c *components.Context, flag string, current time.Duration) (time.Duration, error) {
	if !c.IsFlagSet(flag) {
		return current, nil
	}
	value, err := time.ParseDuration(c.GetStringFlagValue(flag))
	if err != nil || value < 0 {
		return 0, errorutils.CheckErrorf("the --%s option must be a non negative duration such as 30s or 5m, got '%s'", flag, c.GetStringFlagValue(flag))
	}
	return value, nil
}

func policy(cfg *config.CorpusConfig) commands.FailurePolicy {
	if cfg.Strict {
		return commands.Strict
	}
	return commands.BestEffort
}

func stepOptions(cfg *config.CorpusConfig) commands.StepOptions {
	return commands.StepOptions{
		Runner:     stepRunner,
		Attempts:   cfg.Attempts,
		RetryDelay: cfg.RetryDelay,
		Timeout:    cfg.Timeout,
	}
}

// resolvePython mirrors the setup command: without an interpreter, best effort still issues the step.
func resolvePython(cfg *config.CorpusConfig) (string, error) {
	python, err := commands.ResolvePython(cfg.Python)
	if err == nil {
		return python, nil
	}
	if cfg.Strict {
		return "", err
	}
	log.Warn(err.Error())
	return commands.FallbackPython, nil
}

func applyPolicy(cfg *config.CorpusConfig, result *commands.StepResult) error {
	if result.Succeeded() {
		log.Info(fmt.Sprintf("%s step completed", result.Step))
		return nil
	}
	if cfg.Strict {
		return errors.WithStack(result.Err)
	}
	log.Warn(result.Err.Error())
	return nil
}
