package cli

import (
	"github.com/jfrog/jfrog-cli-core/v2/plugins/components"
	corpusCLI "github.com/jfrog/jfrog-cli-corpus/corpus/cli"
)

const (
	appName        = "corpus"
	appVersion     = "v1.0.0"
	appDescription = "Provision the NLP library and the text corpora the application reads."
)

func GetJfrogCliCorpusApp() components.App {
	app := components.CreateApp(
		appName,
		appVersion,
		appDescription,
		corpusCLI.GetCommands(),
	)
	return app
}

// RunDefault runs the setup command with configuration and defaults only.
// It backs an invocation of the binary without any command.
func RunDefault() error {
	return corpusCLI.SetupCmd(nil)
}
