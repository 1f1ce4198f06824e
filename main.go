package main

import (
	"os"

	"github.com/jfrog/jfrog-cli-core/v2/plugins"
	clientlog "github.com/jfrog/jfrog-client-go/utils/log"

	"github.com/jfrog/jfrog-cli-corpus/cli"
)

func main() {
	// Without a command the binary provisions with defaults, like the setup script it replaces.
	if len(os.Args) < 2 {
		clientlog.SetLogger(clientlog.NewLogger(clientlog.INFO, nil))
		if err := cli.RunDefault(); err != nil {
			clientlog.Error(err.Error())
			os.Exit(1)
		}
		return
	}
	plugins.PluginMain(cli.GetJfrogCliCorpusApp())
}
