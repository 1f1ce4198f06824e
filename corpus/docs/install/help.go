package install

import (
	"github.com/jfrog/jfrog-cli-core/v2/plugins/components"
)

var Usage = []string{
	"corpus install [command options]",
}

func GetDescription() string {
	return `Install the NLP library through "<python> -m pip install".`
}

func GetArguments() []components.Argument {
	return []components.Argument{}
}
