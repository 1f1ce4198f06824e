package setup

import (
	"github.com/jfrog/jfrog-cli-core/v2/plugins/components"
)

var Usage = []string{
	"corpus setup [command options]",
	"corpus s [command options]",
}

func GetDescription() string {
	return `Install the NLP library with the Python interpreter's pip, then download corpora with the library's downloader.

By default a failed step is reported and the next step still runs. Use --strict to stop at the first failure.

Examples:
  # Install nltk and download the gutenberg corpus into ./src/db/nltk_data
  jf corpus setup

  # Use a virtual environment and fail the run when a step fails
  jf corpus setup --python=.venv/bin/python --strict`
}

func GetArguments() []components.Argument {
	return []components.Argument{}
}
