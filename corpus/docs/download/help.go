package download

import (
	"github.com/jfrog/jfrog-cli-core/v2/plugins/components"
)

var Usage = []string{
	"corpus download [command options] [CORPUS...]",
	"corpus dl [command options] [CORPUS...]",
}

func GetDescription() string {
	return `Download corpora with the library's downloader into the destination directory.

Examples:
  # Download the default corpus
  jf corpus download

  # Download two corpora into a custom directory
  jf corpus dl --dest=/var/lib/nltk_data punkt stopwords`
}

func GetArguments() []components.Argument {
	return []components.Argument{
		{
			Name:        "CORPUS",
			Optional:    true,
			Description: "Corpus identifiers to download. Overrides --corpus when given.",
		},
	}
}
