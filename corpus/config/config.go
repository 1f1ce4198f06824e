package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/jfrog/jfrog-cli-core/v2/utils/coreutils"
	"github.com/jfrog/jfrog-cli-corpus/commonutils"
	"github.com/jfrog/jfrog-client-go/utils/errorutils"
	"github.com/jfrog/jfrog-client-go/utils/io/fileutils"
	"github.com/jfrog/jfrog-client-go/utils/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	jfrogDir       = ".jfrog"
	corpusDir      = "corpus"
	corpusFileYml  = "corpus.yml"
	corpusFileYaml = "corpus.yaml"
	dotEnvFile     = ".env"

	keyPython      = "python"
	keyLibrary     = "library"
	keyCorpora     = "corpora"
	keyDestination = "destination"
	keyStrict      = "strict"
	keyAttempts    = "attempts"
	keyRetryDelay  = "retryDelay"
	keyTimeout     = "timeout"
	keyLock        = "lock"

	envPython      = "NLTK_PYTHON"
	envLibrary     = "NLTK_LIBRARY"
	envCorpora     = "NLTK_CORPORA"
	envDestination = "NLTK_DATA_DIR"
	envStrict      = "NLTK_STRICT"
	envAttempts    = "NLTK_ATTEMPTS"
	envRetryDelay  = "NLTK_RETRY_DELAY"
	envTimeout     = "NLTK_TIMEOUT"
	envLock        = "NLTK_LOCK"

	defaultLibrary     = "nltk"
	defaultCorpus      = "gutenberg"
	defaultDestination = "./src/db/nltk_data"
	defaultRetryDelay  = 2 * time.Second
)

// CorpusConfig holds the provisioning settings. Command line flags override every field.
type CorpusConfig struct {
	Python      string        `mapstructure:"python"`
	Library     string        `mapstructure:"library"`
	Corpora     []string      `mapstructure:"corpora"`
	Destination string        `mapstructure:"destination"`
	Strict      bool          `mapstructure:"strict"`
	Attempts    int           `mapstructure:"attempts"`
	RetryDelay  time.Duration `mapstructure:"retryDelay"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Lock        bool          `mapstructure:"lock"`
	// Path of the config file that was read, empty when only env and defaults applied.
	Source string `mapstructure:"-"`
}

// LoadCorpusConfig loads .env from the working directory, then looks for corpus.yml in
// an upstream .jfrog directory, then in the JFrog home directory. Environment variables
// override file values and defaults fill in the rest.
func LoadCorpusConfig() (*CorpusConfig, error) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("Failed to load " + dotEnvFile + ": " + err.Error())
	}

	for _, path := range candidatePaths() {
		exists, err := fileutils.IsFileExists(path, false)
		if err != nil || !exists {
			continue
		}
		return readConfigWithEnv(path)
	}
	return readConfigWithEnv("")
}

func candidatePaths() []string {
	var paths []string
	if root, exists, _ := fileutils.FindUpstream(jfrogDir, fileutils.Dir); exists {
		paths = append(paths,
			filepath.Join(root, jfrogDir, corpusDir, corpusFileYml),
			filepath.Join(root, jfrogDir, corpusDir, corpusFileYaml))
	}
	if home, err := coreutils.GetJfrogHomeDir(); err == nil && home != "" {
		paths = append(paths,
			filepath.Join(home, corpusDir, corpusFileYml),
			filepath.Join(home, corpusDir, corpusFileYaml))
	}
	return paths
}

func readConfigWithEnv(path string) (*CorpusConfig, error) {
	v := viper.New()

	v.SetDefault(keyLibrary, defaultLibrary)
	v.SetDefault(keyCorpora, []string{defaultCorpus})
	v.SetDefault(keyDestination, defaultDestination)
	v.SetDefault(keyAttempts, 1)
	v.SetDefault(keyRetryDelay, defaultRetryDelay)

	_ = v.BindEnv(keyPython, envPython)
	_ = v.BindEnv(keyLibrary, envLibrary)
	_ = v.BindEnv(keyCorpora, envCorpora)
	_ = v.BindEnv(keyDestination, envDestination)
	_ = v.BindEnv(keyStrict, envStrict)
	_ = v.BindEnv(keyAttempts, envAttempts)
	_ = v.BindEnv(keyRetryDelay, envRetryDelay)
	_ = v.BindEnv(keyTimeout, envTimeout)
	_ = v.BindEnv(keyLock, envLock)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errorutils.CheckErrorf("failed to read corpus config %s: %s", path, err.Error())
		}
		log.Debug("Loaded corpus config from", path)
	}

	cfg := new(CorpusConfig)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errorutils.CheckError(err)
	}
	// The default slice hook splits on commas without trimming, so "punkt, stopwords" keeps the space.
	cfg.Corpora = commonutils.SplitCommaList(strings.Join(cfg.Corpora, ","))
	cfg.Source = path
	return cfg, nil
}
