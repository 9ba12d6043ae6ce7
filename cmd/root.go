package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/sidkik/dirbackup/cmd/run"
	"github.com/sidkik/dirbackup/cmd/util"
	"github.com/sidkik/dirbackup/pkg/version"
)

// verboseLogKey is the environment variable used to enable verbose logging.
// When it's set to `true`, Debug events are logged, rather than just Info and
// above.
const verboseLogKey = "DIRBACKUP_LOG_VERBOSE"

// Execute runs the main CLI process.
func Execute() {
	if os.Getenv(verboseLogKey) == "true" {
		log.SetLevel(log.DebugLevel)
	}

	rootCmd := run.New()
	rootCmd.Version = version.Version
	rootCmd.SilenceUsage = true

	// HandleFatalError prints the error, so we silence cobra's copy to
	// avoid double printing.
	rootCmd.SilenceErrors = true

	if err := rootCmd.Execute(); err != nil {
		util.HandleFatalError(err)
	}
}
