package command

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lijunde/rose/internal/command/term"
	"github.com/lijunde/rose/internal/compress"
	"github.com/lijunde/rose/pkg/arch"
	"github.com/lijunde/rose/pkg/prune"
	"github.com/lijunde/rose/pkg/storage/sqlite"
)

var archLongHelp = fmt.Sprintf(`
Archive the files a suite task produced.

The application reads its target definitions from the application
configuration, archives the targets whose sources changed since the last
run and records the new state in the %s cache in the working directory.
The suite the targets belong to is selected by the %s environment
variable, without it the command does nothing.

Exit Codes:
  0      - all targets are unchanged, archived or empty
  1      - fatal error, or one target failed
  2 - %d - number of failed targets
`,
	term.Highlight(sqlite.DBFileName),
	term.Highlight(arch.EnvSuiteName),
	exitCodeMaxBadTargets,
)

type archCmd struct {
	cobra.Command

	appConfig string
}

func init() {
	rootCmd.AddCommand(&newArchCmd().Command)
}

func newArchCmd() *archCmd {
	cmd := archCmd{
		Command: cobra.Command{
			Use:   "arch",
			Short: "archive the files a suite task produced",
			Long:  strings.TrimSpace(archLongHelp),
			Args:  cobra.NoArgs,
		},
	}

	cmd.Flags().StringVar(&cmd.appConfig, "app-config", appConfigFileName,
		"application configuration file")

	cmd.Run = cmd.run

	return &cmd
}

func (c *archCmd) run(_ *cobra.Command, _ []string) {
	config := mustReadAppConfig(c.appConfig)

	// The cache lives in the working directory of the task, not in the
	// suite directory the application changes into. Resolve it before the
	// run starts.
	dbPath, err := filepath.Abs(sqlite.DBFileName)
	exitOnErr(err)

	store, err := sqlite.New(ctx, dbPath)
	exitOnErrf(err, "opening the target cache %s failed", dbPath)

	app := arch.App{
		Config:      config,
		Store:       store,
		Compressors: compress.NewManager(),
		Reporter:    termReporter{},
		SuiteDir:    prune.SuiteHome{}.SuiteDir,
	}

	badCount, err := app.Run(ctx)

	if closeErr := store.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	exitOnErr(err)

	if badCount == 0 {
		return
	}

	if badCount > exitCodeMaxBadTargets {
		badCount = exitCodeMaxBadTargets
	}

	exitFunc(badCount)
}
