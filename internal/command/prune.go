package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lijunde/rose/internal/command/term"
	"github.com/lijunde/rose/pkg/prune"
)

var pruneLongHelp = fmt.Sprintf(`
Delete the files completed cycles of a suite left behind.

The configured cycles expand to the job logs and the work and share
directories of the cycle, additional glob patterns can be configured
directly. Configured remote hosts are housekept via ssh before the
local suite directory. The suite is selected by the %s environment
variable, without it the command does nothing.
`,
	term.Highlight(prune.EnvSuiteName),
)

type pruneCmd struct {
	cobra.Command

	appConfig string
}

func init() {
	rootCmd.AddCommand(&newPruneCmd().Command)
}

func newPruneCmd() *pruneCmd {
	cmd := pruneCmd{
		Command: cobra.Command{
			Use:   "prune",
			Short: "delete the files completed cycles of a suite left behind",
			Long:  strings.TrimSpace(pruneLongHelp),
			Args:  cobra.NoArgs,
		},
	}

	cmd.Flags().StringVar(&cmd.appConfig, "app-config", appConfigFileName,
		"application configuration file")

	cmd.Run = cmd.run

	return &cmd
}

func (c *pruneCmd) run(_ *cobra.Command, _ []string) {
	app := prune.App{
		Config:   mustReadAppConfig(c.appConfig),
		Engine:   prune.SuiteHome{},
		Reporter: termReporter{},
	}

	exitOnErr(app.Run())
}
