package command

import (
	"github.com/spf13/cobra"

	"github.com/lijunde/rose/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the version",
	Run:   printVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func printVersion(_ *cobra.Command, _ []string) {
	stdout.Printf("version: %s\n", version.CurSemVer.String())
}
