package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dokufeed",
	Short: "Dokufeed - export wiki pages as a search vendor XML feed",
	Long: `Dokufeed walks a directory tree of wiki source pages and emits a
FINDOLOGIC-style XML feed for a search-indexing vendor.

It understands plain trees of text pages as well as DokuWiki installs,
where page metadata and access control configuration are picked up
automatically.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	cobra.OnInitialize(func() {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	})
}
