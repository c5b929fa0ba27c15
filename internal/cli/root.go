package cli

import "github.com/spf13/cobra"

// NewRootCmd builds the docsearch command tree.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docsearch",
		Short: "Index and search a docs site",
		Long: `docsearch rebuilds the search index of a docs site from its markdown
sources and queries it from the command line.

Running docsearch without a command runs index.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(IndexCmd())
	rootCmd.AddCommand(SearchCmd())

	return rootCmd
}

// DefaultArgs returns args with the index command filled in when no command
// was given.
func DefaultArgs(args []string) []string {
	if len(args) == 0 {
		return []string{"index"}
	}
	return args
}
