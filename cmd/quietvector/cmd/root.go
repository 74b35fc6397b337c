package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quietvector",
	Short: "QuietVector is an admin API for Qdrant",
	Long: `An authenticated administration API in front of a Qdrant vector database:
collections, vectors, snapshots and asynchronous snapshot restores.

The server is configured through environment variables; see "quietvector serve --help".`,
	SilenceUsage: true,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
