// Command exemplar merges sample documents into one representative example
// value and reports fields whose samples disagree on type.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// SQL drivers for --driver
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

var (
	// Version information, set at build time
	Version   = "dev"
	GitCommit = "unknown"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "exemplar",
		Short: "Infer example values from sample documents",
		Long: `exemplar reads sample documents (JSON, NDJSON, YAML, XML, HTML, CSV, form
data or SQL rows) and merges them into a single example value with every
field observed in any sample. Fields whose samples disagree on type are left
out and reported as conflicts.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInferCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
