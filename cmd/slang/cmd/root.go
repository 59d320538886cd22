package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set by build flags).
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "slang",
	Short: "Slang compiler and virtual machine",
	Long: `slang is a small statically typed scripting language: a
lexer, a recursive-descent parser, a semantic analyzer, a bytecode
code generator, and a stack-based virtual machine.`,
	Version: Version,
}

// Execute runs the root command and returns the sysexits.h code the
// process should exit with.
func Execute() int {
	err := rootCmd.Execute()
	return exitCode(err)
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func verbosef(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
