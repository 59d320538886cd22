package cmd

import (
	"github.com/spf13/cobra"
)

var executeCmd = &cobra.Command{
	Use:   "execute <src>",
	Short: "Compile and run a Slang source file in one step",
	Long: `Lex, parse, analyze, compile, and run a Slang source file
without writing a bytecode file to disk.

Example:
  slang execute hello.slang`,
	Args: cobra.ExactArgs(1),
	RunE: runExecute,
}

func init() {
	rootCmd.AddCommand(executeCmd)
}

func runExecute(_ *cobra.Command, args []string) error {
	filename := args[0]

	source, err := readSource(filename)
	if err != nil {
		return err
	}

	verbosef("compiling %s...\n", filename)
	chunk, registry, err := compileChunk(source, filename)
	if err != nil {
		return err
	}

	verbosef("running %s (%d bytes of code, %d constant(s))\n", filename, len(chunk.Code), len(chunk.Constants))
	return runChunk(chunk, registry)
}
