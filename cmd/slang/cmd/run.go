package cmd

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <bytecode>",
	Short: "Run a previously compiled Slang bytecode file",
	Long: `Load a bytecode file produced by "slang compile" and execute
it directly, skipping the lex/parse/analyze/codegen front end.

Example:
  slang run hello.slbc`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(_ *cobra.Command, args []string) error {
	filename := args[0]

	data, err := readBytecodeFile(filename)
	if err != nil {
		return err
	}

	chunk, registry, err := deserializeChunk(data)
	if err != nil {
		return err
	}

	verbosef("running %s (%d bytes of code, %d constant(s))\n", filename, len(chunk.Code), len(chunk.Constants))
	return runChunk(chunk, registry)
}
