package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/slanglang/slang/internal/bytecode"
	"github.com/spf13/cobra"
)

var (
	outputFile  string
	disassemble bool
)

var compileCmd = &cobra.Command{
	Use:   "compile <src> [-o out]",
	Short: "Compile a Slang source file to a bytecode file",
	Long: `Lex, parse, analyze, and compile a Slang source file, writing
the resulting bytecode to disk (spec.md §6's wire format) instead of
running it.

Examples:
  slang compile hello.slang
  slang compile hello.slang -o hello.slbc
  slang compile hello.slang --disassemble`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: <input> with a .slbc extension)")
	compileCmd.Flags().BoolVar(&disassemble, "disassemble", false, "print the disassembled bytecode to stderr after compiling")
}

func runCompile(_ *cobra.Command, args []string) error {
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

	if disassemble {
		fmt.Fprintf(os.Stderr, "\n== Disassembled Bytecode (%s) ==\n", chunk.Name)
		bytecode.NewDisassembler(chunk, os.Stderr, registry).Disassemble()
	}

	data, err := serializeChunk(chunk, registry)
	if err != nil {
		return softwareError(err)
	}

	outFile := outputFile
	if outFile == "" {
		ext := filepath.Ext(filename)
		if ext != "" {
			outFile = strings.TrimSuffix(filename, ext) + ".slbc"
		} else {
			outFile = filename + ".slbc"
		}
	}

	if err := os.WriteFile(outFile, data, 0o644); err != nil {
		return cantCreateError(err)
	}

	if verbose {
		verbosef("bytecode written to %s (%d bytes)\n", outFile, len(data))
	} else {
		fmt.Printf("compiled %s -> %s\n", filename, outFile)
	}
	return nil
}
