package cmd

import (
	"bytes"
	"os"

	"github.com/slanglang/slang/internal/ast"
	"github.com/slanglang/slang/internal/bytecode"
	"github.com/slanglang/slang/internal/lexer"
	"github.com/slanglang/slang/internal/parser"
	"github.com/slanglang/slang/internal/semantic"
	"github.com/slanglang/slang/internal/types"
)

// readSource reads filename, classifying a missing/unreadable file as
// the right sysexits.h failure rather than a bare os error.
func readSource(filename string) (string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return "", fileReadError(err)
	}
	return string(content), nil
}

// parseAndAnalyze runs the lex/parse/semantic-analysis front end on
// source, returning the validated program and its type registry, or a
// data error (65) wrapping the first phase's diagnostics.
func parseAndAnalyze(source, filename string) (*ast.Program, *types.Registry, error) {
	p := parser.New(lexer.New(source), source, filename)
	program := p.ParseProgram()
	if p.HasErrors() {
		return nil, nil, diagnosticsError(p.Diagnostics())
	}

	ctx := semantic.Analyze(program, source, filename)
	if ctx.Collector.HasErrors() {
		return nil, nil, diagnosticsError(ctx.Collector.Diagnostics())
	}
	return program, ctx.Registry, nil
}

// compileChunk runs the full front end and code generator, producing a
// chunk ready to run or serialize.
func compileChunk(source, filename string) (*bytecode.Chunk, *types.Registry, error) {
	program, registry, err := parseAndAnalyze(source, filename)
	if err != nil {
		return nil, nil, err
	}
	chunk, err := bytecode.NewCompiler(filename, registry).Compile(program)
	if err != nil {
		return nil, nil, softwareError(err)
	}
	return chunk, registry, nil
}

// readBytecodeFile reads a compiled bytecode file, classifying a
// missing/unreadable file the same way readSource does.
func readBytecodeFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fileReadError(err)
	}
	return data, nil
}

// serializeChunk encodes chunk and registry's struct types into
// spec.md §6's wire format.
func serializeChunk(chunk *bytecode.Chunk, registry *types.Registry) ([]byte, error) {
	var buf bytes.Buffer
	if err := bytecode.NewSerializer().Write(&buf, chunk, registry); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// deserializeChunk decodes a chunk and its struct-type registry
// previously written by serializeChunk. A malformed bytecode file (bad
// magic, unsupported version, truncated data) is a data error (65):
// the file exists and is readable, but isn't a valid Slang bytecode
// file.
func deserializeChunk(data []byte) (*bytecode.Chunk, *types.Registry, error) {
	chunk, registry, err := bytecode.NewSerializer().Read(bytes.NewReader(data))
	if err != nil {
		return nil, nil, dataError(err)
	}
	return chunk, registry, nil
}

// runChunk executes chunk to completion, writing print_value output to
// os.Stdout. A runtime failure (division by zero, overflow, stack
// overflow, ...) is reported as a software error (70): the program was
// well-formed but something went wrong while it ran.
func runChunk(chunk *bytecode.Chunk, registry *types.Registry) error {
	vm := bytecode.NewVM(chunk, registry, os.Stdout)
	if err := vm.Run(); err != nil {
		return softwareError(err)
	}
	return nil
}
