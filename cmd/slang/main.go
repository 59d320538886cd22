// Command slang is Slang's external front end: lex/parse/analyze/
// compile/run a source file, or run a previously compiled bytecode
// file directly.
package main

import (
	"os"

	"github.com/slanglang/slang/cmd/slang/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
