package driver

import (
	"fmt"
	"io"
	"os"

	"fortio.org/log"

	"nyaa/interpreter-go/pkg/ast"
	"nyaa/interpreter-go/pkg/diag"
	"nyaa/interpreter-go/pkg/interpreter"
	"nyaa/interpreter-go/pkg/lexer"
	"nyaa/interpreter-go/pkg/parser"
	"nyaa/interpreter-go/pkg/runtime"
)

// ParseFile parses the program at path. A nil cfg means DefaultConfig.
func ParseFile(path string, cfg *Config) (*ast.Program, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("driver: read %s: %w", path, err)
	}
	lex := lexer.New(cfg.LexerOptions())
	lex.Analyze(string(data))
	p := parser.New(lex)
	p.SetVerbose(cfg.Verbose.Parser)
	prog, err := p.ParseProgram()
	if err != nil {
		return nil, err
	}
	log.LogVf("driver: parsed %s (%d function(s))", path, len(prog.Functions))
	return prog, nil
}

// RunFile parses and evaluates the program at path with the given streams.
func RunFile(path string, cfg *Config, stdin io.Reader, stdout io.Writer) (runtime.Value, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	prog, err := ParseFile(path, cfg)
	if err != nil {
		return nil, err
	}
	interp := interpreter.NewWithOptions(cfg.InterpreterOptions(stdin, stdout))
	v, err := interp.Interpret(prog)
	if hits, misses := interp.CacheStats(); hits+misses > 0 {
		log.LogVf("driver: call cache %d hit(s), %d miss(es)", hits, misses)
	}
	return v, err
}

// Describe renders err with a source snippet from path when it carries a
// position.
func Describe(err error, path string) string {
	if err == nil {
		return ""
	}
	src, readErr := os.ReadFile(path)
	if readErr != nil {
		return err.Error()
	}
	return diag.Render(err, path, string(src))
}
