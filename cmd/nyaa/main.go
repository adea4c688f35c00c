package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"fortio.org/log"

	"nyaa/interpreter-go/pkg/ast"
	"nyaa/interpreter-go/pkg/driver"
	"nyaa/interpreter-go/pkg/lexer"
)

const cliToolVersion = "nyaa 0.1.0-dev"

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:])
	case "repl":
		return runRepl(args[1:])
	case "tokens":
		return runTokens(args[1:])
	case "ast":
		return runAST(args[1:])
	default:
		return runEntry(args)
	}
}

// options holds the flags shared by every subcommand.
type options struct {
	lexer       bool
	parser      bool
	interpreter bool
	verbose     bool
	config      string
	maxDepth    int
	cacheSize   int
}

func parseFlags(name string, args []string) (*options, []string, error) {
	opts := &options{cacheSize: -1}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.lexer, "l", false, "log every token")
	fs.BoolVar(&opts.lexer, "lexer", false, "log every token")
	fs.BoolVar(&opts.parser, "p", false, "log parser productions")
	fs.BoolVar(&opts.parser, "parser", false, "log parser productions")
	fs.BoolVar(&opts.interpreter, "i", false, "log interpreter calls")
	fs.BoolVar(&opts.interpreter, "interpreter", false, "log interpreter calls")
	fs.BoolVar(&opts.verbose, "v", false, "verbose logging")
	fs.StringVar(&opts.config, "config", "", "path to nyaa.yml (default: search upwards from the program)")
	fs.IntVar(&opts.maxDepth, "max-depth", 0, "maximum call depth (default from config)")
	fs.IntVar(&opts.cacheSize, "cache-size", -1, "call cache capacity, 0 disables (default from config)")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return opts, fs.Args(), nil
}

// loadConfig resolves nyaa.yml for source and applies flag overrides.
func (o *options) loadConfig(source string) (*driver.Config, error) {
	var cfg *driver.Config
	var err error
	if o.config != "" {
		cfg, err = driver.LoadConfig(o.config)
	} else {
		cfg, err = driver.ConfigFor(source)
	}
	if err != nil {
		return nil, err
	}
	if o.maxDepth > 0 {
		cfg.Interpreter.MaxCallDepth = o.maxDepth
	}
	if o.cacheSize >= 0 {
		cfg.Interpreter.CallCacheSize = o.cacheSize
	}
	cfg.Verbose.Lexer = cfg.Verbose.Lexer || o.lexer
	cfg.Verbose.Parser = cfg.Verbose.Parser || o.parser
	cfg.Verbose.Interpreter = cfg.Verbose.Interpreter || o.interpreter
	if o.verbose || cfg.Verbose.Lexer || cfg.Verbose.Parser || cfg.Verbose.Interpreter {
		log.SetLogLevel(log.Verbose)
	}
	if cfg.Path != "" {
		log.LogVf("using config %s", cfg.Path)
	}
	return cfg, cfg.Validate()
}

// setup parses flags and expects exactly one source file.
func setup(name string, args []string) (string, *driver.Config, int) {
	opts, rest, err := parseFlags(name, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return "", nil, 0
		}
		return "", nil, 2
	}
	if len(rest) != 1 {
		fmt.Fprintf(stderr, "nyaa %s requires exactly one source file\n", name)
		printUsage()
		return "", nil, 1
	}
	cfg, err := opts.loadConfig(rest[0])
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return "", nil, 1
	}
	return rest[0], cfg, -1
}

func runEntry(args []string) int {
	path, cfg, code := setup("run", args)
	if code >= 0 {
		return code
	}
	if _, err := driver.RunFile(path, cfg, stdin, stdout); err != nil {
		fmt.Fprintln(stderr, driver.Describe(err, path))
		return 1
	}
	return 0
}

func runTokens(args []string) int {
	path, cfg, code := setup("tokens", args)
	if code >= 0 {
		return code
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "read %s: %v\n", path, err)
		return 1
	}
	toks, err := lexer.Tokenize(string(data), cfg.LexerOptions())
	for _, tok := range toks {
		fmt.Fprintf(stdout, "%s\t%s\n", tok.Span(), tok)
	}
	if err != nil {
		fmt.Fprintln(stderr, driver.Describe(err, path))
		return 1
	}
	return 0
}

func runAST(args []string) int {
	path, cfg, code := setup("ast", args)
	if code >= 0 {
		return code
	}
	prog, err := driver.ParseFile(path, cfg)
	if err != nil {
		fmt.Fprintln(stderr, driver.Describe(err, path))
		return 1
	}
	out, err := ast.MarshalIndent(prog)
	if err != nil {
		fmt.Fprintf(stderr, "encode ast: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, string(out))
	return 0
}
