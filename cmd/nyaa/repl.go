package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"nyaa/interpreter-go/pkg/diag"
	"nyaa/interpreter-go/pkg/interpreter"
	"nyaa/interpreter-go/pkg/lexer"
	"nyaa/interpreter-go/pkg/parser"
	"nyaa/interpreter-go/pkg/runtime"
)

const (
	banner      = "Nyaa interactive mode. Type 'jaa ne' to leave."
	promptMain  = "nyaa> "
	promptCont  = "  ... "
	exitWord    = "jaa ne"
	historyFile = ".nyaa_history"
)

// prompter reads one line after showing a prompt. *liner.State satisfies it.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// readerPrompter is used when stdin is not a terminal. The interpreter reads
// ohayo() input from the same reader so neither side buffers past the other.
type readerPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (r *readerPrompter) Prompt(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	line, err := r.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runRepl(args []string) int {
	opts, rest, err := parseFlags("repl", args)
	if err != nil {
		return 2
	}
	if len(rest) != 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(rest, " "))
		return 1
	}
	cfg, err := opts.loadConfig(".")
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	f, isFile := stdin.(*os.File)
	if !isFile || !term.IsTerminal(int(f.Fd())) {
		in := bufio.NewReader(stdin)
		interp := interpreter.NewWithOptions(cfg.InterpreterOptions(in, stdout))
		return repl(&readerPrompter{in: in, out: stdout}, interp, cfg.LexerOptions(), nil)
	}
	interp := interpreter.NewWithOptions(cfg.InterpreterOptions(stdin, stdout))

	fmt.Fprintln(stdout, banner)
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	if hf, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(hf)
		_ = hf.Close()
	}
	defer func() {
		if hf, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(hf)
			_ = hf.Close()
		}
	}()
	return repl(ln, interp, cfg.LexerOptions(), ln.AppendHistory)
}

// repl evaluates entries until EOF or the exit word. Errors are reported and
// the loop continues.
func repl(p prompter, interp *interpreter.Interpreter, lexOpts lexer.Options, remember func(string)) int {
	for {
		src, ok := readByParseProbe(p, lexOpts)
		if !ok {
			fmt.Fprintln(stdout)
			return 0
		}
		entry := strings.TrimSpace(src)
		if entry == "" {
			continue
		}
		if entry == exitWord {
			return 0
		}
		if remember != nil {
			remember(strings.ReplaceAll(src, "\n", " "))
		}

		node, err := parser.ParseInteractiveSource(src, lexOpts)
		if err != nil {
			fmt.Fprintln(stderr, strings.TrimRight(diag.Render(err, "", src), "\n"))
			continue
		}
		v, err := interp.Interpret(node)
		if err != nil {
			fmt.Fprintln(stderr, strings.TrimRight(diag.Render(err, "", src), "\n"))
			continue
		}
		if v != nil {
			fmt.Fprintln(stdout, runtime.Format(v))
		}
	}
}

// readByParseProbe keeps reading continuation lines while the parser reports
// that the entry ends too early.
func readByParseProbe(p prompter, lexOpts lexer.Options) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := p.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.TrimSpace(src) == exitWord {
			return src, true
		}
		_, perr := parser.ParseInteractiveSource(src, lexOpts)
		if perr != nil && parser.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}
