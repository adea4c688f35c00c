package main

import "fmt"

func printUsage() {
	fmt.Fprintln(stderr, "Usage:")
	fmt.Fprintln(stderr, "  nyaa [flags] <file.ny>")
	fmt.Fprintln(stderr, "  nyaa run [flags] <file.ny>")
	fmt.Fprintln(stderr, "  nyaa repl [flags]")
	fmt.Fprintln(stderr, "  nyaa tokens [flags] <file.ny>")
	fmt.Fprintln(stderr, "  nyaa ast [flags] <file.ny>")
	fmt.Fprintln(stderr, "  nyaa version")
	fmt.Fprintln(stderr, "")
	fmt.Fprintln(stderr, "Flags:")
	fmt.Fprintln(stderr, "  -l, -lexer          log every token")
	fmt.Fprintln(stderr, "  -p, -parser         log parser productions")
	fmt.Fprintln(stderr, "  -i, -interpreter    log interpreter calls")
	fmt.Fprintln(stderr, "  -v                  verbose logging")
	fmt.Fprintln(stderr, "  -config <path>      use this nyaa.yml")
	fmt.Fprintln(stderr, "  -max-depth <n>      maximum call depth")
	fmt.Fprintln(stderr, "  -cache-size <n>     call cache capacity (0 disables)")
}
