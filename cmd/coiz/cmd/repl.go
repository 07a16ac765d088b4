package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/coizioc/coiz/internal/interp"
	"github.com/coizioc/coiz/internal/lexer"
	"github.com/coizioc/coiz/internal/parser"
	"github.com/coizioc/coiz/internal/runtime"
	"github.com/coizioc/coiz/internal/semantic"
)

// runREPL reads one line at a time, running each as its own tiny
// program against a scope that survives across lines, so a variable or
// function declared on one line is visible on the next. It never exits
// on an error — a bad line just reports its diagnostics and the prompt
// comes back, matching the reference REPL's loop.
func runREPL(log *slog.Logger) {
	scope := runtime.NewScope("repl")
	symtab := semantic.NewSymbolTable("repl")
	evaluator := interp.NewEvaluator("<repl>", os.Stdout)
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Print("> ")
	for scanner.Scan() {
		line := scanner.Text()

		lx := lexer.New(line, "<repl>")
		tokens := lx.ScanTokens()
		if lx.HasErrors() {
			for _, e := range lx.Errors() {
				fmt.Println(e.Error())
			}
			fmt.Print("> ")
			continue
		}

		ps := parser.New(tokens, "<repl>")
		prog := ps.Parse()
		if ps.HasErrors() {
			for _, e := range ps.Errors() {
				fmt.Println(e.Error())
			}
			fmt.Print("> ")
			continue
		}

		analyzer := semantic.NewWithTable("<repl>", nil, symtab)
		analyzer.Analyze(prog)
		if analyzer.HasErrors() {
			for _, e := range analyzer.Errors() {
				fmt.Println(e.Error())
			}
			fmt.Print("> ")
			continue
		}

		if err := evaluator.Run(prog, scope); err != nil {
			fmt.Println(err.Error())
		}
		log.Debug("repl line evaluated", "line", line)
		fmt.Print("> ")
	}
}
