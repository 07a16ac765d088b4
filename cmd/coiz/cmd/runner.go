package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/coizioc/coiz/internal/interp"
)

// runFile runs one script to completion, printing every diagnostic it
// produced. It reports whether the run was clean (no lex, parse,
// semantic, or runtime error).
func runFile(path string, log *slog.Logger) bool {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "coiz: %s\n", err)
		return false
	}

	log.Debug("running file", "path", path)
	ip := interp.New(os.Stdout, ".")
	result := ip.Interpret(path, string(source))
	reportResult(result, log)
	return !result.HasErrors()
}

func reportResult(result *interp.Result, log *slog.Logger) {
	for _, e := range result.LexErrors {
		fmt.Println(e.Error())
	}
	for _, e := range result.ParseErrors {
		fmt.Println(e.Error())
	}
	for _, e := range result.SemanticErrors {
		fmt.Println(e.Error())
	}
	if result.RuntimeError != nil {
		fmt.Println(result.RuntimeError.Error())
	}
	log.Debug("run finished",
		"lex_errors", len(result.LexErrors),
		"parse_errors", len(result.ParseErrors),
		"semantic_errors", len(result.SemanticErrors),
		"runtime_error", result.RuntimeError != nil,
	)
}
