package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coizioc/coiz/internal/lexer"
	"github.com/coizioc/coiz/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse <script>",
	Short: "Parse a file and dump its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	lx := lexer.New(string(source), path)
	tokens := lx.ScanTokens()
	if lx.HasErrors() {
		for _, e := range lx.Errors() {
			fmt.Println(e.Error())
		}
		os.Exit(65)
	}

	ps := parser.New(tokens, path)
	prog := ps.Parse()
	for _, e := range ps.Errors() {
		fmt.Println(e.Error())
	}
	if ps.HasErrors() {
		os.Exit(65)
	}
	fmt.Print(prog.String())
	return nil
}
