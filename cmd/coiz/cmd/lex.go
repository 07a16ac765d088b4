package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coizioc/coiz/internal/lexer"
)

var lexCmd = &cobra.Command{
	Use:   "lex <script>",
	Short: "Scan a file and print its token stream",
	Args:  cobra.ExactArgs(1),
	RunE:  runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
}

func runLex(cmd *cobra.Command, args []string) error {
	path := args[0]
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	lx := lexer.New(string(source), path)
	tokens := lx.ScanTokens()
	for _, tok := range tokens {
		fmt.Println(tok.String())
	}
	for _, e := range lx.Errors() {
		fmt.Println(e.Error())
	}
	if lx.HasErrors() {
		os.Exit(65)
	}
	return nil
}
