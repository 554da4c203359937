package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joaomdsc/pdflayer/internal/bytesource"
	"github.com/joaomdsc/pdflayer/internal/tokeniser"
)

func newTokensCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print every token the lexer produces, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.buildConfig()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("pdflayer: %w", err)
			}
			defer f.Close()

			tk := tokeniser.New(bytesource.New(f, cfg.BlockSize))
			depth := 0
			for {
				tok := tk.NextToken()
				if tok.Kind == tokeniser.KindArrayEnd || tok.Kind == tokeniser.KindDictEnd {
					depth--
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", indent(depth), tok)
				if tok.Kind == tokeniser.KindArrayBegin || tok.Kind == tokeniser.KindDictBegin {
					depth++
				}
				if tok.Kind == tokeniser.KindEof {
					return nil
				}
				if tok.Kind == tokeniser.KindError && cfg.StrictMode {
					return fmt.Errorf("pdflayer: %s", tok.Msg)
				}
			}
		},
	}
}

func indent(depth int) string {
	s := ""
	for i := 0; i < depth; i++ {
		s += "  "
	}
	return s
}
