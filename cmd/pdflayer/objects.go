package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joaomdsc/pdflayer/internal/objectparser"
)

func newObjectsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "objects <file>",
		Short: "Print every top-level object the object parser assembles, one per line",
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

			p := objectparser.NewFromReader(f, cfg)
			for {
				obj := p.NextObject()
				fmt.Fprintln(cmd.OutOrStdout(), describeObject(obj))
				if obj.Kind == objectparser.ObjEof {
					return nil
				}
				if obj.Kind == objectparser.ObjError && cfg.StrictMode {
					return fmt.Errorf("pdflayer: %s", obj.Msg)
				}
			}
		},
	}
}

func describeObject(obj objectparser.PdfObject) string {
	switch obj.Kind {
	case objectparser.ObjInteger:
		return fmt.Sprintf("Integer(%d)", obj.Int)
	case objectparser.ObjReal:
		return fmt.Sprintf("Real(%g)", obj.Real)
	case objectparser.ObjBoolean:
		return fmt.Sprintf("Boolean(%t)", obj.Bool)
	case objectparser.ObjString:
		return fmt.Sprintf("String(%q)", obj.Bytes)
	case objectparser.ObjName:
		return fmt.Sprintf("Name(%q)", obj.Name)
	case objectparser.ObjArray:
		return fmt.Sprintf("Array(%d items)", len(obj.Array))
	case objectparser.ObjDictionary:
		return fmt.Sprintf("Dictionary(%d keys)", obj.Dict.Len())
	case objectparser.ObjStream:
		return fmt.Sprintf("Stream(%d keys, %d bytes)", obj.Dict.Len(), len(obj.StreamData))
	case objectparser.ObjIndirectDef:
		return fmt.Sprintf("IndirectDef(%d, %d)", obj.ObjNum, obj.Gen)
	case objectparser.ObjIndirectRef:
		return fmt.Sprintf("IndirectRef(%d, %d)", obj.ObjNum, obj.Gen)
	case objectparser.ObjXrefSection:
		return fmt.Sprintf("XrefSection(%d subsections)", len(obj.XrefIndex.Subsections()))
	case objectparser.ObjTrailer:
		return fmt.Sprintf("Trailer(%d keys)", obj.Dict.Len())
	case objectparser.ObjError:
		return fmt.Sprintf("Error(%s)", obj.Msg)
	default:
		return obj.Kind.String()
	}
}
