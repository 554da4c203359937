package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joaomdsc/pdflayer/internal/objectparser"
)

func newXrefCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "xref <file>",
		Short: "Locate startxref, parse the cross-reference section there, and print its subsections",
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

			offset, err := findLastStartxrefOffset(f)
			if err != nil {
				return fmt.Errorf("pdflayer: %w", err)
			}

			p := objectparser.NewFromReader(f, cfg)
			if err := p.Seek(offset); err != nil {
				return fmt.Errorf("pdflayer: seeking to xref offset %d: %w", offset, err)
			}

			obj := p.ParseCrossReference()
			if obj.Kind == objectparser.ObjError {
				return fmt.Errorf("pdflayer: %s", obj.Msg)
			}
			if obj.Kind != objectparser.ObjXrefSection {
				return fmt.Errorf("pdflayer: expected a cross-reference section at offset %d, got %s", offset, obj.Kind)
			}

			for i, s := range obj.XrefIndex.Subsections() {
				fmt.Fprintf(cmd.OutOrStdout(), "subsection %d: first=%d count=%d\n", i, s.FirstObjNum, s.Count)
			}
			return nil
		},
	}
}

// findLastStartxrefOffset finds the last "startxref" keyword in the file
// and returns the integer that follows it — the file-format contract
// places exactly one such pair before the final "%%EOF", but earlier
// incremental-update sections may contain their own, so the search
// takes the last match, not the first.
func findLastStartxrefOffset(f *os.File) (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	data := make([]byte, info.Size())
	if _, err := f.ReadAt(data, 0); err != nil {
		return 0, err
	}
	marker := []byte("startxref")
	idx := bytes.LastIndex(data, marker)
	if idx < 0 {
		return 0, fmt.Errorf("no 'startxref' keyword found")
	}
	sc := bufio.NewScanner(bytes.NewReader(data[idx+len(marker):]))
	sc.Split(bufio.ScanWords)
	if !sc.Scan() {
		return 0, fmt.Errorf("'startxref' not followed by an offset")
	}
	offset, err := strconv.ParseInt(sc.Text(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed startxref offset %q: %w", sc.Text(), err)
	}
	return offset, nil
}
