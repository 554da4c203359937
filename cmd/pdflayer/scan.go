package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/joaomdsc/pdflayer/internal/config"
	"github.com/joaomdsc/pdflayer/internal/objectparser"
)

type fileReport struct {
	path          string
	versionMajor  int64
	versionMinor  int64
	objectCount   int
	errorCount    int
	xrefEntries   int
	failureReason string
}

func newScanCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <dir>",
		Short: "Walk a directory of PDFs with a bounded worker pool, reporting per-file object/xref counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.buildConfig()
			if err != nil {
				return err
			}

			var paths []string
			err = filepath.WalkDir(args[0], func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
					paths = append(paths, path)
				}
				return nil
			})
			if err != nil {
				return fmt.Errorf("pdflayer: walking %s: %w", args[0], err)
			}

			reports := make([]fileReport, len(paths))
			var mu sync.Mutex

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(cfg.MaxConcurrentFiles)
			for i, path := range paths {
				i, path := i, path
				g.Go(func() error {
					select {
					case <-ctx.Done():
						return ctx.Err()
					default:
					}
					report := scanFile(path, cfg)
					mu.Lock()
					reports[i] = report
					mu.Unlock()
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return fmt.Errorf("pdflayer: %w", err)
			}

			sort.Slice(reports, func(i, j int) bool { return reports[i].path < reports[j].path })
			for _, r := range reports {
				if r.failureReason != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: FAILED (%s)\n", r.path, r.failureReason)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: version=%d.%d objects=%d errors=%d xref_entries=%d\n",
					r.path, r.versionMajor, r.versionMinor, r.objectCount, r.errorCount, r.xrefEntries)
			}
			return nil
		},
	}
}

func scanFile(path string, cfg *config.Config) fileReport {
	report := fileReport{path: path}

	f, err := os.Open(path)
	if err != nil {
		report.failureReason = err.Error()
		return report
	}
	defer f.Close()

	p := objectparser.NewFromReader(f, cfg)
	for {
		obj := p.NextObject()
		switch obj.Kind {
		case objectparser.ObjEof:
			return report
		case objectparser.ObjError:
			report.errorCount++
			if cfg.StrictMode {
				report.failureReason = obj.Msg
				return report
			}
		case objectparser.ObjVersionMarker:
			report.versionMajor = obj.VersionMajor
			report.versionMinor = obj.VersionMinor
		case objectparser.ObjXrefSection:
			for _, s := range obj.XrefIndex.Subsections() {
				report.xrefEntries += len(s.Entries)
			}
		default:
			report.objectCount++
		}
	}
}
