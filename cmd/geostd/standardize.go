package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreiashu/geostd"
)

// maxLineBytes is the longest accepted input line.
const maxLineBytes = 4 << 20

type standardizeOptions struct {
	input  string
	output string
	report string
	batch  int
}

func newStandardizeCmd(g *globalOptions) *cobra.Command {
	var opts standardizeOptions

	cmd := &cobra.Command{
		Use:   "standardize",
		Short: "Standardize JSON-lines records",
		Long: `Reads one JSON object per line, resolves its country, state, city and
address fields, and writes the object back with countryCode, countryDisplay,
stateCode, stateDisplay, cityCode and cityDisplay set. Other fields pass
through untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.batch < 1 {
				return eris.Errorf("--batch must be at least 1, got %d", opts.batch)
			}
			std, logger, err := g.open()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			in := cmd.InOrStdin()
			if opts.input != "" && opts.input != "-" {
				f, err := os.Open(opts.input)
				if err != nil {
					return eris.Wrap(err, "opening input")
				}
				defer f.Close()
				in = f
			}
			out := cmd.OutOrStdout()
			if opts.output != "" && opts.output != "-" {
				f, err := os.Create(opts.output)
				if err != nil {
					return eris.Wrap(err, "creating output")
				}
				defer f.Close()
				out = f
			}

			diag := std.NewDiagnostics()
			n, err := runStandardize(cmd.Context(), std, in, out, opts.batch, diag)
			if err != nil {
				return err
			}

			report := diag.Report()
			logger.Info("standardization complete", zap.Int("records", n), zap.String("run_id", report.RunID))
			if opts.report != "" {
				return writeReport(opts.report, report)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "Input JSON-lines file (default: stdin)")
	cmd.Flags().StringVar(&opts.output, "output", "", "Output JSON-lines file (default: stdout)")
	cmd.Flags().StringVar(&opts.report, "report", "", "Write the diagnostics report as JSON to this file")
	cmd.Flags().IntVar(&opts.batch, "batch", 1000, "Records standardized per batch")
	return cmd
}

// runStandardize streams records from r to w in batches and returns the
// number of records written. Blank lines are skipped.
func runStandardize(ctx context.Context, std *geostd.Standardizer, r io.Reader, w io.Writer, batch int, diag *geostd.Diagnostics) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	bw := bufio.NewWriter(w)

	total := 0
	recs := make([]geostd.Record, 0, batch)
	flush := func() error {
		if len(recs) == 0 {
			return nil
		}
		out, _, err := std.StandardizeBatch(ctx, recs, diag)
		if err != nil {
			return err
		}
		for _, rec := range out {
			b, err := json.Marshal(rec)
			if err != nil {
				return eris.Wrap(err, "encoding record")
			}
			bw.Write(b)
			bw.WriteByte('\n')
		}
		total += len(out)
		recs = recs[:0]
		return nil
	}

	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var rec geostd.Record
		if err := json.Unmarshal(b, &rec); err != nil {
			return total, eris.Wrapf(err, "input line %d", line)
		}
		recs = append(recs, rec)
		if len(recs) == batch {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return total, eris.Wrap(err, "reading input")
	}
	if err := flush(); err != nil {
		return total, err
	}
	return total, eris.Wrap(bw.Flush(), "writing output")
}

func writeReport(path string, report geostd.Report) error {
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return eris.Wrap(err, "encoding report")
	}
	return eris.Wrap(os.WriteFile(path, append(b, '\n'), 0644), "writing report")
}
