package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/viant/seqvec/internal/fasta"
	"github.com/viant/seqvec/metrics"
	"github.com/viant/seqvec/pipeline"
	"github.com/viant/seqvec/reconciler"
	"github.com/viant/seqvec/retriever"
)

func newSearchCommand(a *app) *cobra.Command {
	var (
		file     string
		asJSON   bool
		showStat bool
	)
	cmd := &cobra.Command{
		Use:   "search [SEQUENCE]",
		Short: "Find the most similar indexed sequences",
		Long: `Search tokenizes each query sequence into k-mers, encodes it and returns
the top-k nearest indexed sequences with their class labels and distances.
Queries come from the SEQUENCE argument or from every record of a FASTA file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			labels, seqs, err := searchInput(args, file)
			if err != nil {
				return err
			}

			c, err := a.openComponents(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			reg := prometheus.NewRegistry()
			observer, err := metrics.NewPrometheus(reg)
			if err != nil {
				return err
			}
			ret, err := retriever.New(c.vectors)
			if err != nil {
				return err
			}
			rec, err := reconciler.New(c.store)
			if err != nil {
				return err
			}
			p, err := pipeline.New(a.cfg.Pipeline(), c.encoder, ret, rec,
				pipeline.WithLogger(a.logger),
				pipeline.WithObserver(observer),
				pipeline.WithConcurrency(a.cfg.Concurrency),
			)
			if err != nil {
				return err
			}

			results, err := p.QueryAll(cmd.Context(), a.cfg.Namespace, seqs)
			if err != nil {
				return err
			}
			out := make([]queryOutput, len(results))
			for i, r := range results {
				out[i] = toOutput(labels[i], a.cfg.Namespace, r)
			}

			w := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(w, out); err != nil {
					return err
				}
			} else {
				for _, q := range out {
					writeTable(w, q)
				}
			}
			if showStat {
				return writeStats(cmd.ErrOrStderr(), reg)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "FASTA file of query sequences ('-' for stdin)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&showStat, "stats", false, "print per-stage timings to stderr")
	return cmd
}

func searchInput(args []string, file string) (labels, seqs []string, err error) {
	switch {
	case file != "" && len(args) > 0:
		return nil, nil, errors.New("search: pass either SEQUENCE or --file, not both")
	case len(args) == 1:
		return []string{args[0]}, []string{args[0]}, nil
	case file != "":
		records, err := fasta.ReadFile(file)
		if err != nil {
			return nil, nil, err
		}
		for i, r := range records {
			label := r.ID
			if label == "" {
				label = fmt.Sprintf("#%d", i+1)
			}
			labels = append(labels, label)
			seqs = append(seqs, r.Seq)
		}
		return labels, seqs, nil
	default:
		return nil, nil, errors.New("search: a SEQUENCE argument or --file is required")
	}
}

// writeStats prints the stage histogram gathered from reg.
func writeStats(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, headerStyle.Render("  stage       status   count  total(ms)"))
	for _, mf := range families {
		if mf.GetName() != "seqvec_stage_duration_seconds" {
			continue
		}
		for _, m := range mf.GetMetric() {
			var stage, status string
			for _, l := range m.GetLabel() {
				switch l.GetName() {
				case "stage":
					stage = l.GetValue()
				case "status":
					status = l.GetValue()
				}
			}
			h := m.GetHistogram()
			fmt.Fprintf(w, "  %-10s  %-7s  %5d  %9.3f\n", stage, status, h.GetSampleCount(), h.GetSampleSum()*1000)
		}
	}
	return nil
}
