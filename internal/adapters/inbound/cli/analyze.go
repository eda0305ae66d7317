package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/openkraft/domainlint/internal/adapters/outbound/tui"
	"github.com/openkraft/domainlint/internal/application"
)

func newAnalyzeCmd(g *globalOptions) *cobra.Command {
	var (
		jsonOutput bool
		record     bool
		svcOpts    serviceOptions
	)

	cmd := &cobra.Command{
		Use:     "analyze [path]",
		Aliases: []string{"lint"},
		Short:   "Report imports that cross domain package boundaries",
		Long: "Analyze the project at path (default: current directory) against its .domainlint.yaml or\n" +
			"domain_packages.toml policy. Exits 1 when violations are found and 2 when the analysis fails.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := resolvePath(args)
			if err != nil {
				return err
			}

			svc := newLintService(g, svcOpts)
			report, err := svc.Analyze(absPath)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			if record {
				if err := svc.Record(absPath, report); err != nil {
					return err
				}
			}

			if jsonOutput {
				view, err := application.NewReportView(report)
				if err != nil {
					return fmt.Errorf("resolving locations: %w", err)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(view); err != nil {
					return err
				}
			} else {
				out, err := tui.RenderLintReport(report)
				if err != nil {
					return fmt.Errorf("resolving locations: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
			}

			if report.HasViolations() {
				return ErrViolationsFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the report as JSON")
	cmd.Flags().BoolVar(&record, "record", false, "Append a summary of this run to .domainlint/history")
	cmd.Flags().StringVar(&svcOpts.graphFile, "graph", "", "Read the import graph from a snapshot file instead of Go sources")
	cmd.Flags().BoolVar(&svcOpts.useCache, "cache", false, "Reuse the import graph cached in .domainlint/cache while sources are unchanged")
	cmd.Flags().IntVar(&svcOpts.workers, "workers", runtime.NumCPU(), "Domain packages analysed concurrently")

	return cmd
}
