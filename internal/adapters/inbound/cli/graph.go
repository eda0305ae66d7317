package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openkraft/domainlint/internal/adapters/outbound/snapshot"
	"github.com/openkraft/domainlint/internal/adapters/outbound/tui"
)

func newGraphCmd(g *globalOptions) *cobra.Command {
	var (
		jsonOutput bool
		exportFile string
		svcOpts    serviceOptions
	)

	cmd := &cobra.Command{
		Use:   "graph [path]",
		Short: "Show the package dependency matrix",
		Long: "Display which domain packages import which, whether each dependency is declared,\n" +
			"declared dependencies nothing uses, and package cycles.\n" +
			"With --export, write the module import graph to a snapshot file instead.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := resolvePath(args)
			if err != nil {
				return err
			}
			svc := newLintService(g, svcOpts)

			if exportFile != "" {
				policy, ig, err := svc.Graph(absPath)
				if err != nil {
					return err
				}
				f, err := snapshot.FromGraph(policy.Root(), ig)
				if err != nil {
					return fmt.Errorf("exporting graph: %w", err)
				}
				if err := snapshot.Write(exportFile, f); err != nil {
					return fmt.Errorf("writing %s: %w", exportFile, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d modules and %d imports to %s\n", len(f.Modules), len(f.Imports), exportFile)
				return nil
			}

			deps, err := svc.PackageDependencies(absPath)
			if err != nil {
				return err
			}

			if jsonOutput {
				if deps.Cycles == nil {
					deps.Cycles = [][]string{}
				}
				if deps.Unused == nil {
					deps.Unused = []string{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(deps)
			}

			fmt.Fprint(cmd.OutOrStdout(), tui.RenderPackageGraph(deps))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the matrix as JSON")
	cmd.Flags().StringVar(&exportFile, "export", "", "Write the import graph to a snapshot file (.json, .yaml, optionally .zst)")
	cmd.Flags().StringVar(&svcOpts.graphFile, "graph", "", "Read the import graph from a snapshot file instead of Go sources")
	cmd.Flags().BoolVar(&svcOpts.useCache, "cache", false, "Reuse the import graph cached in .domainlint/cache while sources are unchanged")
	return cmd
}
