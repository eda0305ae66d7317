package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openkraft/domainlint/internal/adapters/outbound/tui"
	"github.com/openkraft/domainlint/internal/domain"
)

type importVerdictJSON struct {
	Importer   string                 `json:"importer"`
	Imported   string                 `json:"imported"`
	Allowed    bool                   `json:"allowed"`
	Checked    bool                   `json:"checked"`
	Reason     string                 `json:"reason,omitempty"`
	Violations []domain.ViolationKind `json:"violations"`
	Messages   []string               `json:"messages"`
}

func newCheckImportCmd(g *globalOptions) *cobra.Command {
	var (
		projectPath string
		jsonOutput  bool
		svcOpts     serviceOptions
	)

	cmd := &cobra.Command{
		Use:   "check-import IMPORTER IMPORTED",
		Short: "Check whether one module may import another",
		Long: "Classify a single import, e.g. `domainlint check-import app.orders.api app.users.models`,\n" +
			"against the project's policy. Imports of or from modules outside every domain package are\n" +
			"reported as not checked, the same way analyze skips them.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := resolvePath([]string{projectPath})
			if err != nil {
				return err
			}

			check, err := newLintService(g, svcOpts).CheckImport(absPath, args[0], args[1])
			if err != nil {
				return err
			}

			if jsonOutput {
				out := importVerdictJSON{
					Importer:   args[0],
					Imported:   args[1],
					Allowed:    check.Allowed(),
					Checked:    check.Exempt == "",
					Reason:     check.Exempt,
					Violations: []domain.ViolationKind{},
					Messages:   []string{},
				}
				for _, k := range check.Kinds {
					v := domain.NewViolation(k, check.Importer, check.Imported, nil)
					out.Violations = append(out.Violations, k)
					out.Messages = append(out.Messages, v.Message())
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(out); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.ImportVerdict(check))
			}

			if !check.Allowed() {
				return ErrViolationsFound
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", ".", "Project path")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the verdict as JSON")
	cmd.Flags().StringVar(&svcOpts.graphFile, "graph", "", "Read the import graph from a snapshot file instead of Go sources")
	cmd.Flags().BoolVar(&svcOpts.useCache, "cache", false, "Reuse the import graph cached in .domainlint/cache while sources are unchanged")
	return cmd
}
