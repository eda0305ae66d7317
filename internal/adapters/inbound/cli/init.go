package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openkraft/domainlint/internal/adapters/outbound/config"
	"github.com/openkraft/domainlint/internal/domain"
)

func newInitCmd(g *globalOptions) *cobra.Command {
	var (
		format   string
		root     string
		fromCode bool
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a policy file",
		Long: "Create .domainlint.yaml (or domain_packages.toml with --format toml). With --from-code the\n" +
			"policy is derived from the imports already present, so the project passes as it stands.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := resolvePath(args)
			if err != nil {
				return err
			}

			var name string
			switch format {
			case "yaml":
				name = config.YAMLFileName
			case "toml":
				name = config.TOMLFileName
			default:
				return fmt.Errorf("unknown format %q (valid: yaml, toml)", format)
			}
			if !force {
				if _, err := os.Stat(filepath.Join(absPath, name)); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", name)
				}
			}

			cfg := domain.PolicyConfig{Root: root}
			if fromCode {
				cfg, err = newLintService(g, serviceOptions{}).Baseline(absPath, root)
				if err != nil {
					return err
				}
			} else if err := cfg.Validate(); err != nil {
				return err
			}

			if _, err := config.Write(absPath, format, cfg); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "Policy file format (yaml, toml)")
	cmd.Flags().StringVar(&root, "root", "app", "Top-level package holding the domain packages")
	cmd.Flags().BoolVar(&fromCode, "from-code", false, "Derive the policy from the current imports")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing policy file")
	return cmd
}
