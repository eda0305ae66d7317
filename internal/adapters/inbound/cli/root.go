package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openkraft/domainlint/internal/adapters/outbound/cache"
	"github.com/openkraft/domainlint/internal/adapters/outbound/config"
	"github.com/openkraft/domainlint/internal/adapters/outbound/gitinfo"
	"github.com/openkraft/domainlint/internal/adapters/outbound/gosource"
	"github.com/openkraft/domainlint/internal/adapters/outbound/history"
	"github.com/openkraft/domainlint/internal/adapters/outbound/snapshot"
	"github.com/openkraft/domainlint/internal/application"
	"github.com/openkraft/domainlint/internal/domain"
)

var (
	version = "dev"
	commit  = "none"
)

// ErrViolationsFound is returned by analyze when the report is not clean. The
// report itself has already been printed.
var ErrViolationsFound = errors.New("dependency violations found")

// Exit codes.
const (
	ExitOK         = 0
	ExitViolations = 1
	ExitError      = 2
)

type globalOptions struct {
	logLevel string
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "domainlint",
		Short: "Enforce import boundaries between domain packages",
		Long: "domainlint checks that the domain packages under a root package only import each other's\n" +
			"public modules, and only along declared dependencies.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), opts.logLevel)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newAnalyzeCmd(opts))
	cmd.AddCommand(newCheckImportCmd(opts))
	cmd.AddCommand(newGraphCmd(opts))
	cmd.AddCommand(newInitCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newMCPCmd(opts))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}

// ExitCode maps an Execute error onto the process exit status: 1 when the
// analysis found violations, 2 for anything that prevented the analysis.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrViolationsFound):
		return ExitViolations
	default:
		return ExitError
	}
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// serviceOptions selects the graph source and concurrency of a LintService.
type serviceOptions struct {
	graphFile string
	useCache  bool
	workers   int
}

func (o serviceOptions) source(logger *slog.Logger) domain.GraphSource {
	if o.graphFile != "" {
		return snapshot.New(o.graphFile)
	}
	if o.useCache {
		return cache.New(gosource.New(), logger)
	}
	return gosource.New()
}

func newLintService(g *globalOptions, o serviceOptions) *application.LintService {
	return application.NewLintService(
		config.New(),
		o.source(g.logger),
		gitinfo.New(),
		history.New(),
		g.logger,
	).WithWorkers(o.workers)
}

func resolvePath(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return absPath, nil
}
