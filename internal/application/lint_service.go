package application

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openkraft/domainlint/internal/domain"
	"github.com/openkraft/domainlint/internal/domain/graph"
	"github.com/openkraft/domainlint/internal/domain/lint"
)

// LintService orchestrates the analysis pipeline:
// load policy -> build import graph -> detect -> group -> report.
type LintService struct {
	loader  domain.PolicyLoader
	source  domain.GraphSource
	git     domain.GitInfo
	history domain.RunHistory
	logger  *slog.Logger
	workers int
	now     func() time.Time
}

// NewLintService wires the service. git and history may be nil; a nil logger
// discards.
func NewLintService(
	loader domain.PolicyLoader,
	source domain.GraphSource,
	git domain.GitInfo,
	history domain.RunHistory,
	logger *slog.Logger,
) *LintService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LintService{
		loader:  loader,
		source:  source,
		git:     git,
		history: history,
		logger:  logger,
		now:     time.Now,
	}
}

// WithWorkers sets how many domain packages are analysed concurrently.
func (s *LintService) WithWorkers(n int) *LintService {
	s.workers = n
	return s
}

// Policy loads and validates the project's policy.
func (s *LintService) Policy(projectPath string) (*domain.Policy, error) {
	cfg, err := s.loader.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading policy: %w", err)
	}
	policy, err := domain.NewPolicy(cfg)
	if err != nil {
		return nil, fmt.Errorf("loading policy: %w", err)
	}
	return policy, nil
}

// Graph loads the policy and builds the import graph for its root.
func (s *LintService) Graph(projectPath string) (*domain.Policy, domain.ImportGraph, error) {
	policy, err := s.Policy(projectPath)
	if err != nil {
		return nil, nil, err
	}

	start := s.now()
	g, err := s.source.Build(projectPath, policy.Root())
	if err != nil {
		return nil, nil, fmt.Errorf("building import graph: %w", err)
	}
	s.logger.Debug("import graph built", "root", policy.Root(), "elapsed", s.now().Sub(start))
	return policy, g, nil
}

// Analyze runs the full check. Violations are part of the report, not an
// error.
func (s *LintService) Analyze(projectPath string) (*domain.LintReport, error) {
	policy, g, err := s.Graph(projectPath)
	if err != nil {
		return nil, err
	}

	violations, err := lint.Detector{Workers: s.workers}.Detect(policy, g)
	if err != nil {
		return nil, fmt.Errorf("detecting violations: %w", err)
	}
	groups := lint.GroupViolations(violations)

	report := &domain.LintReport{
		ProjectPath: projectPath,
		Root:        policy.Root(),
		Groups:      groups,
	}
	if s.git != nil && s.git.IsGitRepo(projectPath) {
		if hash, err := s.git.CommitHash(projectPath); err == nil {
			report.Commit = hash
		} else {
			s.logger.Warn("reading commit hash", "error", err)
		}
	}

	s.logger.Info("analysis finished",
		"root", report.Root,
		"groups", len(groups),
		"violations", len(violations),
	)
	return report, nil
}

// Record appends a summary of report to the project's run history.
func (s *LintService) Record(projectPath string, report *domain.LintReport) error {
	if s.history == nil {
		return errors.New("run history is not configured")
	}
	if err := s.history.Save(projectPath, domain.NewRunEntry(report, s.now())); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// History returns the recorded runs, oldest first.
func (s *LintService) History(projectPath string) ([]domain.RunEntry, error) {
	if s.history == nil {
		return nil, errors.New("run history is not configured")
	}
	entries, err := s.history.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return entries, nil
}

// CheckImport classifies a single importer -> imported edge against the
// project's policy and import graph, exactly as Analyze would treat it.
func (s *LintService) CheckImport(projectPath, importer, imported string) (lint.ImportCheck, error) {
	from, err := domain.ParseQualifiedPath(importer)
	if err != nil {
		return lint.ImportCheck{}, &domain.ConfigurationError{Field: "importer", Reason: err.Error()}
	}
	to, err := domain.ParseQualifiedPath(imported)
	if err != nil {
		return lint.ImportCheck{}, &domain.ConfigurationError{Field: "imported", Reason: err.Error()}
	}

	policy, err := s.Policy(projectPath)
	if err != nil {
		return lint.ImportCheck{}, err
	}
	for _, p := range []domain.QualifiedPath{from, to} {
		if err := policy.ValidatePath(p); err != nil {
			return lint.ImportCheck{}, err
		}
	}

	g, err := s.source.Build(projectPath, policy.Root())
	if err != nil {
		return lint.ImportCheck{}, fmt.Errorf("building import graph: %w", err)
	}
	check, err := lint.CheckImport(policy, g, from, to)
	if err != nil {
		return lint.ImportCheck{}, err
	}
	s.logger.Debug("import checked", "importer", from, "imported", to, "kinds", len(check.Kinds), "exempt", check.Exempt != "")
	return check, nil
}

// PackageDependencies reports the package-to-package imports actually present,
// checked against the declared dependencies.
func (s *LintService) PackageDependencies(projectPath string) (*graph.DependencyReport, error) {
	policy, g, err := s.Graph(projectPath)
	if err != nil {
		return nil, err
	}
	pg, err := lint.BuildPackageGraph(policy, g)
	if err != nil {
		return nil, fmt.Errorf("building package graph: %w", err)
	}
	return pg.Report(policy), nil
}

// Baseline derives a policy under which the project as it stands today has no
// violations. The project needs no policy file yet.
func (s *LintService) Baseline(projectPath, root string) (domain.PolicyConfig, error) {
	if err := (domain.PolicyConfig{Root: root}).Validate(); err != nil {
		return domain.PolicyConfig{}, err
	}
	g, err := s.source.Build(projectPath, root)
	if err != nil {
		return domain.PolicyConfig{}, fmt.Errorf("building import graph: %w", err)
	}
	cfg, err := lint.Baseline(root, g)
	if err != nil {
		return domain.PolicyConfig{}, fmt.Errorf("deriving baseline: %w", err)
	}
	s.logger.Info("baseline derived",
		"root", root,
		"public_packages", len(cfg.PublicPackages),
		"public_modules", len(cfg.PublicModules),
		"dependencies", len(cfg.Dependencies),
	)
	return cfg, nil
}
