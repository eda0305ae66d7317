package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/openkraft/domainlint/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	// YAMLFileName is the preferred policy file.
	YAMLFileName = ".domainlint.yaml"
	// TOMLFileName is the legacy policy file with a [domain_packages] table.
	TOMLFileName = "domain_packages.toml"
	// tomlSection holds the policy inside TOMLFileName.
	tomlSection = "domain_packages"
)

// Loader implements domain.PolicyLoader. It reads .domainlint.yaml, falling
// back to domain_packages.toml.
type Loader struct{}

// New creates a Loader.
func New() *Loader { return &Loader{} }

// Load reads the policy of the project at projectPath. A project without any
// policy file is a configuration error: there are no sensible defaults for a
// root package.
func (l *Loader) Load(projectPath string) (domain.PolicyConfig, error) {
	for _, f := range []struct {
		name  string
		parse func([]byte) (domain.PolicyConfig, error)
	}{
		{YAMLFileName, parseYAML},
		{TOMLFileName, parseTOML},
	} {
		data, err := os.ReadFile(filepath.Join(projectPath, f.name))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return domain.PolicyConfig{}, err
		}

		cfg, err := f.parse(data)
		if err != nil {
			return domain.PolicyConfig{}, &domain.ConfigurationError{Reason: fmt.Sprintf("parsing %s: %v", f.name, err)}
		}
		if err := cfg.Validate(); err != nil {
			return domain.PolicyConfig{}, fmt.Errorf("invalid %s: %w", f.name, err)
		}
		return cfg, nil
	}

	return domain.PolicyConfig{}, &domain.ConfigurationError{
		Reason: fmt.Sprintf("no %s or %s found in %s", YAMLFileName, TOMLFileName, projectPath),
	}
}

// parseYAML decodes a flat policy document, rejecting unknown keys so typos
// do not silently loosen the policy.
func parseYAML(data []byte) (domain.PolicyConfig, error) {
	var cfg domain.PolicyConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return domain.PolicyConfig{}, err
	}
	return cfg, nil
}

// tomlDocument is the layout of domain_packages.toml.
type tomlDocument struct {
	DomainPackages *domain.PolicyConfig `toml:"domain_packages"`
}

// parseTOML decodes the [domain_packages] section.
func parseTOML(data []byte) (domain.PolicyConfig, error) {
	var doc tomlDocument
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return domain.PolicyConfig{}, err
	}
	if doc.DomainPackages == nil {
		return domain.PolicyConfig{}, fmt.Errorf("missing [%s] section", tomlSection)
	}
	return *doc.DomainPackages, nil
}

// Write serialises cfg to dir in the given format ("yaml" or "toml") and
// returns the written path.
func Write(dir, format string, cfg domain.PolicyConfig) (string, error) {
	var (
		name string
		buf  bytes.Buffer
	)
	switch format {
	case "yaml", "":
		name = YAMLFileName
		buf.WriteString("# domainlint policy\n")
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return "", err
		}
		if err := enc.Close(); err != nil {
			return "", err
		}
	case "toml":
		name = TOMLFileName
		if err := toml.NewEncoder(&buf).Encode(tomlDocument{DomainPackages: &cfg}); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unknown config format %q (valid: yaml, toml)", format)
	}

	dest := filepath.Join(dir, name)
	if err := os.WriteFile(dest, buf.Bytes(), 0644); err != nil {
		return "", err
	}
	return dest, nil
}
