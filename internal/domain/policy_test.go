package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy(t *testing.T) *Policy {
	t.Helper()
	p, err := NewPolicy(PolicyConfig{
		Root:           "app",
		PublicPackages: []string{"utils"},
		PublicModules:  []string{"services", "interfaces"},
		Dependencies: map[string][]string{
			"payments": {"users", "projects"},
			"orders":   {},
		},
	})
	require.NoError(t, err)
	return p
}

func TestPolicy_IsPublic(t *testing.T) {
	p := testPolicy(t)

	cases := []struct {
		path QualifiedPath
		want bool
	}{
		{"app.utils", true},
		{"app.utils.strings", true},
		{"app.utils.strings.slug", true},
		{"app.users.services", true},
		{"app.users.services.billing", true},
		{"app.users.interfaces", true},
		{"app.users", false},
		{"app.users.models", false},
		{"app.users.internal.services", false},
		{"app", false},
	}
	for _, tc := range cases {
		got, err := p.IsPublic(tc.path)
		require.NoError(t, err, tc.path)
		assert.Equal(t, tc.want, got, tc.path)
	}
}

func TestPolicy_IsPublic_OutsideRoot(t *testing.T) {
	p := testPolicy(t)

	_, err := p.IsPublic("other.users.models")
	require.Error(t, err)

	var pathErr *InvalidPathError
	require.True(t, errors.As(err, &pathErr))
	assert.Equal(t, QualifiedPath("other.users.models"), pathErr.Path)
	assert.Equal(t, "app", pathErr.Root)
	assert.Contains(t, err.Error(), "doesn't belong to app")
}

func TestPolicy_ValidatePath(t *testing.T) {
	p := testPolicy(t)

	assert.NoError(t, p.ValidatePath("app"))
	assert.NoError(t, p.ValidatePath("app.users.models"))

	var pathErr *InvalidPathError
	require.True(t, errors.As(p.ValidatePath("application.users"), &pathErr))
	assert.Equal(t, QualifiedPath("application.users"), pathErr.Path)
}

func TestPolicy_IsDeclaredDependency(t *testing.T) {
	p := testPolicy(t)

	ok, err := p.IsDeclaredDependency("app.payments.services", "app.users.models")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.IsDeclaredDependency("app.payments", "app.projects.api")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.IsDeclaredDependency("app.users.models", "app.payments.services")
	require.NoError(t, err)
	assert.False(t, ok, "a package without an entry declares nothing")

	ok, err = p.IsDeclaredDependency("app.orders.api", "app.users.models")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPolicy_IsDeclaredDependency_OutsideRoot(t *testing.T) {
	p := testPolicy(t)

	_, err := p.IsDeclaredDependency("app.payments.services", "lib.users.models")
	var pathErr *InvalidPathError
	assert.True(t, errors.As(err, &pathErr))

	_, err = p.IsDeclaredDependency("lib.payments.services", "app.users.models")
	assert.True(t, errors.As(err, &pathErr))
}

func TestNewPolicy_MissingRoot(t *testing.T) {
	_, err := NewPolicy(PolicyConfig{PublicModules: []string{"services"}})
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "root", cfgErr.Field)
}

func TestPolicyConfig_Validate(t *testing.T) {
	cases := []struct {
		name  string
		cfg   PolicyConfig
		field string
	}{
		{"dotted root", PolicyConfig{Root: "app.core"}, "root"},
		{"blank root", PolicyConfig{Root: "  "}, "root"},
		{"empty public package", PolicyConfig{Root: "app", PublicPackages: []string{""}}, "public_packages"},
		{"dotted public module", PolicyConfig{Root: "app", PublicModules: []string{"a.b"}}, "public_modules"},
		{"dotted dependency key", PolicyConfig{Root: "app", Dependencies: map[string][]string{"a.b": nil}}, "dependencies"},
		{"empty dependency value", PolicyConfig{Root: "app", Dependencies: map[string][]string{"orders": {""}}}, "dependencies.orders"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigurationError, got %v", err)
			assert.Equal(t, tc.field, cfgErr.Field)
		})
	}
}

func TestPolicyConfig_Validate_MinimalIsValid(t *testing.T) {
	assert.NoError(t, PolicyConfig{Root: "app"}.Validate())
}

func TestPolicy_IsImmutable(t *testing.T) {
	cfg := PolicyConfig{
		Root:           "app",
		PublicPackages: []string{"utils"},
		Dependencies:   map[string][]string{"orders": {"users"}},
	}
	p, err := NewPolicy(cfg)
	require.NoError(t, err)

	cfg.PublicPackages[0] = "users"
	cfg.Dependencies["orders"][0] = "billing"

	public, err := p.IsPublic("app.users.models")
	require.NoError(t, err)
	assert.False(t, public)

	declared, err := p.IsDeclaredDependency("app.orders.api", "app.users.models")
	require.NoError(t, err)
	assert.True(t, declared)

	out := p.Config()
	out.Dependencies["orders"][0] = "billing"
	assert.Equal(t, []string{"users"}, p.DeclaredDependencies("orders"))
}
