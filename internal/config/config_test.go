package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/modmap/internal/namespace"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	require.Equal(t, "/js", cfg.BasePath)
	require.Equal(t, ".", cfg.AssetRoot)
	require.Empty(t, cfg.Namespaces)
	require.False(t, cfg.Log.Debug)
	require.Equal(t, "debug", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestValidateNamespaces_Empty(t *testing.T) {
	require.NoError(t, ValidateNamespaces(nil))
}

func TestValidateNamespaces_Valid(t *testing.T) {
	err := ValidateNamespaces([]NamespaceConfig{
		{Name: "app", Path: "app"},
		{Name: "jquery", Path: "vendor/jquery", BaseURL: "https://cdn.example/jquery"},
	})
	require.NoError(t, err)
}

func TestValidateNamespaces_MissingName(t *testing.T) {
	err := ValidateNamespaces([]NamespaceConfig{{Path: "app"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "namespace 0: name is required")
}

func TestValidateNamespaces_MissingPath(t *testing.T) {
	err := ValidateNamespaces([]NamespaceConfig{
		{Name: "app", Path: "app"},
		{Name: "vendor"},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "namespace 1 (vendor): path is required")
}

func TestValidateNamespaces_Duplicate(t *testing.T) {
	err := ValidateNamespaces([]NamespaceConfig{
		{Name: "app", Path: "app"},
		{Name: "app", Path: "other"},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate of namespace 0")
}

func TestValidateLog(t *testing.T) {
	for _, level := range []string{"", "debug", "info", "warn", "error"} {
		require.NoError(t, ValidateLog(LogConfig{Level: level}), level)
	}
	err := ValidateLog(LogConfig{Level: "trace"})
	require.Error(t, err)
	require.Contains(t, err.Error(), `got "trace"`)
}

func TestConfig_Validate_WrapsErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Namespaces = []NamespaceConfig{{Name: "app"}}
	err := cfg.Validate()
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "invalid namespaces:"), err.Error())
}

func TestConfig_Definitions_PreservesOrder(t *testing.T) {
	cfg := Config{Namespaces: []NamespaceConfig{
		{Name: "b", Path: "b"},
		{Name: "a", Path: "a", BaseURL: "https://cdn.example/a"},
	}}

	require.Equal(t, []namespace.Definition{
		{Name: "b", Path: "b"},
		{Name: "a", Path: "a", BaseURL: "https://cdn.example/a"},
	}, cfg.Definitions())
}

func TestConfig_NewRegistry(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "app"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "app", "main.js"), []byte("//"), 0o644))

	cfg := Config{
		BasePath:   "/js",
		AssetRoot:  root,
		Namespaces: []NamespaceConfig{{Name: "app", Path: "app"}},
	}
	reg, err := cfg.NewRegistry()
	require.NoError(t, err)
	require.Equal(t, 1, reg.Len())

	got, ok := reg.ResolveModulePath("app/main.js")
	require.True(t, ok)
	require.Equal(t, "/js/app/main.js", got)
}

func TestConfig_NewRegistry_MissingPath(t *testing.T) {
	cfg := Config{
		BasePath:   "/js",
		AssetRoot:  t.TempDir(),
		Namespaces: []NamespaceConfig{{Name: "app", Path: "missing"}},
	}
	reg, err := cfg.NewRegistry()
	require.ErrorIs(t, err, namespace.ErrPathNotFound)
	require.Nil(t, reg)
}

func TestUpsertNamespace_Appends(t *testing.T) {
	list := []NamespaceConfig{{Name: "app", Path: "app"}}
	got := UpsertNamespace(list, NamespaceConfig{Name: "vendor", Path: "vendor"})

	require.Equal(t, []NamespaceConfig{
		{Name: "app", Path: "app"},
		{Name: "vendor", Path: "vendor"},
	}, got)
	require.Len(t, list, 1, "input must not be modified")
}

func TestUpsertNamespace_ReplacesInPlace(t *testing.T) {
	list := []NamespaceConfig{
		{Name: "app", Path: "app"},
		{Name: "vendor", Path: "vendor"},
	}
	got := UpsertNamespace(list, NamespaceConfig{Name: "app", Path: "src/app", BaseURL: "/static/app"})

	require.Equal(t, []NamespaceConfig{
		{Name: "app", Path: "src/app", BaseURL: "/static/app"},
		{Name: "vendor", Path: "vendor"},
	}, got)
	require.Equal(t, "app", list[0].Path, "input must not be modified")
}

func TestWriteDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".modmap", "config.yaml")

	require.NoError(t, WriteDefaultConfig(configPath))

	v := viper.New()
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	require.Equal(t, "/js", cfg.BasePath)
	require.Equal(t, ".", cfg.AssetRoot)
	require.Empty(t, cfg.Namespaces)
	require.Equal(t, "modmap-debug.log", cfg.Log.File)
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(DefaultConfigTemplate())))

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	defaults := Defaults()
	require.Equal(t, defaults.BasePath, cfg.BasePath)
	require.Equal(t, defaults.AssetRoot, cfg.AssetRoot)
	require.Equal(t, defaults.Log, cfg.Log)
	require.Empty(t, cfg.Namespaces)
}
