package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadOverride_NotFound(t *testing.T) {
	res := LoadOverride(t.TempDir(), DefaultOverrideNames)

	assert.Equal(t, OverrideNotFound, res.Kind)
	assert.ErrorIs(t, res.Err, ErrOverrideNotFound)
	assert.Nil(t, res.Tree)
	assert.Empty(t, res.Path)
}

func TestLoadOverride_MissingDir(t *testing.T) {
	res := LoadOverride(filepath.Join(t.TempDir(), "nope"), DefaultOverrideNames)
	assert.Equal(t, OverrideNotFound, res.Kind)
}

func TestLoadOverride_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "chaincfg-local.yaml",
			content: `
networks:
  mainnet:
    port: 9999
`,
		},
		{
			name: "yml",
			file: "chaincfg-local.yml",
			content: `
networks:
  mainnet:
    port: 9999
`,
		},
		{
			name:    "json",
			file:    "chaincfg-local.json",
			content: `{"networks": {"mainnet": {"port": 9999}}}`,
		},
		{
			name: "toml",
			file: "chaincfg-local.toml",
			content: `
[networks.mainnet]
port = 9999
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, tt.file, tt.content)

			res := LoadOverride(dir, DefaultOverrideNames)
			require.Equal(t, OverrideFound, res.Kind, "err: %v", res.Err)
			assert.Equal(t, path, res.Path)
			assert.NoError(t, res.Err)

			cfg, err := Decode(res.Tree)
			require.NoError(t, err)
			assert.Equal(t, 9999, cfg.Networks["mainnet"].Port)
		})
	}
}

func TestLoadOverride_FirstCandidateWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "chaincfg-local.json", `{"test_runner": {"reporter": "json"}}`)
	yml := writeFile(t, dir, "chaincfg-local.yml", "test_runner:\n  reporter: yml\n")

	res := LoadOverride(dir, DefaultOverrideNames)
	require.Equal(t, OverrideFound, res.Kind)
	assert.Equal(t, yml, res.Path)
	assert.Equal(t, "yml", res.Tree["test_runner"].(map[string]any)["reporter"])
}

func TestLoadOverride_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "chaincfg-local.yaml", "networks: [unclosed\n  mainnet: {"},
		{"json", "chaincfg-local.json", `{"networks": {`},
		{"toml", "chaincfg-local.toml", "[networks\nport = "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, tt.file, tt.content)

			res := LoadOverride(dir, DefaultOverrideNames)
			assert.Equal(t, OverrideLoadFailed, res.Kind)
			assert.Equal(t, path, res.Path)
			assert.Nil(t, res.Tree)

			var loadErr *OverrideLoadError
			require.True(t, errors.As(res.Err, &loadErr))
			assert.Equal(t, path, loadErr.Path)
			assert.Contains(t, res.Err.Error(), path)
		})
	}
}

func TestLoadOverride_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "chaincfg-local.ini", "port=1")

	res := LoadOverride(dir, []string{"chaincfg-local.ini"})
	assert.Equal(t, OverrideLoadFailed, res.Kind)
	assert.Contains(t, res.Err.Error(), "unsupported config format")
}

func TestLoadOverride_DirectoryInPlaceOfFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "chaincfg-local.yaml"), 0o755))

	res := LoadOverride(dir, DefaultOverrideNames)
	assert.Equal(t, OverrideLoadFailed, res.Kind)
}

func TestOverrideKind_String(t *testing.T) {
	assert.Equal(t, "not-found", OverrideNotFound.String())
	assert.Equal(t, "found", OverrideFound.String())
	assert.Equal(t, "load-failed", OverrideLoadFailed.String())
	assert.Equal(t, "OverrideKind(7)", OverrideKind(7).String())
}
