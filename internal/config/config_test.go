package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fourModels = `
models:
  - {name: m1, id: org/m1, url: http://localhost:9001/classify}
  - {name: m2, id: org/m2, url: http://localhost:9002/classify}
  - {name: m3, id: org/m3, url: http://localhost:9003/classify}
  - {name: m4, id: org/m4, url: http://localhost:9004/classify}
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("API_KEY", "")

	cfg, err := Load(writeConfig(t, fourModels))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, 16000, cfg.Detection.SampleRate)
	assert.Equal(t, 8, cfg.Detection.MaxConcurrency)
	assert.Equal(t, DefaultLanguages, cfg.Detection.Languages)
	assert.Equal(t, 60, cfg.Models[0].Timeout)
	assert.Empty(t, cfg.Server.APIKey)
}

func TestLoad_ExplicitValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9999
  api_key: sk_test_123456789
detection:
  sample_rate: 8000
  max_concurrency: 2
  languages: [English]
`+fourModels))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9999", cfg.Addr())
	assert.Equal(t, "sk_test_123456789", cfg.Server.APIKey)
	assert.Equal(t, 8000, cfg.Detection.SampleRate)
	assert.True(t, cfg.SupportsLanguage("English"))
	assert.False(t, cfg.SupportsLanguage("Tamil"))
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("API_KEY", "from-env")

	cfg, err := Load(writeConfig(t, fourModels))
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Server.APIKey)
}

func TestLoad_RejectsWrongModelCount(t *testing.T) {
	_, err := Load(writeConfig(t, `
models:
  - {name: m1, id: org/m1, url: http://localhost:9001/classify}
  - {name: m2, id: org/m2, url: http://localhost:9002/classify}
  - {name: m3, id: org/m3, url: http://localhost:9003/classify}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly 4 models")
}

func TestLoad_RejectsModelWithoutURL(t *testing.T) {
	_, err := Load(writeConfig(t, `
models:
  - {name: m1, id: org/m1, url: http://localhost:9001/classify}
  - {name: m2, id: org/m2, url: http://localhost:9002/classify}
  - {name: m3, id: org/m3, url: http://localhost:9003/classify}
  - {name: m4, id: org/m4, url: ""}
`))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "models: [unclosed"))
	assert.Error(t, err)
}
