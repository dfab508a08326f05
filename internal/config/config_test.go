package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_missingFileUsesDefaults(t *testing.T) {
	t.Setenv("STUDYNOTES_API_URL", "")
	t.Setenv("STUDYNOTES_AI_URL", "")
	t.Setenv("STUDYNOTES_STORAGE", "")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api/notes", cfg.APIBaseURL)
	assert.Equal(t, "http://localhost:8080/api/ai", cfg.AIBaseURL)
	assert.Equal(t, 12, cfg.PageSize)
	assert.Equal(t, "sqlite", cfg.Storage)
	assert.Equal(t, 500, cfg.SearchDebounceMS)
	assert.Equal(t, 3000, cfg.ToastDurationMS)
}

func TestLoadFrom_yaml(t *testing.T) {
	t.Setenv("STUDYNOTES_API_URL", "")
	t.Setenv("STUDYNOTES_AI_URL", "")
	t.Setenv("STUDYNOTES_STORAGE", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "api_base_url: http://notes.local:9000/api/notes/\npage_size: 500\nstorage: json\nai:\n  clear_history_on_delete: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "http://notes.local:9000/api/notes", cfg.APIBaseURL, "trailing slash trimmed")
	assert.Equal(t, MaxPageSize, cfg.PageSize, "page size clamped")
	assert.Equal(t, "json", cfg.Storage)
	assert.True(t, cfg.AI.ClearHistoryOnDelete)
}

func TestLoadFrom_jsonAndEnvOverride(t *testing.T) {
	t.Setenv("STUDYNOTES_API_URL", "http://env.local/api/notes")
	t.Setenv("STUDYNOTES_AI_URL", "")
	t.Setenv("STUDYNOTES_STORAGE", "memory")

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_base_url":"http://file.local/api/notes","sort_dir":"ASC"}`), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env.local/api/notes", cfg.APIBaseURL)
	assert.Equal(t, "memory", cfg.Storage)
	assert.Equal(t, "asc", cfg.SortDir)
}

func TestValidate_rejects(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
	}{
		{"bad url", func(c *Config) { c.APIBaseURL = "not a url" }},
		{"bad sort", func(c *Config) { c.SortDir = "sideways" }},
		{"bad storage", func(c *Config) { c.Storage = "redis" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mut(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestThemeToggle(t *testing.T) {
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
	assert.Equal(t, ThemeLight, ParseTheme(""))
	assert.Equal(t, ThemeLight, ParseTheme("sepia"))
	assert.Equal(t, ThemeDark, ParseTheme("dark"))
}

func TestStatusMessage(t *testing.T) {
	assert.Equal(t, MsgValidationError, StatusMessage(400))
	assert.Equal(t, MsgNotFound, StatusMessage(404))
	assert.Equal(t, MsgServerError, StatusMessage(500))
	assert.Equal(t, MsgAIUnavailable, StatusMessage(503))
	assert.Equal(t, MsgUnknownError, StatusMessage(418))
	assert.Equal(t, MsgNetworkError, StatusMessage(0))
}

func TestSubjectIcon_fallback(t *testing.T) {
	assert.Equal(t, "🐍", SubjectIcon("Python"))
	assert.Equal(t, SubjectIcon("Other"), SubjectIcon("Basket Weaving"))
}

func TestConversationKey(t *testing.T) {
	assert.Equal(t, "ai_conversation_42", ConversationKey(42))
}
