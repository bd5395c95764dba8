package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"port": 9901,
		"database": {"host": "127.0.0.1", "user": "postgres", "dbname": "dealroom"},
		"ai": {"providers": [{"provider": "gemini", "model": "gemini-2.0-flash", "data": {"key": "k"}}]}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9901, cfg.Port)
	require.Equal(t, 5432, cfg.Database.Port)
	require.Equal(t, 60, cfg.AI.Timeout)
	require.Equal(t, 4000, cfg.AI.MaxQuestionChars)
	require.Equal(t, 8000, cfg.Assistant.MaxContextChars)
	require.Equal(t, 30, cfg.Assistant.ConversationKeepDays)
	require.Equal(t, 2, cfg.Assistant.RateLimitSeconds)
	require.Equal(t, "info", cfg.LogConfig.Level)
}

func TestLoadRejectsIncomplete(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{
			name:    "missing port",
			content: `{"database": {"host": "h"}, "ai": {"providers": [{"provider": "gemini", "model": "m"}]}}`,
		},
		{
			name:    "missing database",
			content: `{"port": 9901, "ai": {"providers": [{"provider": "gemini", "model": "m"}]}}`,
		},
		{
			name:    "no providers",
			content: `{"port": 9901, "database": {"host": "h"}, "ai": {"providers": []}}`,
		},
		{
			name:    "provider without model",
			content: `{"port": 9901, "database": {"host": "h"}, "ai": {"providers": [{"provider": "gemini"}]}}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
